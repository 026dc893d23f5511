package models

// ProductStatus tracks a purchase through procurement.
type ProductStatus string

const (
	StatusPRSent     ProductStatus = "PR Sent"
	StatusOrdered    ProductStatus = "Ordered"
	StatusDelivered  ProductStatus = "Delivered"
	StatusOutOfStock ProductStatus = "Out of Stock"
	StatusPending    ProductStatus = "Pending"
)

// Valid reports whether s is one of the known statuses.
func (s ProductStatus) Valid() bool {
	switch s {
	case StatusPRSent, StatusOrdered, StatusDelivered, StatusOutOfStock, StatusPending:
		return true
	}
	return false
}

// Product is one line on a purchase sheet.
type Product struct {
	ID string

	// BoardID is the purchase sheet this product belongs to.
	BoardID string

	// SerialNumber is the PS-### identifier, unique within a board.
	SerialNumber string

	ItemName  string
	Quantity  int
	Link      string
	Subsystem string

	// AddedBy is the participant who requested the product.
	AddedBy string

	Status ProductStatus

	// PricePerUnit and TotalPrice are optional; zero means unknown.
	PricePerUnit float64
	TotalPrice   float64

	Comments string

	// DeliveryDate is the expected or actual delivery as Unix milliseconds.
	DeliveryDate *int64

	CreatedAt int64
	UpdatedAt int64
}
