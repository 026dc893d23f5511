package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/tripsplit/internal/inventory"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// InventoryService manages products on purchase sheets.
type InventoryService struct {
	store storage.Store
}

// NewInventoryService creates an InventoryService with the given storage backend.
func NewInventoryService(store storage.Store) *InventoryService {
	return &InventoryService{store: store}
}

// ProductInput is the editable content of a product.
type ProductInput struct {
	SerialNumber string // Generated when empty on add
	ItemName     string
	Quantity     int
	Link         string
	Subsystem    string
	AddedBy      string
	Status       models.ProductStatus
	PricePerUnit float64
	TotalPrice   float64 // Derived from PricePerUnit when zero
	Comments     string
	DeliveryDate *int64
}

func (s *InventoryService) board(ctx context.Context, boardID string) (*models.Trip, error) {
	board, err := s.store.GetTrip(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.Kind != models.KindPurchaseSheet {
		return nil, preconditionf("board %s is not a purchase sheet", boardID)
	}
	return board, nil
}

func applyProductInput(p *models.Product, in ProductInput) error {
	name := strings.TrimSpace(in.ItemName)
	if name == "" {
		return invalidf("item name is required")
	}
	if strings.TrimSpace(in.AddedBy) == "" {
		return invalidf("added by is required")
	}
	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return invalidf("quantity must be positive, got %d", in.Quantity)
	}
	status := in.Status
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		return invalidf("unknown product status %q", in.Status)
	}
	if in.PricePerUnit < 0 || in.TotalPrice < 0 {
		return invalidf("prices must not be negative")
	}

	p.ItemName = name
	p.Quantity = quantity
	p.Link = in.Link
	p.Subsystem = in.Subsystem
	p.AddedBy = strings.TrimSpace(in.AddedBy)
	p.Status = status
	p.PricePerUnit = in.PricePerUnit
	p.TotalPrice = in.TotalPrice
	if p.TotalPrice == 0 && p.PricePerUnit > 0 {
		p.TotalPrice = p.PricePerUnit * float64(quantity)
	}
	p.Comments = in.Comments
	p.DeliveryDate = in.DeliveryDate
	return nil
}

// AddProduct adds a product to a purchase sheet, assigning the next serial when none is given.
func (s *InventoryService) AddProduct(ctx context.Context, boardID string, in ProductInput) (*models.Product, error) {
	slog.Info("AddProduct request received", "board_id", boardID, "serial", in.SerialNumber)

	if _, err := s.board(ctx, boardID); err != nil {
		return nil, err
	}

	p := &models.Product{BoardID: boardID, SerialNumber: strings.TrimSpace(in.SerialNumber)}
	if err := applyProductInput(p, in); err != nil {
		return nil, err
	}
	if p.SerialNumber == "" {
		next, err := s.NextSerial(ctx, boardID)
		if err != nil {
			return nil, err
		}
		p.SerialNumber = next
	}

	if err := s.store.CreateProduct(ctx, p); err != nil {
		slog.Error("AddProduct failed", "board_id", boardID, "error", err)
		return nil, err
	}

	slog.Info("Product added", "board_id", boardID, "product_id", p.ID, "serial", p.SerialNumber)
	return p, nil
}

// UpdateProduct replaces a product's editable fields. The serial number is kept when
// the input leaves it empty.
func (s *InventoryService) UpdateProduct(ctx context.Context, boardID, productID string, in ProductInput) (*models.Product, error) {
	slog.Info("UpdateProduct request received", "board_id", boardID, "product_id", productID)

	products, err := s.store.ListProducts(ctx, boardID)
	if err != nil {
		return nil, err
	}
	var p *models.Product
	for i := range products {
		if products[i].ID == productID {
			p = &products[i]
			break
		}
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product %s", storage.ErrNotFound, productID)
	}

	if serial := strings.TrimSpace(in.SerialNumber); serial != "" {
		p.SerialNumber = serial
	}
	if err := applyProductInput(p, in); err != nil {
		return nil, err
	}
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		slog.Error("UpdateProduct failed", "product_id", productID, "error", err)
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes a product from a board.
func (s *InventoryService) DeleteProduct(ctx context.Context, boardID, productID string) error {
	slog.Info("DeleteProduct request received", "board_id", boardID, "product_id", productID)
	return s.store.DeleteProduct(ctx, boardID, productID)
}

// ListProducts returns the board's products sorted by serial, narrowed by f.
func (s *InventoryService) ListProducts(ctx context.Context, boardID string, f inventory.Filter) ([]models.Product, error) {
	if _, err := s.store.GetTrip(ctx, boardID); err != nil {
		return nil, err
	}
	products, err := s.store.ListProducts(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return f.Apply(products), nil
}

// NextSerial returns the serial the next product on the board would get.
func (s *InventoryService) NextSerial(ctx context.Context, boardID string) (string, error) {
	products, err := s.store.ListProducts(ctx, boardID)
	if err != nil {
		return "", err
	}
	return inventory.NextSerialNumber(products), nil
}

// Stats summarizes the board's products.
func (s *InventoryService) Stats(ctx context.Context, boardID string) (inventory.Stats, error) {
	products, err := s.store.ListProducts(ctx, boardID)
	if err != nil {
		return inventory.Stats{}, err
	}
	return inventory.ComputeStats(products), nil
}
