package models

// SplitType controls how an expense is divided among its members.
type SplitType string

const (
	// SplitFair divides the amount equally (PerPersonAmount).
	SplitFair SplitType = "fair"
	// SplitCustom uses explicit per-person amounts (CustomSplits).
	SplitCustom SplitType = "custom"
)

// PaymentMethod is the channel an expense was paid through.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "Cash"
	PaymentUPI  PaymentMethod = "UPI"
)

// Expense represents one shared cost event.
// An expense is replaced as a whole when edited.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// TripID is the trip this expense belongs to.
	TripID string

	// Title is the human-readable description (e.g., "Dinner", "Taxi").
	Title string

	// Amount is the total cost of the expense.
	Amount float64

	// PaidBy is the participant who paid.
	PaidBy string

	// SplitBetween is the set of participants sharing the cost. Order is irrelevant.
	SplitBetween []string

	// SplitType is fair or custom. An empty value is treated as fair.
	SplitType SplitType

	// PerPersonAmount is the precomputed equal share (fair split only).
	PerPersonAmount float64

	// CustomSplits maps a participant to their explicit share (custom split only).
	CustomSplits map[string]float64

	// PaymentMethod is the channel the payer used.
	PaymentMethod PaymentMethod

	// ProofImageURL optionally references an uploaded receipt.
	ProofImageURL string

	// CreatedAt is the Unix millisecond timestamp when the expense was created.
	CreatedAt int64
}

// IsCustom reports whether the expense uses explicit per-person amounts.
func (e *Expense) IsCustom() bool {
	return e.SplitType == SplitCustom
}

// Includes reports whether name is one of the members sharing the cost.
func (e *Expense) Includes(name string) bool {
	for _, p := range e.SplitBetween {
		if p == name {
			return true
		}
	}
	return false
}
