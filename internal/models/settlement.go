package models

// Settlement represents a real-world payment between trip participants to clear debts.
// A settlement is created unpaid; untracking a settlement deletes it.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// TripID is the trip this settlement belongs to.
	TripID string

	// From is the participant who pays (debtor settling up).
	From string

	// To is the participant who receives the payment (creditor being paid).
	To string

	// Amount is the payment amount.
	Amount float64

	// IsPaid is set once the payment actually happened.
	IsPaid bool

	// PaidAt is the Unix millisecond timestamp of the paid transition, nil while unpaid.
	PaidAt *int64

	// ProofImageURL optionally references a payment screenshot.
	ProofImageURL string

	// CreatedAt is the Unix millisecond timestamp when the settlement was recorded.
	CreatedAt int64
}
