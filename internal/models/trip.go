package models

// BoardKind distinguishes expense trips from purchase sheets.
type BoardKind string

const (
	KindTrip          BoardKind = "trip"
	KindPurchaseSheet BoardKind = "purchase_sheet"
)

// Trip represents a shared board and its participant list.
// Expenses, settlements and products all reference a trip by ID.
type Trip struct {
	// ID is the unique identifier for the trip (UUID or a user-chosen slug).
	ID string

	// Name is the display name of the trip (e.g., "Goa 2025", "Rover parts").
	Name string

	// Kind is either a trip or a purchase sheet.
	Kind BoardKind

	// Participants is the ordered list of participant names.
	// The order defines the order of computed balances.
	Participants []string

	// MemberAvatars maps a participant name to an avatar ID.
	MemberAvatars map[string]string

	// CreatedAt is the Unix millisecond timestamp when the trip was created.
	CreatedAt int64
}

// HasParticipant reports whether name is one of the trip's participants.
func (t *Trip) HasParticipant(name string) bool {
	for _, p := range t.Participants {
		if p == name {
			return true
		}
	}
	return false
}
