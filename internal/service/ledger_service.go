// Package service holds the application logic behind the RPC handlers: validation,
// store access, and recomputation of balances and settlement plans.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/metrics"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

var tripIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// LedgerService manages trips, expenses and settlements.
type LedgerService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewLedgerService creates a LedgerService. m may be nil.
func NewLedgerService(store storage.Store, m *metrics.Metrics) *LedgerService {
	return &LedgerService{store: store, metrics: m}
}

// CreateTripInput describes a new trip or purchase sheet.
type CreateTripInput struct {
	ID            string // Optional custom slug
	Name          string // Optional; generated from participants when empty
	Kind          models.BoardKind
	Participants  []string
	MemberAvatars map[string]string
}

// normalizeParticipants trims names and rejects empty or duplicate ones.
func normalizeParticipants(names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, invalidf("participant name must not be empty")
		}
		if seen[n] {
			return nil, invalidf("duplicate participant %q", n)
		}
		seen[n] = true
		out = append(out, n)
	}
	return out, nil
}

// CreateTrip validates and persists a new trip.
func (s *LedgerService) CreateTrip(ctx context.Context, in CreateTripInput) (*models.Trip, error) {
	slog.Info("CreateTrip request received",
		"trip_id", in.ID,
		"kind", in.Kind,
		"participants_count", len(in.Participants),
	)

	if in.ID != "" && !tripIDPattern.MatchString(in.ID) {
		return nil, invalidf("trip id %q may only contain letters, digits, '-' and '_'", in.ID)
	}
	kind := in.Kind
	if kind == "" {
		kind = models.KindTrip
	}
	if kind != models.KindTrip && kind != models.KindPurchaseSheet {
		return nil, invalidf("unknown board kind %q", kind)
	}
	participants, err := normalizeParticipants(in.Participants)
	if err != nil {
		return nil, err
	}

	trip := &models.Trip{
		ID:            in.ID,
		Name:          strings.TrimSpace(in.Name),
		Kind:          kind,
		Participants:  participants,
		MemberAvatars: in.MemberAvatars,
	}
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		slog.Error("CreateTrip failed", "trip_id", in.ID, "error", err)
		return nil, err
	}

	slog.Info("Trip created", "trip_id", trip.ID, "name", trip.Name)
	return trip, nil
}

// GetTrip retrieves a trip by ID.
func (s *LedgerService) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	return s.store.GetTrip(ctx, tripID)
}

// ListTrips lists boards of one kind; an empty kind lists everything.
func (s *LedgerService) ListTrips(ctx context.Context, kind models.BoardKind) ([]*models.Trip, error) {
	return s.store.ListTrips(ctx, kind)
}

// UpdateMembers replaces a trip's participants. Nil avatars keeps the stored ones.
// Removing a member who still appears in expenses is allowed; their amounts keep
// counting toward the listed participants.
func (s *LedgerService) UpdateMembers(ctx context.Context, tripID string, participants []string, avatars map[string]string) (*models.Trip, error) {
	slog.Info("UpdateMembers request received", "trip_id", tripID, "participants_count", len(participants))

	names, err := normalizeParticipants(participants)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateTripMembers(ctx, tripID, names, avatars); err != nil {
		slog.Error("UpdateMembers failed", "trip_id", tripID, "error", err)
		return nil, err
	}
	return s.store.GetTrip(ctx, tripID)
}

// ExpenseInput is the editable content of an expense.
type ExpenseInput struct {
	Title         string
	Amount        float64
	PaidBy        string
	SplitBetween  []string
	SplitType     models.SplitType
	CustomSplits  map[string]float64
	PaymentMethod models.PaymentMethod
	ProofImageURL string
}

// buildExpense validates in against trip and derives the stored share fields.
func buildExpense(trip *models.Trip, in ExpenseInput) (*models.Expense, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalidf("title is required")
	}
	if in.Amount <= 0 {
		return nil, invalidf("amount must be positive, got %v", in.Amount)
	}
	if in.PaidBy == "" {
		return nil, invalidf("payer is required")
	}
	if !trip.HasParticipant(in.PaidBy) {
		return nil, invalidf("payer %q is not a participant of trip %s", in.PaidBy, trip.ID)
	}
	split, err := normalizeParticipants(in.SplitBetween)
	if err != nil {
		return nil, err
	}
	if len(split) == 0 {
		return nil, invalidf("expense must be split between at least one participant")
	}
	for _, name := range split {
		if !trip.HasParticipant(name) {
			return nil, invalidf("%q is not a participant of trip %s", name, trip.ID)
		}
	}

	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentCash
	}
	if method != models.PaymentCash && method != models.PaymentUPI {
		return nil, invalidf("unknown payment method %q", method)
	}

	exp := &models.Expense{
		TripID:        trip.ID,
		Title:         title,
		Amount:        in.Amount,
		PaidBy:        in.PaidBy,
		SplitBetween:  split,
		PaymentMethod: method,
		ProofImageURL: in.ProofImageURL,
	}

	switch in.SplitType {
	case models.SplitCustom:
		if err := calculator.CheckCustomSplits(in.Amount, split, in.CustomSplits); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		exp.SplitType = models.SplitCustom
		exp.CustomSplits = in.CustomSplits
	case models.SplitFair, "":
		share, err := calculator.FairShare(in.Amount, len(split))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		exp.SplitType = models.SplitFair
		exp.PerPersonAmount = share
	default:
		return nil, invalidf("unknown split type %q", in.SplitType)
	}
	return exp, nil
}

// CreateExpense validates and records a new expense on a trip.
func (s *LedgerService) CreateExpense(ctx context.Context, tripID string, in ExpenseInput) (*models.Expense, error) {
	slog.Info("CreateExpense request received",
		"trip_id", tripID,
		"amount", in.Amount,
		"split_type", in.SplitType,
	)

	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	exp, err := buildExpense(trip, in)
	if err != nil {
		slog.Warn("CreateExpense validation failed", "trip_id", tripID, "error", err)
		return nil, err
	}
	if err := s.store.CreateExpense(ctx, exp); err != nil {
		slog.Error("CreateExpense failed", "trip_id", tripID, "error", err)
		return nil, err
	}

	slog.Info("Expense created", "trip_id", tripID, "expense_id", exp.ID)
	return exp, nil
}

// UpdateExpense replaces an expense with in. The trip and creation time are kept.
func (s *LedgerService) UpdateExpense(ctx context.Context, expenseID string, in ExpenseInput) (*models.Expense, error) {
	slog.Info("UpdateExpense request received", "expense_id", expenseID)

	existing, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	trip, err := s.store.GetTrip(ctx, existing.TripID)
	if err != nil {
		return nil, err
	}
	exp, err := buildExpense(trip, in)
	if err != nil {
		slog.Warn("UpdateExpense validation failed", "expense_id", expenseID, "error", err)
		return nil, err
	}
	exp.ID = expenseID
	if err := s.store.UpdateExpense(ctx, exp); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expenseID, "error", err)
		return nil, err
	}
	return exp, nil
}

// DeleteExpense removes an expense.
func (s *LedgerService) DeleteExpense(ctx context.Context, expenseID string) error {
	slog.Info("DeleteExpense request received", "expense_id", expenseID)

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expenseID, "error", err)
		return err
	}
	return nil
}

// ListExpenses returns a trip's expenses, newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, tripID string) ([]models.Expense, error) {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	return s.store.ListExpenses(ctx, tripID)
}
