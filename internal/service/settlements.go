package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
)

// PaymentInput describes a settlement recorded by hand rather than from a suggestion.
type PaymentInput struct {
	From          string
	To            string
	Amount        float64
	ProofImageURL string
}

func (s *LedgerService) createSettlement(ctx context.Context, tripID string, in PaymentInput) (*models.Settlement, error) {
	if in.From == "" || in.To == "" {
		return nil, invalidf("payer and receiver are required")
	}
	if in.From == in.To {
		return nil, invalidf("payer and receiver cannot be the same")
	}
	if in.Amount <= 0 {
		return nil, invalidf("amount must be positive, got %v", in.Amount)
	}

	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	for _, name := range []string{in.From, in.To} {
		if !trip.HasParticipant(name) {
			return nil, invalidf("%q is not a participant of trip %s", name, tripID)
		}
	}

	st := &models.Settlement{
		TripID:        tripID,
		From:          in.From,
		To:            in.To,
		Amount:        in.Amount,
		ProofImageURL: in.ProofImageURL,
	}
	if err := s.store.CreateSettlement(ctx, st); err != nil {
		slog.Error("CreateSettlement failed", "trip_id", tripID, "error", err)
		return nil, err
	}

	slog.Info("Settlement tracked",
		"trip_id", tripID,
		"settlement_id", st.ID,
		"from", st.From,
		"to", st.To,
		"amount", st.Amount,
	)
	return st, nil
}

// TrackSuggestion turns a suggested transaction into a pending settlement.
func (s *LedgerService) TrackSuggestion(ctx context.Context, tripID string, txn calculator.Transaction) (*models.Settlement, error) {
	return s.createSettlement(ctx, tripID, PaymentInput{From: txn.From, To: txn.To, Amount: txn.Amount})
}

// RecordPayment records an arbitrary payment between two participants as pending.
func (s *LedgerService) RecordPayment(ctx context.Context, tripID string, in PaymentInput) (*models.Settlement, error) {
	return s.createSettlement(ctx, tripID, in)
}

// SetPaid marks a settlement paid or unpaid. A non-empty proofURL is stored with it.
func (s *LedgerService) SetPaid(ctx context.Context, settlementID string, paid bool, proofURL string) (*models.Settlement, error) {
	slog.Info("SetPaid request received", "settlement_id", settlementID, "paid", paid)

	if err := s.store.SetSettlementPaid(ctx, settlementID, paid, proofURL); err != nil {
		slog.Error("SetPaid failed", "settlement_id", settlementID, "error", err)
		return nil, err
	}
	return s.store.GetSettlement(ctx, settlementID)
}

// MoveToSuggested untracks a pending settlement so the planner suggests it again.
// Paid settlements must be marked unpaid first.
func (s *LedgerService) MoveToSuggested(ctx context.Context, settlementID string) error {
	st, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return err
	}
	if st.IsPaid {
		return preconditionf("settlement %s is already paid", settlementID)
	}
	return s.DeleteSettlement(ctx, settlementID)
}

// DeleteSettlement removes a settlement regardless of its paid state.
func (s *LedgerService) DeleteSettlement(ctx context.Context, settlementID string) error {
	slog.Info("DeleteSettlement request received", "settlement_id", settlementID)

	if err := s.store.DeleteSettlement(ctx, settlementID); err != nil {
		slog.Error("DeleteSettlement failed", "settlement_id", settlementID, "error", err)
		return err
	}
	return nil
}
