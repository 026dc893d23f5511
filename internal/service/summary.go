package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// BalanceView is a participant balance with its display status.
type BalanceView struct {
	calculator.Balance
	Status calculator.Status
}

// Summary is everything the trip board shows, computed from one snapshot.
type Summary struct {
	Trip       *models.Trip
	TotalSpent float64
	Balances   []BalanceView

	// Suggested holds the planner's transactions that are not yet tracked.
	Suggested []calculator.Transaction
	// Pending holds tracked settlements still awaiting payment.
	Pending []models.Settlement
	// Completed holds tracked settlements marked paid.
	Completed []models.Settlement

	// AllSettled is true when nothing is left to suggest or pay.
	AllSettled bool

	// Unmatched is what the planner could not pair up.
	Unmatched calculator.Leftover
}

// PersonalExpense is one expense seen from a single participant.
type PersonalExpense struct {
	Expense models.Expense
	Share   float64 // Zero when the participant only paid
}

// IndividualBoard is one participant's view of the plan.
type IndividualBoard struct {
	Name       string
	Balance    BalanceView
	Owes       []calculator.Transaction
	Receives   []calculator.Transaction
	Expenses   []PersonalExpense
	TotalShare float64
}

// Summarize computes a trip summary from a snapshot. It performs no I/O.
func Summarize(snap *storage.Snapshot) *Summary {
	balances := calculator.ComputeBalances(snap.Trip.Participants, snap.Expenses, snap.Settlements)
	txns, left := calculator.MatchDebts(balances)
	calculator.WarnLeftover(left, len(balances), "trip_id", snap.Trip.ID)

	sum := &Summary{
		Trip:      snap.Trip,
		Balances:  make([]BalanceView, len(balances)),
		Suggested: calculator.Untracked(txns, snap.Settlements),
		Unmatched: left,
	}
	for i, b := range balances {
		sum.Balances[i] = BalanceView{Balance: b, Status: b.Status()}
	}
	for _, e := range snap.Expenses {
		sum.TotalSpent += e.Amount
	}
	for _, st := range snap.Settlements {
		if st.IsPaid {
			sum.Completed = append(sum.Completed, st)
		} else {
			sum.Pending = append(sum.Pending, st)
		}
	}
	sum.AllSettled = len(sum.Suggested) == 0 && len(sum.Pending) == 0
	return sum
}

func (s *LedgerService) summarize(snap *storage.Snapshot, trigger string) *Summary {
	sum := Summarize(snap)
	s.metrics.Recomputed(trigger, len(sum.Suggested), sum.Unmatched.Significant())
	return sum
}

// GetSummary loads a consistent snapshot of the trip and recomputes its summary.
func (s *LedgerService) GetSummary(ctx context.Context, tripID string) (*Summary, error) {
	snap, err := s.store.Snapshot(ctx, tripID)
	if err != nil {
		slog.Error("GetSummary failed", "trip_id", tripID, "error", err)
		return nil, err
	}
	return s.summarize(snap, "query"), nil
}

// GetOutstanding returns pairwise debts that no settlement has covered yet.
func (s *LedgerService) GetOutstanding(ctx context.Context, tripID string) ([]calculator.Transaction, error) {
	snap, err := s.store.Snapshot(ctx, tripID)
	if err != nil {
		slog.Error("GetOutstanding failed", "trip_id", tripID, "error", err)
		return nil, err
	}
	return calculator.BuildOutstandingTransactions(snap.Expenses, snap.Settlements), nil
}

// GetIndividual returns the board for one participant of a trip.
func (s *LedgerService) GetIndividual(ctx context.Context, tripID, name string) (*IndividualBoard, error) {
	snap, err := s.store.Snapshot(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !snap.Trip.HasParticipant(name) {
		return nil, invalidf("%q is not a participant of trip %s", name, tripID)
	}

	balances := calculator.ComputeBalances(snap.Trip.Participants, snap.Expenses, snap.Settlements)
	plan, left := calculator.MatchDebts(balances)
	calculator.WarnLeftover(left, len(balances), "trip_id", tripID)

	board := &IndividualBoard{Name: name}
	for _, b := range balances {
		if b.Name == name {
			board.Balance = BalanceView{Balance: b, Status: b.Status()}
			break
		}
	}
	board.Owes, board.Receives = calculator.ForParticipant(plan, name)

	for i := range snap.Expenses {
		exp := &snap.Expenses[i]
		if !exp.Includes(name) && exp.PaidBy != name {
			continue
		}
		pe := PersonalExpense{Expense: *exp}
		if exp.Includes(name) {
			pe.Share = calculator.ShareOf(exp, name)
		}
		board.TotalShare += pe.Share
		board.Expenses = append(board.Expenses, pe)
	}
	return board, nil
}
