package service

import (
	"context"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/export"
)

// ExportXLSX renders the trip's balances, plan and ledger as an XLSX workbook.
func (s *LedgerService) ExportXLSX(ctx context.Context, tripID string) ([]byte, error) {
	snap, err := s.store.Snapshot(ctx, tripID)
	if err != nil {
		return nil, err
	}
	sum := s.summarize(snap, "export")

	balances := make([]calculator.Balance, len(sum.Balances))
	for i, b := range sum.Balances {
		balances[i] = b.Balance
	}
	return export.WriteXLSX(export.Report{
		TripID:      snap.Trip.ID,
		TripName:    snap.Trip.Name,
		Balances:    balances,
		Suggested:   sum.Suggested,
		Settlements: snap.Settlements,
		Outstanding: calculator.BuildOutstandingTransactions(snap.Expenses, snap.Settlements),
		Expenses:    snap.Expenses,
	})
}
