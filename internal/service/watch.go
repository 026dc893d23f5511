package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// follow subscribes to changes of tripID and calls load once up front and again after
// every notification. Changes that arrive while load runs collapse into one reload.
// It returns ctx.Err() once ctx is done, or the first load error.
func (s *LedgerService) follow(ctx context.Context, tripID string, kinds []storage.ChangeKind, load func(context.Context) error) error {
	// Subscribe first so a write between the initial load and the loop is not lost
	changes, cancel := s.store.Broker().Subscribe(tripID, kinds...)
	defer cancel()

	if err := load(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			slog.Debug("Trip changed", "trip_id", tripID, "kind", change.Kind)
			if err := load(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Error("Reload after change failed", "trip_id", tripID, "error", err)
				return err
			}
		}
	}
}

// Watch streams the trip summary to fn: once immediately, then after every change to
// the trip, its expenses or its settlements. Each summary is recomputed from scratch
// over a single consistent snapshot. Watch blocks until ctx is done.
func (s *LedgerService) Watch(ctx context.Context, tripID string, fn func(*Summary)) error {
	s.metrics.WatchStarted()
	defer s.metrics.WatchStopped()

	trigger := "initial"
	kinds := []storage.ChangeKind{storage.ChangeTrip, storage.ChangeExpenses, storage.ChangeSettlements}
	return s.follow(ctx, tripID, kinds, func(ctx context.Context) error {
		snap, err := s.store.Snapshot(ctx, tripID)
		if err != nil {
			return err
		}
		fn(s.summarize(snap, trigger))
		trigger = "watch"
		return nil
	})
}

// SubscribeExpenses delivers the full expense list, newest first, on every change.
func (s *LedgerService) SubscribeExpenses(ctx context.Context, tripID string, fn func([]models.Expense)) error {
	return s.follow(ctx, tripID, []storage.ChangeKind{storage.ChangeExpenses}, func(ctx context.Context) error {
		expenses, err := s.store.ListExpenses(ctx, tripID)
		if err != nil {
			return err
		}
		fn(expenses)
		return nil
	})
}

// SubscribeSettlements delivers the full settlement list on every change.
func (s *LedgerService) SubscribeSettlements(ctx context.Context, tripID string, fn func([]models.Settlement)) error {
	return s.follow(ctx, tripID, []storage.ChangeKind{storage.ChangeSettlements}, func(ctx context.Context) error {
		settlements, err := s.store.ListSettlements(ctx, tripID)
		if err != nil {
			return err
		}
		fn(settlements)
		return nil
	})
}
