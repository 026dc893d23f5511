// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripsplit/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a record with the same ID exists.
	ErrAlreadyExists = errors.New("already exists")
)

// Snapshot is a consistent view of one trip's ledger, read in a single transaction.
type Snapshot struct {
	Trip        *models.Trip
	Expenses    []models.Expense    // Newest first
	Settlements []models.Settlement // Oldest first
}

// Store defines the interface for trip storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Every successful write publishes a Change on the store's Broker.
type Store interface {
	// CreateTrip persists a new trip. The ID is generated when empty.
	// Returns ErrAlreadyExists if a trip with the same ID exists.
	CreateTrip(ctx context.Context, trip *models.Trip) error
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
	ListTrips(ctx context.Context, kind models.BoardKind) ([]*models.Trip, error)
	// UpdateTripMembers replaces the participant list and, when non-nil, the avatars.
	UpdateTripMembers(ctx context.Context, tripID string, participants []string, avatars map[string]string) error

	// CreateExpense persists a new expense; ID and CreatedAt are filled in when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	// UpdateExpense replaces the whole expense record.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error
	// ListExpenses returns a trip's expenses, newest first.
	ListExpenses(ctx context.Context, tripID string) ([]models.Expense, error)

	// CreateSettlement persists a new settlement. It always starts unpaid.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)
	// SetSettlementPaid toggles the paid flag, setting or clearing PaidAt.
	// A non-empty proofURL replaces the stored proof image.
	SetSettlementPaid(ctx context.Context, settlementID string, paid bool, proofURL string) error
	DeleteSettlement(ctx context.Context, settlementID string) error
	ListSettlements(ctx context.Context, tripID string) ([]models.Settlement, error)

	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, boardID, productID string) error
	// ListProducts returns a board's products ordered by serial number.
	ListProducts(ctx context.Context, boardID string) ([]models.Product, error)

	// Snapshot reads a trip with its expenses and settlements in one transaction.
	Snapshot(ctx context.Context, tripID string) (*Snapshot, error)

	// Broker returns the change feed for live subscriptions.
	Broker() *Broker

	// Close releases any resources held by the store.
	Close() error
}
