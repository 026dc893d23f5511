// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	broker *storage.Broker
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas are per connection, so they go in the DSN
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; one connection also serializes snapshot reads
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, broker: storage.NewBroker()}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Broker returns the change feed fed by this store's writes.
func (s *SQLiteStore) Broker() *storage.Broker {
	return s.broker
}

func (s *SQLiteStore) publish(tripID string, kind storage.ChangeKind) {
	s.broker.Publish(storage.Change{TripID: tripID, Kind: kind})
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

// CreateTrip persists a new trip with its ordered member list.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = nowMillis()
	}
	if trip.Kind == "" {
		trip.Kind = models.KindTrip
	}
	if trip.Name == "" {
		trip.Name = generateName(trip.Kind, trip.Participants)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM trips WHERE id = ?", trip.ID).Scan(&exists)
	if err == nil {
		return fmt.Errorf("%w: trip %s", storage.ErrAlreadyExists, trip.ID)
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check trip existence: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO trips (id, name, kind, created_at) VALUES (?, ?, ?, ?)",
		trip.ID, trip.Name, string(trip.Kind), trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	if err := insertMembers(ctx, tx, trip.ID, trip.Participants, trip.MemberAvatars); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.publish(trip.ID, storage.ChangeTrip)
	return nil
}

func insertMembers(ctx context.Context, tx *sql.Tx, tripID string, participants []string, avatars map[string]string) error {
	for i, name := range participants {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO trip_members (trip_id, position, name, avatar) VALUES (?, ?, ?, ?)",
			tripID, i, name, nullString(avatars[name]),
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}
	return nil
}

// GetTrip retrieves a trip by ID, including members in their stored order.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	return getTrip(ctx, s.db, tripID)
}

func getTrip(ctx context.Context, q querier, tripID string) (*models.Trip, error) {
	trip := &models.Trip{}
	var kind string
	err := q.QueryRowContext(ctx,
		"SELECT id, name, kind, created_at FROM trips WHERE id = ?",
		tripID,
	).Scan(&trip.ID, &trip.Name, &kind, &trip.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: trip %s", storage.ErrNotFound, tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	trip.Kind = models.BoardKind(kind)

	rows, err := q.QueryContext(ctx,
		"SELECT name, avatar FROM trip_members WHERE trip_id = ? ORDER BY position",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	trip.MemberAvatars = make(map[string]string)
	for rows.Next() {
		var name string
		var avatar sql.NullString
		if err := rows.Scan(&name, &avatar); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		trip.Participants = append(trip.Participants, name)
		if avatar.Valid {
			trip.MemberAvatars[name] = avatar.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return trip, nil
}

// ListTrips returns all trips of the given kind, newest first. An empty kind lists all.
func (s *SQLiteStore) ListTrips(ctx context.Context, kind models.BoardKind) ([]*models.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM trips WHERE ? = '' OR kind = ? ORDER BY created_at DESC",
		string(kind), string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}

	trips := make([]*models.Trip, 0, len(ids))
	for _, id := range ids {
		trip, err := s.GetTrip(ctx, id)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

// UpdateTripMembers replaces a trip's participants. Existing avatars are kept when
// avatars is nil.
func (s *SQLiteStore) UpdateTripMembers(ctx context.Context, tripID string, participants []string, avatars map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := getTrip(ctx, tx, tripID)
	if err != nil {
		return err
	}
	if avatars == nil {
		avatars = existing.MemberAvatars
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM trip_members WHERE trip_id = ?", tripID); err != nil {
		return fmt.Errorf("failed to delete members: %w", err)
	}
	if err := insertMembers(ctx, tx, tripID, participants, avatars); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.publish(tripID, storage.ChangeTrip)
	return nil
}

// Snapshot reads a trip, its expenses and its settlements inside one transaction so
// that a recomputation never mixes a fresh expense list with a stale settlement list.
func (s *SQLiteStore) Snapshot(ctx context.Context, tripID string) (*storage.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	trip, err := getTrip(ctx, tx, tripID)
	if err != nil {
		return nil, err
	}
	expenses, err := listExpenses(ctx, tx, tripID)
	if err != nil {
		return nil, err
	}
	settlements, err := listSettlements(ctx, tx, tripID)
	if err != nil {
		return nil, err
	}

	return &storage.Snapshot{
		Trip:        trip,
		Expenses:    expenses,
		Settlements: settlements,
	}, nil
}

// generateName creates an auto-generated trip name from participants.
func generateName(kind models.BoardKind, participants []string) string {
	prefix := "Trip"
	if kind == models.KindPurchaseSheet {
		prefix = "Purchase sheet"
	}
	if len(participants) == 0 {
		return fmt.Sprintf("%s - %s", prefix, time.Now().Format("Jan 2, 2006"))
	}
	if len(participants) <= 3 {
		return fmt.Sprintf("%s with %s", prefix, strings.Join(participants, ", "))
	}
	return fmt.Sprintf("%s with %s and %d others",
		prefix,
		strings.Join(participants[:2], ", "),
		len(participants)-2,
	)
}
