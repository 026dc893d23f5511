package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

const settlementColumns = `id, trip_id, from_name, to_name, amount, is_paid, paid_at, proof_image_url, created_at`

// CreateSettlement persists a new settlement to the database. New settlements are
// always unpaid, whatever the caller set.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = nowMillis()
	}
	settlement.IsPaid = false
	settlement.PaidAt = nil

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, trip_id, from_name, to_name, amount, is_paid, paid_at, proof_image_url, created_at)
		 VALUES (?, ?, ?, ?, ?, 0, NULL, ?, ?)`,
		settlement.ID, settlement.TripID, settlement.From, settlement.To,
		settlement.Amount, nullString(settlement.ProofImageURL), settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	s.publish(settlement.TripID, storage.ChangeSettlements)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSettlement(row scanner) (models.Settlement, error) {
	var st models.Settlement
	var isPaid int
	var paidAt sql.NullInt64
	var proof sql.NullString

	err := row.Scan(&st.ID, &st.TripID, &st.From, &st.To, &st.Amount,
		&isPaid, &paidAt, &proof, &st.CreatedAt)
	if err != nil {
		return st, err
	}

	st.IsPaid = isPaid != 0
	if paidAt.Valid {
		v := paidAt.Int64
		st.PaidAt = &v
	}
	if proof.Valid {
		st.ProofImageURL = proof.String
	}
	return st, nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE id = ?",
		settlementID,
	)
	settlement, err := scanSettlement(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: settlement %s", storage.ErrNotFound, settlementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return &settlement, nil
}

// SetSettlementPaid updates the paid flag. Marking paid stamps PaidAt; marking unpaid
// clears it.
func (s *SQLiteStore) SetSettlementPaid(ctx context.Context, settlementID string, paid bool, proofURL string) error {
	var tripID string
	err := s.db.QueryRowContext(ctx, "SELECT trip_id FROM settlements WHERE id = ?", settlementID).Scan(&tripID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: settlement %s", storage.ErrNotFound, settlementID)
	}
	if err != nil {
		return fmt.Errorf("failed to check settlement existence: %w", err)
	}

	var paidAt *int64
	isPaid := 0
	if paid {
		now := nowMillis()
		paidAt = &now
		isPaid = 1
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE settlements SET is_paid = ?, paid_at = ?, proof_image_url = COALESCE(?, proof_image_url)
		 WHERE id = ?`,
		isPaid, nullInt64(paidAt), nullString(proofURL), settlementID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement: %w", err)
	}

	s.publish(tripID, storage.ChangeSettlements)
	return nil
}

// ListSettlements retrieves all settlements for a trip, oldest first.
func (s *SQLiteStore) ListSettlements(ctx context.Context, tripID string) ([]models.Settlement, error) {
	return listSettlements(ctx, s.db, tripID)
}

func listSettlements(ctx context.Context, q querier, tripID string) ([]models.Settlement, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE trip_id = ? ORDER BY created_at, id",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}

// DeleteSettlement removes a settlement by ID.
func (s *SQLiteStore) DeleteSettlement(ctx context.Context, settlementID string) error {
	// Check if settlement exists
	var tripID string
	err := s.db.QueryRowContext(ctx, "SELECT trip_id FROM settlements WHERE id = ?", settlementID).Scan(&tripID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: settlement %s", storage.ErrNotFound, settlementID)
	}
	if err != nil {
		return fmt.Errorf("failed to check settlement existence: %w", err)
	}

	// Delete settlement
	_, err = s.db.ExecContext(ctx, "DELETE FROM settlements WHERE id = ?", settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}

	s.publish(tripID, storage.ChangeSettlements)
	return nil
}
