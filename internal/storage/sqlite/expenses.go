package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// CreateExpense persists a new expense with its members and custom splits.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = nowMillis()
	}
	if expense.SplitType == "" {
		expense.SplitType = models.SplitFair
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, trip_id, title, amount, paid_by, split_type, per_person_amount, payment_method, proof_image_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.TripID, expense.Title, expense.Amount, expense.PaidBy,
		string(expense.SplitType), expense.PerPersonAmount, string(expense.PaymentMethod),
		nullString(expense.ProofImageURL), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertExpenseShares(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.publish(expense.TripID, storage.ChangeExpenses)
	return nil
}

func insertExpenseShares(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i, name := range expense.SplitBetween {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_members (expense_id, position, name) VALUES (?, ?, ?)",
			expense.ID, i, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense member: %w", err)
		}
	}

	for name, amount := range expense.CustomSplits {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_custom_splits (expense_id, name, amount) VALUES (?, ?, ?)",
			expense.ID, name, amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert custom split: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	var tripID string
	err := s.db.QueryRowContext(ctx, "SELECT trip_id FROM expenses WHERE id = ?", expenseID).Scan(&tripID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	expenses, err := listExpenses(ctx, s.db, tripID)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		if expenses[i].ID == expenseID {
			return &expenses[i], nil
		}
	}
	return nil, fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
}

// UpdateExpense replaces an existing expense. TripID and CreatedAt are kept from the
// stored record.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var tripID string
	var createdAt int64
	err = tx.QueryRowContext(ctx,
		"SELECT trip_id, created_at FROM expenses WHERE id = ?", expense.ID,
	).Scan(&tripID, &createdAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expense.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to check expense existence: %w", err)
	}
	expense.TripID = tripID
	expense.CreatedAt = createdAt
	if expense.SplitType == "" {
		expense.SplitType = models.SplitFair
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE expenses SET title = ?, amount = ?, paid_by = ?, split_type = ?, per_person_amount = ?,
		 payment_method = ?, proof_image_url = ? WHERE id = ?`,
		expense.Title, expense.Amount, expense.PaidBy, string(expense.SplitType), expense.PerPersonAmount,
		string(expense.PaymentMethod), nullString(expense.ProofImageURL), expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	// Replace members and custom splits
	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_members WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to delete expense members: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_custom_splits WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to delete custom splits: %w", err)
	}
	if err := insertExpenseShares(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.publish(tripID, storage.ChangeExpenses)
	return nil
}

// DeleteExpense removes an expense by ID.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	var tripID string
	err := s.db.QueryRowContext(ctx, "SELECT trip_id FROM expenses WHERE id = ?", expenseID).Scan(&tripID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	if err != nil {
		return fmt.Errorf("failed to check expense existence: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	s.publish(tripID, storage.ChangeExpenses)
	return nil
}

// ListExpenses retrieves all expenses for a trip, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, tripID string) ([]models.Expense, error) {
	return listExpenses(ctx, s.db, tripID)
}

func listExpenses(ctx context.Context, q querier, tripID string) ([]models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, trip_id, title, amount, paid_by, split_type, per_person_amount, payment_method, proof_image_url, created_at
		 FROM expenses WHERE trip_id = ? ORDER BY created_at DESC, id`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []models.Expense
	index := make(map[string]int)
	for rows.Next() {
		var exp models.Expense
		var splitType, method string
		var proof sql.NullString
		if err := rows.Scan(&exp.ID, &exp.TripID, &exp.Title, &exp.Amount, &exp.PaidBy,
			&splitType, &exp.PerPersonAmount, &method, &proof, &exp.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		exp.SplitType = models.SplitType(splitType)
		exp.PaymentMethod = models.PaymentMethod(method)
		if proof.Valid {
			exp.ProofImageURL = proof.String
		}
		index[exp.ID] = len(expenses)
		expenses = append(expenses, exp)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	// Members for every expense of the trip in one pass
	memberRows, err := q.QueryContext(ctx,
		`SELECT m.expense_id, m.name FROM expense_members m
		 JOIN expenses e ON e.id = m.expense_id
		 WHERE e.trip_id = ? ORDER BY m.expense_id, m.position`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense members: %w", err)
	}
	for memberRows.Next() {
		var expenseID, name string
		if err := memberRows.Scan(&expenseID, &name); err != nil {
			memberRows.Close()
			return nil, fmt.Errorf("failed to scan expense member: %w", err)
		}
		if i, ok := index[expenseID]; ok {
			expenses[i].SplitBetween = append(expenses[i].SplitBetween, name)
		}
	}
	memberRows.Close()
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense members: %w", err)
	}

	splitRows, err := q.QueryContext(ctx,
		`SELECT c.expense_id, c.name, c.amount FROM expense_custom_splits c
		 JOIN expenses e ON e.id = c.expense_id
		 WHERE e.trip_id = ?`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get custom splits: %w", err)
	}
	defer splitRows.Close()
	for splitRows.Next() {
		var expenseID, name string
		var amount float64
		if err := splitRows.Scan(&expenseID, &name, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan custom split: %w", err)
		}
		i, ok := index[expenseID]
		if !ok {
			continue
		}
		if expenses[i].CustomSplits == nil {
			expenses[i].CustomSplits = make(map[string]float64)
		}
		expenses[i].CustomSplits[name] = amount
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate custom splits: %w", err)
	}

	return expenses, nil
}
