package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// CreateProduct persists a new product on a purchase sheet.
// Returns storage.ErrAlreadyExists when the serial number is taken on that board.
func (s *SQLiteStore) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := nowMillis()
	if product.CreatedAt == 0 {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM products WHERE board_id = ? AND serial_number = ?",
		product.BoardID, product.SerialNumber,
	).Scan(&exists)
	if err == nil {
		return fmt.Errorf("%w: serial %s", storage.ErrAlreadyExists, product.SerialNumber)
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check serial number: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO products (id, board_id, serial_number, item_name, quantity, link, subsystem, added_by,
		 status, price_per_unit, total_price, comments, delivery_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID, product.BoardID, product.SerialNumber, product.ItemName, product.Quantity,
		nullString(product.Link), nullString(product.Subsystem), product.AddedBy, string(product.Status),
		product.PricePerUnit, product.TotalPrice, nullString(product.Comments),
		nullInt64(product.DeliveryDate), product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	s.publish(product.BoardID, storage.ChangeProducts)
	return nil
}

// UpdateProduct replaces the editable fields of a product and bumps UpdatedAt.
func (s *SQLiteStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = nowMillis()

	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET serial_number = ?, item_name = ?, quantity = ?, link = ?, subsystem = ?,
		 added_by = ?, status = ?, price_per_unit = ?, total_price = ?, comments = ?, delivery_date = ?,
		 updated_at = ? WHERE id = ? AND board_id = ?`,
		product.SerialNumber, product.ItemName, product.Quantity, nullString(product.Link),
		nullString(product.Subsystem), product.AddedBy, string(product.Status), product.PricePerUnit,
		product.TotalPrice, nullString(product.Comments), nullInt64(product.DeliveryDate),
		product.UpdatedAt, product.ID, product.BoardID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: product %s", storage.ErrNotFound, product.ID)
	}

	s.publish(product.BoardID, storage.ChangeProducts)
	return nil
}

// DeleteProduct removes a product from a board.
func (s *SQLiteStore) DeleteProduct(ctx context.Context, boardID, productID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM products WHERE id = ? AND board_id = ?", productID, boardID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: product %s", storage.ErrNotFound, productID)
	}

	s.publish(boardID, storage.ChangeProducts)
	return nil
}

// ListProducts retrieves all products of a board ordered by serial number.
func (s *SQLiteStore) ListProducts(ctx context.Context, boardID string) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, board_id, serial_number, item_name, quantity, link, subsystem, added_by, status,
		 price_per_unit, total_price, comments, delivery_date, created_at, updated_at
		 FROM products WHERE board_id = ? ORDER BY serial_number`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		var status string
		var link, subsystem, comments sql.NullString
		var delivery sql.NullInt64
		if err := rows.Scan(&p.ID, &p.BoardID, &p.SerialNumber, &p.ItemName, &p.Quantity,
			&link, &subsystem, &p.AddedBy, &status, &p.PricePerUnit, &p.TotalPrice,
			&comments, &delivery, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Status = models.ProductStatus(status)
		p.Link = link.String
		p.Subsystem = subsystem.String
		p.Comments = comments.String
		if delivery.Valid {
			v := delivery.Int64
			p.DeliveryDate = &v
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}
