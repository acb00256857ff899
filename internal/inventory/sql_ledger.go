package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLLedger adjusts stock on the catalog's products table. Both
// operations are single conditional UPDATEs, so the check and the
// decrement cannot be separated by a concurrent writer.
type SQLLedger struct {
	db *sql.DB
}

func NewSQLLedger(db *sql.DB) *SQLLedger {
	return &SQLLedger{db: db}
}

func (l *SQLLedger) HasAvailable(ctx context.Context, productID int64, quantity int) (bool, error) {
	stock, err := l.currentStock(ctx, productID)
	if err != nil {
		return false, err
	}
	return stock >= quantity, nil
}

func (l *SQLLedger) Reserve(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	query := `UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`
	result, err := l.db.ExecContext(ctx, query, quantity, productID)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// Nothing matched: either the product is unknown or stock ran out.
	stock, err := l.currentStock(ctx, productID)
	if err != nil {
		return err
	}
	return &InsufficientStockError{ProductID: productID, Available: stock}
}

func (l *SQLLedger) Release(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	result, err := l.db.ExecContext(ctx, `UPDATE products SET stock = stock + $1 WHERE id = $2`, quantity, productID)
	if err != nil {
		return fmt.Errorf("failed to release stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (l *SQLLedger) currentStock(ctx context.Context, productID int64) (int, error) {
	var stock int
	err := l.db.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query stock: %w", err)
	}
	return stock, nil
}
