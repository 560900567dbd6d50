package database

import (
	"context"
	"database/sql"
	"fmt"

	"onhostel/internal/dates"
	"onhostel/internal/models"
)

const barTxColumns = `id, type, quantity, amount, description, date, created_at,
        is_from_inventory, inventory_item_id`

func (db *DB) GetBarTransactions(ctx context.Context) ([]models.BarTransaction, error) {
	query := `SELECT ` + barTxColumns + ` FROM bar_transactions ORDER BY date DESC, created_at DESC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get bar transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.BarTransaction
	for rows.Next() {
		t, err := scanBarTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (db *DB) GetBarTransaction(ctx context.Context, id string) (*models.BarTransaction, error) {
	query := `SELECT ` + barTxColumns + ` FROM bar_transactions WHERE id = ?`
	t, err := scanBarTransaction(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (db *DB) CreateBarTransaction(ctx context.Context, t *models.BarTransaction) error {
	query := `INSERT INTO bar_transactions (` + barTxColumns + `)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		t.ID,
		t.Type,
		t.SaleQuantity(),
		t.Amount,
		t.Description,
		dates.FormatDay(t.Date),
		t.CreatedAt,
		t.IsFromInventory,
		t.InventoryItemID,
	)
	if err != nil {
		return fmt.Errorf("failed to create bar transaction: %w", err)
	}
	return nil
}

func (db *DB) UpdateBarTransaction(ctx context.Context, t *models.BarTransaction) error {
	query := `UPDATE bar_transactions SET type = ?, quantity = ?, amount = ?, description = ?,
              date = ?, is_from_inventory = ?, inventory_item_id = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		t.Type,
		t.SaleQuantity(),
		t.Amount,
		t.Description,
		dates.FormatDay(t.Date),
		t.IsFromInventory,
		t.InventoryItemID,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bar transaction: %w", err)
	}
	return requireAffected(result)
}

func (db *DB) DeleteBarTransaction(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bar_transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bar transaction: %w", err)
	}
	return requireAffected(result)
}

func (db *DB) ReplaceBarTransactions(ctx context.Context, txs []models.BarTransaction) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bar_transactions`); err != nil {
		return fmt.Errorf("failed to clear bar transactions: %w", err)
	}

	query := `INSERT INTO bar_transactions (` + barTxColumns + `)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range txs {
		t := &txs[i]
		if _, err := tx.ExecContext(ctx, query,
			t.ID, t.Type, t.SaleQuantity(), t.Amount, t.Description,
			dates.FormatDay(t.Date), t.CreatedAt, t.IsFromInventory, t.InventoryItemID,
		); err != nil {
			return fmt.Errorf("failed to insert bar transaction %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

func scanBarTransaction(row rowScanner) (models.BarTransaction, error) {
	var t models.BarTransaction
	var day string
	var itemID sql.NullString

	err := row.Scan(
		&t.ID, &t.Type, &t.Quantity, &t.Amount, &t.Description, &day,
		&t.CreatedAt, &t.IsFromInventory, &itemID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.BarTransaction{}, ErrNotFound
		}
		return models.BarTransaction{}, fmt.Errorf("failed to scan bar transaction: %w", err)
	}

	if t.Date, err = dates.ParseDay(day); err != nil {
		return models.BarTransaction{}, fmt.Errorf("failed to parse bar transaction date of %s: %w", t.ID, err)
	}
	t.InventoryItemID = itemID.String

	return t, nil
}
