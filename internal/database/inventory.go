package database

import (
	"context"
	"database/sql"
	"fmt"

	"onhostel/internal/models"
)

const inventoryColumns = `id, name, category, initial_stock, current_stock, price, created_at`

func (db *DB) GetBarInventory(ctx context.Context) ([]models.BarInventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM bar_inventory ORDER BY name COLLATE NOCASE ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get bar inventory: %w", err)
	}
	defer rows.Close()

	var items []models.BarInventoryItem
	for rows.Next() {
		var item models.BarInventoryItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.InitialStock,
			&item.CurrentStock, &item.Price, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (db *DB) GetBarInventoryItem(ctx context.Context, id string) (*models.BarInventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM bar_inventory WHERE id = ?`
	var item models.BarInventoryItem
	err := db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Category, &item.InitialStock,
		&item.CurrentStock, &item.Price, &item.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return &item, nil
}

func (db *DB) CreateBarInventoryItem(ctx context.Context, item *models.BarInventoryItem) error {
	query := `INSERT INTO bar_inventory (` + inventoryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		item.ID, item.Name, item.Category, item.InitialStock,
		item.CurrentStock, item.Price, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

func (db *DB) UpdateBarInventoryItem(ctx context.Context, item *models.BarInventoryItem) error {
	query := `UPDATE bar_inventory SET name = ?, category = ?, initial_stock = ?,
              current_stock = ?, price = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		item.Name, item.Category, item.InitialStock, item.CurrentStock, item.Price, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	return requireAffected(result)
}

func (db *DB) DeleteBarInventoryItem(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bar_inventory WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return requireAffected(result)
}

func (db *DB) ReplaceBarInventory(ctx context.Context, items []models.BarInventoryItem) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bar_inventory`); err != nil {
		return fmt.Errorf("failed to clear bar inventory: %w", err)
	}

	query := `INSERT INTO bar_inventory (` + inventoryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	for i := range items {
		item := &items[i]
		if _, err := tx.ExecContext(ctx, query,
			item.ID, item.Name, item.Category, item.InitialStock,
			item.CurrentStock, item.Price, item.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert inventory item %s: %w", item.ID, err)
		}
	}

	return tx.Commit()
}
