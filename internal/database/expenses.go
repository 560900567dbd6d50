package database

import (
	"context"
	"fmt"

	"onhostel/internal/dates"
	"onhostel/internal/models"
)

func (db *DB) GetExpenses(ctx context.Context) ([]models.Expense, error) {
	query := `SELECT id, date, description, amount, payment_method, created_at
              FROM expenses ORDER BY date DESC, created_at DESC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var day string
		if err := rows.Scan(&e.ID, &day, &e.Description, &e.Amount, &e.PaymentMethod, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if e.Date, err = dates.ParseDay(day); err != nil {
			return nil, fmt.Errorf("failed to parse expense date of %s: %w", e.ID, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (db *DB) CreateExpense(ctx context.Context, expense *models.Expense) error {
	query := `INSERT INTO expenses (id, date, description, amount, payment_method, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		expense.ID,
		dates.FormatDay(expense.Date),
		expense.Description,
		expense.Amount,
		expense.PaymentMethod,
		expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

func (db *DB) DeleteExpense(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireAffected(result)
}

func (db *DB) ReplaceExpenses(ctx context.Context, expenses []models.Expense) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("failed to clear expenses: %w", err)
	}

	query := `INSERT INTO expenses (id, date, description, amount, payment_method, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	for i := range expenses {
		e := &expenses[i]
		method := e.PaymentMethod
		if method == "" {
			method = models.PaymentCash
		}
		if _, err := tx.ExecContext(ctx, query,
			e.ID, dates.FormatDay(e.Date), e.Description, e.Amount, method, e.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert expense %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}
