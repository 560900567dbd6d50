package database

import (
	"context"
	"fmt"

	"onhostel/internal/dates"
	"onhostel/internal/models"
)

func (db *DB) GetSenderoRecords(ctx context.Context) ([]models.SenderoRecord, error) {
	query := `SELECT id, employee, person_count, price_per_person, hours, date, created_at
              FROM sendero_records ORDER BY date DESC, created_at DESC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get sendero records: %w", err)
	}
	defer rows.Close()

	var records []models.SenderoRecord
	for rows.Next() {
		var r models.SenderoRecord
		var day string
		if err := rows.Scan(&r.ID, &r.Employee, &r.PersonCount, &r.PricePerPerson, &r.Hours, &day, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sendero record: %w", err)
		}
		if r.Date, err = dates.ParseDay(day); err != nil {
			return nil, fmt.Errorf("failed to parse sendero date of %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (db *DB) CreateSenderoRecord(ctx context.Context, record *models.SenderoRecord) error {
	query := `INSERT INTO sendero_records (id, employee, person_count, price_per_person, hours, date, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		record.ID,
		record.Employee,
		record.PersonCount,
		record.PricePerPerson,
		record.Hours,
		dates.FormatDay(record.Date),
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sendero record: %w", err)
	}
	return nil
}

func (db *DB) DeleteSenderoRecord(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM sendero_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sendero record: %w", err)
	}
	return requireAffected(result)
}

func (db *DB) ReplaceSenderoRecords(ctx context.Context, records []models.SenderoRecord) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sendero_records`); err != nil {
		return fmt.Errorf("failed to clear sendero records: %w", err)
	}

	query := `INSERT INTO sendero_records (id, employee, person_count, price_per_person, hours, date, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	for i := range records {
		r := &records[i]
		if _, err := tx.ExecContext(ctx, query,
			r.ID, r.Employee, r.PersonCount, r.PricePerPerson, r.Hours, dates.FormatDay(r.Date), r.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert sendero record %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}
