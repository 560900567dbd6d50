package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"onhostel/internal/dates"
	"onhostel/internal/models"
)

const bookingColumns = `id, unit_id, check_in, check_out, guest_name, guest_count,
        quantity, guest_doc, deposit, remaining, total, notes, created_at`

func (db *DB) GetBookings(ctx context.Context) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY check_in ASC, created_at ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (` + bookingColumns + `)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		booking.ID,
		booking.UnitID,
		dates.FormatDay(booking.CheckIn),
		dates.FormatDay(booking.CheckOut),
		booking.GuestName,
		booking.GuestCount,
		booking.SlotQuantity(),
		booking.GuestDoc,
		booking.Deposit,
		booking.Remaining,
		booking.Total,
		booking.Notes,
		booking.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// UpdateBooking заменяет запись целиком; id и created_at сохраняются.
func (db *DB) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	query := `UPDATE bookings SET unit_id = ?, check_in = ?, check_out = ?, guest_name = ?,
              guest_count = ?, quantity = ?, guest_doc = ?, deposit = ?, remaining = ?,
              total = ?, notes = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		booking.UnitID,
		dates.FormatDay(booking.CheckIn),
		dates.FormatDay(booking.CheckOut),
		booking.GuestName,
		booking.GuestCount,
		booking.SlotQuantity(),
		booking.GuestDoc,
		booking.Deposit,
		booking.Remaining,
		booking.Total,
		booking.Notes,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	return requireAffected(result)
}

func (db *DB) DeleteBooking(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return requireAffected(result)
}

// ReplaceBookings перезаписывает коллекцию целиком снимком удаленной базы.
func (db *DB) ReplaceBookings(ctx context.Context, bookings []models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings`); err != nil {
		return fmt.Errorf("failed to clear bookings: %w", err)
	}

	query := `INSERT INTO bookings (` + bookingColumns + `)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range bookings {
		b := &bookings[i]
		_, err := tx.ExecContext(ctx, query,
			b.ID, b.UnitID, dates.FormatDay(b.CheckIn), dates.FormatDay(b.CheckOut),
			b.GuestName, b.GuestCount, b.SlotQuantity(), b.GuestDoc,
			b.Deposit, b.Remaining, b.Total, b.Notes, b.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert booking %s: %w", b.ID, err)
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var b models.Booking
	var checkIn, checkOut string
	var guestDoc, notes sql.NullString

	err := row.Scan(
		&b.ID, &b.UnitID, &checkIn, &checkOut, &b.GuestName, &b.GuestCount,
		&b.Quantity, &guestDoc, &b.Deposit, &b.Remaining, &b.Total, &notes, &b.CreatedAt,
	)
	if err != nil {
		return models.Booking{}, fmt.Errorf("failed to scan booking: %w", err)
	}

	if b.CheckIn, err = dates.ParseDay(checkIn); err != nil {
		return models.Booking{}, fmt.Errorf("failed to parse check_in of %s: %w", b.ID, err)
	}
	if b.CheckOut, err = dates.ParseDay(checkOut); err != nil {
		return models.Booking{}, fmt.Errorf("failed to parse check_out of %s: %w", b.ID, err)
	}
	b.GuestDoc = guestDoc.String
	b.Notes = notes.String

	return b, nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsNotFound сообщает, является ли ошибка отсутствием записи.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}
