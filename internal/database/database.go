package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// ErrNotFound возвращается, когда запись с указанным id отсутствует в зеркале.
var ErrNotFound = errors.New("record not found")

// DB -- локальное зеркало удаленной документной базы поверх SQLite.
// Чтения панели идут только отсюда; содержимое перезаписывается целиком
// шагом ресинхронизации.
type DB struct {
	db     *sql.DB
	logger *zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	// Создаем директорию для БД, если её нет
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %v", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	// Создаем таблицы
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}

	logger.Info().Str("path", path).Msg("Зеркальная база данных инициализирована")
	return &DB{db: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Таблица бронирований
		`CREATE TABLE IF NOT EXISTS bookings (
            id TEXT PRIMARY KEY,
            unit_id TEXT NOT NULL,
            check_in TEXT NOT NULL,
            check_out TEXT NOT NULL,
            guest_name TEXT NOT NULL,
            guest_count INTEGER NOT NULL DEFAULT 1,
            quantity INTEGER NOT NULL DEFAULT 1,
            guest_doc TEXT,
            deposit REAL NOT NULL DEFAULT 0,
            remaining REAL NOT NULL DEFAULT 0,
            total REAL NOT NULL DEFAULT 0,
            notes TEXT,
            created_at DATETIME NOT NULL
        )`,

		// Таблица расходов
		`CREATE TABLE IF NOT EXISTS expenses (
            id TEXT PRIMARY KEY,
            date TEXT NOT NULL,
            description TEXT NOT NULL,
            amount REAL NOT NULL,
            payment_method TEXT NOT NULL DEFAULT 'cash',
            created_at DATETIME NOT NULL
        )`,

		// Таблица записей сендеро
		`CREATE TABLE IF NOT EXISTS sendero_records (
            id TEXT PRIMARY KEY,
            employee TEXT NOT NULL,
            person_count INTEGER NOT NULL,
            price_per_person REAL NOT NULL,
            hours REAL NOT NULL,
            date TEXT NOT NULL,
            created_at DATETIME NOT NULL
        )`,

		// Таблица движений кассы бара
		`CREATE TABLE IF NOT EXISTS bar_transactions (
            id TEXT PRIMARY KEY,
            type TEXT NOT NULL,
            quantity INTEGER NOT NULL DEFAULT 1,
            amount REAL NOT NULL,
            description TEXT NOT NULL,
            date TEXT NOT NULL,
            created_at DATETIME NOT NULL,
            is_from_inventory INTEGER NOT NULL DEFAULT 0,
            inventory_item_id TEXT
        )`,

		// Таблица инвентаря бара
		`CREATE TABLE IF NOT EXISTS bar_inventory (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            category TEXT,
            initial_stock INTEGER NOT NULL DEFAULT 0,
            current_stock INTEGER NOT NULL DEFAULT 0,
            price REAL NOT NULL DEFAULT 0,
            created_at DATETIME NOT NULL
        )`,

		// Очередь репликации в удаленную базу
		`CREATE TABLE IF NOT EXISTS sync_queue (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            task_type TEXT NOT NULL,
            collection TEXT NOT NULL,
            record_id TEXT NOT NULL,
            payload TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            retry_count INTEGER NOT NULL DEFAULT 0,
            last_error TEXT,
            created_at DATETIME NOT NULL,
            processed_at DATETIME,
            next_retry_at DATETIME
        )`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_unit_id ON bookings(unit_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_check_in ON bookings(check_in)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date)`,
		`CREATE INDEX IF NOT EXISTS idx_sendero_date ON sendero_records(date)`,
		`CREATE INDEX IF NOT EXISTS idx_bar_tx_date ON bar_transactions(date)`,
		`CREATE INDEX IF NOT EXISTS idx_sync_queue_status ON sync_queue(status)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %v", query, err)
		}
	}
	return nil
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, opts)
}

func (db *DB) Close() error {
	return db.db.Close()
}
