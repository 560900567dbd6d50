package worker

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"onhostel/internal/database"
	"onhostel/internal/domain"
	"onhostel/internal/models"

	"github.com/rs/zerolog"
)

type fakeRemote struct {
	err         error
	upsertCalls int
	deleteCalls int
	lastID      string
	lastRecord  any
}

func (f *fakeRemote) Upsert(ctx context.Context, collection, id string, record any) error {
	f.upsertCalls++
	f.lastID = id
	f.lastRecord = record
	return f.err
}

func (f *fakeRemote) Delete(ctx context.Context, collection, id string) error {
	f.deleteCalls++
	f.lastID = id
	return f.err
}

func (f *fakeRemote) FetchSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRemote) Ping(ctx context.Context) error { return f.err }

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(":memory:", &logger)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestWorker(t *testing.T, db *database.DB, remote *fakeRemote, retry RetryPolicy) *SyncWorker {
	t.Helper()
	logger := zerolog.New(os.Stdout)
	return NewSyncWorker(db, remote, nil, retry, &logger)
}

func loadTaskStatus(t *testing.T, db *database.DB, id int64) (string, int, sql.NullTime) {
	t.Helper()
	row := db.QueryRowContext(context.Background(),
		`SELECT status, retry_count, next_retry_at FROM sync_queue WHERE id = ?`, id)
	var status string
	var retryCount int
	var nextRetry sql.NullTime
	if err := row.Scan(&status, &retryCount, &nextRetry); err != nil {
		t.Fatalf("load task %d: %v", id, err)
	}
	return status, retryCount, nextRetry
}

func TestProcessTaskSuccess(t *testing.T) {
	db := newTestDB(t)
	remote := &fakeRemote{}
	w := newTestWorker(t, db, remote, RetryPolicy{})

	booking := &models.Booking{
		ID:        "b-1",
		UnitID:    "room_a",
		CheckIn:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local),
		CheckOut:  time.Date(2025, 4, 3, 0, 0, 0, 0, time.Local),
		GuestName: "Ana",
		Quantity:  1,
		Total:     90,
		CreatedAt: time.Now(),
	}

	ctx := context.Background()
	if err := w.EnqueueUpsert(ctx, models.CollectionBookings, booking.ID, booking); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	task, ok := w.tryLocalQueue()
	if !ok {
		t.Fatalf("expected task in local queue")
	}
	w.processTask(ctx, &task)

	status, retryCount, nextRetry := loadTaskStatus(t, db, task.ID)
	if status != "completed" {
		t.Fatalf("expected status=completed, got %s", status)
	}
	if retryCount != 0 {
		t.Fatalf("expected retry_count=0, got %d", retryCount)
	}
	if nextRetry.Valid {
		t.Fatalf("expected next_retry_at NULL on success")
	}
	if remote.upsertCalls != 1 {
		t.Fatalf("expected one upsert call, got %d", remote.upsertCalls)
	}
	if remote.lastID != "b-1" {
		t.Fatalf("expected record id b-1, got %s", remote.lastID)
	}
	got, ok := remote.lastRecord.(*models.Booking)
	if !ok {
		t.Fatalf("expected decoded *models.Booking, got %T", remote.lastRecord)
	}
	if got.GuestName != "Ana" {
		t.Fatalf("expected guest Ana, got %s", got.GuestName)
	}
}

func TestProcessTaskRetry(t *testing.T) {
	db := newTestDB(t)
	remote := &fakeRemote{err: errors.New("boom")}
	w := newTestWorker(t, db, remote, RetryPolicy{MaxRetries: 3, InitialDelay: time.Second})

	ctx := context.Background()
	if err := w.EnqueueDelete(ctx, models.CollectionExpenses, "e-1"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	task, ok := w.tryLocalQueue()
	if !ok {
		t.Fatalf("expected task in local queue")
	}
	w.processTask(ctx, &task)

	status, retryCount, nextRetry := loadTaskStatus(t, db, task.ID)
	if status != "retry" {
		t.Fatalf("expected status=retry, got %s", status)
	}
	if retryCount != 1 {
		t.Fatalf("expected retry_count=1, got %d", retryCount)
	}
	if !nextRetry.Valid {
		t.Fatalf("expected next_retry_at set for retry")
	}
}

func TestProcessTaskFailsAfterMaxRetries(t *testing.T) {
	db := newTestDB(t)
	remote := &fakeRemote{err: errors.New("remote down")}
	w := newTestWorker(t, db, remote, RetryPolicy{MaxRetries: 1, InitialDelay: time.Second})

	ctx := context.Background()
	if err := w.EnqueueDelete(ctx, models.CollectionBarTxs, "t-1"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	task, ok := w.tryLocalQueue()
	if !ok {
		t.Fatalf("expected task in local queue")
	}
	w.processTask(ctx, &task)

	status, _, _ := loadTaskStatus(t, db, task.ID)
	if status != "failed" {
		t.Fatalf("expected status=failed, got %s", status)
	}

	failed, err := db.GetFailedSyncTasks(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(failed) != 1 {
		t.Fatalf("expected one failed task, got %d", len(failed))
	}
	if failed[0].LastError == nil || *failed[0].LastError != "remote down" {
		t.Fatalf("expected last_error preserved")
	}
}

func TestEnqueueRejectsEmptyIDs(t *testing.T) {
	db := newTestDB(t)
	w := newTestWorker(t, db, &fakeRemote{}, RetryPolicy{})

	if err := w.EnqueueDelete(context.Background(), models.CollectionBookings, ""); err == nil {
		t.Fatalf("expected error for empty record id")
	}
}

func TestRetryPolicyBackoff(t *testing.T) {
	policy := RetryPolicy{InitialDelay: time.Second, MaxDelay: 10 * time.Second, BackoffFactor: 2}

	if d := policy.NextDelay(1); d != time.Second {
		t.Fatalf("attempt 1: expected 1s, got %v", d)
	}
	if d := policy.NextDelay(3); d != 4*time.Second {
		t.Fatalf("attempt 3: expected 4s, got %v", d)
	}
	if d := policy.NextDelay(10); d != 10*time.Second {
		t.Fatalf("attempt 10: expected clamp to 10s, got %v", d)
	}
}
