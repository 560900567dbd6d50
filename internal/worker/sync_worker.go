package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"onhostel/internal/database"
	"onhostel/internal/domain"
	"onhostel/internal/metrics"
	"onhostel/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	TaskUpsert = "upsert"
	TaskDelete = "delete"
)

// SyncWorker consumes sync_queue tasks and replicates them to the remote
// document store. Tasks are persisted in SQLite first, so nothing is lost
// if the process dies; redis is a fast path, polling is the safety net.
type SyncWorker struct {
	db            *database.DB
	remote        domain.RemoteStore
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan models.SyncTask
	redisQueueKey string
	deadLetterKey string
	pollInterval  time.Duration
	batchSize     int
	logger        *zerolog.Logger
}

// NewSyncWorker builds a worker with sane defaults.
func NewSyncWorker(db *database.DB, remote domain.RemoteStore, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *SyncWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &SyncWorker{
		db:            db,
		remote:        remote,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan models.SyncTask, models.WorkerQueueSize),
		redisQueueKey: "sync:queue",
		deadLetterKey: "sync:deadletter",
		pollInterval:  2 * time.Second,
		batchSize:     20,
		logger:        logger,
	}
}

// EnqueueUpsert persists an upsert task and schedules it.
func (w *SyncWorker) EnqueueUpsert(ctx context.Context, collection, recordID string, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return w.enqueue(ctx, models.SyncTask{
		TaskType:   TaskUpsert,
		Collection: collection,
		RecordID:   recordID,
		Payload:    string(payload),
		Status:     "pending",
		CreatedAt:  time.Now(),
	})
}

// EnqueueDelete persists a delete task and schedules it.
func (w *SyncWorker) EnqueueDelete(ctx context.Context, collection, recordID string) error {
	return w.enqueue(ctx, models.SyncTask{
		TaskType:   TaskDelete,
		Collection: collection,
		RecordID:   recordID,
		Status:     "pending",
		CreatedAt:  time.Now(),
	})
}

func (w *SyncWorker) enqueue(ctx context.Context, task models.SyncTask) error {
	if task.Collection == "" || task.RecordID == "" {
		return errors.New("collection and record id are required")
	}

	if err := w.db.CreateSyncTask(ctx, &task); err != nil {
		return fmt.Errorf("persist sync task: %w", err)
	}

	// Try redis first for durability.
	if w.redis != nil {
		if err := w.pushRedis(ctx, task); err != nil {
			w.logger.Warn().Err(err).Msg("sync_worker: redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	// Fallback to in-memory queue if redis missing or failed.
	select {
	case w.queue <- task:
	default:
		w.logger.Warn().Int64("task_id", task.ID).Msg("sync_worker: in-memory queue full, task dropped to polling")
	}

	return nil
}

// Start launches main loop; stops when ctx is done.
func (w *SyncWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("sync_worker: started")
	defer w.logger.Info().Msg("sync_worker: stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, &t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, &t)
			continue
		}

		tasks, err := w.db.GetPendingSyncTasks(ctx, w.batchSize)
		if err != nil {
			w.logger.Error().Err(err).Msg("sync_worker: fetch pending")
			time.Sleep(w.pollInterval)
			continue
		}
		if len(tasks) == 0 {
			time.Sleep(w.pollInterval)
			continue
		}

		for i := range tasks {
			w.processTask(ctx, &tasks[i])
		}
	}
}

func (w *SyncWorker) tryLocalQueue() (models.SyncTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return models.SyncTask{}, false
	}
}

func (w *SyncWorker) tryRedis(ctx context.Context) (models.SyncTask, bool) {
	if w.redis == nil {
		return models.SyncTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return models.SyncTask{}, false
		}
		w.logger.Error().Err(err).Msg("sync_worker: redis BRPOP error")
		return models.SyncTask{}, false
	}
	if len(res) != 2 {
		return models.SyncTask{}, false
	}
	var task models.SyncTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("sync_worker: decode redis task")
		return models.SyncTask{}, false
	}
	return task, true
}

func (w *SyncWorker) processTask(ctx context.Context, task *models.SyncTask) {
	if err := w.applyTask(ctx, task); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}

	if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, "completed", "", nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("sync_worker: mark completed")
	}
}

func (w *SyncWorker) applyTask(ctx context.Context, task *models.SyncTask) error {
	switch task.TaskType {
	case TaskUpsert:
		record, err := decodeRecord(task.Collection, task.Payload)
		if err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return w.remote.Upsert(ctx, task.Collection, task.RecordID, record)
	case TaskDelete:
		return w.remote.Delete(ctx, task.Collection, task.RecordID)
	default:
		return fmt.Errorf("unknown task type: %s", task.TaskType)
	}
}

// decodeRecord restores the typed model so the remote store sees proper
// document keys, not the JSON field names.
func decodeRecord(collection, payload string) (any, error) {
	raw := []byte(payload)
	switch collection {
	case models.CollectionBookings:
		var v models.Booking
		return &v, json.Unmarshal(raw, &v)
	case models.CollectionExpenses:
		var v models.Expense
		return &v, json.Unmarshal(raw, &v)
	case models.CollectionSendero:
		var v models.SenderoRecord
		return &v, json.Unmarshal(raw, &v)
	case models.CollectionBarTxs:
		var v models.BarTransaction
		return &v, json.Unmarshal(raw, &v)
	case models.CollectionBarInventory:
		var v models.BarInventoryItem
		return &v, json.Unmarshal(raw, &v)
	default:
		return nil, fmt.Errorf("unknown collection: %s", collection)
	}
}

func (w *SyncWorker) retryOrFail(ctx context.Context, task *models.SyncTask, cause error) {
	metrics.IncSyncFailure(task.Collection)

	attempt := task.RetryCount + 1
	if attempt >= w.retryPolicy.MaxRetries {
		if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, "failed", cause.Error(), nil); err != nil {
			w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("sync_worker: mark failed")
		}
		w.pushDeadLetter(ctx, task)
		return
	}

	nextDelay := w.retryPolicy.NextDelay(attempt)
	nextTime := time.Now().Add(nextDelay)
	if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, "retry", cause.Error(), &nextTime); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("sync_worker: mark retry")
	}
}

func (w *SyncWorker) pushRedis(ctx context.Context, task models.SyncTask) error {
	if w.redis == nil {
		return errors.New("redis client is nil")
	}
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *SyncWorker) pushDeadLetter(ctx context.Context, task *models.SyncTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("sync_worker: encode deadletter")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("sync_worker: deadletter push")
	}
}
