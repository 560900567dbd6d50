package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"onhostel/internal/domain"
	"onhostel/internal/models"

	"github.com/rs/zerolog"
)

// FailoverSessionRepository переключается на резервное хранилище,
// когда основное (Redis) недоступно, и периодически пробует вернуться.
type FailoverSessionRepository struct {
	primary  domain.SessionRepository
	fallback domain.SessionRepository
	logger   *zerolog.Logger

	isDown    atomic.Bool
	lastCheck time.Time
	mu        sync.Mutex
}

const recoveryCheckInterval = time.Minute

func NewFailoverSessionRepository(primary, fallback domain.SessionRepository, logger *zerolog.Logger) *FailoverSessionRepository {
	return &FailoverSessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (f *FailoverSessionRepository) active() domain.SessionRepository {
	if !f.isDown.Load() {
		return f.primary
	}

	f.mu.Lock()
	shouldProbe := time.Since(f.lastCheck) >= recoveryCheckInterval
	if shouldProbe {
		f.lastCheck = time.Now()
	}
	f.mu.Unlock()

	if shouldProbe {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := f.primary.GetSession(ctx, "healthcheck"); err == nil {
			f.isDown.Store(false)
			f.logger.Info().Msg("primary session storage recovered, switching back")
			return f.primary
		}
	}

	return f.fallback
}

func (f *FailoverSessionRepository) markDown(err error) {
	if f.isDown.CompareAndSwap(false, true) {
		f.mu.Lock()
		f.lastCheck = time.Now()
		f.mu.Unlock()
		f.logger.Warn().Err(err).Msg("primary session storage unavailable, switching to fallback")
	}
}

func (f *FailoverSessionRepository) GetSession(ctx context.Context, userID string) (*models.SessionContext, error) {
	repo := f.active()
	session, err := repo.GetSession(ctx, userID)
	if err != nil && repo == f.primary {
		f.markDown(err)
		return f.fallback.GetSession(ctx, userID)
	}
	return session, err
}

func (f *FailoverSessionRepository) SetSession(ctx context.Context, session *models.SessionContext) error {
	repo := f.active()
	err := repo.SetSession(ctx, session)
	if err != nil && repo == f.primary {
		f.markDown(err)
		return f.fallback.SetSession(ctx, session)
	}
	return err
}

func (f *FailoverSessionRepository) ClearSession(ctx context.Context, userID string) error {
	repo := f.active()
	err := repo.ClearSession(ctx, userID)
	if err != nil && repo == f.primary {
		f.markDown(err)
		return f.fallback.ClearSession(ctx, userID)
	}
	return err
}

func (f *FailoverSessionRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	repo := f.active()
	ok, err := repo.CheckRateLimit(ctx, key, limit, window)
	if err != nil && repo == f.primary {
		f.markDown(err)
		return f.fallback.CheckRateLimit(ctx, key, limit, window)
	}
	return ok, err
}
