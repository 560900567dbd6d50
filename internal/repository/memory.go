package repository

import (
	"context"
	"sync"
	"time"

	"onhostel/internal/models"
)

// MemorySessionRepository хранит контексты сессий в памяти процесса.
// Используется как резерв при недоступности Redis: данные теряются
// при перезапуске, но панель продолжает работать.
type MemorySessionRepository struct {
	sessions   sync.Map
	rateLimits sync.Map
	mu         sync.Mutex
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{}
}

func (m *MemorySessionRepository) GetSession(ctx context.Context, userID string) (*models.SessionContext, error) {
	val, ok := m.sessions.Load(userID)
	if !ok {
		return nil, nil
	}
	session := val.(models.SessionContext)
	return &session, nil
}

func (m *MemorySessionRepository) SetSession(ctx context.Context, session *models.SessionContext) error {
	session.UpdatedAt = time.Now()
	m.sessions.Store(session.UserID, *session)
	return nil
}

func (m *MemorySessionRepository) ClearSession(ctx context.Context, userID string) error {
	m.sessions.Delete(userID)
	return nil
}

func (m *MemorySessionRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	val, ok := m.rateLimits.Load(key)
	if !ok {
		m.rateLimits.Store(key, rateLimitEntry{count: 1, expiresAt: now.Add(window)})
		return true, nil
	}

	entry := val.(rateLimitEntry)
	if now.After(entry.expiresAt) {
		m.rateLimits.Store(key, rateLimitEntry{count: 1, expiresAt: now.Add(window)})
		return true, nil
	}

	entry.count++
	m.rateLimits.Store(key, entry)
	return entry.count <= limit, nil
}
