package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"onhostel/internal/config"
	"onhostel/internal/domain"
	"onhostel/internal/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Ошибки аутентификации. Наружу не раскрывается, что именно не совпало.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Identity -- встроенный поставщик аутентификации панели: учетные записи
// из конфигурации, пароли как bcrypt-хеши, сессионные токены JWT.
// Идентификатор пользователя -- e-mail в нижнем регистре.
type Identity struct {
	secret   []byte
	tokenTTL time.Duration
	users    map[string]config.PanelUser
	sessions domain.SessionRepository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewIdentity(cfg config.AuthConfig, sessions domain.SessionRepository, eventBus domain.EventPublisher, logger *zerolog.Logger) (*Identity, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}

	ttl := time.Duration(cfg.TokenTTL) * time.Minute
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	users := make(map[string]config.PanelUser, len(cfg.Users))
	for _, u := range cfg.Users {
		users[strings.ToLower(u.Email)] = u
	}

	return &Identity{
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: ttl,
		users:    users,
		sessions: sessions,
		eventBus: eventBus,
		logger:   logger,
	}, nil
}

// SignIn проверяет пароль и выдает подписанный токен.
func (i *Identity) SignIn(ctx context.Context, email, password string) (string, string, error) {
	userID := strings.ToLower(strings.TrimSpace(email))
	user, ok := i.users[userID]
	if !ok {
		// Выравниваем время ответа для неизвестных адресов.
		bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"), []byte(password))
		return "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}

	i.publishSessionEvent(userID, true)
	return token, userID, nil
}

// SignOut сбрасывает сессионный контекст пользователя.
func (i *Identity) SignOut(ctx context.Context, userID string) error {
	if i.sessions != nil {
		if err := i.sessions.ClearSession(ctx, userID); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	i.publishSessionEvent(userID, false)
	return nil
}

// Verify проверяет подпись и срок действия токена и возвращает
// идентификатор пользователя.
func (i *Identity) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	if _, known := i.users[claims.Subject]; !known {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// UserName возвращает отображаемое имя пользователя.
func (i *Identity) UserName(userID string) string {
	if user, ok := i.users[userID]; ok && user.Name != "" {
		return user.Name
	}
	return userID
}

func (i *Identity) publishSessionEvent(userID string, signedIn bool) {
	if i.eventBus == nil {
		return
	}
	payload := events.SessionEventPayload{UserID: userID, SignedIn: signedIn}
	if err := i.eventBus.PublishJSON(events.EventSessionChanged, payload); err != nil {
		i.logger.Error().Err(err).Str("user_id", userID).Msg("publish session event")
	}
}
