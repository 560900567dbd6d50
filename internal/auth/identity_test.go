package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"onhostel/internal/config"
	"onhostel/internal/events"
	"onhostel/internal/models"
	"onhostel/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestIdentity(t *testing.T, sessions *repository.MemorySessionRepository, bus *events.EventBus) *Identity {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  60,
		Users: []config.PanelUser{
			{Email: "Admin@Hostel.es", PasswordHash: string(hash), Name: "Administrador"},
		},
	}

	logger := zerolog.New(os.Stdout)
	identity, err := NewIdentity(cfg, sessions, bus, &logger)
	require.NoError(t, err)
	return identity
}

func TestSignInAndVerify(t *testing.T) {
	identity := newTestIdentity(t, repository.NewMemorySessionRepository(), nil)

	token, userID, err := identity.SignIn(context.Background(), "admin@hostel.es", "correcthorse")
	require.NoError(t, err)
	assert.Equal(t, "admin@hostel.es", userID)
	require.NotEmpty(t, token)

	got, err := identity.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@hostel.es", got)
}

func TestSignInCaseInsensitiveEmail(t *testing.T) {
	identity := newTestIdentity(t, repository.NewMemorySessionRepository(), nil)

	_, userID, err := identity.SignIn(context.Background(), "ADMIN@HOSTEL.ES", "correcthorse")
	require.NoError(t, err)
	assert.Equal(t, "admin@hostel.es", userID)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	identity := newTestIdentity(t, repository.NewMemorySessionRepository(), nil)
	ctx := context.Background()

	_, _, err := identity.SignIn(ctx, "admin@hostel.es", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = identity.SignIn(ctx, "nobody@hostel.es", "correcthorse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyRejectsGarbageAndForgedTokens(t *testing.T) {
	identity := newTestIdentity(t, repository.NewMemorySessionRepository(), nil)

	_, err := identity.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := newTestIdentityWithSecret(t, "other-secret")
	token, _, err := other.SignIn(context.Background(), "admin@hostel.es", "correcthorse")
	require.NoError(t, err)

	_, err = identity.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func newTestIdentityWithSecret(t *testing.T, secret string) *Identity {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.MinCost)
	require.NoError(t, err)

	logger := zerolog.New(os.Stdout)
	identity, err := NewIdentity(config.AuthConfig{
		JWTSecret: secret,
		TokenTTL:  60,
		Users:     []config.PanelUser{{Email: "admin@hostel.es", PasswordHash: string(hash)}},
	}, nil, nil, &logger)
	require.NoError(t, err)
	return identity
}

func TestSignOutClearsSessionAndPublishes(t *testing.T) {
	sessions := repository.NewMemorySessionRepository()
	bus := events.NewEventBus()
	identity := newTestIdentity(t, sessions, bus)
	ctx := context.Background()

	var sessionEvents int
	bus.Subscribe(events.EventSessionChanged, func(event *events.Event) error {
		sessionEvents++
		return nil
	})

	require.NoError(t, sessions.SetSession(ctx, &models.SessionContext{
		UserID:        "admin@hostel.es",
		SelectedMonth: time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local),
	}))

	_, _, err := identity.SignIn(ctx, "admin@hostel.es", "correcthorse")
	require.NoError(t, err)
	require.NoError(t, identity.SignOut(ctx, "admin@hostel.es"))

	session, err := sessions.GetSession(ctx, "admin@hostel.es")
	require.NoError(t, err)
	assert.Nil(t, session, "session context reset on logout")
	assert.Equal(t, 2, sessionEvents, "sign-in and sign-out both notify")
}
