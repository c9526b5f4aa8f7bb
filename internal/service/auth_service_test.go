package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/repository"
	"github.com/gmviana11/fornecedor-conecta/internal/security"
	"github.com/gmviana11/fornecedor-conecta/internal/seed"
	"github.com/gmviana11/fornecedor-conecta/internal/store"
)

func credentials(t *testing.T) *security.CredentialTable {
	t.Helper()
	creds, err := security.NewCredentialTable(seed.Credentials(), testParams)
	require.NoError(t, err)
	return creds
}

func newAuth(t *testing.T, s store.Store, users *repository.UserRepository, creds CredentialVerifier, delay time.Duration) *AuthService {
	t.Helper()
	auth, err := NewAuthService(context.Background(), s, users, creds, delay, zerolog.Nop())
	require.NoError(t, err)
	return auth
}

func TestLoginPersistsSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth := newAuth(t, f.store, f.users, credentials(t), 0)

	_, ok := auth.CurrentUser()
	assert.False(t, ok)

	user, err := auth.Login(ctx, LoginInput{Email: " admin@mxs.com ", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "1", user.ID)
	assert.Equal(t, models.UserTypeSuperAdmin, user.Type)

	current, ok := auth.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, user, current)

	restored := newAuth(t, f.store, f.users, credentials(t), 0)
	current, ok = restored.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "admin@mxs.com", current.Email)
}

func TestLoginWrongPasswordKeepsSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth := newAuth(t, f.store, f.users, credentials(t), 0)

	_, err := auth.Login(ctx, LoginInput{Email: "joao@email.com", Password: "user123"})
	require.NoError(t, err)

	_, err = auth.Login(ctx, LoginInput{Email: "joao@email.com", Password: "wrong"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	assert.Equal(t, apperrors.TypeUnauthorized, apperrors.TypeOf(err))

	_, err = auth.Login(ctx, LoginInput{Email: "nobody@email.com", Password: "user123"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	current, ok := auth.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "4", current.ID)
}

type allowAll struct{}

func (allowAll) Verify(string, string) bool { return true }

func TestLoginCredentialWithoutUser(t *testing.T) {
	f := newFixture(t)
	auth := newAuth(t, f.store, f.users, allowAll{}, 0)

	_, err := auth.Login(context.Background(), LoginInput{Email: "ghost@mxs.com", Password: "x"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, ok := auth.CurrentUser()
	assert.False(t, ok)
}

func TestLoginHonoursContext(t *testing.T) {
	f := newFixture(t)
	auth := newAuth(t, f.store, f.users, credentials(t), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := auth.Login(ctx, LoginInput{Email: "admin@mxs.com", Password: "admin123"})
	assert.ErrorIs(t, err, context.Canceled)
	_, ok := auth.CurrentUser()
	assert.False(t, ok)
}

func TestLoginAsync(t *testing.T) {
	f := newFixture(t)
	auth := newAuth(t, f.store, f.users, credentials(t), 10*time.Millisecond)

	ch := auth.LoginAsync(context.Background(), LoginInput{Email: "maria@email.com", Password: "user123"})
	res, ok := <-ch
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, "5", res.User.ID)

	_, ok = <-ch
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth := newAuth(t, f.store, f.users, credentials(t), 0)

	_, err := auth.Login(ctx, LoginInput{Email: "admin@mxs.com", Password: "admin123"})
	require.NoError(t, err)
	require.NoError(t, auth.Logout(ctx))

	_, ok := auth.CurrentUser()
	assert.False(t, ok)
	_, err = f.store.Get(ctx, store.KeyAuthUser)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// logging out twice is fine
	require.NoError(t, auth.Logout(ctx))
}

func TestCorruptSessionIsDiscarded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.store.Set(ctx, store.KeyAuthUser, []byte("{not json")))

	auth := newAuth(t, f.store, f.users, credentials(t), 0)
	_, ok := auth.CurrentUser()
	assert.False(t, ok)

	_, err := f.store.Get(ctx, store.KeyAuthUser)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func newSessions(t *testing.T, f *fixture) *SessionManager {
	t.Helper()
	return NewSessionManager(f.store, f.users, credentials(t), SessionConfig{
		Secret:   "test-secret",
		TokenTTL: time.Hour,
	}, zerolog.Nop())
}

func TestSessionManager(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sessions := newSessions(t, f)

	admin, err := sessions.Login(ctx, LoginInput{Email: "admin@mxs.com", Password: "admin123"})
	require.NoError(t, err)
	assert.NotEmpty(t, admin.AccessToken)
	assert.Equal(t, "1", admin.User.ID)

	maria, err := sessions.Login(ctx, LoginInput{Email: "maria@email.com", Password: "user123"})
	require.NoError(t, err)
	assert.NotEqual(t, admin.SessionID, maria.SessionID)

	auth, user, err := sessions.Authenticate(ctx, admin.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "1", user.ID)

	// the unscoped key stays untouched by scoped sessions
	_, err = f.store.Get(ctx, store.KeyAuthUser)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, auth.Logout(ctx))
	_, _, err = sessions.Authenticate(ctx, admin.AccessToken)
	assert.True(t, apperrors.Is(err, apperrors.TypeUnauthorized))

	_, user, err = sessions.Authenticate(ctx, maria.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "5", user.ID)
}

func TestSessionManagerRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sessions := newSessions(t, f)

	_, err := sessions.Login(ctx, LoginInput{Email: "admin@mxs.com", Password: "nope"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, _, err = sessions.Authenticate(ctx, "garbage")
	assert.True(t, apperrors.Is(err, apperrors.TypeUnauthorized))

	token, err := security.GenerateAccessToken("test-secret", "1", "never-opened", "super_admin", time.Hour)
	require.NoError(t, err)
	_, _, err = sessions.Authenticate(ctx, token)
	assert.True(t, apperrors.Is(err, apperrors.TypeUnauthorized))
}

func sessionKeyExists(t *testing.T, f *fixture, sid string) bool {
	t.Helper()
	ok, err := store.Exists(context.Background(), f.store, sessionPrefix(sid)+store.KeyAuthUser)
	require.NoError(t, err)
	return ok
}

func TestSessionManagerSweepsExpiredSessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sessions := NewSessionManager(f.store, f.users, credentials(t), SessionConfig{
		Secret:   "test-secret",
		TokenTTL: time.Minute,
	}, zerolog.Nop())
	clock := fixedNow
	sessions.now = func() time.Time { return clock }

	var sids []string
	for range 3 {
		res, err := sessions.Login(ctx, LoginInput{Email: "admin@mxs.com", Password: "admin123"})
		require.NoError(t, err)
		require.True(t, sessionKeyExists(t, f, res.SessionID))
		sids = append(sids, res.SessionID)
	}

	n, err := sessions.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	clock = clock.Add(2 * time.Minute)
	n, err = sessions.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	for _, sid := range sids {
		assert.False(t, sessionKeyExists(t, f, sid))
	}

	n, err = sessions.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSessionManagerLoginDropsExpiredSessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sessions := NewSessionManager(f.store, f.users, credentials(t), SessionConfig{
		Secret:   "test-secret",
		TokenTTL: time.Minute,
	}, zerolog.Nop())
	clock := fixedNow
	sessions.now = func() time.Time { return clock }

	old, err := sessions.Login(ctx, LoginInput{Email: "admin@mxs.com", Password: "admin123"})
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	fresh, err := sessions.Login(ctx, LoginInput{Email: "maria@email.com", Password: "user123"})
	require.NoError(t, err)

	assert.False(t, sessionKeyExists(t, f, old.SessionID))
	assert.True(t, sessionKeyExists(t, f, fresh.SessionID))

	var index []sessionEntry
	_, err = store.GetJSON(ctx, f.store, store.KeySessions, &index)
	require.NoError(t, err)
	require.Len(t, index, 1)
	assert.Equal(t, fresh.SessionID, index[0].ID)
	assert.True(t, clock.Add(time.Minute).Equal(index[0].ExpiresAt))
}

func TestSessionManagerRecoversFromCorruptIndex(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sessions := newSessions(t, f)
	require.NoError(t, f.store.Set(ctx, store.KeySessions, []byte("{broken")))

	res, err := sessions.Login(ctx, LoginInput{Email: "admin@mxs.com", Password: "admin123"})
	require.NoError(t, err)

	var index []sessionEntry
	_, err = store.GetJSON(ctx, f.store, store.KeySessions, &index)
	require.NoError(t, err)
	require.Len(t, index, 1)
	assert.Equal(t, res.SessionID, index[0].ID)
}
