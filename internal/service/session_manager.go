package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/repository"
	"github.com/gmviana11/fornecedor-conecta/internal/security"
	"github.com/gmviana11/fornecedor-conecta/internal/store"
)

type SessionConfig struct {
	Secret     string
	TokenTTL   time.Duration
	LoginDelay time.Duration
}

// SessionManager hands every login its own store scope, the server-side
// counterpart of one browser's local storage, and issues a bearer token
// naming that scope.
//
// Every issued session is listed under store.KeySessions with its expiry so
// that Sweep can drop the scopes of tokens that can no longer be used.
type SessionManager struct {
	base  store.Store
	users *repository.UserRepository
	creds CredentialVerifier
	cfg   SessionConfig
	log   zerolog.Logger
	now   func() time.Time

	mu sync.Mutex
}

func NewSessionManager(base store.Store, users *repository.UserRepository, creds CredentialVerifier, cfg SessionConfig, log zerolog.Logger) *SessionManager {
	return &SessionManager{base: base, users: users, creds: creds, cfg: cfg, log: log, now: time.Now}
}

type sessionEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func sessionPrefix(sid string) string {
	return "session:" + sid + ":"
}

// Open returns the session manager for sid.
func (m *SessionManager) Open(ctx context.Context, sid string) (*AuthService, error) {
	return NewAuthService(ctx, store.WithPrefix(m.base, sessionPrefix(sid)), m.users, m.creds, m.cfg.LoginDelay, m.log)
}

type AuthResult struct {
	AccessToken string
	SessionID   string
	User        models.User
}

func (m *SessionManager) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	sid := uuid.NewString()
	auth, err := m.Open(ctx, sid)
	if err != nil {
		return AuthResult{}, err
	}

	res := <-auth.LoginAsync(ctx, input)
	if res.Err != nil {
		return AuthResult{}, res.Err
	}

	token, err := security.GenerateAccessToken(m.cfg.Secret, res.User.ID, sid, string(res.User.Type), m.cfg.TokenTTL)
	if err != nil {
		_ = auth.Logout(ctx)
		return AuthResult{}, apperrors.NewInternal("issue token", err)
	}

	entry := sessionEntry{ID: sid, UserID: res.User.ID, ExpiresAt: m.now().Add(m.cfg.TokenTTL)}
	if err := m.track(ctx, entry); err != nil {
		_ = auth.Logout(ctx)
		return AuthResult{}, apperrors.NewInternal("track session", err)
	}

	m.log.Info().Str("user_id", res.User.ID).Str("session_id", sid).Msg("login")
	return AuthResult{AccessToken: token, SessionID: sid, User: res.User}, nil
}

// Authenticate resolves a bearer token to its live session. A token whose
// session was logged out is rejected even before it expires.
func (m *SessionManager) Authenticate(ctx context.Context, token string) (*AuthService, models.User, error) {
	claims, err := security.ParseAccessToken(token, m.cfg.Secret)
	if err != nil {
		return nil, models.User{}, apperrors.NewUnauthorized("invalid token")
	}

	auth, err := m.Open(ctx, claims.SessionID)
	if err != nil {
		return nil, models.User{}, err
	}

	user, ok := auth.CurrentUser()
	if !ok || user.ID != claims.UserID {
		return nil, models.User{}, apperrors.NewUnauthorized("session ended")
	}
	return auth, user, nil
}

// track records entry and drops sessions that have already expired.
func (m *SessionManager) track(ctx context.Context, entry sessionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	live, _, err := m.sweepLocked(ctx)
	if err != nil {
		return err
	}
	live = append(live, entry)
	return store.SetJSON(ctx, m.base, store.KeySessions, live)
}

// Sweep removes the store scope of every expired session and returns how
// many were removed.
func (m *SessionManager) Sweep(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	live, removed, err := m.sweepLocked(ctx)
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		return 0, nil
	}
	if err := store.SetJSON(ctx, m.base, store.KeySessions, live); err != nil {
		return 0, err
	}
	m.log.Info().Int("removed", removed).Int("live", len(live)).Msg("expired sessions swept")
	return removed, nil
}

// sweepLocked removes expired session keys and returns the live entries
// with the number removed. The index itself is left for the caller to write.
func (m *SessionManager) sweepLocked(ctx context.Context) ([]sessionEntry, int, error) {
	var entries []sessionEntry
	found, err := store.GetJSON(ctx, m.base, store.KeySessions, &entries)
	if err != nil && found {
		m.log.Warn().Err(err).Msg("discarding invalid session index")
		entries = nil
	} else if err != nil {
		return nil, 0, err
	}

	now := m.now()
	live := make([]sessionEntry, 0, len(entries))
	for _, e := range entries {
		if now.Before(e.ExpiresAt) {
			live = append(live, e)
			continue
		}
		if err := m.base.Remove(ctx, sessionPrefix(e.ID)+store.KeyAuthUser); err != nil {
			return nil, 0, err
		}
	}
	return live, len(entries) - len(live), nil
}
