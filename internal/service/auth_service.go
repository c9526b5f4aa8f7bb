package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/repository"
	"github.com/gmviana11/fornecedor-conecta/internal/store"
)

// ErrInvalidCredentials is returned for an unknown email and for a wrong
// password alike.
var ErrInvalidCredentials error = apperrors.NewUnauthorized("invalid credentials")

// CredentialVerifier checks an email/password pair.
type CredentialVerifier interface {
	Verify(email, password string) bool
}

// AuthService is the session manager for one session scope. The current
// user is read once from the store and cached until Login or Logout.
type AuthService struct {
	store store.Store
	users *repository.UserRepository
	creds CredentialVerifier
	delay time.Duration
	log   zerolog.Logger

	mu      sync.RWMutex
	current *models.User
}

// NewAuthService restores the persisted session from s. A session record
// that cannot be decoded is logged, removed and treated as anonymous.
func NewAuthService(
	ctx context.Context,
	s store.Store,
	users *repository.UserRepository,
	creds CredentialVerifier,
	delay time.Duration,
	log zerolog.Logger,
) (*AuthService, error) {
	svc := &AuthService{
		store: s,
		users: users,
		creds: creds,
		delay: delay,
		log:   log,
	}

	var user models.User
	found, err := store.GetJSON(ctx, s, store.KeyAuthUser, &user)
	switch {
	case err != nil && found:
		log.Warn().Err(err).Msg("discarding invalid stored session")
		if err := s.Remove(ctx, store.KeyAuthUser); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case found:
		svc.current = &user
	}
	return svc, nil
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	User models.User
	Err  error
}

// Login waits for the configured delay, then checks the credentials and
// persists the matching user as the current session. On failure the session
// is left as it was.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (models.User, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return models.User{}, ctx.Err()
		case <-timer.C:
		}
	}

	email := strings.TrimSpace(input.Email)
	if !s.creds.Verify(email, input.Password) {
		return models.User{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.log.Warn().Str("email", email).Msg("credential without user record")
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := store.SetJSON(ctx, s.store, store.KeyAuthUser, user); err != nil {
		return models.User{}, apperrors.NewInternal("persist session", err)
	}
	s.current = &user
	return user.Clone(), nil
}

// LoginAsync runs Login in the background. The channel receives exactly one
// result and is then closed.
func (s *AuthService) LoginAsync(ctx context.Context, input LoginInput) <-chan LoginResult {
	out := make(chan LoginResult, 1)
	go func() {
		defer close(out)
		user, err := s.Login(ctx, input)
		out <- LoginResult{User: user, Err: err}
	}()
	return out
}

func (s *AuthService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Remove(ctx, store.KeyAuthUser); err != nil {
		return apperrors.NewInternal("clear session", err)
	}
	s.current = nil
	return nil
}

func (s *AuthService) CurrentUser() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.User{}, false
	}
	return s.current.Clone(), true
}
