// Package session owns the signed-in tutor: the access token, the user it
// belongs to and where the token is persisted between runs.
package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cantinho/internal/activity"
	"cantinho/internal/metrics"
	"cantinho/internal/remote"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidCredentials = errors.New("incorrect credentials")
	ErrUnauthenticated    = errors.New("not signed in")
	ErrInvalidInput       = errors.New("invalid input")
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

// Backend is the part of the remote client the session drives.
type Backend interface {
	Login(ctx context.Context, email, password string) (string, error)
	GetUser(ctx context.Context, id int) (*remote.User, error)
	SetTokenSource(ts remote.TokenSource)
	OnUnauthorized(fn func())
}

// Manager is the single owner of the session state. The remote client reads
// the token through Token; a 401 on any authenticated call signs out.
type Manager struct {
	backend  Backend
	store    TokenStore
	validate *validator.Validate
	activity *activity.Recorder
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.RWMutex
	token  string
	claims Claims
	user   *remote.User
}

func NewManager(backend Backend, store TokenStore, validate *validator.Validate, recorder *activity.Recorder, m *metrics.Metrics, logger *slog.Logger) *Manager {
	mgr := &Manager{
		backend:  backend,
		store:    store,
		validate: validate,
		activity: recorder,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}

	backend.SetTokenSource(mgr)
	backend.OnUnauthorized(func() {
		logger.Warn("backend rejected the session token, signing out")
		mgr.SignOut(context.Background())
	})

	return mgr
}

// Restore picks up a previously stored token. Expired tokens are discarded
// without asking the backend; any other failure also ends signed out.
func (m *Manager) Restore(ctx context.Context) error {
	token, err := m.store.Load(ctx)
	if errors.Is(err, ErrNoToken) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load stored token: %w", err)
	}

	claims, err := DecodeToken(token)
	if err != nil {
		m.logger.WarnContext(ctx, "stored token is unreadable", "error", err)
		m.clear(ctx)
		return nil
	}
	if claims.Expired(m.now()) {
		m.logger.InfoContext(ctx, "stored token expired", "expired_at", claims.ExpiresAt)
		m.clear(ctx)
		return nil
	}

	m.setToken(token, claims)

	user, err := m.backend.GetUser(ctx, claims.Subject)
	if err != nil {
		m.clear(ctx)
		return fmt.Errorf("failed to load signed-in user: %w", err)
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "session restored", "user_id", user.ID)
	return nil
}

func (m *Manager) SignIn(ctx context.Context, req LoginRequest) (*remote.User, error) {
	user, err := m.signIn(ctx, req)
	m.metrics.RecordSignIn(ctx, err)
	return user, err
}

func (m *Manager) signIn(ctx context.Context, req LoginRequest) (*remote.User, error) {
	if err := m.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	token, err := m.backend.Login(ctx, req.Email, req.Password)
	if errors.Is(err, remote.ErrUnauthorized) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	claims, err := DecodeToken(token)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, token); err != nil {
		return nil, err
	}
	m.setToken(token, claims)

	user, err := m.backend.GetUser(ctx, claims.Subject)
	if err != nil {
		m.clear(ctx)
		return nil, fmt.Errorf("failed to load signed-in user: %w", err)
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "signed in", "user_id", user.ID)
	m.activity.Record(ctx, activity.SessionSignedIn, user.ID)
	return user, nil
}

// SignOut forgets the token and user and removes the stored token.
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.RLock()
	user := m.user
	m.mu.RUnlock()

	m.clear(ctx)

	if user != nil {
		m.logger.InfoContext(ctx, "signed out", "user_id", user.ID)
		m.activity.Record(ctx, activity.SessionSignedOut, user.ID)
	}
}

// Token satisfies remote.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) User() *remote.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// IsAuthenticated is true while a user is loaded and the token has not expired.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.token != "" && !m.claims.Expired(m.now())
}

// Authorize admits a request carrying the managed token while it is still
// valid. A managed token that has run out ends the session.
func (m *Manager) Authorize(ctx context.Context, presented string) (*remote.User, error) {
	m.mu.RLock()
	token, claims, user := m.token, m.claims, m.user
	m.mu.RUnlock()

	now := m.now()
	if token != "" && claims.Expired(now) {
		m.logger.InfoContext(ctx, "session token expired", "expired_at", claims.ExpiresAt)
		m.SignOut(ctx)
		return nil, ErrUnauthenticated
	}
	if token == "" || user == nil || presented == "" {
		return nil, ErrUnauthenticated
	}

	presentedClaims, err := DecodeToken(presented)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	if presentedClaims.Expired(now) {
		return nil, fmt.Errorf("%w: token expired", ErrUnauthenticated)
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
		return nil, fmt.Errorf("%w: token does not belong to the session", ErrUnauthenticated)
	}

	return user, nil
}

func (m *Manager) setToken(token string, claims Claims) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.claims = claims
}

func (m *Manager) clear(ctx context.Context) {
	m.mu.Lock()
	m.token = ""
	m.claims = Claims{}
	m.user = nil
	m.mu.Unlock()

	if err := m.store.Delete(ctx); err != nil {
		m.logger.WarnContext(ctx, "failed to delete stored token", "error", err)
	}
}
