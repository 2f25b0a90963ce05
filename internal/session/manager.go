package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"bookbnb/internal/domain"
	"bookbnb/internal/events"
	"bookbnb/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

type State int

const (
	StateInit State = iota
	StateAnonymous
	StateAuthenticated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var ErrClosed = errors.New("session is closed")

// Key returns the token storage key for a scope (a chat id in the bot).
// The empty scope maps to the plain auth_token key.
func Key(scope string) string {
	if scope == "" {
		return models.AuthTokenKey
	}
	return models.AuthTokenKey + ":" + scope
}

// Manager owns the current user and bearer token of one session.
type Manager struct {
	key    string
	store  domain.TokenStore
	auth   domain.AuthAPI
	events domain.EventPublisher
	logger *zerolog.Logger
	now    func() time.Time

	mu    sync.RWMutex
	state State
	token string
	user  *models.User
}

var _ domain.Session = (*Manager)(nil)

func NewManager(key string, store domain.TokenStore, auth domain.AuthAPI, publisher domain.EventPublisher, logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("session", key).Logger()
	return &Manager{
		key:    key,
		store:  store,
		auth:   auth,
		events: publisher,
		logger: &l,
		now:    time.Now,
		state:  StateInit,
	}
}

// Restore loads the persisted token and resolves it to a user through /auth/me.
// A missing, expired or rejected token leaves the session anonymous with no error.
// Transport failures keep the stored token so a later Restore can retry.
func (m *Manager) Restore(ctx context.Context) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateClosed {
		return nil, ErrClosed
	}

	token, err := m.store.GetToken(ctx, m.key)
	if err != nil {
		m.setAnonymous()
		return nil, fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		m.setAnonymous()
		return nil, nil
	}

	if m.expired(token) {
		m.logger.Info().Msg("Stored token has expired")
		m.clearStored(ctx)
		m.setAnonymous()
		m.publish(events.EventSessionEnded, nil, "expired")
		return nil, nil
	}

	user, err := m.auth.Me(ctx, token)
	if err != nil {
		m.setAnonymous()
		if domain.IsAuthError(err) {
			m.logger.Info().Err(err).Msg("Stored token rejected")
			m.clearStored(ctx)
			m.publish(events.EventSessionEnded, nil, "expired")
			return nil, nil
		}
		return nil, fmt.Errorf("restore session: %w", err)
	}

	m.setAuthenticated(token, user)
	m.publish(events.EventSessionStarted, user, "restore")
	return m.copyUser(), nil
}

func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	req := models.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	resp, err := m.auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, resp, "login")
}

func (m *Manager) Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	req := models.RegisterRequest{
		Email:     strings.TrimSpace(email),
		Password:  password,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	resp, err := m.auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, resp, "register")
}

func (m *Manager) establish(ctx context.Context, resp *models.AuthResponse, reason string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateClosed {
		return nil, ErrClosed
	}
	if err := m.store.SetToken(ctx, m.key, resp.Token); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}

	user := resp.User
	m.setAuthenticated(resp.Token, &user)
	m.publish(events.EventSessionStarted, &user, reason)
	m.logger.Info().Str("user_id", user.ID.String()).Str("role", user.Role).Msg("Session started")
	return m.copyUser(), nil
}

// Logout clears the stored token and the in-memory user regardless of the prior state.
func (m *Manager) Logout(ctx context.Context) error {
	return m.end(ctx, "logout")
}

// Invalidate is called when the backend rejects the token.
func (m *Manager) Invalidate(ctx context.Context) {
	if err := m.end(ctx, "expired"); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to clear rejected token")
	}
}

func (m *Manager) end(ctx context.Context, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.user
	m.setAnonymous()

	err := m.store.DeleteToken(ctx, m.key)
	if prev != nil {
		m.publish(events.EventSessionEnded, prev, reason)
	}
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Close drops the in-memory state. The stored token is kept for the next Restore.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = nil
	m.state = StateClosed
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// User returns a copy of the current user, or nil when anonymous.
func (m *Manager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.copyUser()
}

func (m *Manager) RequireUser() (*models.User, error) {
	user := m.User()
	if user == nil {
		return nil, &domain.AuthError{Err: domain.ErrUnauthenticated}
	}
	return user, nil
}

func (m *Manager) RequireAdmin() (*models.User, error) {
	user, err := m.RequireUser()
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, &domain.AuthError{Status: 403, Err: domain.ErrForbidden}
	}
	return user, nil
}

// expired reports whether token is a JWT whose exp claim is already past.
// Opaque tokens are left for the backend to judge.
func (m *Manager) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(m.now())
}

func (m *Manager) clearStored(ctx context.Context) {
	if err := m.store.DeleteToken(ctx, m.key); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to delete stored token")
	}
}

func (m *Manager) setAuthenticated(token string, user *models.User) {
	m.token = token
	m.user = user
	m.state = StateAuthenticated
}

func (m *Manager) setAnonymous() {
	m.token = ""
	m.user = nil
	if m.state != StateClosed {
		m.state = StateAnonymous
	}
}

func (m *Manager) copyUser() *models.User {
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

func (m *Manager) publish(eventType string, user *models.User, reason string) {
	if m.events == nil {
		return
	}
	payload := events.SessionEventPayload{SessionKey: m.key, Reason: reason}
	if user != nil {
		payload.UserID = user.ID
		payload.Email = user.Email
		payload.Role = user.Role
	}
	if err := m.events.PublishJSON(eventType, payload); err != nil {
		m.logger.Warn().Err(err).Str("event", eventType).Msg("Failed to publish session event")
	}
}
