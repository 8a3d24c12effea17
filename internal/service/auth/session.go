package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sisera-crm/internal/domain"
	"sisera-crm/internal/logging"
	"sisera-crm/internal/repository/state"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// StorageKey is the state entry holding the signed-in user.
const StorageKey = "auth-storage"

const (
	adminEmail    = "admin@sisera.be"
	adminPassword = "admin123"
)

// State is the observable session state. IsLoading is never persisted.
type State struct {
	User            *domain.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	IsLoading       bool         `json:"isLoading"`
}

type persisted struct {
	User            *domain.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Session is the back-office login state. Only the built-in admin account can
// sign in.
type Session struct {
	repo      state.Repository
	logger    *zap.Logger
	now       func() time.Time
	adminHash []byte

	mu    sync.RWMutex
	state State
}

// Option customises a Session.
type Option func(*Session)

// WithClock overrides the source of the user's creation time.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession restores the persisted session from repo, if any.
func NewSession(ctx context.Context, repo state.Repository, logger *zap.Logger, opts ...Option) (*Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	s := &Session{
		repo:      repo,
		logger:    logging.OrNop(logger),
		now:       time.Now,
		adminHash: hash,
	}
	for _, opt := range opts {
		opt(s)
	}

	var p persisted
	ok, err := state.LoadJSON(ctx, repo, StorageKey, &p)
	if err != nil {
		s.logger.Warn("restore session", zap.Error(err))
	} else if ok {
		s.state = State{User: p.User, IsAuthenticated: p.IsAuthenticated && p.User != nil}
	}
	return s, nil
}

// Login signs in the admin account. Wrong credentials return false with a nil
// error and leave the session untouched.
func (s *Session) Login(ctx context.Context, email, password string) (bool, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	if email != adminEmail || bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)) != nil {
		s.logger.Info("login rejected", zap.String("email", email))
		return false, nil
	}
	user := &domain.User{
		ID:        "1",
		Email:     adminEmail,
		Name:      "Admin Sisera",
		Role:      domain.RoleAdmin,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store(ctx, user, true); err != nil {
		return false, err
	}
	s.logger.Info("login succeeded", zap.String("user_id", user.ID))
	return true, nil
}

// Logout clears the session and drops its persisted copy.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Delete(ctx, StorageKey); err != nil {
		return err
	}
	s.state.User = nil
	s.state.IsAuthenticated = false
	return nil
}

// SetUser marks user as signed in without checking credentials.
func (s *Session) SetUser(ctx context.Context, user domain.User) error {
	return s.store(ctx, &user, true)
}

// State returns a copy of the session state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.state
	if out.User != nil {
		u := *out.User
		out.User = &u
	}
	return out
}

// IsAuthenticated reports whether a user is signed in.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

func (s *Session) store(ctx context.Context, user *domain.User, authenticated bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := state.SaveJSON(ctx, s.repo, StorageKey, persisted{User: user, IsAuthenticated: authenticated}); err != nil {
		return err
	}
	s.state.User = user
	s.state.IsAuthenticated = authenticated
	return nil
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.state.IsLoading = v
	s.mu.Unlock()
}
