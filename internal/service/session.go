package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"spice-storefront/internal/client"
	"spice-storefront/internal/model"
	"spice-storefront/internal/repository"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const LoginPath = "/login"

type SessionService interface {
	// Bootstrap restores a stored session. A stored token that no longer
	// resolves to a user is cleared silently.
	Bootstrap(ctx context.Context) error
	Login(ctx context.Context, email, password string) (*model.User, error)
	Register(ctx context.Context, reg model.Registration) (*model.User, error)
	// Logout clears the session and returns the path to send the user to.
	Logout(ctx context.Context) string
	RefreshUser(ctx context.Context) (*model.User, error)
	// Expire is the hook for a rejected identity check.
	Expire(ctx context.Context)

	CurrentUser() *model.User
	IsAuthenticated() bool
	Token() string
}

type sessionServiceImpl struct {
	authApi client.AuthAPI
	storage repository.StorageRepository
	bus     *Bus
	now     func() time.Time

	mu    sync.RWMutex
	token string
	user  *model.User
}

func NewSessionService(
	authApi client.AuthAPI,
	storage repository.StorageRepository,
	bus *Bus,
) SessionService {
	return &sessionServiceImpl{
		authApi: authApi,
		storage: storage,
		bus:     bus,
		now:     time.Now,
	}
}

func (s *sessionServiceImpl) Bootstrap(ctx context.Context) error {
	token, ok, err := s.storage.Get(ctx, repository.KeyToken)
	if err != nil {
		return fmt.Errorf("read stored token: %w", err)
	}
	if !ok || token == "" {
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if tokenExpired(token, s.now()) {
		slog.Info("stored token expired, clearing session")
		s.clear(ctx, true)
		return nil
	}

	if _, err := s.RefreshUser(ctx); err != nil {
		slog.Warn("restore session failed, clearing stored credentials", "error", err)
		s.clear(ctx, true)
	}
	return nil
}

func (s *sessionServiceImpl) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, invalid("email", "email is required")
	}
	if password == "" {
		return nil, invalid("password", "password is required")
	}

	res, err := s.authApi.Login(ctx, model.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, res)
}

func (s *sessionServiceImpl) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	switch {
	case reg.Email == "":
		return nil, invalid("email", "email is required")
	case strings.TrimSpace(reg.FullName) == "":
		return nil, invalid("full_name", "full name is required")
	case len(reg.Password) < 6:
		return nil, invalid("password", "password must be at least 6 characters")
	}

	res, err := s.authApi.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, res)
}

func (s *sessionServiceImpl) establish(ctx context.Context, res *model.AuthToken) (*model.User, error) {
	if err := s.storage.Set(ctx, repository.KeyToken, res.Token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	if err := s.storeUser(ctx, &res.User); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = res.Token
	s.user = cloneUser(&res.User)
	s.mu.Unlock()

	s.bus.Publish(ctx, EventLogin)
	return cloneUser(&res.User), nil
}

func (s *sessionServiceImpl) Logout(ctx context.Context) string {
	s.clear(ctx, true)
	return LoginPath
}

func (s *sessionServiceImpl) RefreshUser(ctx context.Context) (*model.User, error) {
	if s.Token() == "" {
		return nil, ErrNotAuthenticated
	}

	user, err := s.authApi.Me(ctx)
	if err != nil {
		if client.IsUnauthorized(err) {
			return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}
		return nil, err
	}
	if err := s.storeUser(ctx, user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = cloneUser(user)
	s.mu.Unlock()

	return cloneUser(user), nil
}

func (s *sessionServiceImpl) Expire(ctx context.Context) {
	slog.Info("identity check rejected, clearing session")
	s.clear(ctx, true)
}

func (s *sessionServiceImpl) CurrentUser() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.user)
}

func (s *sessionServiceImpl) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *sessionServiceImpl) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// clear drops both stored keys. The logout event fires only when a session
// actually existed, so repeated clears stay quiet.
func (s *sessionServiceImpl) clear(ctx context.Context, announce bool) {
	if err := s.storage.Remove(ctx, repository.KeyToken, repository.KeyUser); err != nil {
		slog.Error("remove stored credentials", "error", err)
	}

	s.mu.Lock()
	active := s.token != "" || s.user != nil
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if announce && active {
		s.bus.Publish(ctx, EventLogout)
	}
}

func (s *sessionServiceImpl) storeUser(ctx context.Context, user *model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.storage.Set(ctx, repository.KeyUser, string(raw)); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

// tokenExpired reads the exp claim without verifying the signature; only the
// backend can verify. Tokens that are not JWTs are never considered expired.
func tokenExpired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(now)
}

func cloneUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Addresses = slices.Clone(u.Addresses)
	return &c
}
