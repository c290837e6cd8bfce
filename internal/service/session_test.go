package service

import (
	"context"
	"net/http"
	"spice-storefront/internal/repository"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func storedKeys(t *testing.T, env *testEnv) (token, user bool) {
	t.Helper()
	ctx := context.Background()
	_, token, err := env.storage.Get(ctx, repository.KeyToken)
	require.NoError(t, err)
	_, user, err = env.storage.Get(ctx, repository.KeyUser)
	require.NoError(t, err)
	return token, user
}

func TestLoginStoresTokenAndUser(t *testing.T) {
	env := newTestEnv(t)
	env.backend.cart = nil

	user, err := env.session.Login(context.Background(), " "+testEmail+" ", testPassword)
	require.NoError(t, err)

	assert.Equal(t, "user-1", user.ID)
	assert.True(t, env.session.IsAuthenticated())
	assert.Equal(t, testToken, env.session.Token())

	token, userKey := storedKeys(t, env)
	assert.True(t, token)
	assert.True(t, userKey)

	// login reloads the cart
	assert.Equal(t, 1, env.backend.count("GET /api/cart/"))
}

func TestLoginValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.session.Login(context.Background(), "", testPassword)
	assert.True(t, IsValidation(err))

	_, err = env.session.Login(context.Background(), testEmail, "")
	assert.True(t, IsValidation(err))

	assert.Zero(t, env.backend.count("POST /api/auth/login"))
}

func TestLoginRejectedByBackend(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.session.Login(context.Background(), testEmail, "wrong")
	require.Error(t, err)
	assert.False(t, env.session.IsAuthenticated())

	token, _ := storedKeys(t, env)
	assert.False(t, token)
}

func TestLogoutClearsStorageAndCart(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.addToCart(t, "var-turmeric-100", 1)
	require.Len(t, env.cart.Items(), 1)

	redirect := env.session.Logout(context.Background())

	assert.Equal(t, "/login", redirect)
	assert.False(t, env.session.IsAuthenticated())
	assert.Empty(t, env.session.Token())
	assert.Empty(t, env.cart.Items())
	assert.Nil(t, env.pricing.State().Preview)

	token, user := storedKeys(t, env)
	assert.False(t, token)
	assert.False(t, user)
}

func TestBootstrap(t *testing.T) {
	tests := []struct {
		name       string
		token      func(t *testing.T) string
		meStatus   int
		wantAuth   bool
		wantMeHits int
	}{
		{
			name:       "no stored token stays anonymous",
			token:      func(*testing.T) string { return "" },
			wantMeHits: 0,
		},
		{
			name: "expired jwt is cleared without a network call",
			token: func(t *testing.T) string {
				return signedToken(t, time.Now().Add(-time.Hour))
			},
			wantMeHits: 0,
		},
		{
			name:       "rejected token is cleared silently",
			token:      func(*testing.T) string { return testToken },
			meStatus:   http.StatusUnauthorized,
			wantMeHits: 1,
		},
		{
			name:       "backend failure clears silently",
			token:      func(*testing.T) string { return testToken },
			meStatus:   http.StatusInternalServerError,
			wantMeHits: 1,
		},
		{
			name:       "valid token restores the user",
			token:      func(*testing.T) string { return testToken },
			wantAuth:   true,
			wantMeHits: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.backend.meStatus = tt.meStatus
			ctx := context.Background()

			if token := tt.token(t); token != "" {
				require.NoError(t, env.storage.Set(ctx, repository.KeyToken, token))
				require.NoError(t, env.storage.Set(ctx, repository.KeyUser, `{"id":"user-1"}`))
			}

			require.NoError(t, env.session.Bootstrap(ctx))

			assert.Equal(t, tt.wantAuth, env.session.IsAuthenticated())
			assert.Equal(t, tt.wantMeHits, env.backend.count("GET /api/auth/me"))

			token, user := storedKeys(t, env)
			assert.Equal(t, tt.wantAuth, token)
			assert.Equal(t, tt.wantAuth, user)
			if !tt.wantAuth {
				assert.Nil(t, env.session.CurrentUser())
				assert.Empty(t, env.session.Token())
			}
		})
	}
}

func TestBootstrapClearPublishesLogoutOnce(t *testing.T) {
	env := newTestEnv(t)
	env.backend.meStatus = http.StatusUnauthorized
	ctx := context.Background()
	require.NoError(t, env.storage.Set(ctx, repository.KeyToken, testToken))

	logouts := 0
	env.bus.Subscribe(EventLogout, func(context.Context, EventKind) { logouts++ })

	require.NoError(t, env.session.Bootstrap(ctx))
	assert.Equal(t, 1, logouts)
}

func TestRefreshUserRewritesStoredUser(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.backend.user.FullName = "Asha R."

	user, err := env.session.RefreshUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Asha R.", user.FullName)

	raw, ok, err := env.storage.Get(context.Background(), repository.KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, "Asha R.")
}

func TestIdentityRejectionExpiresSession(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.backend.meStatus = http.StatusUnauthorized

	_, err := env.session.RefreshUser(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.False(t, env.session.IsAuthenticated())

	token, _ := storedKeys(t, env)
	assert.False(t, token)
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	assert.True(t, tokenExpired(signedToken(t, now.Add(-time.Minute)), now))
	assert.False(t, tokenExpired(signedToken(t, now.Add(time.Hour)), now))
	assert.False(t, tokenExpired("opaque-token", now))
}
