package middleware

import (
	"net/http"
	"net/http/httptest"
	"spice-storefront/internal/model"
	"spice-storefront/internal/service"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type stubSession struct {
	service.SessionService
	user *model.User
}

func (s stubSession) CurrentUser() *model.User {
	return s.user
}

func runGuard(guard echo.MiddlewareFunc) (*model.User, error) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/admin/products", nil), httptest.NewRecorder())

	var seen *model.User
	err := guard(func(c echo.Context) error {
		seen, _ = c.Get(userKey).(*model.User)
		return nil
	})(c)
	return seen, err
}

func TestRequireSession(t *testing.T) {
	_, err := runGuard(RequireSession(stubSession{}))
	assert.ErrorIs(t, err, service.ErrNotAuthenticated)

	customer := &model.User{ID: "user-1", Role: model.RoleCustomer}
	seen, err := runGuard(RequireSession(stubSession{user: customer}))
	assert.NoError(t, err)
	assert.Equal(t, customer, seen)
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name string
		user *model.User
		want error
	}{
		{"anonymous", nil, service.ErrNotAuthenticated},
		{"customer", &model.User{ID: "user-1", Role: model.RoleCustomer}, service.ErrForbidden},
		{"admin", &model.User{ID: "admin-1", Role: model.RoleAdmin}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen, err := runGuard(RequireAdmin(stubSession{user: tt.user}))
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				assert.Nil(t, seen)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.user, seen)
		})
	}
}
