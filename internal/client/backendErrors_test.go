package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"string detail", 400, `{"detail":"Coupon has expired"}`, "Coupon has expired"},
		{"validation list", 422, `{"detail":[{"loc":["body","email"],"msg":"field required"}]}`, "field required"},
		{"object detail", 400, `{"detail":{"message":"Out of stock","variant_id":"v1"}}`, "Out of stock"},
		{"top level message", 400, `{"message":"Bad things"}`, "Bad things"},
		{"plain text", 502, `upstream timed out`, "upstream timed out"},
		{"empty body", 500, ``, "Internal Server Error"},
		{"empty detail list", 422, `{"detail":[]}`, "Unprocessable Entity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractDetail(tt.status, []byte(tt.body)))
		})
	}
}

func TestClassifiers(t *testing.T) {
	wrapped := func(status int) error {
		return fmt.Errorf("op: %w", &APIError{Method: "GET", Path: "/x", Status: status})
	}

	assert.True(t, IsBusiness(wrapped(http.StatusNotFound)))
	assert.False(t, IsBusiness(wrapped(http.StatusUnauthorized)))
	assert.True(t, IsUnauthorized(wrapped(http.StatusUnauthorized)))
	assert.True(t, IsTransient(wrapped(http.StatusBadGateway)))
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(&TransportError{Err: context.Canceled}))
	assert.Zero(t, StatusOf(errors.New("plain")))
	assert.Equal(t, "fallback", Detail(errors.New("plain"), "fallback"))
}
