package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is any non-2xx answer from the backend.
type APIError struct {
	Method string
	Path   string
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %s %s: %d %s", e.Method, e.Path, e.Status, e.Detail)
}

// TransportError means the backend could not be reached or the body could not be read.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsBusiness reports an expected 4xx rejection such as an invalid coupon.
func IsBusiness(err error) bool {
	status := StatusOf(err)
	return status >= 400 && status < 500 && status != http.StatusUnauthorized
}

func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// IsTransient reports server failures and unreachable backends, the cases worth a retry.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if StatusOf(err) >= 500 {
		return true
	}
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// Detail returns the human readable message carried by a backend error.
func Detail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

func extractDetail(status int, raw []byte) string {
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		text := strings.TrimSpace(string(raw))
		if text == "" || len(text) > 200 {
			return http.StatusText(status)
		}
		return text
	}

	if len(body.Detail) > 0 {
		var text string
		if err := json.Unmarshal(body.Detail, &text); err == nil && text != "" {
			return text
		}

		var list []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(body.Detail, &list); err == nil && len(list) > 0 && list[0].Msg != "" {
			return list[0].Msg
		}

		var obj struct {
			Message string `json:"message"`
			Msg     string `json:"msg"`
		}
		if err := json.Unmarshal(body.Detail, &obj); err == nil {
			if obj.Message != "" {
				return obj.Message
			}
			if obj.Msg != "" {
				return obj.Msg
			}
		}
	}

	if body.Message != "" {
		return body.Message
	}
	return http.StatusText(status)
}
