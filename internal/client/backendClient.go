package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"spice-storefront/internal/config"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// TokenSource yields the bearer token attached to every backend call.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string {
	return f()
}

// BackendClient is the typed view of the storefront REST API.
type BackendClient interface {
	AuthAPI
	CartAPI
	CatalogAPI
	CheckoutAPI
	OrderAPI
	AdminAPI

	// OnSessionExpired registers the hook run when the identity check answers 401.
	OnSessionExpired(fn func(ctx context.Context))
}

type backendClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	tokens     TokenSource

	mu             sync.RWMutex
	sessionExpired func(ctx context.Context)
}

func NewBackendClient(backendCfg *config.Backend, tokens TokenSource) BackendClient {
	return &backendClientImpl{
		httpClient: &http.Client{
			Timeout: backendCfg.Timeout,
		},
		baseApiURL: strings.TrimRight(backendCfg.BaseURL, "/") + "/api",
		tokens:     tokens,
	}
}

func (c *backendClientImpl) OnSessionExpired(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionExpired = fn
}

const identityPath = "/auth/me"

type requestOption func(req *http.Request)

func withHeader(key, value string) requestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

func (c *backendClientImpl) do(ctx context.Context, method, path string, query url.Values, in, out any, opts ...requestOption) error {
	target := c.baseApiURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal req payload: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized && strings.Contains(path, identityPath) {
			c.expireSession(ctx)
		}
		return &APIError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Detail: extractDetail(resp.StatusCode, raw),
		}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *backendClientImpl) expireSession(ctx context.Context) {
	c.mu.RLock()
	fn := c.sessionExpired
	c.mu.RUnlock()

	if fn != nil {
		fn(ctx)
	}
}

func (c *backendClientImpl) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *backendClientImpl) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, in, out)
}

func (c *backendClientImpl) put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, in, out)
}

func (c *backendClientImpl) patch(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, in, out)
}

func (c *backendClientImpl) delete(ctx context.Context, path string, query url.Values) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, nil)
}
