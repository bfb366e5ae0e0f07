// Package remote is the typed HTTP client for the tutoring REST API.
// Every collection the screens use (alunos, aulas, pagamentos,
// materiais-didaticos, materia) plus auth and user lookup goes through Client.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"cantinho/common/metrics"
)

var (
	ErrUnauthorized = errors.New("remote: unauthorized")
	ErrNotFound     = errors.New("remote: not found")
	ErrConflict     = errors.New("remote: conflict")
)

// Error is a non-2xx answer from the API.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d", e.Method, e.Path, e.StatusCode)
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	}
	return false
}

// TokenSource yields the bearer token to attach, or "" for none.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.RemoteMetrics

	mu             sync.RWMutex
	tokens         TokenSource
	onUnauthorized func()
}

func NewClient(baseURL string, timeout time.Duration, m *metrics.RemoteMetrics) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: m,
	}
}

// SetTokenSource makes every later request carry "Authorization: Bearer <token>".
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

// OnUnauthorized registers fn to run whenever an authenticated request gets a 401.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) BaseURL() string { return c.baseURL }

type request struct {
	method   string
	path     string
	query    url.Values
	body     io.Reader
	header   http.Header
	resource string
	// anonymous requests carry no token and never trigger the 401 hook
	anonymous bool
}

func jsonBody(v interface{}) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return bytes.NewReader(b), nil
}

func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	c.mu.RLock()
	tokens, hook := c.tokens, c.onUnauthorized
	c.mu.RUnlock()

	if !r.anonymous && tokens != nil {
		if token := tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	done := c.metrics.Start(ctx, r.method, r.resource)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		done(0, err)
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	done(resp.StatusCode, nil)

	if resp.StatusCode >= 400 {
		apiErr := &Error{
			Method:     r.method,
			Path:       r.path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
		if resp.StatusCode == http.StatusUnauthorized && !r.anonymous && hook != nil {
			hook()
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the "message" field of an error body. The API sends
// either a string or a list of validation messages.
func errorMessage(body io.Reader) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 64<<10)).Decode(&payload); err != nil || len(payload.Message) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(payload.Message, &single); err == nil {
		return single
	}
	var list []string
	if err := json.Unmarshal(payload.Message, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return ""
}

// Message returns the API's own explanation carried by err, if any.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
