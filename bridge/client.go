package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// CallPath is the host endpoint every bridge call is posted to.
const CallPath = "/_native/api/call"

// Client submits call envelopes to the native host and decodes response
// envelopes. One instance is shared across all namespace facades.
type Client struct {
	base   string
	httpc  *http.Client
	tokens TokenSource
	logger *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithTokenSource sets the anti-forgery token source. The token is
// best-effort: a failing or absent source sends an empty token instead of
// failing the call locally.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client talking to the host at base
// (e.g. "http://127.0.0.1:4723").
func NewClient(base string, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimRight(base, "/"),
		httpc:  &http.Client{Timeout: 60 * time.Second},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call submits one call envelope and returns the success payload.
//
// An error-status envelope is returned as *Error carrying the host message.
// Non-2xx responses and malformed response bodies are returned as plain
// errors. Exactly one request is issued per Call; retries are the caller's
// responsibility.
func (c *Client) Call(ctx context.Context, method string, params Params) (json.RawMessage, error) {
	if method == "" {
		return nil, fmt.Errorf("bridge: method must not be empty")
	}

	req, err := c.newRequest(ctx, method, params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bridge: %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("bridge: %s: unexpected status %s", method, resp.Status)
	}

	var env responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("bridge: %s: decode response: %w", method, err)
	}

	switch env.Status {
	case statusSuccess:
		return env.Data, nil
	case statusError:
		msg := env.Message
		if msg == "" {
			msg = fallbackMessage
		}
		return nil, &Error{Method: method, Message: msg}
	default:
		return nil, fmt.Errorf("bridge: %s: unknown response status %q", method, env.Status)
	}
}

// CallSync submits one call envelope and returns once the host has
// acknowledged receipt, without parsing the response. There is no success or
// failure signal; delivery is best-effort. Meant for teardown paths that
// cannot wait on a result, such as a page-unload hook.
func (c *Client) CallSync(method string, params Params) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := c.newRequest(ctx, method, params)
	if err != nil {
		c.logger.Debug("bridge sync call not sent", "method", method, "err", err)
		return
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Debug("bridge sync call failed", "method", method, "err", err)
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func (c *Client) newRequest(ctx context.Context, method string, params Params) (*http.Request, error) {
	if params == nil {
		params = Params{}
	}

	body, err := json.Marshal(callEnvelope{Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("bridge: %s: encode request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+CallPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("bridge: %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-TOKEN", c.token(ctx))
	return req, nil
}

func (c *Client) token(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.logger.Warn("anti-forgery token unavailable", "err", err)
		return ""
	}
	return token
}
