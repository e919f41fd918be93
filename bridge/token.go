package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/quaybridge/quay/internal/cache"
)

// TokenPath is the host endpoint that mints anti-forgery tokens.
const TokenPath = "/_native/api/token"

// TokenSource supplies the anti-forgery token attached to bridge calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token, typically injected into the page environment
// by the host at startup.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// EndpointTokenSource fetches the token from the host's token endpoint and
// caches it. Concurrent fetches are collapsed into one request.
type EndpointTokenSource struct {
	url    string
	httpc  *http.Client
	ttl    time.Duration
	tokens *cache.Single[string]
}

func NewEndpointTokenSource(base string, httpc *http.Client) *EndpointTokenSource {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &EndpointTokenSource{
		url:    strings.TrimRight(base, "/") + TokenPath,
		httpc:  httpc,
		ttl:    5 * time.Minute,
		tokens: cache.NewSingle[string](),
	}
}

func (s *EndpointTokenSource) Token(ctx context.Context) (string, error) {
	return s.tokens.Get("token", s.ttl, func() (string, error) {
		return s.fetch(ctx)
	})
}

func (s *EndpointTokenSource) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch token: unexpected status %s", resp.Status)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("fetch token: %w", err)
	}
	return body.Token, nil
}
