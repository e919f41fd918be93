package native

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quaybridge/quay/bridge"
)

// testHost records every call envelope and answers with a canned response
// per method (default: bare success).
type testHost struct {
	mu        sync.Mutex
	bodies    []string
	methods   []string
	responses map[string]string
}

func (h *testHost) respond(method, body string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.responses == nil {
		h.responses = map[string]string{}
	}
	h.responses[method] = body
}

func (h *testHost) calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.methods...)
}

func (h *testHost) lastBody(t *testing.T) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	require.NotEmpty(t, h.bodies, "expected at least one bridge call")
	return h.bodies[len(h.bodies)-1]
}

func newTestAPI(t *testing.T) (*API, *testHost) {
	t.Helper()

	host := &testHost{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var env struct {
			Method string `json:"method"`
		}
		require.NoError(t, json.Unmarshal(body, &env))

		host.mu.Lock()
		host.bodies = append(host.bodies, string(body))
		host.methods = append(host.methods, env.Method)
		resp, ok := host.responses[env.Method]
		host.mu.Unlock()

		if !ok {
			resp = `{"status":"success"}`
		}
		w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)

	return New(bridge.NewClient(srv.URL)), host
}
