package host

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quaybridge/quay/bridge"
	"github.com/quaybridge/quay/events"
)

func newTestServer(t *testing.T, opts ...ServerOption) (*httptest.Server, *Registry, *Hub) {
	t.Helper()

	reg := NewRegistry()
	hub := NewHub(slog.Default())
	srv := NewServer(reg, hub, slog.Default(), opts...)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, reg, hub
}

func postCall(t *testing.T, url, body, token string) (int, responseEnvelope) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, url+bridge.CallPath, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-CSRF-TOKEN", token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env struct {
		Status  string          `json:"status"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, responseEnvelope{
		Status:  env.Status,
		Data:    env.Data,
		Message: env.Message,
	}
}

func TestHandleCall_Success(t *testing.T) {
	ts, reg, _ := newTestServer(t)
	reg.Register("Device.GetID", func(context.Context, json.RawMessage) (any, error) {
		return map[string]string{"id": "dev-1"}, nil
	})

	code, env := postCall(t, ts.URL, `{"method":"Device.GetID","params":{}}`, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)
	assert.JSONEq(t, `{"id":"dev-1"}`, string(env.Data.(json.RawMessage)))
}

func TestHandleCall_UnregisteredMethodIsErrorEnvelopeNotTransportFailure(t *testing.T) {
	ts, _, _ := newTestServer(t)

	code, env := postCall(t, ts.URL, `{"method":"Nope.Op","params":{}}`, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "method not registered: Nope.Op", env.Message)
}

func TestHandleCall_HandlerErrorBecomesErrorEnvelope(t *testing.T) {
	ts, reg, _ := newTestServer(t)
	reg.Register("Camera.GetPhoto", func(context.Context, json.RawMessage) (any, error) {
		return nil, assert.AnError
	})

	code, env := postCall(t, ts.URL, `{"method":"Camera.GetPhoto","params":{}}`, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, assert.AnError.Error(), env.Message)
}

func TestHandleCall_MalformedBody(t *testing.T) {
	ts, _, _ := newTestServer(t)

	code, env := postCall(t, ts.URL, `{not json`, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", env.Status)
}

func TestHandleCall_EmptyMethod(t *testing.T) {
	ts, _, _ := newTestServer(t)

	code, env := postCall(t, ts.URL, `{"method":"","params":{}}`, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "error", env.Status)
}

func TestCSRF_EnforcedWhenConfigured(t *testing.T) {
	issuer := NewTokenIssuer(bytes.Repeat([]byte{7}, 32))
	ts, reg, _ := newTestServer(t, WithCSRF(issuer))
	reg.Register("Dialog.Toast", func(context.Context, json.RawMessage) (any, error) {
		return nil, nil
	})

	code, env := postCall(t, ts.URL, `{"method":"Dialog.Toast","params":{}}`, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "error", env.Status)

	resp, err := http.Get(ts.URL + bridge.TokenPath)
	require.NoError(t, err)
	var minted struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&minted))
	resp.Body.Close()
	require.NotEmpty(t, minted.Token)

	code, env = postCall(t, ts.URL, `{"method":"Dialog.Toast","params":{}}`, minted.Token)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer(bytes.Repeat([]byte{7}, 32))
	assert.False(t, issuer.Verify(""))
	assert.False(t, issuer.Verify("garbage"))

	token, err := issuer.Issue()
	require.NoError(t, err)
	assert.True(t, issuer.Verify(token))

	other := NewTokenIssuer(bytes.Repeat([]byte{9}, 32))
	assert.False(t, other.Verify(token), "token from a different key must fail")
}

func TestHandleMethods_ListsRegistrations(t *testing.T) {
	ts, reg, _ := newTestServer(t)
	reg.Register("Dialog.Alert", nopHandler)
	reg.Register("Camera.GetPhoto", nopHandler)

	resp, err := http.Get(ts.URL + "/_native/api/methods")
	require.NoError(t, err)
	defer resp.Body.Close()

	var methods []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&methods))
	assert.Equal(t, []string{"Camera.GetPhoto", "Dialog.Alert"}, methods)
}

func TestEventStream_DeliversEmittedEvents(t *testing.T) {
	ts, _, hub := newTestServer(t)

	wsURL := strings.Replace(ts.URL, "http://", "ws://", 1) + events.EventsPath
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the hub a moment to register the client.
	require.Eventually(t, func() bool {
		return hub.clients.Size() == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Emit(events.Camera.PhotoTaken, map[string]string{"path": "/tmp/p.jpg"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var env events.Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	assert.Equal(t, events.Camera.PhotoTaken, events.NormalizeName(env.Event))
	assert.JSONEq(t, `{"path":"/tmp/p.jpg"}`, string(env.Payload))
}

func TestEventStream_FeedsClientBus(t *testing.T) {
	ts, _, hub := newTestServer(t)

	src := events.NewSocketSource(ts.URL, nil)
	defer src.Close()
	bus := events.NewBus(src, slog.Default())

	got := make(chan string, 1)
	bus.On(events.Biometrics.Completed, func(payload json.RawMessage, event string) {
		got <- event
	})
	require.NoError(t, bus.AttachErr())

	require.Eventually(t, func() bool {
		return hub.clients.Size() == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Emit(events.Biometrics.Completed, map[string]any{"success": true}))

	select {
	case event := <-got:
		assert.Equal(t, events.Biometrics.Completed, event)
	case <-time.After(2 * time.Second):
		t.Fatal("event never reached the bus")
	}
}

func TestPairQR(t *testing.T) {
	ts, _, _ := newTestServer(t, WithBaseURL("http://192.168.1.20:4723"))

	resp, err := http.Get(ts.URL + "/_native/api/pair.png")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestPairQR_WithoutBaseURL(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/_native/api/pair.png")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
