package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Method string
	Token  string
	Body   []byte
}

func newTestHost(t *testing.T, respond func(method string) (int, string)) (*Client, *[]recordedCall) {
	t.Helper()

	calls := &[]recordedCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, CallPath, r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var env callEnvelope
		require.NoError(t, json.Unmarshal(body, &env))

		*calls = append(*calls, recordedCall{
			Method: env.Method,
			Token:  r.Header.Get("X-CSRF-TOKEN"),
			Body:   body,
		})

		code, resp := respond(env.Method)
		w.WriteHeader(code)
		w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, WithTokenSource(StaticToken("tok-1"))), calls
}

func TestCall_Success(t *testing.T) {
	c, calls := newTestHost(t, func(string) (int, string) {
		return 200, `{"status":"success","data":{"id":"d-1"}}`
	})

	data, err := c.Call(context.Background(), "Device.GetID", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"d-1"}`, string(data))

	require.Len(t, *calls, 1)
	assert.Equal(t, "Device.GetID", (*calls)[0].Method)
	assert.Equal(t, "tok-1", (*calls)[0].Token)
}

func TestCall_SuccessWithoutData(t *testing.T) {
	c, _ := newTestHost(t, func(string) (int, string) {
		return 200, `{"status":"success"}`
	})

	data, err := c.Call(context.Background(), "Dialog.Toast", Params{"message": "hi"})
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestCall_HostError(t *testing.T) {
	c, _ := newTestHost(t, func(string) (int, string) {
		return 200, `{"status":"error","message":"Denied"}`
	})

	_, err := c.Call(context.Background(), "Camera.GetPhoto", nil)
	require.Error(t, err)

	var bridgeErr *Error
	require.ErrorAs(t, err, &bridgeErr)
	assert.Equal(t, "Denied", bridgeErr.Message)
	assert.Equal(t, "Camera.GetPhoto", bridgeErr.Method)
}

func TestCall_HostErrorWithoutMessage(t *testing.T) {
	c, _ := newTestHost(t, func(string) (int, string) {
		return 200, `{"status":"error"}`
	})

	_, err := c.Call(context.Background(), "Camera.GetPhoto", nil)
	var bridgeErr *Error
	require.ErrorAs(t, err, &bridgeErr)
	assert.Equal(t, fallbackMessage, bridgeErr.Message)
}

func TestCall_NonOKStatus(t *testing.T) {
	c, _ := newTestHost(t, func(string) (int, string) {
		return 500, `boom`
	})

	_, err := c.Call(context.Background(), "Dialog.Alert", nil)
	require.Error(t, err)
	assert.NotErrorAs(t, err, new(*Error))
}

func TestCall_MalformedResponse(t *testing.T) {
	c, _ := newTestHost(t, func(string) (int, string) {
		return 200, `{not json`
	})

	_, err := c.Call(context.Background(), "Dialog.Alert", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestCall_EmptyMethod(t *testing.T) {
	c, calls := newTestHost(t, func(string) (int, string) {
		return 200, `{"status":"success"}`
	})

	_, err := c.Call(context.Background(), "", nil)
	require.Error(t, err)
	assert.Empty(t, *calls, "no request should be issued")
}

func TestCall_MissingTokenSourceSendsEmptyToken(t *testing.T) {
	var token *string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := r.Header.Get("X-CSRF-TOKEN")
		token = &v
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Call(context.Background(), "Dialog.Toast", nil)
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "", *token)
}

func TestCallSync_FiresRequestWithToken(t *testing.T) {
	got := make(chan recordedCall, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var env callEnvelope
		json.NewDecoder(r.Body).Decode(&env)
		got <- recordedCall{Method: env.Method, Token: r.Header.Get("X-CSRF-TOKEN")}
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithTokenSource(StaticToken("tok-1")))
	c.CallSync("App.SetBadge", Params{"count": 3})

	call := <-got
	assert.Equal(t, "App.SetBadge", call.Method)
	assert.Equal(t, "tok-1", call.Token, "sync calls carry the anti-forgery token too")
}

func TestCallSync_SwallowsFailures(t *testing.T) {
	c := NewClient("http://127.0.0.1:1") // nothing listens here
	c.CallSync("App.ClearBadge", nil)    // must not panic or block
}

func TestEndpointTokenSource(t *testing.T) {
	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, TokenPath, r.URL.Path)
		fetches++
		w.Write([]byte(`{"token":"minted-1"}`))
	}))
	defer srv.Close()

	ts := NewEndpointTokenSource(srv.URL, nil)

	for i := 0; i < 3; i++ {
		token, err := ts.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "minted-1", token)
	}
	assert.Equal(t, 1, fetches, "token should be cached")
}
