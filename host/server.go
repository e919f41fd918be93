package host

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/quaybridge/quay/bridge"
	"github.com/quaybridge/quay/events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type callEnvelope struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type responseEnvelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Server exposes the bridge protocol endpoints over HTTP.
type Server struct {
	registry *Registry
	hub      *Hub
	csrf     *TokenIssuer
	baseURL  string
	logger   *slog.Logger
}

type ServerOption func(*Server)

// WithCSRF enables token minting and verification. Without it, calls are
// accepted with any (or no) token.
func WithCSRF(issuer *TokenIssuer) ServerOption {
	return func(s *Server) { s.csrf = issuer }
}

// WithBaseURL sets the externally reachable URL encoded in the pairing QR.
func WithBaseURL(url string) ServerOption {
	return func(s *Server) { s.baseURL = url }
}

func NewServer(registry *Registry, hub *Hub, logger *slog.Logger, opts ...ServerOption) *Server {
	s := &Server{
		registry: registry,
		hub:      hub,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetBaseURL records the bound address once the listener is known.
func (s *Server) SetBaseURL(url string) {
	s.baseURL = url
}

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Post(bridge.CallPath, s.handleCall)
	r.Get(bridge.TokenPath, s.handleToken)
	r.Get(events.EventsPath, s.handleEvents)
	r.Get(events.EventsPath+"/recent", s.handleRecentEvents)
	r.Get("/_native/api/pair.png", s.handlePairQR)
	r.Get("/_native/api/methods", s.handleMethods)

	return r
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	if s.csrf != nil && !s.csrf.Verify(r.Header.Get("X-CSRF-TOKEN")) {
		s.writeEnvelope(w, http.StatusForbidden, responseEnvelope{
			Status:  "error",
			Message: "invalid anti-forgery token",
		})
		return
	}

	var env callEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		s.writeEnvelope(w, http.StatusBadRequest, responseEnvelope{
			Status:  "error",
			Message: "malformed call envelope",
		})
		return
	}
	if env.Method == "" {
		s.writeEnvelope(w, http.StatusOK, responseEnvelope{
			Status:  "error",
			Message: "method must not be empty",
		})
		return
	}

	// An unregistered method is an error-kind response, never a
	// transport failure.
	handler, ok := s.registry.Lookup(env.Method)
	if !ok {
		s.writeEnvelope(w, http.StatusOK, responseEnvelope{
			Status:  "error",
			Message: "method not registered: " + env.Method,
		})
		return
	}

	data, err := handler(r.Context(), env.Params)
	if err != nil {
		s.logger.Debug("bridge call failed", "method", env.Method, "err", err)
		s.writeEnvelope(w, http.StatusOK, responseEnvelope{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	s.logger.Debug("bridge call served", "method", env.Method)
	s.writeEnvelope(w, http.StatusOK, responseEnvelope{
		Status: "success",
		Data:   data,
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if s.csrf == nil {
		s.writeJSON(w, http.StatusOK, map[string]string{"token": ""})
		return
	}
	token, err := s.csrf.Issue()
	if err != nil {
		http.Error(w, "token issue failed", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("event stream upgrade failed", "err", err)
		return
	}

	client := NewClient(conn)
	s.hub.Register(client)
	go client.WritePump()

	client.ReadPump()
	s.hub.Unregister(client)
}

func (s *Server) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.hub.Recent())
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.registry.Methods())
}

// handlePairQR serves a QR code of the host URL so a device webview can be
// pointed at a dev host on the local network.
func (s *Server) handlePairQR(w http.ResponseWriter, r *http.Request) {
	if s.baseURL == "" {
		http.NotFound(w, r)
		return
	}
	png, err := qrcode.Encode(s.baseURL, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "qr encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (s *Server) writeEnvelope(w http.ResponseWriter, code int, env responseEnvelope) {
	s.writeJSON(w, code, env)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
