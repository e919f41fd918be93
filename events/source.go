package events

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// EventsPath is the host endpoint serving the event stream.
const EventsPath = "/_native/api/events"

const (
	pongWait   = 60 * time.Second
	dialWait   = 10 * time.Second
	retryDelay = 2 * time.Second
)

// SocketSource feeds a Bus from the host's websocket event stream.
type SocketSource struct {
	url    string
	header http.Header
	logger *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewSocketSource creates a source for the host at base
// (e.g. "http://127.0.0.1:4723").
func NewSocketSource(base string, logger *slog.Logger) *SocketSource {
	if logger == nil {
		logger = slog.Default()
	}
	url := strings.TrimRight(base, "/") + EventsPath
	url = strings.Replace(url, "http://", "ws://", 1)
	url = strings.Replace(url, "https://", "wss://", 1)
	return &SocketSource{url: url, logger: logger, done: make(chan struct{})}
}

// Close stops the pump and any pending redial attempts.
func (s *SocketSource) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Attach dials the stream and pumps envelopes to sink until the source is no
// longer reachable. The connection is re-dialed after read failures so a
// host restart does not permanently silence the bus.
func (s *SocketSource) Attach(sink func(Envelope)) error {
	dialer := &websocket.Dialer{HandshakeTimeout: dialWait}
	conn, _, err := dialer.Dial(s.url, s.header)
	if err != nil {
		return err
	}
	go s.pump(conn, dialer, sink)
	return nil
}

func (s *SocketSource) pump(conn *websocket.Conn, dialer *websocket.Dialer, sink func(Envelope)) {
	for {
		s.read(conn, sink)

	redial:
		for {
			select {
			case <-s.done:
				return
			case <-time.After(retryDelay):
			}
			next, _, err := dialer.Dial(s.url, s.header)
			if err == nil {
				conn = next
				break redial
			}
			s.logger.Debug("event stream redial failed", "err", err)
		}
	}
}

func (s *SocketSource) read(conn *websocket.Conn, sink func(Envelope)) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.logger.Debug("event stream closed", "err", err)
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.logger.Warn("malformed event envelope", "err", err)
			continue
		}
		sink(env)
	}
}

// ChannelSource is an in-process source for same-process hosts and tests.
type ChannelSource struct {
	mu    sync.Mutex
	sinks []func(Envelope)
}

func NewChannelSource() *ChannelSource {
	return &ChannelSource{}
}

func (c *ChannelSource) Attach(sink func(Envelope)) error {
	c.mu.Lock()
	c.sinks = append(c.sinks, sink)
	c.mu.Unlock()
	return nil
}

// Emit delivers one envelope to every attached sink, synchronously.
func (c *ChannelSource) Emit(env Envelope) {
	c.mu.Lock()
	sinks := append(([]func(Envelope))(nil), c.sinks...)
	c.mu.Unlock()

	for _, sink := range sinks {
		sink(env)
	}
}
