package host

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/quaybridge/quay/events"
)

const replayDepth = 64

// Hub fans emitted native events out to every connected webview client and
// keeps a small replay buffer of recent events for the debug endpoint.
//
// mu serializes sends on client channels against Unregister closing them;
// without it a broadcast racing a disconnect is a send on a closed channel.
type Hub struct {
	mu      sync.RWMutex
	clients *xsync.Map[*Client, struct{}]
	replay  *lru.Cache[uint64, events.Envelope]
	seq     atomic.Uint64
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	replay, _ := lru.New[uint64, events.Envelope](replayDepth)
	return &Hub{
		clients: xsync.NewMap[*Client, struct{}](),
		replay:  replay,
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.clients.Store(c, struct{}{})
	h.logger.Debug("event client connected", "clients", h.clients.Size())
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, loaded := h.clients.LoadAndDelete(c); loaded {
		close(c.Send)
	}
	h.mu.Unlock()
	h.logger.Debug("event client disconnected", "clients", h.clients.Size())
}

// Emit broadcasts one native event. The event name's namespace separators
// are escaped the way native senders serialize them; the client bus strips
// the escaping before matching. Delivery is best-effort: slow clients drop
// the message.
func (h *Hub) Emit(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	env := events.Envelope{
		Event:   EscapeEventName(event),
		Payload: data,
	}
	msg, err := json.Marshal(env)
	if err != nil {
		return err
	}

	h.replay.Add(h.seq.Add(1), env)

	sent := 0
	h.mu.RLock()
	h.clients.Range(func(c *Client, _ struct{}) bool {
		select {
		case c.Send <- msg:
			sent++
		default:
			h.logger.Warn("event dropped for slow client", "event", event)
		}
		return true
	})
	h.mu.RUnlock()

	h.logger.Debug("event emitted", "event", event, "recipients", sent)
	return nil
}

// Recent returns the replay buffer, oldest first.
func (h *Hub) Recent() []events.Envelope {
	keys := h.replay.Keys()
	out := make([]events.Envelope, 0, len(keys))
	for _, k := range keys {
		if env, ok := h.replay.Peek(k); ok {
			out = append(out, env)
		}
	}
	return out
}

// EscapeEventName doubles backslashes in a namespaced event identifier,
// mirroring how native senders serialize event class paths.
func EscapeEventName(name string) string {
	return strings.ReplaceAll(name, `\`, `\\`)
}
