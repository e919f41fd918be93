// Package events fans host-originated broadcast events out to registered
// listeners, matched by exact event name.
package events

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
)

// Envelope is the transport-level event the host dispatches.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Listener receives one dispatched event.
type Listener func(payload json.RawMessage, event string)

// Subscription identifies one registered listener. Go functions are not
// comparable, so removal goes through the handle rather than the callback
// reference.
type Subscription struct {
	name string
	fn   Listener
}

// Source is the underlying transport-level event feed. Attach is called at
// most once per Bus, on the first On.
type Source interface {
	Attach(sink func(Envelope)) error
}

// Bus is the process-wide listener registry. Construct one at application
// start and share the handle.
type Bus struct {
	source Source
	logger *slog.Logger

	attachOnce sync.Once
	attachErr  error

	mu        sync.Mutex
	listeners map[string][]*Subscription
}

func NewBus(source Source, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		source:    source,
		logger:    logger,
		listeners: make(map[string][]*Subscription),
	}
}

// On registers fn for the given event name and returns its subscription
// handle. The first On attaches the underlying source; later calls reuse the
// attachment. Registering the same callback twice yields two subscriptions
// and two invocations per dispatch — listeners are not deduplicated.
func (b *Bus) On(name string, fn Listener) *Subscription {
	b.ensureAttached()

	sub := &Subscription{name: name, fn: fn}
	b.mu.Lock()
	b.listeners[name] = append(b.listeners[name], sub)
	b.mu.Unlock()
	return sub
}

// Off removes the subscription. Removing an unknown or already-removed
// subscription is a no-op. Emptied lists are kept; they simply deliver to
// nobody.
func (b *Bus) Off(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.listeners[sub.name]
	for i, s := range subs {
		if s == sub {
			b.listeners[sub.name] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Dispatch fans one envelope out to every listener registered for its
// normalized event name, in registration order. A panicking listener is
// logged and skipped; later listeners still run. Events with no listeners
// are dropped — there is no queuing or replay on the client side.
func (b *Bus) Dispatch(env Envelope) {
	name := NormalizeName(env.Event)

	b.mu.Lock()
	subs := append([]*Subscription(nil), b.listeners[name]...)
	b.mu.Unlock()

	for _, sub := range subs {
		b.invoke(sub, env.Payload, name)
	}

	b.logger.Debug("event dispatched", "event", name, "recipients", len(subs))
}

func (b *Bus) invoke(sub *Subscription, payload json.RawMessage, name string) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event listener panicked", "event", name, "panic", r)
		}
	}()
	sub.fn(payload, name)
}

func (b *Bus) ensureAttached() {
	b.attachOnce.Do(func() {
		if b.source == nil {
			return
		}
		if err := b.source.Attach(b.Dispatch); err != nil {
			b.attachErr = err
			b.logger.Error("event source attach failed", "err", err)
		}
	})
}

// AttachErr returns the error from the one-time source attachment, if any.
func (b *Bus) AttachErr() error {
	return b.attachErr
}

// NormalizeName strips the doubled-backslash escaping native senders
// introduce when serializing namespaced event identifiers.
func NormalizeName(name string) string {
	return strings.ReplaceAll(name, `\\`, `\`)
}
