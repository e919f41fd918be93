// Package host implements the loopback native host: the call endpoint every
// bridge client posts to, the websocket event stream, and development
// implementations of the built-in capability methods.
package host

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/tidwall/btree"
)

// Handler implements one bridge method on the host side. The returned value
// is serialized into the success envelope's data field; a returned error
// becomes an error envelope with the error's message. Handlers never cause
// transport-level failures.
type Handler func(ctx context.Context, params json.RawMessage) (any, error)

// Registry is the host-owned method table mapping "Namespace.Action" strings
// to handlers. Iteration order is sorted by method name so introspection is
// deterministic.
type Registry struct {
	mu      sync.RWMutex
	methods btree.Map[string, Handler]
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register binds a handler to a method name, replacing any previous binding.
func (r *Registry) Register(method string, h Handler) {
	r.mu.Lock()
	r.methods.Set(method, h)
	r.mu.Unlock()
}

// Lookup returns the handler for a method.
func (r *Registry) Lookup(method string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.methods.Get(method)
}

// Methods lists every registered method name in sorted order.
func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, r.methods.Len())
	r.methods.Scan(func(name string, _ Handler) bool {
		names = append(names, name)
		return true
	})
	return names
}
