// Package pending implements the deferred bridge call shared by every
// namespace facade. An Op accumulates parameters through chained setters and
// dispatches exactly once, on the first Resolve; the settled outcome is
// cached so further Resolve calls never reach the network again.
package pending

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/quaybridge/quay/bridge"
)

// Caller issues one bridge call. *bridge.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, method string, params bridge.Params) (json.RawMessage, error)
}

// Validator inspects the assembled params before dispatch. A non-nil error
// settles the Op without any network call.
type Validator func(params bridge.Params) error

// Decoder converts the success payload into the Op's result type.
type Decoder[T any] func(data json.RawMessage) (T, error)

// Op is one pending bridge operation. Facade builders wrap it with typed
// setters; each setter mutates one field and returns the builder so calls
// chain. Setters never dispatch — only Resolve does.
//
// An Op is owned by the call site that created it and is not reused across
// logical operations.
type Op[T any] struct {
	caller   Caller
	method   string
	validate Validator
	decode   Decoder[T]

	mu     sync.Mutex
	fields bridge.Params

	once    sync.Once
	started atomic.Bool
	result  T
	err     error
}

// New creates an Op for the given bridge method. Multi-action features pick
// the method from their action discriminator at construction time, so the
// method is constant for the life of the Op.
func New[T any](caller Caller, method string) *Op[T] {
	return &Op[T]{
		caller: caller,
		method: method,
		fields: bridge.Params{},
	}
}

// WithValidator sets the pre-dispatch validator.
func (o *Op[T]) WithValidator(fn Validator) *Op[T] {
	o.validate = fn
	return o
}

// WithDecoder sets the result decoder. Without one, the payload is
// json.Unmarshal'ed into T (or passed through for json.RawMessage).
func (o *Op[T]) WithDecoder(fn Decoder[T]) *Op[T] {
	o.decode = fn
	return o
}

// Method returns the bridge method this Op dispatches to.
func (o *Op[T]) Method() string {
	return o.method
}

// Field stores one named parameter. A nil value is kept and serialized as an
// explicit JSON null. Calling Field after dispatch does not alter what was
// sent: params are snapshotted at dispatch time.
func (o *Op[T]) Field(key string, value any) *Op[T] {
	o.mu.Lock()
	o.fields[key] = value
	o.mu.Unlock()
	return o
}

// Unset removes a parameter so it is omitted from the wire.
func (o *Op[T]) Unset(key string) *Op[T] {
	o.mu.Lock()
	delete(o.fields, key)
	o.mu.Unlock()
	return o
}

// SetID sets the correlation id sent with the call.
func (o *Op[T]) SetID(id string) *Op[T] {
	return o.Field("id", id)
}

// SetEventClass overrides the event class the native side fires when the
// operation completes out-of-band.
func (o *Op[T]) SetEventClass(class string) *Op[T] {
	return o.Field("event", class)
}

// ID returns the correlation id, generating and storing one on first use.
// Reading the id never triggers dispatch.
func (o *Op[T]) ID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	id, ok := o.fields["id"].(string)
	if !ok || id == "" {
		id = uuid.NewString()
		o.fields["id"] = id
	}
	return id
}

// Started reports whether the Op has dispatched (or settled on a validation
// failure).
func (o *Op[T]) Started() bool {
	return o.started.Load()
}

// Resolve dispatches the operation on first call and returns the settled
// outcome on every call. At most one bridge call is ever issued per Op, no
// matter how many times or from how many goroutines Resolve is invoked.
func (o *Op[T]) Resolve(ctx context.Context) (T, error) {
	o.once.Do(func() {
		o.started.Store(true)
		o.result, o.err = o.dispatch(ctx)
	})
	return o.result, o.err
}

func (o *Op[T]) dispatch(ctx context.Context) (T, error) {
	var zero T

	o.mu.Lock()
	params := make(bridge.Params, len(o.fields))
	for k, v := range o.fields {
		params[k] = v
	}
	o.mu.Unlock()

	if o.validate != nil {
		if err := o.validate(params); err != nil {
			return zero, err
		}
	}

	data, err := o.caller.Call(ctx, o.method, params)
	if err != nil {
		return zero, err
	}
	return o.decodeResult(data)
}

func (o *Op[T]) decodeResult(data json.RawMessage) (T, error) {
	var out T
	if o.decode != nil {
		return o.decode(data)
	}
	if len(data) == 0 || string(data) == "null" {
		return out, nil
	}
	if raw, ok := any(&out).(*json.RawMessage); ok {
		*raw = data
		return out, nil
	}
	err := json.Unmarshal(data, &out)
	return out, err
}
