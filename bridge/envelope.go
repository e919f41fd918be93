package bridge

import (
	"encoding/json"
	"fmt"
)

// Params is the parameter object sent with one bridge call. Values must be
// JSON-serializable. Keys that are absent are omitted from the wire; a key
// holding nil is serialized as an explicit JSON null, which some methods
// treat as a meaningful instruction (secure-storage delete).
type Params map[string]any

type callEnvelope struct {
	Method string `json:"method"`
	Params Params `json:"params"`
}

type responseEnvelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

// fallbackMessage is used when the host reports an error without a message.
const fallbackMessage = "native call failed"

// Error is a failure the native host reported explicitly through the
// response envelope, as opposed to a network or decoding failure.
type Error struct {
	Method  string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("bridge: %s: %s", e.Method, e.Message)
}
