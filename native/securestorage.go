package native

import (
	"context"
	"encoding/json"

	"github.com/quaybridge/quay/bridge"
	"github.com/quaybridge/quay/pending"
)

const (
	methodStorageSet    = "SecureStorage.Set"
	methodStorageGet    = "SecureStorage.Get"
	methodStorageDelete = "SecureStorage.Delete"
)

type SecureStorageAPI struct {
	caller pending.Caller
}

// StorageSetBuilder configures a secure-storage write. An explicit null
// value (NullValue) is serialized on the wire and instructs the native side
// to delete the key — distinct from leaving the value unset.
type StorageSetBuilder struct {
	op *pending.Op[json.RawMessage]
}

func (s SecureStorageAPI) Set() *StorageSetBuilder {
	return &StorageSetBuilder{op: pending.New[json.RawMessage](s.caller, methodStorageSet)}
}

func (s SecureStorageAPI) SetNow(ctx context.Context, key, value string) error {
	_, err := s.caller.Call(ctx, methodStorageSet, bridge.Params{
		"key":   key,
		"value": value,
	})
	return err
}

func (b *StorageSetBuilder) Key(key string) *StorageSetBuilder {
	b.op.Field("key", key)
	return b
}

func (b *StorageSetBuilder) Value(value string) *StorageSetBuilder {
	b.op.Field("value", value)
	return b
}

// NullValue sends value as JSON null, deleting the key natively.
func (b *StorageSetBuilder) NullValue() *StorageSetBuilder {
	b.op.Field("value", nil)
	return b
}

func (b *StorageSetBuilder) Resolve(ctx context.Context) error {
	_, err := b.op.Resolve(ctx)
	return err
}

// GetNow reads a stored value. A missing key resolves to ok=false rather
// than an error.
func (s SecureStorageAPI) GetNow(ctx context.Context, key string) (string, bool, error) {
	data, err := s.caller.Call(ctx, methodStorageGet, bridge.Params{"key": key})
	if err != nil {
		return "", false, err
	}
	if len(data) == 0 || string(data) == "null" {
		return "", false, nil
	}
	var out struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", false, err
	}
	return out.Value, true, nil
}

func (s SecureStorageAPI) DeleteNow(ctx context.Context, key string) error {
	_, err := s.caller.Call(ctx, methodStorageDelete, bridge.Params{"key": key})
	return err
}
