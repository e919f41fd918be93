package native

import (
	"context"
	"encoding/json"

	"github.com/quaybridge/quay/pending"
)

const (
	methodPushEnroll   = "PushNotifications.Enroll"
	methodPushGetToken = "PushNotifications.GetToken"
	methodPushUnenroll = "PushNotifications.Unenroll"
)

type PushAPI struct {
	caller pending.Caller
}

// EnrollBuilder configures push enrollment. The device token arrives
// through the PushNotifications.TokenGenerated event.
type EnrollBuilder struct {
	op *pending.Op[json.RawMessage]
}

func (p PushAPI) Enroll() *EnrollBuilder {
	return &EnrollBuilder{op: pending.New[json.RawMessage](p.caller, methodPushEnroll)}
}

func (p PushAPI) EnrollNow(ctx context.Context) error {
	_, err := p.caller.Call(ctx, methodPushEnroll, nil)
	return err
}

// GetTokenNow returns the current push token, or ok=false when the device
// has not enrolled yet.
func (p PushAPI) GetTokenNow(ctx context.Context) (string, bool, error) {
	data, err := p.caller.Call(ctx, methodPushGetToken, nil)
	if err != nil {
		return "", false, err
	}
	if len(data) == 0 || string(data) == "null" {
		return "", false, nil
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", false, err
	}
	return out.Token, out.Token != "", nil
}

func (p PushAPI) UnenrollNow(ctx context.Context) error {
	_, err := p.caller.Call(ctx, methodPushUnenroll, nil)
	return err
}

func (b *EnrollBuilder) ID(id string) *EnrollBuilder {
	b.op.SetID(id)
	return b
}

func (b *EnrollBuilder) Event(class string) *EnrollBuilder {
	b.op.SetEventClass(class)
	return b
}

func (b *EnrollBuilder) GetID() string {
	return b.op.ID()
}

func (b *EnrollBuilder) Resolve(ctx context.Context) error {
	_, err := b.op.Resolve(ctx)
	return err
}
