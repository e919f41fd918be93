package native

import (
	"context"
	"encoding/json"

	"github.com/quaybridge/quay/bridge"
	"github.com/quaybridge/quay/pending"
)

const (
	methodBiometricsPrompt       = "Biometrics.Prompt"
	methodBiometricsCheckSupport = "Biometrics.CheckSupport"
)

type BiometricsAPI struct {
	caller pending.Caller
}

// PromptBuilder configures a biometric authentication prompt. The outcome
// arrives through the Biometrics.Completed event correlated by id.
type PromptBuilder struct {
	op *pending.Op[json.RawMessage]
}

func (b BiometricsAPI) Prompt() *PromptBuilder {
	return &PromptBuilder{op: pending.New[json.RawMessage](b.caller, methodBiometricsPrompt)}
}

func (b BiometricsAPI) PromptNow(ctx context.Context, reason string) error {
	_, err := b.caller.Call(ctx, methodBiometricsPrompt, bridge.Params{"reason": reason})
	return err
}

// CheckSupportNow reports whether the device offers biometric auth.
func (b BiometricsAPI) CheckSupportNow(ctx context.Context) (bool, error) {
	data, err := b.caller.Call(ctx, methodBiometricsCheckSupport, nil)
	if err != nil {
		return false, err
	}
	var out struct {
		Supported bool `json:"supported"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return false, err
	}
	return out.Supported, nil
}

func (p *PromptBuilder) Reason(reason string) *PromptBuilder {
	p.op.Field("reason", reason)
	return p
}

func (p *PromptBuilder) ID(id string) *PromptBuilder {
	p.op.SetID(id)
	return p
}

func (p *PromptBuilder) Event(class string) *PromptBuilder {
	p.op.SetEventClass(class)
	return p
}

func (p *PromptBuilder) GetID() string {
	return p.op.ID()
}

func (p *PromptBuilder) Resolve(ctx context.Context) error {
	_, err := p.op.Resolve(ctx)
	return err
}
