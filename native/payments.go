package native

import (
	"context"
	"encoding/json"

	"github.com/quaybridge/quay/pending"
)

const methodPaymentsSheet = "Payments.PresentPaymentSheet"

type PaymentsAPI struct {
	caller pending.Caller
}

// PaymentSheetBuilder configures a payment sheet presentation. clientSecret,
// merchantDisplayName and publishableKey are required; Resolve fails fast
// with a local validation error before any network call when one is missing.
type PaymentSheetBuilder struct {
	op *pending.Op[json.RawMessage]
}

func (p PaymentsAPI) PresentPaymentSheet() *PaymentSheetBuilder {
	op := pending.New[json.RawMessage](p.caller, methodPaymentsSheet)
	op.WithValidator(requireFields("clientSecret", "merchantDisplayName", "publishableKey"))
	return &PaymentSheetBuilder{op: op}
}

func (b *PaymentSheetBuilder) ClientSecret(secret string) *PaymentSheetBuilder {
	b.op.Field("clientSecret", secret)
	return b
}

func (b *PaymentSheetBuilder) MerchantDisplayName(name string) *PaymentSheetBuilder {
	b.op.Field("merchantDisplayName", name)
	return b
}

func (b *PaymentSheetBuilder) PublishableKey(key string) *PaymentSheetBuilder {
	b.op.Field("publishableKey", key)
	return b
}

func (b *PaymentSheetBuilder) CustomerID(id string) *PaymentSheetBuilder {
	b.op.Field("customerId", id)
	return b
}

func (b *PaymentSheetBuilder) EphemeralKey(key string) *PaymentSheetBuilder {
	b.op.Field("ephemeralKey", key)
	return b
}

func (b *PaymentSheetBuilder) AllowsDelayedPaymentMethods(allow bool) *PaymentSheetBuilder {
	b.op.Field("allowsDelayedPaymentMethods", allow)
	return b
}

func (b *PaymentSheetBuilder) ID(id string) *PaymentSheetBuilder {
	b.op.SetID(id)
	return b
}

func (b *PaymentSheetBuilder) GetID() string {
	return b.op.ID()
}

func (b *PaymentSheetBuilder) Resolve(ctx context.Context) (json.RawMessage, error) {
	return b.op.Resolve(ctx)
}
