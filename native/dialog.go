package native

import (
	"context"
	"encoding/json"

	"github.com/quaybridge/quay/bridge"
	"github.com/quaybridge/quay/pending"
)

const (
	methodDialogAlert = "Dialog.Alert"
	methodDialogToast = "Dialog.Toast"
	methodDialogShare = "Dialog.Share"
)

// Toast durations.
const (
	DurationShort = "short"
	DurationLong  = "long"
)

type DialogAPI struct {
	caller pending.Caller
}

// AlertBuilder configures a native alert dialog.
type AlertBuilder struct {
	op *pending.Op[json.RawMessage]
}

// Alert returns a fresh alert builder. The button row defaults to a single
// OK button.
func (d DialogAPI) Alert() *AlertBuilder {
	op := pending.New[json.RawMessage](d.caller, methodDialogAlert)
	op.Field("buttons", []string{"OK"})
	return &AlertBuilder{op: op}
}

// AlertNow shows an alert with the default OK button.
func (d DialogAPI) AlertNow(ctx context.Context, title, message string) error {
	_, err := d.caller.Call(ctx, methodDialogAlert, bridge.Params{
		"title":   title,
		"message": message,
		"buttons": []string{"OK"},
	})
	return err
}

func (b *AlertBuilder) Title(title string) *AlertBuilder {
	b.op.Field("title", title)
	return b
}

func (b *AlertBuilder) Message(message string) *AlertBuilder {
	b.op.Field("message", message)
	return b
}

func (b *AlertBuilder) Buttons(labels ...string) *AlertBuilder {
	b.op.Field("buttons", labels)
	return b
}

func (b *AlertBuilder) ID(id string) *AlertBuilder {
	b.op.SetID(id)
	return b
}

func (b *AlertBuilder) Event(class string) *AlertBuilder {
	b.op.SetEventClass(class)
	return b
}

// GetID returns the correlation id, generating one on first use without
// triggering dispatch.
func (b *AlertBuilder) GetID() string {
	return b.op.ID()
}

func (b *AlertBuilder) Resolve(ctx context.Context) error {
	_, err := b.op.Resolve(ctx)
	return err
}

// ToastBuilder configures a toast message.
type ToastBuilder struct {
	op *pending.Op[json.RawMessage]
}

// Toast returns a fresh toast builder. Duration defaults to long.
func (d DialogAPI) Toast() *ToastBuilder {
	op := pending.New[json.RawMessage](d.caller, methodDialogToast)
	op.Field("duration", DurationLong)
	return &ToastBuilder{op: op}
}

// ToastNow shows a toast with the default long duration.
func (d DialogAPI) ToastNow(ctx context.Context, message string) error {
	_, err := d.caller.Call(ctx, methodDialogToast, bridge.Params{
		"message":  message,
		"duration": DurationLong,
	})
	return err
}

func (b *ToastBuilder) Message(message string) *ToastBuilder {
	b.op.Field("message", message)
	return b
}

func (b *ToastBuilder) Duration(duration string) *ToastBuilder {
	b.op.Field("duration", duration)
	return b
}

func (b *ToastBuilder) Resolve(ctx context.Context) error {
	_, err := b.op.Resolve(ctx)
	return err
}

// ShareBuilder configures the native share sheet.
type ShareBuilder struct {
	op *pending.Op[json.RawMessage]
}

func (d DialogAPI) Share() *ShareBuilder {
	return &ShareBuilder{op: pending.New[json.RawMessage](d.caller, methodDialogShare)}
}

func (d DialogAPI) ShareNow(ctx context.Context, title, text, url string) error {
	_, err := d.caller.Call(ctx, methodDialogShare, bridge.Params{
		"title": title,
		"text":  text,
		"url":   url,
	})
	return err
}

func (b *ShareBuilder) Title(title string) *ShareBuilder {
	b.op.Field("title", title)
	return b
}

func (b *ShareBuilder) Text(text string) *ShareBuilder {
	b.op.Field("text", text)
	return b
}

func (b *ShareBuilder) URL(url string) *ShareBuilder {
	b.op.Field("url", url)
	return b
}

func (b *ShareBuilder) Resolve(ctx context.Context) error {
	_, err := b.op.Resolve(ctx)
	return err
}
