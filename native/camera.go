package native

import (
	"context"
	"encoding/json"

	"github.com/quaybridge/quay/bridge"
	"github.com/quaybridge/quay/pending"
)

const (
	methodCameraGetPhoto = "Camera.GetPhoto"
	methodGalleryPick    = "Gallery.Pick"
)

// Gallery media types.
const (
	MediaImages = "images"
	MediaVideos = "videos"
	MediaAll    = "all"
)

type CameraAPI struct {
	caller pending.Caller
}

// PhotoBuilder configures a camera capture. The photo itself arrives through
// the Camera.PhotoTaken event correlated by id; the call only opens the
// capture UI.
type PhotoBuilder struct {
	op *pending.Op[json.RawMessage]
}

func (c CameraAPI) GetPhoto() *PhotoBuilder {
	return &PhotoBuilder{op: pending.New[json.RawMessage](c.caller, methodCameraGetPhoto)}
}

func (c CameraAPI) GetPhotoNow(ctx context.Context) (json.RawMessage, error) {
	return c.caller.Call(ctx, methodCameraGetPhoto, nil)
}

func (b *PhotoBuilder) ID(id string) *PhotoBuilder {
	b.op.SetID(id)
	return b
}

func (b *PhotoBuilder) Event(class string) *PhotoBuilder {
	b.op.SetEventClass(class)
	return b
}

// GetID returns the correlation id, generating one on first use. Generation
// never triggers dispatch, so the id can be wired into an event listener
// before the capture starts.
func (b *PhotoBuilder) GetID() string {
	return b.op.ID()
}

func (b *PhotoBuilder) Resolve(ctx context.Context) (json.RawMessage, error) {
	return b.op.Resolve(ctx)
}

type GalleryAPI struct {
	caller pending.Caller
}

// PickBuilder configures a media picker. Defaults: all media types, single
// selection, at most 5 items when multiple selection is enabled.
type PickBuilder struct {
	op *pending.Op[json.RawMessage]
}

func (g GalleryAPI) Pick() *PickBuilder {
	op := pending.New[json.RawMessage](g.caller, methodGalleryPick)
	op.Field("mediaType", MediaAll)
	op.Field("maxItems", 5)
	return &PickBuilder{op: op}
}

func (g GalleryAPI) PickNow(ctx context.Context) (json.RawMessage, error) {
	return g.caller.Call(ctx, methodGalleryPick, bridge.Params{
		"mediaType": MediaAll,
		"maxItems":  5,
	})
}

func (b *PickBuilder) MediaType(mediaType string) *PickBuilder {
	b.op.Field("mediaType", mediaType)
	return b
}

func (b *PickBuilder) Multiple(multiple bool) *PickBuilder {
	b.op.Field("multiple", multiple)
	return b
}

func (b *PickBuilder) MaxItems(n int) *PickBuilder {
	b.op.Field("maxItems", n)
	return b
}

func (b *PickBuilder) ID(id string) *PickBuilder {
	b.op.SetID(id)
	return b
}

func (b *PickBuilder) Event(class string) *PickBuilder {
	b.op.SetEventClass(class)
	return b
}

func (b *PickBuilder) GetID() string {
	return b.op.ID()
}

func (b *PickBuilder) Resolve(ctx context.Context) (json.RawMessage, error) {
	return b.op.Resolve(ctx)
}
