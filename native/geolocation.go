package native

import (
	"context"
	"encoding/json"

	"github.com/quaybridge/quay/pending"
)

const (
	methodGeoCurrentPosition   = "Geolocation.GetCurrentPosition"
	methodGeoCheckPermissions  = "Geolocation.CheckPermissions"
	methodGeoRequestPermission = "Geolocation.RequestPermissions"
)

type GeolocationAPI struct {
	caller pending.Caller
}

// Position is a geolocation fix.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

// PermissionStatus reports the current location permission grants.
type PermissionStatus struct {
	Location       string `json:"location"`
	CoarseLocation string `json:"coarseLocation"`
}

// GeolocationBuilder is shared by all three geolocation actions; the action
// picks the bridge method at construction time. Fields: fineAccuracy,
// remember.
type GeolocationBuilder struct {
	op *pending.Op[json.RawMessage]
}

func (g GeolocationAPI) GetCurrentPosition() *GeolocationBuilder {
	return &GeolocationBuilder{op: pending.New[json.RawMessage](g.caller, methodGeoCurrentPosition)}
}

func (g GeolocationAPI) CheckPermissions() *GeolocationBuilder {
	return &GeolocationBuilder{op: pending.New[json.RawMessage](g.caller, methodGeoCheckPermissions)}
}

func (g GeolocationAPI) RequestPermissions() *GeolocationBuilder {
	return &GeolocationBuilder{op: pending.New[json.RawMessage](g.caller, methodGeoRequestPermission)}
}

func (g GeolocationAPI) GetCurrentPositionNow(ctx context.Context) (*Position, error) {
	data, err := g.caller.Call(ctx, methodGeoCurrentPosition, nil)
	if err != nil {
		return nil, err
	}
	var pos Position
	if err := json.Unmarshal(data, &pos); err != nil {
		return nil, err
	}
	return &pos, nil
}

func (g GeolocationAPI) CheckPermissionsNow(ctx context.Context) (*PermissionStatus, error) {
	return g.permissionCall(ctx, methodGeoCheckPermissions)
}

func (g GeolocationAPI) RequestPermissionsNow(ctx context.Context) (*PermissionStatus, error) {
	return g.permissionCall(ctx, methodGeoRequestPermission)
}

func (g GeolocationAPI) permissionCall(ctx context.Context, method string) (*PermissionStatus, error) {
	data, err := g.caller.Call(ctx, method, nil)
	if err != nil {
		return nil, err
	}
	var status PermissionStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// FineAccuracy requests a precise fix instead of the power-saving default.
func (b *GeolocationBuilder) FineAccuracy(fine bool) *GeolocationBuilder {
	b.op.Field("fineAccuracy", fine)
	return b
}

// Remember asks the native side to persist the permission choice.
func (b *GeolocationBuilder) Remember(remember bool) *GeolocationBuilder {
	b.op.Field("remember", remember)
	return b
}

func (b *GeolocationBuilder) ID(id string) *GeolocationBuilder {
	b.op.SetID(id)
	return b
}

func (b *GeolocationBuilder) GetID() string {
	return b.op.ID()
}

func (b *GeolocationBuilder) Method() string {
	return b.op.Method()
}

func (b *GeolocationBuilder) Resolve(ctx context.Context) (json.RawMessage, error) {
	return b.op.Resolve(ctx)
}
