package native

import (
	"context"
	"encoding/json"

	"github.com/quaybridge/quay/bridge"
	"github.com/quaybridge/quay/pending"
)

const (
	methodHapticsVibrate = "Haptics.Vibrate"
	methodHapticsImpact  = "Haptics.Impact"
	methodBrowserOpen    = "Browser.Open"
	methodBrowserInApp   = "Browser.InApp"
	methodDeviceGetInfo  = "Device.GetInfo"
	methodDeviceGetID    = "Device.GetID"
	methodNetworkStatus  = "Network.GetStatus"
	methodAppSetBadge    = "App.SetBadge"
	methodAppClearBadge  = "App.ClearBadge"
)

// Haptic impact styles.
const (
	ImpactLight  = "light"
	ImpactMedium = "medium"
	ImpactHeavy  = "heavy"
)

type HapticsAPI struct {
	caller pending.Caller
}

// VibrateBuilder configures a vibration; duration is in milliseconds.
type VibrateBuilder struct {
	op *pending.Op[json.RawMessage]
}

func (h HapticsAPI) Vibrate() *VibrateBuilder {
	return &VibrateBuilder{op: pending.New[json.RawMessage](h.caller, methodHapticsVibrate)}
}

func (h HapticsAPI) VibrateNow(ctx context.Context) error {
	_, err := h.caller.Call(ctx, methodHapticsVibrate, nil)
	return err
}

func (h HapticsAPI) ImpactNow(ctx context.Context, style string) error {
	_, err := h.caller.Call(ctx, methodHapticsImpact, bridge.Params{"style": style})
	return err
}

func (b *VibrateBuilder) Duration(ms int) *VibrateBuilder {
	b.op.Field("duration", ms)
	return b
}

func (b *VibrateBuilder) Resolve(ctx context.Context) error {
	_, err := b.op.Resolve(ctx)
	return err
}

type BrowserAPI struct {
	caller pending.Caller
}

// OpenNow opens the URL in the system browser, outside the webview.
func (b BrowserAPI) OpenNow(ctx context.Context, url string) error {
	_, err := b.caller.Call(ctx, methodBrowserOpen, bridge.Params{"url": url})
	return err
}

// InAppNow opens the URL in an in-app browser sheet.
func (b BrowserAPI) InAppNow(ctx context.Context, url string) error {
	_, err := b.caller.Call(ctx, methodBrowserInApp, bridge.Params{"url": url})
	return err
}

type DeviceAPI struct {
	caller pending.Caller
}

// DeviceInfo describes the host device.
type DeviceInfo struct {
	Platform   string `json:"platform"`
	Model      string `json:"model"`
	OSVersion  string `json:"osVersion"`
	AppVersion string `json:"appVersion"`
}

func (d DeviceAPI) GetInfoNow(ctx context.Context) (*DeviceInfo, error) {
	data, err := d.caller.Call(ctx, methodDeviceGetInfo, nil)
	if err != nil {
		return nil, err
	}
	var info DeviceInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetIDNow returns a stable unique device identifier.
func (d DeviceAPI) GetIDNow(ctx context.Context) (string, error) {
	data, err := d.caller.Call(ctx, methodDeviceGetID, nil)
	if err != nil {
		return "", err
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

type NetworkAPI struct {
	caller pending.Caller
}

// NetworkStatus reports connectivity as the native side sees it.
type NetworkStatus struct {
	Connected bool   `json:"connected"`
	Type      string `json:"type"`
}

func (n NetworkAPI) StatusNow(ctx context.Context) (*NetworkStatus, error) {
	data, err := n.caller.Call(ctx, methodNetworkStatus, nil)
	if err != nil {
		return nil, err
	}
	var status NetworkStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// AppAPI needs the concrete client: badge updates offer a synchronous
// fire-and-forget variant for teardown paths.
type AppAPI struct {
	client *bridge.Client
}

func (a AppAPI) SetBadgeNow(ctx context.Context, count int) error {
	_, err := a.client.Call(ctx, methodAppSetBadge, bridge.Params{"count": count})
	return err
}

func (a AppAPI) ClearBadgeNow(ctx context.Context) error {
	_, err := a.client.Call(ctx, methodAppClearBadge, nil)
	return err
}

// SetBadgeSync submits the badge update without waiting on a result. Use
// from contexts that are being torn down; there is no delivery confirmation.
func (a AppAPI) SetBadgeSync(count int) {
	a.client.CallSync(methodAppSetBadge, bridge.Params{"count": count})
}

// ClearBadgeSync is the fire-and-forget form of ClearBadgeNow.
func (a AppAPI) ClearBadgeSync() {
	a.client.CallSync(methodAppClearBadge, nil)
}
