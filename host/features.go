package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/toqueteos/webbrowser"

	"github.com/quaybridge/quay/events"
	"github.com/quaybridge/quay/internal/cache"
)

// Store keys for host-owned state.
const (
	keyDeviceID  = "host:device_id"
	keyPushToken = "host:push_token"
	storagePfx   = "secure:"
)

// Features provides development implementations of the built-in capability
// methods. UI-bound capabilities are simulated: dialogs log and emit their
// completion events immediately, geolocation serves configured coordinates.
type Features struct {
	hub       *Hub
	store     SecureStore
	logger    *slog.Logger
	latitude  float64
	longitude float64
	positions *cache.Single[json.RawMessage]
}

func NewFeatures(hub *Hub, store SecureStore, logger *slog.Logger, latitude, longitude float64) *Features {
	return &Features{
		hub:       hub,
		store:     store,
		logger:    logger,
		latitude:  latitude,
		longitude: longitude,
		positions: cache.NewSingle[json.RawMessage](),
	}
}

// RegisterBuiltins binds every development handler into the registry.
func (f *Features) RegisterBuiltins(reg *Registry) {
	reg.Register("Dialog.Alert", f.dialogAlert)
	reg.Register("Dialog.Toast", f.dialogToast)
	reg.Register("Dialog.Share", f.dialogShare)
	reg.Register("Camera.GetPhoto", f.cameraGetPhoto)
	reg.Register("Gallery.Pick", f.galleryPick)
	reg.Register("Geolocation.GetCurrentPosition", f.geoCurrentPosition)
	reg.Register("Geolocation.CheckPermissions", f.geoPermissions)
	reg.Register("Geolocation.RequestPermissions", f.geoPermissions)
	reg.Register("Biometrics.Prompt", f.biometricsPrompt)
	reg.Register("Biometrics.CheckSupport", f.biometricsCheckSupport)
	reg.Register("SecureStorage.Set", f.storageSet)
	reg.Register("SecureStorage.Get", f.storageGet)
	reg.Register("SecureStorage.Delete", f.storageDelete)
	reg.Register("PushNotifications.Enroll", f.pushEnroll)
	reg.Register("PushNotifications.GetToken", f.pushGetToken)
	reg.Register("PushNotifications.Unenroll", f.pushUnenroll)
	reg.Register("Haptics.Vibrate", f.logOnly("haptics vibrate"))
	reg.Register("Haptics.Impact", f.logOnly("haptics impact"))
	reg.Register("Browser.Open", f.browserOpen)
	reg.Register("Browser.InApp", f.browserOpen)
	reg.Register("Device.GetInfo", f.deviceGetInfo)
	reg.Register("Device.GetID", f.deviceGetID)
	reg.Register("Network.GetStatus", f.networkStatus)
	reg.Register("App.SetBadge", f.logOnly("badge set"))
	reg.Register("App.ClearBadge", f.logOnly("badge cleared"))
}

func (f *Features) logOnly(msg string) Handler {
	return func(_ context.Context, params json.RawMessage) (any, error) {
		f.logger.Info(msg, "params", string(params))
		return nil, nil
	}
}

func (f *Features) dialogAlert(_ context.Context, params json.RawMessage) (any, error) {
	var p struct {
		ID      string   `json:"id"`
		Title   string   `json:"title"`
		Message string   `json:"message"`
		Buttons []string `json:"buttons"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("malformed alert params")
	}
	f.logger.Info("alert shown", "title", p.Title, "message", p.Message)

	// The dev host has no UI: the first button is "pressed" immediately.
	label := "OK"
	if len(p.Buttons) > 0 {
		label = p.Buttons[0]
	}
	f.hub.Emit(events.Alert.ButtonPressed, map[string]any{
		"id":    p.ID,
		"index": 0,
		"label": label,
	})
	return nil, nil
}

func (f *Features) dialogToast(_ context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Message  string `json:"message"`
		Duration string `json:"duration"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("malformed toast params")
	}
	f.logger.Info("toast shown", "message", p.Message, "duration", p.Duration)
	return nil, nil
}

func (f *Features) dialogShare(_ context.Context, params json.RawMessage) (any, error) {
	f.logger.Info("share sheet requested", "params", string(params))
	return nil, nil
}

func (f *Features) cameraGetPhoto(context.Context, json.RawMessage) (any, error) {
	return nil, fmt.Errorf("camera is not available on %s", runtime.GOOS)
}

func (f *Features) galleryPick(context.Context, json.RawMessage) (any, error) {
	return map[string]any{"items": []any{}}, nil
}

func (f *Features) geoCurrentPosition(context.Context, json.RawMessage) (any, error) {
	return f.positions.Get("position", 30*time.Second, func() (json.RawMessage, error) {
		return json.Marshal(map[string]any{
			"latitude":  f.latitude,
			"longitude": f.longitude,
			"accuracy":  50.0,
			"timestamp": time.Now().UnixMilli(),
		})
	})
}

func (f *Features) geoPermissions(context.Context, json.RawMessage) (any, error) {
	return map[string]string{
		"location":       "granted",
		"coarseLocation": "granted",
	}, nil
}

func (f *Features) biometricsPrompt(_ context.Context, params json.RawMessage) (any, error) {
	var p struct {
		ID string `json:"id"`
	}
	json.Unmarshal(params, &p)
	f.hub.Emit(events.Biometrics.Completed, map[string]any{
		"id":      p.ID,
		"success": true,
	})
	return nil, nil
}

func (f *Features) biometricsCheckSupport(context.Context, json.RawMessage) (any, error) {
	return map[string]bool{"supported": false}, nil
}

func (f *Features) storageSet(_ context.Context, params json.RawMessage) (any, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(params, &raw); err != nil {
		return nil, fmt.Errorf("malformed storage params")
	}
	var key string
	if err := json.Unmarshal(raw["key"], &key); err != nil || key == "" {
		return nil, fmt.Errorf("key is required")
	}

	// An explicit null value is a delete instruction; an absent value is a
	// malformed call.
	value, present := raw["value"]
	if !present {
		return nil, fmt.Errorf("value is required")
	}
	if string(value) == "null" {
		return nil, f.store.Delete(storagePfx + key)
	}

	var str string
	if err := json.Unmarshal(value, &str); err != nil {
		return nil, fmt.Errorf("value must be a string or null")
	}
	return nil, f.store.Set(storagePfx+key, str)
}

func (f *Features) storageGet(_ context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(params, &p); err != nil || p.Key == "" {
		return nil, fmt.Errorf("key is required")
	}
	value, err := f.store.Get(storagePfx + p.Key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return map[string]string{"value": value}, nil
}

func (f *Features) storageDelete(_ context.Context, params json.RawMessage) (any, error) {
	var p struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(params, &p); err != nil || p.Key == "" {
		return nil, fmt.Errorf("key is required")
	}
	return nil, f.store.Delete(storagePfx + p.Key)
}

func (f *Features) pushEnroll(_ context.Context, params json.RawMessage) (any, error) {
	var p struct {
		ID string `json:"id"`
	}
	json.Unmarshal(params, &p)

	token, err := f.store.Get(keyPushToken)
	if errors.Is(err, ErrNotFound) {
		token = uuid.NewString()
		if err := f.store.Set(keyPushToken, token); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	f.hub.Emit(events.Push.TokenGenerated, map[string]string{
		"id":    p.ID,
		"token": token,
	})
	return nil, nil
}

func (f *Features) pushGetToken(context.Context, json.RawMessage) (any, error) {
	token, err := f.store.Get(keyPushToken)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return map[string]string{"token": token}, nil
}

func (f *Features) pushUnenroll(context.Context, json.RawMessage) (any, error) {
	return nil, f.store.Delete(keyPushToken)
}

func (f *Features) browserOpen(_ context.Context, params json.RawMessage) (any, error) {
	var p struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(params, &p); err != nil || p.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	if err := webbrowser.Open(p.URL); err != nil {
		return nil, fmt.Errorf("open browser: %w", err)
	}
	return nil, nil
}

func (f *Features) deviceGetInfo(context.Context, json.RawMessage) (any, error) {
	hostname, _ := os.Hostname()
	return map[string]string{
		"platform":   runtime.GOOS,
		"model":      hostname,
		"osVersion":  runtime.GOARCH,
		"appVersion": "dev",
	}, nil
}

func (f *Features) deviceGetID(context.Context, json.RawMessage) (any, error) {
	id, err := f.store.Get(keyDeviceID)
	if errors.Is(err, ErrNotFound) {
		id = uuid.NewString()
		if err := f.store.Set(keyDeviceID, id); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return map[string]string{"id": id}, nil
}

func (f *Features) networkStatus(context.Context, json.RawMessage) (any, error) {
	return map[string]any{
		"connected": true,
		"type":      "wifi",
	}, nil
}
