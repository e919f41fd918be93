// Package native exposes one facade per device capability domain. Every
// relevant action has two calling conventions: an immediate form
// (AlertNow, PickNow, ...) that performs the bridge call directly with
// defaults filled in, and a builder form (Alert(), Pick(), ...) returning a
// chainable pending operation for optional configuration and correlation.
//
// Facades only shape parameters and fill defaults; all substantive behavior
// lives on the native side of the bridge.
package native

import (
	"fmt"

	"github.com/quaybridge/quay/bridge"
)

// API aggregates every namespace facade over one shared bridge client.
type API struct {
	Dialog        DialogAPI
	Camera        CameraAPI
	Gallery       GalleryAPI
	Geolocation   GeolocationAPI
	Biometrics    BiometricsAPI
	SecureStorage SecureStorageAPI
	Push          PushAPI
	Haptics       HapticsAPI
	Browser       BrowserAPI
	Payments      PaymentsAPI
	Device        DeviceAPI
	Network       NetworkAPI
	App           AppAPI
}

func New(c *bridge.Client) *API {
	return &API{
		Dialog:        DialogAPI{caller: c},
		Camera:        CameraAPI{caller: c},
		Gallery:       GalleryAPI{caller: c},
		Geolocation:   GeolocationAPI{caller: c},
		Biometrics:    BiometricsAPI{caller: c},
		SecureStorage: SecureStorageAPI{caller: c},
		Push:          PushAPI{caller: c},
		Haptics:       HapticsAPI{caller: c},
		Browser:       BrowserAPI{caller: c},
		Payments:      PaymentsAPI{caller: c},
		Device:        DeviceAPI{caller: c},
		Network:       NetworkAPI{caller: c},
		App:           AppAPI{client: c},
	}
}

// requireFields validates that each named param is present and non-empty,
// failing fast before any network call.
func requireFields(names ...string) func(bridge.Params) error {
	return func(params bridge.Params) error {
		for _, name := range names {
			v, ok := params[name]
			if !ok || v == "" || v == nil {
				return fmt.Errorf("%s is required", name)
			}
		}
		return nil
	}
}
