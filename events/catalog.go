package events

// The catalog maps readable names to the canonical namespaced identifiers
// native senders dispatch with, so application code never hand-types them.
// Entries are plain data and are never mutated.

type alertEvents struct {
	ButtonPressed string
}

type cameraEvents struct {
	PhotoTaken string
}

type galleryEvents struct {
	MediaSelected string
}

type biometricsEvents struct {
	Completed string
}

type geolocationEvents struct {
	LocationReceived  string
	PermissionChanged string
}

type pushEvents struct {
	TokenGenerated string
}

type paymentsEvents struct {
	SheetCompleted string
}

var (
	Alert = alertEvents{
		ButtonPressed: `Native\Events\Alert\ButtonPressed`,
	}

	Camera = cameraEvents{
		PhotoTaken: `Native\Events\Camera\PhotoTaken`,
	}

	Gallery = galleryEvents{
		MediaSelected: `Native\Events\Gallery\MediaSelected`,
	}

	Biometrics = biometricsEvents{
		Completed: `Native\Events\Biometrics\Completed`,
	}

	Geolocation = geolocationEvents{
		LocationReceived:  `Native\Events\Geolocation\LocationReceived`,
		PermissionChanged: `Native\Events\Geolocation\PermissionChanged`,
	}

	Push = pushEvents{
		TokenGenerated: `Native\Events\PushNotifications\TokenGenerated`,
	}

	Payments = paymentsEvents{
		SheetCompleted: `Native\Events\Payments\SheetCompleted`,
	}
)
