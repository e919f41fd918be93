package host

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quaybridge/quay/events"
)

func TestEscapeEventName_RoundTripsWithBusNormalization(t *testing.T) {
	name := events.Camera.PhotoTaken
	escaped := EscapeEventName(name)

	assert.Equal(t, `Native\\Events\\Camera\\PhotoTaken`, escaped)
	assert.Equal(t, name, events.NormalizeName(escaped))
}

func TestHub_EmitPopulatesReplay(t *testing.T) {
	hub := NewHub(slog.Default())

	require.NoError(t, hub.Emit(events.Push.TokenGenerated, map[string]string{"token": "t-1"}))
	require.NoError(t, hub.Emit(events.Biometrics.Completed, map[string]any{"success": true}))

	recent := hub.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, EscapeEventName(events.Push.TokenGenerated), recent[0].Event)
	assert.Equal(t, EscapeEventName(events.Biometrics.Completed), recent[1].Event)
	assert.JSONEq(t, `{"token":"t-1"}`, string(recent[0].Payload))
}

func TestHub_EmitWithoutClientsIsFine(t *testing.T) {
	hub := NewHub(slog.Default())
	assert.NoError(t, hub.Emit("plain-event", nil))
}

// A broadcast racing a disconnect must never send on the closed channel.
func TestHub_EmitRacingUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	for i := 0; i < 200; i++ {
		c := &Client{Send: make(chan []byte, 1)}
		hub.Register(c)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			hub.Emit(events.Alert.ButtonPressed, map[string]string{"id": "a-1"})
		}()
		go func() {
			defer wg.Done()
			hub.Unregister(c)
		}()
		wg.Wait()
	}
}
