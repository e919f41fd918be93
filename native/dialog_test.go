package native

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quaybridge/quay/bridge"
)

func TestAlertNow_SendsDefaultButtons(t *testing.T) {
	api, host := newTestAPI(t)

	err := api.Dialog.AlertNow(context.Background(), "Title", "Body")
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"method":"Dialog.Alert","params":{"title":"Title","message":"Body","buttons":["OK"]}}`,
		host.lastBody(t))
}

func TestAlertBuilder_SendsConfiguredEnvelopeOnce(t *testing.T) {
	api, host := newTestAPI(t)

	b := api.Dialog.Alert().Title("T").Message("M").Buttons("Cancel", "OK")
	require.NoError(t, b.Resolve(context.Background()))
	require.NoError(t, b.Resolve(context.Background()))

	require.Len(t, host.calls(), 1)
	assert.JSONEq(t,
		`{"method":"Dialog.Alert","params":{"title":"T","message":"M","buttons":["Cancel","OK"]}}`,
		host.lastBody(t))
}

func TestAlertBuilder_ErrorSurfacesHostMessage(t *testing.T) {
	api, host := newTestAPI(t)
	host.respond("Dialog.Alert", `{"status":"error","message":"Denied"}`)

	err := api.Dialog.Alert().Title("T").Resolve(context.Background())
	require.Error(t, err)

	var bridgeErr *bridge.Error
	require.ErrorAs(t, err, &bridgeErr)
	assert.Equal(t, "Denied", bridgeErr.Message)
}

func TestToastNow_DefaultsToLongDuration(t *testing.T) {
	api, host := newTestAPI(t)

	require.NoError(t, api.Dialog.ToastNow(context.Background(), "saved"))
	assert.JSONEq(t,
		`{"method":"Dialog.Toast","params":{"message":"saved","duration":"long"}}`,
		host.lastBody(t))
}

func TestToastBuilder_OverridesDuration(t *testing.T) {
	api, host := newTestAPI(t)

	err := api.Dialog.Toast().Message("hi").Duration(DurationShort).Resolve(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"method":"Dialog.Toast","params":{"message":"hi","duration":"short"}}`,
		host.lastBody(t))
}

func TestShareNow(t *testing.T) {
	api, host := newTestAPI(t)

	err := api.Dialog.ShareNow(context.Background(), "T", "text", "https://example.com")
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"method":"Dialog.Share","params":{"title":"T","text":"text","url":"https://example.com"}}`,
		host.lastBody(t))
}
