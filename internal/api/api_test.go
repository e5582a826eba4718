package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vehicle-configurator/internal/catalog"
	"vehicle-configurator/internal/configurator"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newApp(t *testing.T) (*fiber.App, *configurator.Manager) {
	t.Helper()
	m := configurator.NewManager(catalog.Default(zap.NewNop()), zap.NewNop(), configurator.Options{Width: 48, Height: 36}, 0)
	t.Cleanup(m.Close)
	return New(m, zap.NewNop(), Config{}), m
}

func do(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	app, _ := newApp(t)
	resp := do(t, app, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", decodeJSON[map[string]any](t, resp)["status"])
}

func TestCatalog(t *testing.T) {
	app, _ := newApp(t)
	resp := do(t, app, http.MethodGet, "/api/v1/catalog", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeJSON[catalogResponse](t, resp)
	assert.Len(t, got.Categories, len(catalog.PricedCategories))
	assert.Equal(t, "standard", got.Baseline.Wheel)
	assert.Equal(t, "none", got.Baseline.Spoiler)
	assert.NotEmpty(t, got.Brands)
}

func TestStatelessQuote(t *testing.T) {
	app, _ := newApp(t)
	resp := do(t, app, http.MethodPost, "/api/v1/quote", `{"wheelType":"sport","headlightType":"led","spoilerType":"gt","decalType":"bogus"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeJSON[map[string]any](t, resp)
	assert.EqualValues(t, 85000, got["totalPrice"])
	assert.Equal(t, true, got["hasModifications"])
	assert.EqualValues(t, 1, got["rejected"])
}

func TestSessionFlow(t *testing.T) {
	app, m := newApp(t)

	resp := do(t, app, http.MethodPost, "/api/v1/sessions", `{"brand":"Tata","model":"Nexon"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeJSON[sessionResponse](t, resp)
	require.NotEmpty(t, created.ID)
	assert.Zero(t, created.Quote.TotalPrice)
	assert.False(t, created.Quote.HasModifications)
	assert.Equal(t, 1, m.Len())

	path := "/api/v1/sessions/" + created.ID
	resp = do(t, app, http.MethodPatch, path, `{"headlightType":"led"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, app, http.MethodPatch, path, `{"wheelType":"sport","autoRotate":false}`)
	updated := decodeJSON[sessionResponse](t, resp)
	assert.Equal(t, "led", updated.Quote.Selection.Headlight)
	assert.Equal(t, "sport", updated.Quote.Selection.Wheel)
	assert.Equal(t, "Nexon", updated.Quote.Selection.Model)
	assert.Equal(t, int64(40000), updated.Quote.TotalPrice)
	assert.False(t, updated.Quote.AutoRotate)

	resp = do(t, app, http.MethodPatch, path, `{"wheelType":"hover"}`)
	ignored := decodeJSON[sessionResponse](t, resp)
	assert.Equal(t, 1, ignored.Rejected)
	assert.Equal(t, "sport", ignored.Quote.Selection.Wheel)

	resp = do(t, app, http.MethodPost, path+"/reset", "")
	reset := decodeJSON[sessionResponse](t, resp)
	assert.Zero(t, reset.Quote.TotalPrice)
	assert.False(t, reset.Quote.HasModifications)

	resp = do(t, app, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, app, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCapture(t *testing.T) {
	app, m := newApp(t)
	sess := m.Create()
	path := "/api/v1/sessions/" + sess.ID + "/capture.png"

	resp := do(t, app, http.MethodGet, path+"?render=false", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "nothing rendered yet")
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))

	resp = do(t, app, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 48, img.Bounds().Dx())

	resp = do(t, app, http.MethodGet, path+"?render=false", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "frame matches the selection")
	resp = do(t, app, http.MethodPatch, "/api/v1/sessions/"+sess.ID, `{"spoilerType":"gt"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, app, http.MethodGet, path+"?render=false", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "frame is older than the selection")

	resp = do(t, app, http.MethodGet, path+"?kind=thumbnail&width=24", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	thumb, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 24, thumb.Bounds().Dx())

	resp = do(t, app, http.MethodGet, path+"?kind=poster", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBadRequests(t *testing.T) {
	app, _ := newApp(t)
	resp := do(t, app, http.MethodPost, "/api/v1/sessions", `{"wheelType":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	long := strings.Repeat("x", maxFieldLen+1)
	resp = do(t, app, http.MethodPost, "/api/v1/quote", `{"brand":"`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, http.MethodPatch, "/api/v1/sessions/missing", `{}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	app, _ := newApp(t)
	do(t, app, http.MethodPost, "/api/v1/quote", `{"wheelType":"sport"}`)
	resp := do(t, app, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "configurator_sessions_active")
}

func TestParseSelectionCopiesOnlyPresentFields(t *testing.T) {
	in, err := parseSelection([]byte(`{"spoilerType":"lip","autoRotate":true}`))
	require.NoError(t, err)
	require.NotNil(t, in.Spoiler)
	assert.Equal(t, "lip", *in.Spoiler)
	assert.Nil(t, in.Wheel)
	assert.Nil(t, in.BodyColor)
	require.NotNil(t, in.AutoRotate)
	assert.True(t, *in.AutoRotate)

	empty, err := parseSelection(nil)
	require.NoError(t, err)
	assert.True(t, empty.Update.Empty())
}
