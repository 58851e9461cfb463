package apiserver

import (
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"

	"github.com/venueup/kassad/internal/app"
	"github.com/venueup/kassad/internal/domain"
	"github.com/venueup/kassad/internal/webserver"
)

// registerSettingsRoutes registers the opaque blob endpoints. The
// dashboard round-trips these documents; the server never looks inside.
func registerSettingsRoutes() {
	for _, kind := range []string{domain.BlobConfig, domain.BlobTheme, domain.BlobCalculator} {
		kind := kind
		webserver.ApiGET("/"+kind, func(c echo.Context) error {
			return getBlob(c, kind)
		})
		webserver.ApiPOST("/"+kind, func(c echo.Context) error {
			return saveBlob(c, kind)
		})
		webserver.ApiPUT("/"+kind, func(c echo.Context) error {
			return saveBlob(c, kind)
		})
	}
}

func getBlob(c echo.Context, kind string) error {
	settings := webserver.GetAppContext(c).Settings()
	return c.JSONBlob(http.StatusOK, settings.BlobJSON(kind))
}

func saveBlob(c echo.Context, kind string) error {
	if !app.KnownBlob(kind) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Unknown document", nil)
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read body", err.Error())
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	if !jsoniter.Valid(body) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Body must be valid JSON", nil)
	}

	settings := webserver.GetAppContext(c).Settings()
	if err := settings.SaveBlob(kind, string(body)); err != nil {
		return fail(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Persistence unavailable", err.Error())
	}
	return ok(c, map[string]interface{}{"ok": true})
}
