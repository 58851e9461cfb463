// Package apiserver exposes the engine over the /api REST surface and
// keeps payloads compatible with the venue dashboard.
package apiserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"

	"github.com/venueup/kassad/internal/domain"
	"github.com/venueup/kassad/internal/engine"
	"github.com/venueup/kassad/internal/webserver"
)

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":    code,
		"message": message,
		"detail":  detail,
	})
}

// failDomain maps engine errors onto HTTP responses.
func failDomain(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return fail(c, http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be a non-negative number", nil)
	case errors.Is(err, domain.ErrMissingName):
		return fail(c, http.StatusBadRequest, "NAME_REQUIRED", "Name required", nil)
	case errors.Is(err, domain.ErrUnknownScope):
		return fail(c, http.StatusBadRequest, "UNKNOWN_SCOPE", "Unknown delete scope", nil)
	case errors.Is(err, domain.ErrPersistenceUnavailable):
		return fail(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Persistence unavailable", err.Error())
	}
	return fail(c, http.StatusInternalServerError, "INTERNAL", "Unexpected error", err.Error())
}

func getEngine(c echo.Context) *engine.Engine {
	return webserver.GetAppContext(c).Engine()
}

// parseDayRange reads optional start/end query params in any common
// date format and normalizes them to day keys.
func parseDayRange(c echo.Context) (string, string, error) {
	normalize := func(param string) (string, error) {
		raw := strings.TrimSpace(c.QueryParam(param))
		if raw == "" {
			return "", nil
		}
		ts, err := dateparse.ParseAny(raw)
		if err != nil {
			return "", err
		}
		return ts.Format(domain.DayKeyLayout), nil
	}
	start, err := normalize("start")
	if err != nil {
		return "", "", err
	}
	end, err := normalize("end")
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}
