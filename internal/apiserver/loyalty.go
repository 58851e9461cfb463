package apiserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/venueup/kassad/internal/webserver"
)

type loyaltyPayload struct {
	Name   string `json:"name"`
	Points int64  `json:"points"`
}

// registerLoyaltyRoutes registers loyalty endpoints
func registerLoyaltyRoutes() {
	webserver.ApiGET("/loyalty", listLoyalty)
	webserver.ApiGET("/loyalty/stats", getLoyaltyStats)
	webserver.ApiPOST("/loyalty", addLoyaltyPoints)
	webserver.ApiDELETE("/loyalty", removeLoyaltyAccount)
}

func addLoyaltyPoints(c echo.Context) error {
	var payload loyaltyPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse loyalty payload", err.Error())
	}

	change, err := getEngine(c).AddLoyaltyPoints(payload.Name, payload.Points)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, map[string]interface{}{
		"ok":      true,
		"change":  change,
		"loyalty": getEngine(c).LoyaltySnapshot(),
	})
}

func removeLoyaltyAccount(c echo.Context) error {
	var payload loyaltyPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse loyalty payload", err.Error())
	}

	if err := getEngine(c).RemoveLoyaltyAccount(payload.Name); err != nil {
		return failDomain(c, err)
	}
	return ok(c, map[string]interface{}{
		"ok":      true,
		"loyalty": getEngine(c).LoyaltySnapshot(),
	})
}

func listLoyalty(c echo.Context) error {
	return ok(c, getEngine(c).LoyaltyList())
}

func getLoyaltyStats(c echo.Context) error {
	return ok(c, getEngine(c).LoyaltyStats())
}
