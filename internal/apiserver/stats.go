package apiserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/venueup/kassad/internal/webserver"
	"github.com/venueup/kassad/pkg/metrics"
)

// registerStatsRoutes registers the statistics endpoints
func registerStatsRoutes() {
	webserver.ApiGET("/stats/overview", getOverview)
	webserver.ApiGET("/stats/products", getProductStats)
	webserver.ApiGET("/stats/timeline", getTimeline)
	webserver.ApiGET("/stats/rushhour", getRushHour)
	webserver.ApiGET("/stats/top", getTopProducts)
	webserver.ApiGET("/metrics", getMetric)
}

func getOverview(c echo.Context) error {
	start, end, err := parseDayRange(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse date range", err.Error())
	}
	return ok(c, getEngine(c).Overview(start, end))
}

func getProductStats(c echo.Context) error {
	start, end, err := parseDayRange(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse date range", err.Error())
	}
	return ok(c, getEngine(c).ProductStats(start, end))
}

func getTimeline(c echo.Context) error {
	group := c.QueryParam("group")
	switch group {
	case "", "day", "week", "month":
	default:
		return fail(c, http.StatusBadRequest, "INVALID_GROUP", "group must be day, week or month", nil)
	}
	start, end, err := parseDayRange(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse date range", err.Error())
	}
	return ok(c, getEngine(c).Timeline(group, start, end))
}

func getRushHour(c echo.Context) error {
	return ok(c, getEngine(c).RushHour())
}

// getMetric returns operational gauge/counter datapoints, unix-second
// bounds, default trailing 24h.
func getMetric(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "name required", nil)
	}
	end := cast.ToInt64(c.QueryParam("end"))
	if end == 0 {
		end = time.Now().Unix()
	}
	start := cast.ToInt64(c.QueryParam("start"))
	if start == 0 {
		start = end - 86400
	}
	points, err := metrics.Select(name, start, end)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "Unexpected error", err.Error())
	}
	return ok(c, points)
}

func getTopProducts(c echo.Context) error {
	period := c.QueryParam("period")
	switch period {
	case "", "today", "week", "month", "all":
	default:
		return fail(c, http.StatusBadRequest, "INVALID_PERIOD", "period must be today, week, month or all", nil)
	}
	return ok(c, getEngine(c).TopProducts(period))
}
