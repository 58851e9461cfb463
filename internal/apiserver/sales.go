package apiserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/venueup/kassad/internal/webserver"
)

type saleEntryPayload struct {
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Ts          int64       `json:"ts"`
}

// registerSalesRoutes registers sale ledger endpoints
func registerSalesRoutes() {
	webserver.ApiGET("/sales", listSales)
	webserver.ApiPOST("/sales/entry", createSaleEntry)
	webserver.ApiDELETE("/sales", deleteSalesByScope)
	webserver.ApiGET("/products", listProducts)
}

func createSaleEntry(c echo.Context) error {
	var payload saleEntryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be a non-negative number", err.Error())
	}

	amount, err := decimal.NewFromString(payload.Amount.String())
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be a non-negative number", nil)
	}

	var ts time.Time
	if payload.Ts > 0 {
		ts = time.UnixMilli(payload.Ts)
	}

	result, err := getEngine(c).RecordSale(payload.Description, amount, ts)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, map[string]interface{}{
		"ok":       true,
		"day":      result.Day,
		"entry":    result,
		"sales":    result.DaySales,
		"products": getEngine(c).ProductSnapshot(),
	})
}

func listSales(c echo.Context) error {
	return ok(c, getEngine(c).SalesSnapshot())
}

func listProducts(c echo.Context) error {
	return ok(c, getEngine(c).ProductSnapshot())
}

func deleteSalesByScope(c echo.Context) error {
	scope := c.QueryParam("scope")
	count, err := getEngine(c).DeleteByScope(scope)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, map[string]interface{}{"ok": true, "scope": scope, "deleted": count})
}
