package apiserver

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venueup/kassad/config"
	"github.com/venueup/kassad/internal/app"
	"github.com/venueup/kassad/internal/webserver"
)

var setupOnce sync.Once

func setupServer(t *testing.T) {
	t.Helper()
	setupOnce.Do(func() {
		workdir, err := os.MkdirTemp("", "kassad-api")
		if err != nil {
			panic(err)
		}
		cfg := new(config.AppConfig)
		*cfg = *config.DefaultAppConfig
		cfg.System.Workdir = workdir
		cfg.Database.Type = "memory"
		cfg.Logger.FileEnable = false

		application := app.NewApplication(cfg)
		if err := application.Init(cfg); err != nil {
			panic(err)
		}
		webserver.Init(application)
		InitRouter()
	})
}

func doJSON(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echoHeaderContentType, "application/json")
	}
	rec := httptest.NewRecorder()
	webserver.Instance().ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = jsoniter.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec, decoded
}

const echoHeaderContentType = "Content-Type"

func TestCreateSaleEntry(t *testing.T) {
	setupServer(t)

	rec, body := doJSON(t, http.MethodPost, "/api/sales/entry",
		`{"description":"2x Pop UP + 1x Burn UP","amount":900}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["ok"])
	assert.NotEmpty(t, body["day"])

	products, ok := body["products"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, products, "Pop UP")
	assert.Contains(t, products, "Burn UP")
}

func TestCreateSaleEntryBadAmount(t *testing.T) {
	setupServer(t)

	rec, body := doJSON(t, http.MethodPost, "/api/sales/entry",
		`{"description":"1x Pop UP","amount":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_AMOUNT", body["code"])
}

func TestListSalesAndProducts(t *testing.T) {
	setupServer(t)

	rec, _ := doJSON(t, http.MethodGet, "/api/sales", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteUnknownScope(t *testing.T) {
	setupServer(t)

	rec, body := doJSON(t, http.MethodDelete, "/api/sales?scope=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "UNKNOWN_SCOPE", body["code"])
}

func TestLoyaltyEndpoints(t *testing.T) {
	setupServer(t)

	rec, body := doJSON(t, http.MethodPost, "/api/loyalty", `{"name":"Anna","points":80}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	change, ok := body["change"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Silver", change["new_tier"])

	rec, body = doJSON(t, http.MethodPost, "/api/loyalty", `{"points":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "NAME_REQUIRED", body["code"])

	rec, _ = doJSON(t, http.MethodGet, "/api/loyalty/stats", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatsValidation(t *testing.T) {
	setupServer(t)

	rec, body := doJSON(t, http.MethodGet, "/api/stats/timeline?group=decade", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_GROUP", body["code"])

	rec, body = doJSON(t, http.MethodGet, "/api/stats/top?period=year", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PERIOD", body["code"])

	rec, _ = doJSON(t, http.MethodGet, "/api/stats/overview", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = doJSON(t, http.MethodGet, "/api/stats/overview?start=not-a-date", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_DATE", body["code"])
}

func TestSettingsRoundTrip(t *testing.T) {
	setupServer(t)

	rec, _ := doJSON(t, http.MethodGet, "/api/theme", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "{}", rec.Body.String())

	rec, _ = doJSON(t, http.MethodPost, "/api/theme", `{"accent":"#ff8800"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, http.MethodGet, "/api/theme", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"accent":"#ff8800"}`, rec.Body.String())

	rec, _ = doJSON(t, http.MethodPut, "/api/theme", `{"accent":"#0044ff"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, http.MethodGet, "/api/theme", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"accent":"#0044ff"}`, rec.Body.String())

	rec, body := doJSON(t, http.MethodPost, "/api/config", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", body["code"])
}

func TestMetricsEndpoint(t *testing.T) {
	setupServer(t)

	rec, body := doJSON(t, http.MethodGet, "/api/metrics", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", body["code"])

	rec, _ = doJSON(t, http.MethodGet, "/api/metrics?name=sales_recorded", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExportCSV(t *testing.T) {
	setupServer(t)

	rec, _ := doJSON(t, http.MethodGet, "/api/export/csv", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "id,day,hour,amount,description,timestamp")
}
