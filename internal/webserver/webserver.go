// Package webserver hosts the echo HTTP server and the SSE update hub.
// API handlers register themselves through the ApiGET/ApiPOST helpers.
package webserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/venueup/kassad/internal/app"
)

const appContextKey = "kassad_appctx"

type WebServer struct {
	root *echo.Echo
	api  *echo.Group
}

var server *WebServer

// Init builds the server and injects the application context into
// every request.
func Init(appCtx app.AppContext) {
	e := echo.New()
	e.HideBanner = true
	e.Debug = appCtx.Config().Web.Debug
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appContextKey, appCtx)
			return next(c)
		}
	})
	e.GET("/status", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	server = &WebServer{root: e, api: e.Group("/api")}
}

// Instance exposes the underlying echo engine, mainly for tests.
func Instance() *echo.Echo {
	return server.root
}

// GetAppContext pulls the application context out of a request.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(appContextKey).(app.AppContext)
}

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

// Start blocks serving HTTP until shutdown.
func Start(appCtx app.AppContext) error {
	cfg := appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("Starting web server on %s", addr)
	err := server.root.Start(addr)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func Shutdown(ctx context.Context) error {
	if server == nil {
		return nil
	}
	return server.root.Shutdown(ctx)
}
