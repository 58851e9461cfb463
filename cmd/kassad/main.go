package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/venueup/kassad/config"
	"github.com/venueup/kassad/internal/apiserver"
	"github.com/venueup/kassad/internal/app"
	"github.com/venueup/kassad/internal/webserver"
)

var (
	configFile = flag.String("c", "/etc/kassad.yml", "config file")
	showVer    = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println(version)
		return
	}

	cfg := config.LoadConfig(*configFile)

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "init: %s\n", err)
		os.Exit(1)
	}
	defer application.Release()

	webserver.Init(application)
	apiserver.InitRouter()

	hub, err := webserver.NewEventHub(application.Bus(), application, 64)
	if err != nil {
		zap.S().Fatalf("event hub: %s", err)
	}
	defer hub.Release()
	webserver.ApiGET("/events", hub.HandleSSE)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webserver.Start(application)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return webserver.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zap.S().Errorf("server exited: %s", err)
	}
}
