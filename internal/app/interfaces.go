package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"

	"github.com/venueup/kassad/config"
	"github.com/venueup/kassad/internal/engine"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// EngineProvider provides the sales engine
type EngineProvider interface {
	Engine() *engine.Engine
}

// SettingsProvider provides opaque dashboard settings access
type SettingsProvider interface {
	Settings() *SettingsManager
}

// BusProvider provides the in-process event bus
type BusProvider interface {
	Bus() EventBus.Bus
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context.
// Handlers should depend on specific providers or this combined interface.
type AppContext interface {
	ConfigProvider
	EngineProvider
	SettingsProvider
	BusProvider
	SchedulerProvider

	// Snapshots lists the replay events for a new subscriber
	Snapshots() []Snapshot
	// Release frees application resources
	Release()
}
