package app

import (
	"os"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/venueup/kassad/config"
	"github.com/venueup/kassad/internal/domain"
	"github.com/venueup/kassad/internal/engine"
	"github.com/venueup/kassad/internal/store"
	"github.com/venueup/kassad/pkg/metrics"
)

type Application struct {
	appConfig *config.AppConfig
	store     store.Store
	engine    *engine.Engine
	settings  *SettingsManager
	bus       EventBus.Bus
	sched     *cron.Cron
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ EngineProvider    = (*Application)(nil)
	_ SettingsProvider  = (*Application)(nil)
	_ BusProvider       = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Engine() *engine.Engine {
	return a.engine
}

func (a *Application) Store() store.Store {
	return a.store
}

func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Settings returns the settings manager
func (a *Application) Settings() *SettingsManager {
	return a.settings
}

// OverrideStore replaces the application's store (used in tests).
func (a *Application) OverrideStore(st store.Store) {
	a.store = st
}

func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	if err := os.MkdirAll(cfg.System.Workdir, 0o755); err != nil {
		return err
	}

	// Dashboards consume plain JSON numbers for money values.
	decimal.MarshalJSONWithoutQuotes = true

	if err := metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	a.bus = EventBus.New()

	a.store, err = store.New(cfg)
	if err != nil {
		return err
	}
	zap.S().Infof("Store opened, type: %s", cfg.Database.Type)

	state, err := a.store.Load()
	if err != nil {
		return err
	}

	a.engine = engine.NewEngine(a.store, a.bus)
	a.engine.Restore(state)

	a.settings = NewSettingsManager(a.store, a.bus, state.Blobs)

	a.initJob()
	return nil
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// Snapshot is one replayed event for a freshly connected dashboard.
type Snapshot struct {
	Event   string
	Payload interface{}
}

// Snapshots returns the full set of views a new subscriber receives on
// connect, mirroring what live updates would have delivered.
func (a *Application) Snapshots() []Snapshot {
	return []Snapshot{
		{Event: domain.TopicConfigUpdate, Payload: a.settings.BlobJSON(domain.BlobConfig)},
		{Event: domain.TopicThemeUpdate, Payload: a.settings.BlobJSON(domain.BlobTheme)},
		{Event: domain.TopicCalcUpdate, Payload: a.settings.BlobJSON(domain.BlobCalculator)},
		{Event: domain.TopicSalesUpdate, Payload: a.engine.SalesSnapshot()},
		{Event: domain.TopicProductsUpdate, Payload: a.engine.ProductSnapshot()},
		{Event: domain.TopicLoyaltyUpdate, Payload: a.engine.LoyaltySnapshot()},
	}
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}

	if a.store != nil {
		_ = a.store.Close()
	}

	_ = metrics.Close()
	_ = zap.L().Sync()
}
