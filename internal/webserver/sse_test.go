package webserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venueup/kassad/config"
	"github.com/venueup/kassad/internal/app"
	"github.com/venueup/kassad/internal/domain"
	"github.com/venueup/kassad/internal/engine"
	"github.com/venueup/kassad/internal/store"
)

// syncWriter is a flushable response writer safe to read while the
// handler goroutine is still streaming.
type syncWriter struct {
	mu     sync.Mutex
	buf    []byte
	header http.Header
}

func newSyncWriter() *syncWriter {
	return &syncWriter{header: make(http.Header)}
}

func (w *syncWriter) Header() http.Header { return w.header }

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func (w *syncWriter) WriteHeader(int) {}

func (w *syncWriter) Flush() {}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return string(w.buf)
}

type hubTestCtx struct {
	cfg      *config.AppConfig
	eng      *engine.Engine
	settings *app.SettingsManager
	bus      EventBus.Bus
}

func (h *hubTestCtx) Config() *config.AppConfig     { return h.cfg }
func (h *hubTestCtx) Engine() *engine.Engine        { return h.eng }
func (h *hubTestCtx) Settings() *app.SettingsManager { return h.settings }
func (h *hubTestCtx) Bus() EventBus.Bus             { return h.bus }
func (h *hubTestCtx) Scheduler() *cron.Cron         { return nil }
func (h *hubTestCtx) Release()                      {}

func (h *hubTestCtx) Snapshots() []app.Snapshot {
	return []app.Snapshot{
		{Event: domain.TopicConfigUpdate, Payload: h.settings.BlobJSON(domain.BlobConfig)},
		{Event: domain.TopicThemeUpdate, Payload: h.settings.BlobJSON(domain.BlobTheme)},
		{Event: domain.TopicCalcUpdate, Payload: h.settings.BlobJSON(domain.BlobCalculator)},
		{Event: domain.TopicSalesUpdate, Payload: h.eng.SalesSnapshot()},
		{Event: domain.TopicProductsUpdate, Payload: h.eng.ProductSnapshot()},
		{Event: domain.TopicLoyaltyUpdate, Payload: h.eng.LoyaltySnapshot()},
	}
}

func newHubTestCtx(t *testing.T) *hubTestCtx {
	t.Helper()
	st := store.NewMemoryStore()
	bus := EventBus.New()
	eng := engine.NewEngine(st, bus)
	_, err := eng.RecordSale("2x Cola", decimal.NewFromInt(8), time.Time{})
	require.NoError(t, err)
	return &hubTestCtx{
		cfg:      config.DefaultAppConfig,
		eng:      eng,
		settings: app.NewSettingsManager(st, bus, map[string]string{domain.BlobTheme: `{"accent":"#ff8800"}`}),
		bus:      bus,
	}
}

func TestHandleSSEReplayAndLiveUpdates(t *testing.T) {
	appCtx := newHubTestCtx(t)
	hub, err := NewEventHub(appCtx.bus, appCtx, 4)
	require.NoError(t, err)
	defer hub.Release()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	ctx, cancel := context.WithCancel(req.Context())
	req = req.WithContext(ctx)
	writer := newSyncWriter()
	c := echo.New().NewContext(req, writer)

	done := make(chan struct{})
	go func() {
		_ = hub.HandleSSE(c)
		close(done)
	}()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 5*time.Millisecond)

	// on connect every view is replayed before any live update
	require.Eventually(t, func() bool {
		out := writer.String()
		for _, topic := range hubTopics {
			if !strings.Contains(out, "event: "+topic) {
				return false
			}
		}
		return strings.Contains(out, `"accent":"#ff8800"`) && strings.Contains(out, "2x Cola")
	}, time.Second, 5*time.Millisecond)

	appCtx.bus.Publish(domain.TopicLoyaltyUpdate, map[string]int64{"Anna": 80})
	require.Eventually(t, func() bool {
		return strings.Contains(writer.String(), `"Anna":80`)
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not stop on context cancel")
	}
	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, "text/event-stream", writer.Header().Get(echo.HeaderContentType))
}

func TestBroadcastDropsSlowConsumer(t *testing.T) {
	appCtx := newHubTestCtx(t)
	hub, err := NewEventHub(EventBus.New(), appCtx, 4)
	require.NoError(t, err)
	defer hub.Release()

	stale := sseMessage{event: "stale"}
	slow := &sseClient{ch: make(chan sseMessage, 1)}
	slow.ch <- stale
	normal := &sseClient{ch: make(chan sseMessage, 1)}
	hub.add(slow)
	hub.add(normal)
	defer hub.remove(slow)
	defer hub.remove(normal)

	hub.broadcast(domain.TopicProductsUpdate, map[string]int{"Cola": 2})

	require.Eventually(t, func() bool { return len(normal.ch) == 1 },
		time.Second, 5*time.Millisecond)
	msg := <-normal.ch
	assert.Equal(t, domain.TopicProductsUpdate, msg.event)
	assert.Contains(t, string(msg.data), `"Cola":2`)

	// the full channel kept its old message, the update was dropped
	require.Len(t, slow.ch, 1)
	assert.Equal(t, stale, <-slow.ch)
}
