package webserver

import (
	"fmt"
	"sync"

	"github.com/asaskevich/EventBus"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/venueup/kassad/internal/app"
	"github.com/venueup/kassad/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var hubTopics = []string{
	domain.TopicSalesUpdate,
	domain.TopicProductsUpdate,
	domain.TopicLoyaltyUpdate,
	domain.TopicConfigUpdate,
	domain.TopicThemeUpdate,
	domain.TopicCalcUpdate,
}

type sseMessage struct {
	event string
	data  []byte
}

type sseClient struct {
	ch chan sseMessage
}

// EventHub fans engine updates out to connected dashboards. The engine
// publishes on the bus and never sees a client connection; delivery
// runs on a bounded worker pool so one slow consumer cannot stall a
// mutation.
type EventHub struct {
	mu      sync.Mutex
	clients map[*sseClient]struct{}
	pool    *ants.Pool
	appCtx  app.AppContext
}

func NewEventHub(bus EventBus.Bus, appCtx app.AppContext, poolSize int) (*EventHub, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	hub := &EventHub{
		clients: make(map[*sseClient]struct{}),
		pool:    pool,
		appCtx:  appCtx,
	}
	for _, topic := range hubTopics {
		topic := topic
		if err := bus.Subscribe(topic, func(payload interface{}) {
			hub.broadcast(topic, payload)
		}); err != nil {
			pool.Release()
			return nil, err
		}
	}
	return hub, nil
}

func (h *EventHub) broadcast(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		zap.S().Errorf("encode %s payload: %s", event, err)
		return
	}
	msg := sseMessage{event: event, data: data}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client := client
		if err := h.pool.Submit(func() {
			select {
			case client.ch <- msg:
			default:
				// slow consumer, drop the update; the next one
				// carries a full snapshot anyway
			}
		}); err != nil {
			zap.S().Warnf("sse delivery pool: %s", err)
		}
	}
}

func (h *EventHub) add(client *sseClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	zap.S().Debugf("sse client connected, %d total", n)
}

func (h *EventHub) remove(client *sseClient) {
	h.mu.Lock()
	delete(h.clients, client)
	h.mu.Unlock()
}

// ClientCount returns the number of connected subscribers.
func (h *EventHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Release stops the delivery pool.
func (h *EventHub) Release() {
	h.pool.Release()
}

// HandleSSE streams updates to one dashboard. On connect every current
// snapshot is replayed, then live updates follow.
func (h *EventHub) HandleSSE(c echo.Context) error {
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(200)

	client := &sseClient{ch: make(chan sseMessage, 16)}
	h.add(client)
	defer h.remove(client)

	for _, snap := range h.appCtx.Snapshots() {
		data, err := json.Marshal(snap.Payload)
		if err != nil {
			continue
		}
		if err := writeSSE(c, sseMessage{event: snap.Event, data: data}); err != nil {
			return nil
		}
	}

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-client.ch:
			if err := writeSSE(c, msg); err != nil {
				return nil
			}
		}
	}
}

func writeSSE(c echo.Context, msg sseMessage) error {
	if _, err := fmt.Fprintf(c.Response(), "event: %s\ndata: %s\n\n", msg.event, msg.data); err != nil {
		return err
	}
	c.Response().Flush()
	return nil
}
