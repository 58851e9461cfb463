package app

import (
	"encoding/json"
	"sync"

	"github.com/asaskevich/EventBus"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/venueup/kassad/internal/domain"
	"github.com/venueup/kassad/internal/store"
)

var blobTopics = map[string]string{
	domain.BlobConfig:     domain.TopicConfigUpdate,
	domain.BlobTheme:      domain.TopicThemeUpdate,
	domain.BlobCalculator: domain.TopicCalcUpdate,
}

// SettingsManager owns the opaque dashboard documents (config, theme,
// calculator state). The core never interprets them beyond the typed
// getters below; the dashboard round-trips them as-is.
type SettingsManager struct {
	mu    sync.RWMutex
	blobs map[string]string
	store store.Store
	bus   EventBus.Bus
}

func NewSettingsManager(st store.Store, bus EventBus.Bus, blobs map[string]string) *SettingsManager {
	m := &SettingsManager{
		blobs: make(map[string]string, len(blobs)),
		store: st,
		bus:   bus,
	}
	for kind, value := range blobs {
		m.blobs[kind] = value
	}
	return m
}

// KnownBlob reports whether kind is a managed document.
func KnownBlob(kind string) bool {
	_, ok := blobTopics[kind]
	return ok
}

// BlobJSON returns the stored document, "{}" when unset.
func (m *SettingsManager) BlobJSON(kind string) json.RawMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.blobs[kind]
	if !ok || value == "" {
		return json.RawMessage("{}")
	}
	return json.RawMessage(value)
}

// SaveBlob persists a document and broadcasts its update topic.
func (m *SettingsManager) SaveBlob(kind, value string) error {
	if err := m.store.SaveBlob(kind, value); err != nil {
		return err
	}
	m.mu.Lock()
	m.blobs[kind] = value
	m.mu.Unlock()

	if m.bus != nil {
		m.bus.Publish(blobTopics[kind], json.RawMessage(value))
	}
	return nil
}

func (m *SettingsManager) configValue(key string) interface{} {
	m.mu.RLock()
	raw := m.blobs[domain.BlobConfig]
	m.mu.RUnlock()
	if raw == "" {
		return nil
	}
	var values map[string]interface{}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(raw, &values); err != nil {
		zap.S().Warnf("config blob is not an object: %s", err)
		return nil
	}
	return values[key]
}

// GetString retrieves a string configuration value
func (m *SettingsManager) GetString(key string) string {
	return cast.ToString(m.configValue(key))
}

// GetInt64 retrieves an int64 configuration value
func (m *SettingsManager) GetInt64(key string) int64 {
	return cast.ToInt64(m.configValue(key))
}

// GetBool retrieves a boolean configuration value
func (m *SettingsManager) GetBool(key string) bool {
	return cast.ToBool(m.configValue(key))
}
