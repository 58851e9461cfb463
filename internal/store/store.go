// Package store holds the narrow persistence contract behind the sales
// engine. The engine persists before acknowledging a mutation and never
// retries; a failed call surfaces to the caller.
package store

import (
	"fmt"
	"path/filepath"

	"github.com/venueup/kassad/config"
	"github.com/venueup/kassad/internal/domain"
)

type Store interface {
	// Load reads the full persisted dataset at startup.
	Load() (*domain.State, error)
	AppendTransaction(tx domain.Transaction) error
	DeleteTransactions(ids []int64) error
	SaveLoyalty(account domain.LoyaltyAccount) error
	DeleteLoyalty(name string) error
	SaveBlob(kind, value string) error
	Close() error
}

// New selects a backend by database.type.
func New(cfg *config.AppConfig) (Store, error) {
	switch cfg.Database.Type {
	case "bolt", "":
		return NewBoltStore(filepath.Join(cfg.System.Workdir, "kassad.db"))
	case "postgres":
		return NewGormStore(cfg.Database)
	case "memory":
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unsupported database type %q", cfg.Database.Type)
}
