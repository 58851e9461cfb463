package store

import (
	"sync"

	"github.com/venueup/kassad/internal/domain"
)

// MemoryStore keeps everything in process. Used in tests and for
// throwaway runs; data does not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	txs     map[int64]domain.Transaction
	loyalty map[string]int64
	blobs   map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		txs:     make(map[int64]domain.Transaction),
		loyalty: make(map[string]int64),
		blobs:   make(map[string]string),
	}
}

func (s *MemoryStore) Load() (*domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := &domain.State{Blobs: make(map[string]string, len(s.blobs))}
	for _, tx := range s.txs {
		state.Transactions = append(state.Transactions, tx)
	}
	for name, points := range s.loyalty {
		state.Loyalty = append(state.Loyalty, domain.LoyaltyAccount{Name: name, Points: points})
	}
	for kind, value := range s.blobs {
		state.Blobs[kind] = value
	}
	return state, nil
}

func (s *MemoryStore) AppendTransaction(tx domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[tx.ID] = tx
	return nil
}

func (s *MemoryStore) DeleteTransactions(ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.txs, id)
	}
	return nil
}

func (s *MemoryStore) SaveLoyalty(account domain.LoyaltyAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loyalty[account.Name] = account.Points
	return nil
}

func (s *MemoryStore) DeleteLoyalty(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loyalty, name)
	return nil
}

func (s *MemoryStore) SaveBlob(kind, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[kind] = value
	return nil
}

func (s *MemoryStore) Close() error { return nil }
