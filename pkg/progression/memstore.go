package progression

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]PartnerAttributes
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]PartnerAttributes)}
}

func (s *MemoryStore) Get(_ context.Context, partnerID string) (PartnerAttributes, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.records[partnerID]
	return a, ok, nil
}

func (s *MemoryStore) Save(_ context.Context, attrs PartnerAttributes) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[attrs.PartnerID] = attrs
	return nil
}

func (s *MemoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]PartnerAttributes)
	return nil
}
