package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
)

// SlotStore keeps slots in process memory. Values are copied on the way in
// and out.
type SlotStore struct {
	mu    sync.RWMutex
	slots map[slotstore.Name][]byte
}

func NewSlotStore(seed map[slotstore.Name][]byte) *SlotStore {
	slots := make(map[slotstore.Name][]byte, len(seed))
	for name, value := range seed {
		slots[name] = append([]byte(nil), value...)
	}
	return &SlotStore{slots: slots}
}

func (s *SlotStore) Get(_ context.Context, name slotstore.Name) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.slots[name]
	if !ok {
		return nil, slotstore.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *SlotStore) Set(_ context.Context, name slotstore.Name, value []byte) error {
	s.mu.Lock()
	s.slots[name] = append([]byte(nil), value...)
	s.mu.Unlock()
	return nil
}

func (s *SlotStore) Remove(_ context.Context, name slotstore.Name) error {
	s.mu.Lock()
	delete(s.slots, name)
	s.mu.Unlock()
	return nil
}

func (s *SlotStore) Apply(_ context.Context, mutations []slotstore.Mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range mutations {
		if m.Remove {
			delete(s.slots, m.Name)
			continue
		}
		s.slots[m.Name] = append([]byte(nil), m.Value...)
	}
	return nil
}
