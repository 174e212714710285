package cache

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
	basecache "github.com/riskibarqy/squad-tracker/internal/platform/cache"
)

const keyPrefix = "slot:"

type cachedSlot struct {
	value  []byte
	exists bool
}

// SlotStore is a read-through cache in front of another slot store. Writes
// go to the next store first and then drop the cached entries.
type SlotStore struct {
	next  slotstore.Store
	cache *basecache.Store[cachedSlot]
}

func NewSlotStore(next slotstore.Store, ttl time.Duration) *SlotStore {
	return &SlotStore{next: next, cache: basecache.NewStore[cachedSlot](ttl)}
}

func key(name slotstore.Name) string {
	return keyPrefix + string(name)
}

func (s *SlotStore) Get(ctx context.Context, name slotstore.Name) ([]byte, error) {
	v, err := s.cache.GetOrLoad(ctx, key(name), func(ctx context.Context) (cachedSlot, error) {
		value, err := s.next.Get(ctx, name)
		if errors.Is(err, slotstore.ErrNotFound) {
			return cachedSlot{}, nil
		}
		if err != nil {
			return cachedSlot{}, err
		}
		return cachedSlot{value: append([]byte(nil), value...), exists: true}, nil
	})
	if err != nil {
		return nil, err
	}
	if !v.exists {
		return nil, slotstore.ErrNotFound
	}
	return append([]byte(nil), v.value...), nil
}

func (s *SlotStore) Set(ctx context.Context, name slotstore.Name, value []byte) error {
	defer s.cache.Delete(ctx, key(name))
	return s.next.Set(ctx, name, value)
}

func (s *SlotStore) Remove(ctx context.Context, name slotstore.Name) error {
	defer s.cache.Delete(ctx, key(name))
	return s.next.Remove(ctx, name)
}

func (s *SlotStore) Apply(ctx context.Context, mutations []slotstore.Mutation) error {
	keys := make([]string, 0, len(mutations))
	for _, m := range mutations {
		keys = append(keys, key(m.Name))
	}
	defer s.cache.Delete(ctx, keys...)
	return s.next.Apply(ctx, mutations)
}
