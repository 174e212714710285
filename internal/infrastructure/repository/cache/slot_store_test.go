package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
	slotstoremock "github.com/riskibarqy/squad-tracker/internal/mocks/domain/slotstore"
)

func TestSlotStore_GetCachesIncludingMisses(t *testing.T) {
	ctx := context.Background()
	next := slotstoremock.NewStore(t)
	next.On("Get", mock.Anything, slotstore.Players).Return([]byte(`[]`), nil).Once()
	next.On("Get", mock.Anything, slotstore.RankingBaseline).Return(nil, slotstore.ErrNotFound).Once()

	store := NewSlotStore(next, time.Minute)
	for i := 0; i < 3; i++ {
		got, err := store.Get(ctx, slotstore.Players)
		if err != nil || string(got) != "[]" {
			t.Fatalf("unexpected get result %q %v", got, err)
		}
		if _, err := store.Get(ctx, slotstore.RankingBaseline); !errors.Is(err, slotstore.ErrNotFound) {
			t.Fatalf("expected cached miss, got %v", err)
		}
	}
}

func TestSlotStore_WritesInvalidate(t *testing.T) {
	ctx := context.Background()
	next := slotstoremock.NewStore(t)
	next.On("Get", mock.Anything, slotstore.Players).Return([]byte(`[1]`), nil).Once()
	next.On("Set", mock.Anything, slotstore.Players, []byte(`[2]`)).Return(nil).Once()
	next.On("Get", mock.Anything, slotstore.Players).Return([]byte(`[2]`), nil).Once()
	next.On("Apply", mock.Anything, mock.MatchedBy(func(m []slotstore.Mutation) bool {
		return len(m) == 1 && m[0].Name == slotstore.Players
	})).Return(nil).Once()
	next.On("Get", mock.Anything, slotstore.Players).Return([]byte(`[3]`), nil).Once()

	store := NewSlotStore(next, time.Minute)
	if got, _ := store.Get(ctx, slotstore.Players); string(got) != "[1]" {
		t.Fatalf("unexpected first value %q", got)
	}
	if err := store.Set(ctx, slotstore.Players, []byte(`[2]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := store.Get(ctx, slotstore.Players); string(got) != "[2]" {
		t.Fatalf("expected reload after set, got %q", got)
	}
	if err := store.Apply(ctx, []slotstore.Mutation{slotstore.Put(slotstore.Players, []byte(`[3]`))}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got, _ := store.Get(ctx, slotstore.Players); string(got) != "[3]" {
		t.Fatalf("expected reload after apply, got %q", got)
	}
}

func TestSlotStore_DoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	next := slotstoremock.NewStore(t)
	down := errors.New("connection refused")
	next.On("Get", mock.Anything, slotstore.Players).Return(nil, down).Once()
	next.On("Get", mock.Anything, slotstore.Players).Return([]byte(`[]`), nil).Once()

	store := NewSlotStore(next, time.Minute)
	if _, err := store.Get(ctx, slotstore.Players); !errors.Is(err, down) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if got, err := store.Get(ctx, slotstore.Players); err != nil || string(got) != "[]" {
		t.Fatalf("expected retry to load, got %q %v", got, err)
	}
}
