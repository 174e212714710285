package postgres

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
	"github.com/riskibarqy/squad-tracker/internal/platform/resilience"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(crerr.Wrap(sql.ErrNoRows, "get slot")) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(errors.New("pq: relation storage_slots does not exist")) {
		t.Fatalf("expected unrelated error to be false")
	}
}

func TestSlotStore_OpenCircuitIsUnavailable(t *testing.T) {
	breaker := resilience.NewCircuitBreaker(resilience.BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute})
	store := NewSlotStore(nil, breaker)

	down := errors.New("dial tcp: connection refused")
	if err := store.guard(func() error { return down }); !errors.Is(err, down) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	err := store.guard(func() error {
		t.Fatalf("call must not reach the database while the circuit is open")
		return nil
	})
	wrapped := store.wrap(err, "get slot %s", slotstore.Players)
	if !errors.Is(wrapped, slotstore.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", wrapped)
	}
	if errors.Is(store.wrap(down, "get slot %s", slotstore.Players), slotstore.ErrUnavailable) {
		t.Fatalf("plain driver errors must not be marked unavailable")
	}
}
