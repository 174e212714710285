package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
	"github.com/riskibarqy/squad-tracker/internal/platform/resilience"
)

const (
	getSlotQuery = `
SELECT name, payload, updated_at
FROM storage_slots
WHERE name = $1`

	upsertSlotQuery = `
INSERT INTO storage_slots (name, payload, updated_at)
VALUES ($1, $2::jsonb, NOW())
ON CONFLICT (name)
DO UPDATE SET
    payload = EXCLUDED.payload,
    updated_at = EXCLUDED.updated_at`

	deleteSlotQuery = `
DELETE FROM storage_slots
WHERE name = $1`
)

type slotTableModel struct {
	Name      string    `db:"name"`
	Payload   []byte    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SlotStore keeps each slot as one jsonb row of storage_slots.
type SlotStore struct {
	db      *sqlx.DB
	breaker *resilience.CircuitBreaker
}

func NewSlotStore(db *sqlx.DB, breaker *resilience.CircuitBreaker) *SlotStore {
	return &SlotStore{db: db, breaker: breaker}
}

func (s *SlotStore) Get(ctx context.Context, name slotstore.Name) ([]byte, error) {
	var row slotTableModel
	err := s.guard(func() error {
		return s.db.GetContext(ctx, &row, getSlotQuery, string(name))
	})
	if err != nil {
		if isNotFound(err) {
			return nil, slotstore.ErrNotFound
		}
		return nil, s.wrap(err, "get slot %s", name)
	}
	return row.Payload, nil
}

func (s *SlotStore) Set(ctx context.Context, name slotstore.Name, value []byte) error {
	err := s.guard(func() error {
		_, err := s.db.ExecContext(ctx, upsertSlotQuery, string(name), string(value))
		return err
	})
	if err != nil {
		return s.wrap(err, "upsert slot %s", name)
	}
	return nil
}

func (s *SlotStore) Remove(ctx context.Context, name slotstore.Name) error {
	err := s.guard(func() error {
		_, err := s.db.ExecContext(ctx, deleteSlotQuery, string(name))
		return err
	})
	if err != nil {
		return s.wrap(err, "delete slot %s", name)
	}
	return nil
}

func (s *SlotStore) Apply(ctx context.Context, mutations []slotstore.Mutation) error {
	if len(mutations) == 0 {
		return nil
	}
	err := s.guard(func() error {
		tx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			return crerr.Wrap(err, "begin tx for slot batch")
		}
		defer func() {
			_ = tx.Rollback()
		}()

		for _, m := range mutations {
			if m.Remove {
				if _, err := tx.ExecContext(ctx, deleteSlotQuery, string(m.Name)); err != nil {
					return crerr.Wrapf(err, "delete slot %s", m.Name)
				}
				continue
			}
			if _, err := tx.ExecContext(ctx, upsertSlotQuery, string(m.Name), string(m.Value)); err != nil {
				return crerr.Wrapf(err, "upsert slot %s", m.Name)
			}
		}

		if err := tx.Commit(); err != nil {
			return crerr.Wrap(err, "commit slot batch")
		}
		return nil
	})
	if err != nil {
		return s.wrap(err, "apply %d slot mutations", len(mutations))
	}
	return nil
}

func (s *SlotStore) guard(fn func() error) error {
	return s.breaker.Execute(fn, isNotFound)
}

func (s *SlotStore) wrap(err error, format string, args ...any) error {
	wrapped := crerr.Wrapf(err, format, args...)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("%w: %w", slotstore.ErrUnavailable, wrapped)
	}
	return wrapped
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
