package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
)

const (
	getSlotQuery = `
SELECT payload
FROM storage_slots
WHERE name = ?`

	upsertSlotQuery = `
INSERT INTO storage_slots (name, payload, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (name)
DO UPDATE SET
    payload = excluded.payload,
    updated_at = excluded.updated_at`

	deleteSlotQuery = `
DELETE FROM storage_slots
WHERE name = ?`
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SlotStore keeps each slot as one row of storage_slots in a local file.
type SlotStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSlotStore(db *sqlx.DB) *SlotStore {
	return &SlotStore{db: db, now: time.Now}
}

func (s *SlotStore) Get(ctx context.Context, name slotstore.Name) ([]byte, error) {
	var payload string
	if err := s.db.GetContext(ctx, &payload, getSlotQuery, string(name)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, slotstore.ErrNotFound
		}
		return nil, crerr.Wrapf(err, "get slot %s", name)
	}
	return []byte(payload), nil
}

func (s *SlotStore) Set(ctx context.Context, name slotstore.Name, value []byte) error {
	return s.exec(ctx, s.db, slotstore.Put(name, value))
}

func (s *SlotStore) Remove(ctx context.Context, name slotstore.Name) error {
	return s.exec(ctx, s.db, slotstore.Delete(name))
}

func (s *SlotStore) Apply(ctx context.Context, mutations []slotstore.Mutation) error {
	if len(mutations) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin tx for slot batch")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, m := range mutations {
		if err := s.exec(ctx, tx, m); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit slot batch")
	}
	return nil
}

func (s *SlotStore) exec(ctx context.Context, db execer, m slotstore.Mutation) error {
	if m.Remove {
		if _, err := db.ExecContext(ctx, deleteSlotQuery, string(m.Name)); err != nil {
			return crerr.Wrapf(err, "delete slot %s", m.Name)
		}
		return nil
	}
	if _, err := db.ExecContext(ctx, upsertSlotQuery, string(m.Name), string(m.Value), s.now().UTC()); err != nil {
		return crerr.Wrapf(err, "upsert slot %s", m.Name)
	}
	return nil
}
