package sqlite

import (
	"context"
	"embed"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const maxOpenConns = 1

// Open connects to the database file at path, applies pragmas and runs the
// embedded migrations.
func Open(ctx context.Context, path string, logger *logging.Logger) (*sqlx.DB, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger.Info("opening sqlite database", "path", path)

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, crerr.Wrapf(err, "open sqlite %s", path)
	}
	// One writer keeps batch transactions serialized without SQLITE_BUSY.
	db.SetMaxOpenConns(maxOpenConns)

	if err := applyPragmas(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("sqlite database ready", "path", path)
	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return crerr.Wrap(err, "set goose dialect")
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		return crerr.Wrap(err, "run goose migrations")
	}
	return nil
}

func applyPragmas(ctx context.Context, db *sqlx.DB, logger *logging.Logger) error {
	pragmas := []struct {
		name  string
		value string
	}{
		{"journal_mode", "WAL"},
		{"synchronous", "NORMAL"},
		{"busy_timeout", "5000"},
		{"temp_store", "MEMORY"},
	}

	for _, pragma := range pragmas {
		query := fmt.Sprintf("PRAGMA %s = %s", pragma.name, pragma.value)
		if _, err := db.ExecContext(ctx, query); err != nil {
			logger.Warn("failed to set sqlite pragma", "pragma", pragma.name, "value", pragma.value, "error", err)
			return crerr.Wrapf(err, "set PRAGMA %s", pragma.name)
		}
		logger.Debug("sqlite pragma set", "pragma", pragma.name, "value", pragma.value)
	}
	return nil
}
