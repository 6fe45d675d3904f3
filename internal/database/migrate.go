package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations brings the schema up to date at startup. The service owns
// only the user_quotas and diagnoses tables, so migrations run inline rather
// than as a separate deploy step.
func RunMigrations(dsn, path string) error {
	m, err := migrate.New("file://"+path, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	err = m.Up()
	switch {
	case err == nil:
		ver, dirty, _ := m.Version()
		slog.Info("schema migrated", "version", ver, "dirty", dirty, "source", path)
	case errors.Is(err, migrate.ErrNoChange):
		slog.Info("schema already current", "source", path)
	default:
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
