package sqlite

import (
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"

	"github.com/agentstation/artcards/pkg/errors"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate runs all pending migrations on db.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite"); err != nil {
		return errors.NewConfigError("state", "failed to set dialect", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return errors.WrapResource("migrate", "state database", "", err)
	}
	return nil
}

// Version returns the current migration version.
func (s *Store) Version() (int64, error) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite"); err != nil {
		return 0, errors.NewConfigError("state", "failed to set dialect", err)
	}
	return goose.GetDBVersion(s.db)
}
