// Package db provides the database driver factory.
package db

import (
	"github.com/pkg/errors"

	"github.com/mm-zacharydavison/claude-code-maximizer/internal/profile"
	"github.com/mm-zacharydavison/claude-code-maximizer/store"
	"github.com/mm-zacharydavison/claude-code-maximizer/store/db/postgres"
	"github.com/mm-zacharydavison/claude-code-maximizer/store/db/sqlite"
)

// NewDBDriver creates a new database driver based on the profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "sqlite":
		return sqlite.NewDB(profile)
	case "postgres":
		return postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unsupported database driver %q", profile.Driver)
	}
}
