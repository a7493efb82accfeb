package commands

import (
	"context"

	"github.com/walteh/ctxmigrate/cmd/ctxmigrate/opts"
	"github.com/walteh/ctxmigrate/pkg/migrate"
	"gitlab.com/tozd/go/errors"
)

// Migrate rewrites every target and prints one line per target plus the total
func Migrate(ctx context.Context, o *opts.RootOpts) error {
	m, err := newMigrator(o)
	if err != nil {
		return err
	}

	if _, err := m.Run(ctx); err != nil {
		return errors.Errorf("running migration: %w", err)
	}

	return nil
}

func newMigrator(o *opts.RootOpts) (*migrate.Migrator, error) {
	m, err := migrate.New(migrate.Options{
		Config:   o.Config,
		Files:    o.Files,
		Reporter: o.Console,
	})
	if err != nil {
		return nil, errors.Errorf("creating migrator: %w", err)
	}
	return m, nil
}
