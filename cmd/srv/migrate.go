package main

import (
	"github.com/urfave/cli/v2"
	"github.com/wealthfund/backend/migration"
	"github.com/wealthfund/backend/pkg/xcontext"
)

func (s *srv) startMigrate(*cli.Context) error {
	s.loadDatabase()

	if err := migration.Migrate(s.ctx); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Migrated database successfully")
	return nil
}
