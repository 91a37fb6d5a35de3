package main

import (
	"github.com/pepelotto/backend/internal/entity"
	"github.com/pepelotto/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	if err := entity.MigrateTable(xcontext.DB(s.ctx)); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Migration completed")
	return nil
}
