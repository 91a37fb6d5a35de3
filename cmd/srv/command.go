package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Name = "pepelotto"
	app.Usage = "Backend of the pepe scratch lottery mini app"
	app.Action = cli.ShowAppHelp
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start the api service",
			Category:    "Api",
			Description: `Serves every public endpoint of the mini app.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database schema",
			Category:    "Database",
			Description: `Creates or updates every table, then exits.`,
		},
	}

	s.app = app
}
