package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "Wealth Fund"
	s.app.Usage = "Backend of the Wealth Fund platform"
	s.app.Flags = configFlags()
	s.app.Before = s.loadConfig
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used to start the main service, it serves all http apis and the chat websocket.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database",
			Category:    "Database",
			Description: `Used to create the tables and seed the default admin, plans, prizes and settings.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Used to expire stale pending deposits and clean up used otps.`,
		},
		{
			Action:      s.startNotifier,
			Name:        "notifier",
			Usage:       "Start service notifier",
			Category:    "Worker",
			Description: `Used to consume otp and ledger events from the message queue.`,
		},
	}
}
