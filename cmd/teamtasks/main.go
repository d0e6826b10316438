// @title			TeamTasks API
// @version		1.0
// @description	Team task tracking with a status state machine, activity feed and task watchers.
// @BasePath		/

package main

import (
	"log/slog"
	"os"

	"github.com/mtlprog/teamtasks/internal/config"
	"github.com/mtlprog/teamtasks/internal/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "teamtasks",
		Usage: "Team task tracker",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "json",
				Usage:   "Log format (json, text)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")), logger.ParseFormat(c.String("log-format")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
				},
				Action: runServe,
			},
			{
				Name:   "seed",
				Usage:  "Populate an empty database with demo users, a team and tasks",
				Action: runSeed,
			},
		},
		Action: runServe,
	}

	// .env must be loaded before flags read their EnvVars.
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}
