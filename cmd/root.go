package cmd

import (
	"os"

	"wahoowatch/config"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "wahoowatch",
		Usage: "Track firmware releases for Wahoo cycling computers",
		Description: `Watches the Wahoo firmware endpoints for new releases.

		Wahoowatch polls the version manifest of each configured device,
		records every firmware version it has not seen before in an SQLite
		database and regenerates an RSS feed of the most recent releases.
		New versions can be announced via Pushover and Bluesky.

		Flags can generally be set via environment variables, e.g.:

		--database => WAHOOWATCH_DATABASE=versions.db
		--feed => WAHOOWATCH_FEED=versions.rss
		`,
		Commands: []*cli.Command{
			updateCmd(),
			serveCmd(),
			migrateCmd(),
			rollbackCmd(),
			versionsCmd(),
			announceCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads the TOML configuration if a path is given and falls back
// to the built-in device list otherwise.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := ctx.String("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
