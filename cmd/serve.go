package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"wahoowatch/db"
	"wahoowatch/rss"
	"wahoowatch/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// serveCmd represents the serve command
func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the version feed over HTTP",
		Description: `Starts the wahoowatch HTTP server.

Serves the RSS feed rendered from the database together with a small JSON API
for the recorded versions and the configured devices. Run the update command
from cron to keep the database fresh while the server is running.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "versions.db",
				Usage:   "SQLite database file location",
				EnvVars: []string{"WAHOOWATCH_DATABASE"},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to devices configuration file",
				EnvVars: []string{"WAHOOWATCH_CONFIG"},
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   3000,
				Usage:   "Port to listen on",
				EnvVars: []string{"WAHOOWATCH_PORT"},
			},
		},
		Action: func(ctx *cli.Context) error {

			fmt.Println("Starting wahoowatch...")

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			reader, err := db.NewReader(ctx.String("database"))
			if err != nil {
				return err
			}
			defer reader.Close()

			app := server.Server(&server.ServerConfig{
				Reader:  reader,
				Feed:    rss.NewGenerator(cfg.Feed),
				Devices: cfg.Devices,
			})

			// Keep the stored versions gauge fresh while the server runs
			if count, err := reader.CountVersions(ctx.Context); err == nil {
				server.SetStoredVersions(count)
			}

			ticker := time.NewTicker(time.Minute)
			go func() {
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Context.Done():
						return
					case <-ticker.C:
						count, err := reader.CountVersions(ctx.Context)
						if err != nil {
							log.WithFields(log.Fields{
								"error": err,
							}).Warn("Failed to count stored versions")
							continue
						}
						server.SetStoredVersions(count)
					}
				}
			}()

			// Graceful shutdown
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)

			go func() {
				<-c
				fmt.Println("Gracefully shutting down...")
				app.ShutdownWithTimeout(10 * time.Second)
			}()

			fmt.Println("Starting server...")
			if err := app.Listen(fmt.Sprintf(":%d", ctx.Int("port"))); err != nil {
				return err
			}

			fmt.Println("Done!")

			return nil
		},
	}
}
