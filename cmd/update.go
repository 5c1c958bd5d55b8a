package cmd

import (
	"fmt"

	"wahoowatch/bluesky"
	"wahoowatch/db"
	"wahoowatch/notify"
	"wahoowatch/poller"
	"wahoowatch/rss"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// updateCmd represents the update command
func updateCmd() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Check all devices for new firmware versions",
		Description: `Checks the version manifest of every configured device once.

New firmware versions are recorded in the SQLite database, announced on the
configured notification channels and written to the RSS feed file. Versions
that have been seen before are skipped.

Designed to be run from cron. A device endpoint that cannot be reached is
logged and skipped without failing the rest of the run.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "versions.db",
				Usage:   "SQLite database file location",
				EnvVars: []string{"WAHOOWATCH_DATABASE"},
			},
			&cli.StringFlag{
				Name:    "feed",
				Aliases: []string{"f"},
				Value:   "versions.rss",
				Usage:   "RSS feed file location",
				EnvVars: []string{"WAHOOWATCH_FEED"},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to devices configuration file",
				EnvVars: []string{"WAHOOWATCH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "timezone",
				Usage:   "IANA timezone for feed entry timestamps, overrides the config file",
				EnvVars: []string{"WAHOOWATCH_TIMEZONE"},
			},
			&cli.StringFlag{
				Name:    "pushover-token",
				Usage:   "Pushover application token",
				EnvVars: []string{"WAHOOWATCH_PUSHOVER_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "pushover-user",
				Usage:   "Pushover user key",
				EnvVars: []string{"WAHOOWATCH_PUSHOVER_USER"},
			},
			&cli.StringFlag{
				Name:    "bsky-identifier",
				Usage:   "Bluesky handle to post new versions as",
				EnvVars: []string{"WAHOOWATCH_BSKY_IDENTIFIER"},
			},
			&cli.StringFlag{
				Name:    "bsky-password",
				Usage:   "Bluesky app password",
				EnvVars: []string{"WAHOOWATCH_BSKY_PASSWORD"},
			},
			&cli.StringFlag{
				Name:    "bsky-host",
				Value:   bluesky.DefaultPDSHost,
				Usage:   "Bluesky PDS host",
				EnvVars: []string{"WAHOOWATCH_BSKY_HOST"},
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			if tz := ctx.String("timezone"); tz != "" {
				cfg.Feed.Timezone = tz
			}

			database := ctx.String("database")
			if err := db.Migrate(database); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			writer, err := db.NewWriter(database)
			if err != nil {
				return err
			}
			defer writer.Close()

			reader, err := db.NewReader(database)
			if err != nil {
				return err
			}
			defer reader.Close()

			p := poller.New(poller.Config{
				Devices:   cfg.Devices,
				Writer:    writer,
				Reader:    reader,
				Notifiers: buildNotifiers(ctx),
				Feed:      rss.NewGenerator(cfg.Feed),
				FeedPath:  ctx.String("feed"),
			})

			return p.Run(ctx.Context)
		},
	}
}

// buildNotifiers assembles the notification sinks from whatever credentials
// are configured. Partially configured sinks are skipped with a warning.
func buildNotifiers(ctx *cli.Context) *notify.Set {
	var notifiers []notify.Notifier

	pushoverToken := ctx.String("pushover-token")
	pushoverUser := ctx.String("pushover-user")
	if pushoverToken != "" && pushoverUser != "" {
		notifiers = append(notifiers, notify.NewPushover(pushoverToken, pushoverUser))
	} else if pushoverToken != "" || pushoverUser != "" {
		log.Warn("Both pushover-token and pushover-user must be set, Pushover notifications disabled")
	} else {
		log.Info("Pushover credentials not set, Pushover notifications disabled")
	}

	bskyIdentifier := ctx.String("bsky-identifier")
	bskyPassword := ctx.String("bsky-password")
	if bskyIdentifier != "" && bskyPassword != "" {
		notifiers = append(notifiers, notify.NewBluesky(ctx.String("bsky-host"), bskyIdentifier, bskyPassword))
	} else if bskyIdentifier != "" || bskyPassword != "" {
		log.Warn("Both bsky-identifier and bsky-password must be set, Bluesky notifications disabled")
	} else {
		log.Info("Bluesky credentials not set, Bluesky notifications disabled")
	}

	return notify.NewSet(notifiers...)
}
