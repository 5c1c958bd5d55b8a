package cmd

import (
	"errors"
	"fmt"
	"time"

	"wahoowatch/bluesky"
	"wahoowatch/models"
	"wahoowatch/notify"

	"github.com/cqroot/prompt"
	"github.com/cqroot/prompt/input"
	"github.com/urfave/cli/v2"
)

// announceCmd represents the announce command
func announceCmd() *cli.Command {
	return &cli.Command{
		Name:  "announce",
		Usage: "Announce a version on the notification channels",
		Description: `Sends a notification for a single firmware version without touching
the database.

Useful for testing the notification channels or for announcing a version that
was released before wahoowatch started watching. Asks for Bluesky credentials
interactively when none are configured.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "device",
				Usage:    "Device the firmware belongs to",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "version",
				Usage:    "Firmware version to announce",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "url",
				Usage:    "Firmware download url",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "release-type",
				Value: "standard",
				Usage: "Release channel: standard, beta or alpha",
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
			releaseType := models.ReleaseType(ctx.String("release-type"))
			if !releaseType.Valid() {
				return fmt.Errorf("unknown release type: %s", ctx.String("release-type"))
			}

			var notifiers []notify.Notifier

			pushoverToken := ctx.String("pushover-token")
			pushoverUser := ctx.String("pushover-user")
			if pushoverToken != "" && pushoverUser != "" {
				notifiers = append(notifiers, notify.NewPushover(pushoverToken, pushoverUser))
			}

			identifier := ctx.String("bsky-identifier")
			password := ctx.String("bsky-password")

			// Ask for Bluesky credentials when nothing else is configured
			if (identifier == "" || password == "") && len(notifiers) == 0 {
				handle, err := prompt.New().Ask("Handle:").Input("myname.bsky.social")
				if err != nil {
					return err
				}

				appPassword, err := prompt.New().Ask("App password:").Input("", input.WithEchoMode(input.EchoNone))
				if err != nil {
					return err
				}

				identifier = handle
				password = appPassword
			}

			if identifier != "" && password != "" {
				notifiers = append(notifiers, notify.NewBluesky(ctx.String("bsky-host"), identifier, password))
			}

			set := notify.NewSet(notifiers...)
			if !set.Enabled() {
				return errors.New("no notification channels configured")
			}

			version := models.Version{
				Device:      ctx.String("device"),
				Version:     ctx.String("version"),
				Url:         ctx.String("url"),
				ReleaseType: releaseType,
				FirstSeen:   time.Now().UTC().Unix(),
			}

			set.Announce(ctx.Context, version)

			fmt.Println("Announced version", version.Version, "for", version.Device)

			return nil
		},
	}
}
