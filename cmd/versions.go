package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"wahoowatch/db"
	"wahoowatch/models"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// versionsCmd represents the versions command
func versionsCmd() *cli.Command {
	return &cli.Command{
		Name:  "versions",
		Usage: "List the most recently seen versions",
		Description: `Lists the most recently recorded firmware versions.

Returns each version as a JSON object on a single line. Use a tool like jq to
process the output.

Prints all other log messages to stderr.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "versions.db",
				Usage:   "SQLite database file location",
				EnvVars: []string{"WAHOOWATCH_DATABASE"},
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Value:   20,
				Usage:   "Number of versions to list",
			},
		},
		Action: func(ctx *cli.Context) error {
			// Disable logging to stdout
			log.SetOutput(os.Stderr)

			reader, err := db.NewReader(ctx.String("database"))
			if err != nil {
				return err
			}
			defer reader.Close()

			versions, err := reader.RecentVersions(ctx.Context, ctx.Int("limit"))
			if err != nil {
				return err
			}

			for _, version := range versions {
				printStdout(&version)
			}

			return nil
		},
	}
}

func printStdout(version *models.Version) {
	// Print as single JSON string on a single line
	versionJson, err := json.Marshal(version)
	if err == nil {
		fmt.Println(string(versionJson))
	}
}
