package poller

import (
	"context"
	"fmt"
	"net/http"

	"wahoowatch/config"
	"wahoowatch/db"
	"wahoowatch/models"
	"wahoowatch/notify"
	"wahoowatch/rss"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// FeedLimit is the number of most recent versions included in the feed file.
const FeedLimit = 100

// Config wires together everything a poll run needs.
type Config struct {
	Devices   []config.Device
	Writer    *db.Writer
	Reader    *db.Reader
	Notifiers *notify.Set
	Feed      *rss.Generator
	FeedPath  string
}

// Poller checks every configured device endpoint for new firmware versions,
// records the ones it has not seen before and announces them.
type Poller struct {
	cfg    Config
	client *http.Client
}

func New(cfg Config) *Poller {
	return &Poller{
		cfg: cfg,
		client: &http.Client{
			Timeout: FetchTimeout,
		},
	}
}

// Run performs a single pass over all devices. Unreachable or malformed
// endpoints are logged and skipped so one broken device cannot block the
// others. Storage errors abort the run.
func (poller *Poller) Run(ctx context.Context) error {
	runLog := log.WithField("run", uuid.New().String())

	var checked, failed, inserted int

	for _, device := range poller.cfg.Devices {
		manifest, err := fetchManifest(ctx, poller.client, device.Url)
		if err != nil {
			failed++
			runLog.WithFields(log.Fields{
				"device": device.Name,
				"url":    device.Url,
				"error":  err,
			}).Error("Failed to check device")
			continue
		}
		checked++

		for _, releaseType := range models.ReleaseTypes {
			version, url, ok := manifest.Release(releaseType)
			if !ok {
				continue
			}

			record, fresh, err := poller.cfg.Writer.TryInsert(ctx, device.Name, version, url, releaseType)
			if err != nil {
				return fmt.Errorf("failed to record version for %s: %w", device.Name, err)
			}

			if !fresh {
				runLog.WithFields(log.Fields{
					"device":      device.Name,
					"version":     version,
					"releaseType": releaseType,
				}).Info("Version already recorded")
				continue
			}

			inserted++
			poller.cfg.Notifiers.Announce(ctx, *record)
		}
	}

	if inserted > 0 {
		if err := poller.regenerateFeed(ctx, runLog); err != nil {
			return err
		}
	}

	runLog.WithFields(log.Fields{
		"devices":  len(poller.cfg.Devices),
		"checked":  checked,
		"failed":   failed,
		"inserted": inserted,
	}).Info("Update run finished")

	return nil
}

func (poller *Poller) regenerateFeed(ctx context.Context, runLog *log.Entry) error {
	versions, err := poller.cfg.Reader.RecentVersions(ctx, FeedLimit)
	if err != nil {
		return fmt.Errorf("failed to load versions for feed: %w", err)
	}

	if err := poller.cfg.Feed.Write(versions, poller.cfg.FeedPath); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}

	runLog.WithFields(log.Fields{
		"path":     poller.cfg.FeedPath,
		"versions": len(versions),
	}).Info("Feed updated")

	return nil
}
