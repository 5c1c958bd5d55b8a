package rss

import (
	"fmt"
	"os"
	"time"

	"wahoowatch/config"
	"wahoowatch/models"

	"github.com/gorilla/feeds"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Generator renders stored versions as an RSS 2.0 document.
type Generator struct {
	title       string
	link        string
	description string
	location    *time.Location
}

// NewGenerator builds a generator from the feed configuration. An unknown
// timezone name falls back to UTC so a bad config cannot break a run.
func NewGenerator(cfg config.FeedConfig) *Generator {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.WithFields(log.Fields{
			"timezone": cfg.Timezone,
		}).Warn("Unknown feed timezone, falling back to UTC")
		location = time.UTC
	}

	return &Generator{
		title:       cfg.Title,
		link:        cfg.Link,
		description: cfg.Description,
		location:    location,
	}
}

// Feed converts the records to a feed, keeping the given order. Callers pass
// records newest first.
func (generator *Generator) Feed(versions []models.Version) *feeds.Feed {
	feed := &feeds.Feed{
		Title:       generator.title,
		Link:        &feeds.Link{Href: generator.link},
		Description: generator.description,
	}

	feed.Items = lo.Map(versions, func(version models.Version, _ int) *feeds.Item {
		return &feeds.Item{
			Title:       fmt.Sprintf("%s - %s (%s)", version.Device, version.Version, version.ReleaseType),
			Link:        &feeds.Link{Href: version.Url},
			Description: fmt.Sprintf("Version %s (%s) for %s", version.Version, version.ReleaseType, version.Device),
			Created:     time.Unix(version.FirstSeen, 0).In(generator.location),
		}
	})

	return feed
}

// Render returns the feed as RSS 2.0 XML.
func (generator *Generator) Render(versions []models.Version) (string, error) {
	rss, err := generator.Feed(versions).ToRss()
	if err != nil {
		return "", fmt.Errorf("error rendering feed: %w", err)
	}
	return rss, nil
}

// Write overwrites the feed file at path with the rendered document.
func (generator *Generator) Write(versions []models.Version, path string) error {
	rss, err := generator.Render(versions)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(rss), 0644); err != nil {
		return fmt.Errorf("error writing feed file: %w", err)
	}

	return nil
}
