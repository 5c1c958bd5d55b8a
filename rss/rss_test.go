package rss_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wahoowatch/config"
	"wahoowatch/models"
	"wahoowatch/rss"

	"github.com/stretchr/testify/assert"
)

func feedConfig() config.FeedConfig {
	return config.FeedConfig{
		Title:       "Wahoo Versions RSS Feed",
		Link:        "https://example.com/versions.rss",
		Description: "Latest firmware versions for Wahoo devices.",
		Timezone:    "America/Denver",
	}
}

func TestFeed(t *testing.T) {
	generator := rss.NewGenerator(feedConfig())

	// 2025-01-01 00:00:00 UTC
	versions := []models.Version{
		{
			Id:          2,
			Device:      "ace",
			Version:     "50",
			Url:         "https://example.com/ace-50.tgz",
			ReleaseType: models.ReleaseBeta,
			FirstSeen:   1735689600,
		},
		{
			Id:          1,
			Device:      "bolt2",
			Version:     "14613",
			Url:         "https://example.com/14613.tgz",
			ReleaseType: models.ReleaseStandard,
			FirstSeen:   1735603200,
		},
	}

	feed := generator.Feed(versions)

	assert.Equal(t, "Wahoo Versions RSS Feed", feed.Title)
	assert.Equal(t, "https://example.com/versions.rss", feed.Link.Href)
	assert.Equal(t, "Latest firmware versions for Wahoo devices.", feed.Description)
	assert.Len(t, feed.Items, 2)

	first := feed.Items[0]
	assert.Equal(t, "ace - 50 (beta)", first.Title)
	assert.Equal(t, "Version 50 (beta) for ace", first.Description)
	assert.Equal(t, "https://example.com/ace-50.tgz", first.Link.Href)

	// Midnight UTC is the previous evening in Denver
	assert.Equal(t, "2024-12-31 17:00:00 -0700", first.Created.Format("2006-01-02 15:04:05 -0700"))

	second := feed.Items[1]
	assert.Equal(t, "bolt2 - 14613 (standard)", second.Title)
	assert.Equal(t, "Version 14613 (standard) for bolt2", second.Description)
}

func TestRender(t *testing.T) {
	generator := rss.NewGenerator(feedConfig())

	versions := []models.Version{
		{
			Device:      "bolt2",
			Version:     "14613",
			Url:         "https://example.com/14613.tgz",
			ReleaseType: models.ReleaseStandard,
			FirstSeen:   1735689600,
		},
	}

	rendered, err := generator.Render(versions)
	if err != nil {
		t.Fatal(err)
	}

	assert.True(t, strings.HasPrefix(rendered, "<?xml"))
	assert.Contains(t, rendered, "<rss")
	assert.Contains(t, rendered, "<title>Wahoo Versions RSS Feed</title>")
	assert.Contains(t, rendered, "<title>bolt2 - 14613 (standard)</title>")
	assert.Contains(t, rendered, "<description>Version 14613 (standard) for bolt2</description>")
	assert.Contains(t, rendered, "<link>https://example.com/14613.tgz</link>")
	assert.Contains(t, rendered, "Tue, 31 Dec 2024 17:00:00 -0700")
}

func TestRenderEmptyFeed(t *testing.T) {
	generator := rss.NewGenerator(feedConfig())

	rendered, err := generator.Render(nil)
	if err != nil {
		t.Fatal(err)
	}

	assert.Contains(t, rendered, "<title>Wahoo Versions RSS Feed</title>")
	assert.NotContains(t, rendered, "<item>")
}

func TestUnknownTimezoneFallsBackToUTC(t *testing.T) {
	cfg := feedConfig()
	cfg.Timezone = "Not/AZone"
	generator := rss.NewGenerator(cfg)

	versions := []models.Version{
		{
			Device:      "bolt",
			Version:     "100",
			Url:         "https://example.com/100.tgz",
			ReleaseType: models.ReleaseStandard,
			FirstSeen:   1735689600,
		},
	}

	feed := generator.Feed(versions)
	assert.Equal(t, "2025-01-01 00:00:00 +0000", feed.Items[0].Created.Format("2006-01-02 15:04:05 -0700"))
}

func TestWriteReplacesFile(t *testing.T) {
	generator := rss.NewGenerator(feedConfig())
	path := filepath.Join(t.TempDir(), "versions.rss")

	first := []models.Version{
		{Device: "bolt", Version: "100", Url: "https://example.com/100.tgz", ReleaseType: models.ReleaseStandard, FirstSeen: 1735689600},
	}
	if err := generator.Write(first, path); err != nil {
		t.Fatal(err)
	}

	second := []models.Version{
		{Device: "roam2", Version: "200", Url: "https://example.com/200.tgz", ReleaseType: models.ReleaseBeta, FirstSeen: 1735776000},
	}
	if err := generator.Write(second, path); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	assert.Contains(t, string(content), "roam2 - 200 (beta)")
	assert.NotContains(t, string(content), "bolt - 100")
}
