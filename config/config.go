package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Device points one firmware manifest endpoint at a device name. Devices are
// always checked in the order they appear in the configuration.
type Device struct {
	Name string `toml:"name" json:"name"`
	Url  string `toml:"url" json:"url"`
}

// FeedConfig holds the metadata rendered into the RSS channel.
type FeedConfig struct {
	Title       string `toml:"title"`
	Link        string `toml:"link"`
	Description string `toml:"description"`

	// IANA timezone name used for the pubDate of feed entries
	Timezone string `toml:"timezone"`
}

// Config represents the top-level configuration
type Config struct {
	Devices []Device   `toml:"devices"`
	Feed    FeedConfig `toml:"feed"`
}

// Default returns the built-in configuration: the known Wahoo ELEMNT
// manifest endpoints and the stock feed metadata.
func Default() *Config {
	return &Config{
		Devices: []Device{
			{Name: "bolt", Url: "https://bolt.wahoofitness.com/boltapp/version.json-bolt"},
			{Name: "bolt2", Url: "https://bolt.wahoofitness.com/boltapp/version.json-bolt2"},
			{Name: "roam", Url: "https://bolt.wahoofitness.com/boltapp/version.json-roam"},
			{Name: "roam2", Url: "https://bolt.wahoofitness.com/boltapp/version.json-roam2"},
			{Name: "ace", Url: "https://bolt.wahoofitness.com/boltapp/version.json-ace"},
		},
		Feed: FeedConfig{
			Title:       "Wahoo Versions RSS Feed",
			Link:        "https://example.com/versions.rss",
			Description: "Latest firmware versions for Wahoo devices.",
			Timezone:    "America/Denver",
		},
	}
}

// Load reads the TOML configuration at path. Missing values fall back to the
// built-in defaults, so a config file only needs to state what differs.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	defaults := Default()

	if len(config.Devices) == 0 {
		config.Devices = defaults.Devices
	}
	if config.Feed.Title == "" {
		config.Feed.Title = defaults.Feed.Title
	}
	if config.Feed.Link == "" {
		config.Feed.Link = defaults.Feed.Link
	}
	if config.Feed.Description == "" {
		config.Feed.Description = defaults.Feed.Description
	}
	if config.Feed.Timezone == "" {
		config.Feed.Timezone = defaults.Feed.Timezone
	}
}

func validate(config *Config) error {
	for _, device := range config.Devices {
		if device.Name == "" || device.Url == "" {
			return fmt.Errorf("device entries need both a name and a url, got name=%q url=%q", device.Name, device.Url)
		}
	}
	return nil
}
