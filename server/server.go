package server

import (
	"strconv"
	"strings"
	"time"

	"wahoowatch/config"
	"wahoowatch/db"
	"wahoowatch/rss"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Prometheus metrics
var (
	feedRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wahoowatch_feed_requests_total",
		Help: "The total number of RSS feed requests served",
	})

	storedVersions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wahoowatch_stored_versions",
		Help: "The number of firmware versions currently recorded",
	})
)

// SetStoredVersions updates the stored versions gauge.
func SetStoredVersions(count int64) {
	storedVersions.Set(float64(count))
}

type ServerConfig struct {

	// The reader to use for reading versions
	Reader *db.Reader

	// The generator used to render the RSS feed
	Feed *rss.Generator

	// The devices being watched, served on the API for dashboards
	Devices []config.Device
}

// Returns a fiber.App instance to be used as an HTTP server for the version feed
func Server(config *ServerConfig) *fiber.App {

	app := fiber.New()

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		// start timer
		start := time.Now()

		// next routes
		err := c.Next()

		// stop timer
		stop := time.Now()

		// Diff
		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"latency": stop.Sub(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())

	// Setup cache
	app.Use(cache.New(cache.Config{
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {

			if c.Method() != "GET" {
				return true
			}

			// Only cache the rendered feed
			if strings.HasSuffix(c.Path(), "/versions.rss") {
				return false
			}
			return true
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			// Get URL with query string to use as cache key
			url := c.Request().URI().String()
			return url
		},
	}))

	app.Get("/versions.rss", func(c *fiber.Ctx) error {
		feedRequests.Inc()

		versions, err := config.Reader.RecentVersions(c.Context(), 100)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error reading versions for feed")

			return c.Status(500).SendString("Error reading versions")
		}

		rendered, err := config.Feed.Render(versions)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error rendering feed")

			return c.Status(500).SendString("Error rendering feed")
		}

		c.Set("Content-Type", "application/rss+xml; charset=utf-8")
		return c.SendString(rendered)
	})

	app.Get("/api/versions", func(c *fiber.Ctx) error {
		// Get the query parameters and parse the limit
		limit, err := strconv.ParseInt(c.Query("limit", "20"), 0, 32)
		if err != nil || limit < 1 || limit > 100 {
			limit = 20
		}

		versions, err := config.Reader.RecentVersions(c.Context(), int(limit))
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error reading versions")

			return c.Status(500).SendString("Error reading versions")
		}

		return c.Status(200).JSON(versions)
	})

	app.Get("/api/devices", func(c *fiber.Ctx) error {
		return c.Status(200).JSON(config.Devices)
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.Status(200).SendString("OK")
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return app
}
