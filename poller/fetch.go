package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"wahoowatch/models"
)

// FetchTimeout bounds a single manifest download. Slow or unreachable
// endpoints should not stall the rest of the run.
const FetchTimeout = 10 * time.Second

const userAgent = "wahoowatch/1.0"

// fetchManifest downloads and decodes the version manifest for a single
// device endpoint.
func fetchManifest(ctx context.Context, client *http.Client, url string) (models.Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build manifest request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("manifest request returned status %d", resp.StatusCode)
	}

	var manifest models.Manifest
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&manifest); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	return manifest, nil
}
