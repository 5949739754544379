// Package artwork resolves Archive.org recording identifiers to artwork
// URLs via the public metadata API. Lookups are rate limited, retried,
// and memoized; the whole client is optional and disabled by default.
package artwork

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://archive.org"

// Client talks to the Archive.org metadata API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *ristretto.Cache
	baseURL    string
	enabled    bool
}

// New builds a client. When enabled is false every lookup returns an
// empty URL immediately, mirroring how slide generation runs without
// artwork on constrained deployments.
func New(enabled bool) (*Client, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing artwork cache: %w", err)
	}

	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(1*time.Second), 1),
		cache:      cache,
		baseURL:    defaultBaseURL,
		enabled:    enabled,
	}, nil
}

type metadataResponse struct {
	Files []struct {
		Name   string `json:"name"`
		Format string `json:"format"`
	} `json:"files"`
}

// ArtworkURL returns the archival download URL of the best image file for
// a recording, or empty when disabled or nothing suitable exists. A
// failed lookup is reported but is never fatal to the caller's run.
func (c *Client) ArtworkURL(ctx context.Context, recordingID string) string {
	if !c.enabled || recordingID == "" {
		return ""
	}

	if cached, ok := c.cache.Get(recordingID); ok {
		return cached.(string)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return ""
	}

	var metadata metadataResponse
	err := retry.Do(
		func() error {
			return c.fetchMetadata(ctx, recordingID, &metadata)
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.Context(ctx),
	)
	if err != nil {
		log.Warn().Err(err).Str("recording", recordingID).Msg("Artwork lookup failed")
		return ""
	}

	url := ""
	if name := pickImageFile(recordingID, metadata); name != "" {
		url = fmt.Sprintf("%s/download/%s/%s", c.baseURL, recordingID, name)
	}

	c.cache.Set(recordingID, url, int64(len(url)+1))
	c.cache.Wait()
	return url
}

func (c *Client) fetchMetadata(ctx context.Context, recordingID string, out *metadataResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/metadata/%s", c.baseURL, recordingID), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("metadata API returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// pickImageFile prefers explicit cover images (itemimage*, {id}.jpg) over
// any other jpeg/png in the item.
func pickImageFile(recordingID string, metadata metadataResponse) string {
	var candidates []string
	for _, file := range metadata.Files {
		name := strings.ToLower(file.Name)
		format := strings.ToLower(file.Format)

		switch {
		case strings.Contains(name, "itemimage") || name == strings.ToLower(recordingID)+".jpg":
			candidates = append([]string{file.Name}, candidates...)
		case strings.Contains(name, "jpg") || strings.Contains(name, "jpeg") || strings.Contains(name, "png"):
			candidates = append(candidates, file.Name)
		case strings.Contains(format, "jpeg") || strings.Contains(format, "png"):
			candidates = append(candidates, file.Name)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}
