package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/collager/internal/models"
)

// Fetcher selects and downloads images from a remote collage back-end
// through its /json and /image endpoints.
type Fetcher struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewFetcher creates a fetcher for the back-end at baseURL
func NewFetcher(baseURL string) *Fetcher {
	return &Fetcher{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// RemoteConfig is the back-end's canvas configuration.
type RemoteConfig struct {
	Width            int      `json:"width"`
	Height           int      `json:"height"`
	ImageDirectories []string `json:"imageDirectories"`
}

// Config fetches the back-end's configuration.
func (f *Fetcher) Config(ctx context.Context) (*RemoteConfig, error) {
	var cfg RemoteConfig
	if err := f.getJSON(ctx, "/json?type=config", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Select asks the back-end for n randomly chosen images.
func (f *Fetcher) Select(ctx context.Context, n int) ([]models.ImageRef, error) {
	var refs []models.ImageRef
	if err := f.getJSON(ctx, "/json?type=image&amount="+strconv.Itoa(n), &refs); err != nil {
		return nil, err
	}
	if len(refs) != n {
		return nil, fmt.Errorf("back-end returned %d images, requested %d", len(refs), n)
	}
	return refs, nil
}

// Open downloads the bytes of one image.
func (f *Fetcher) Open(ctx context.Context, ref models.ImageRef) (io.ReadCloser, error) {
	q := url.Values{}
	q.Set("dir", ref.Dir)
	q.Set("img", ref.Image)
	resp, err := f.get(ctx, "/image?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	return resp.Body, nil
}

func (f *Fetcher) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("back-end returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

func (f *Fetcher) getJSON(ctx context.Context, path string, v any) error {
	resp, err := f.get(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to query back-end: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode back-end response: %w", err)
	}
	return nil
}
