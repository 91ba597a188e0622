package immich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Asset describes a single asset entry inside an album payload.
type Asset struct {
	ID               string `json:"id"`
	Type             string `json:"type"`
	OriginalFileName string `json:"originalFileName"`
	Checksum         string `json:"checksum"`
	FileCreatedAt    string `json:"fileCreatedAt"`
}

// Album models the Immich album payload.
type Album struct {
	ID         string  `json:"id"`
	AlbumName  string  `json:"albumName"`
	AssetCount int     `json:"assetCount"`
	Assets     []Asset `json:"assets"`
}

// IsImage reports whether the asset is a still image.
func (a Asset) IsImage() bool {
	return strings.EqualFold(a.Type, "IMAGE")
}

// Images returns the album's image assets in payload order.
func (a *Album) Images() []Asset {
	images := make([]Asset, 0, len(a.Assets))
	for _, asset := range a.Assets {
		if asset.IsImage() {
			images = append(images, asset)
		}
	}
	return images
}

// Service defines the Immich operations used by the fetch pipeline.
type Service interface {
	Album(ctx context.Context, albumID string) (*Album, error)
	DownloadOriginal(ctx context.Context, assetID, destPath string) (int64, error)
	Ping(ctx context.Context) error
}

// Client provides access to the Immich HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Service = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates an Immich client.
func New(baseURL, apiKey string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("immich url required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("immich api key required")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func (c *Client) newRequest(ctx context.Context, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Album fetches the album metadata including its asset list.
func (c *Client) Album(ctx context.Context, albumID string) (*Album, error) {
	albumID = strings.TrimSpace(albumID)
	if albumID == "" {
		return nil, errors.New("album id must not be empty")
	}
	req, err := c.newRequest(ctx, "/albums/"+url.PathEscape(albumID))
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch album: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("immich album %s returned %d", albumID, resp.StatusCode)
	}

	var album Album
	if err := json.NewDecoder(resp.Body).Decode(&album); err != nil {
		return nil, fmt.Errorf("decode album response: %w", err)
	}
	return &album, nil
}

// DownloadOriginal streams the original asset bytes to destPath. The file is
// written through a temporary sibling and renamed into place so an interrupted
// download never leaves a truncated asset behind.
func (c *Client) DownloadOriginal(ctx context.Context, assetID, destPath string) (int64, error) {
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return 0, errors.New("asset id must not be empty")
	}
	if strings.TrimSpace(destPath) == "" {
		return 0, errors.New("destination path must not be empty")
	}

	req, err := c.newRequest(ctx, "/assets/"+url.PathEscape(assetID)+"/original")
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download asset %s: %w", assetID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("immich asset %s returned %d", assetID, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, fmt.Errorf("create asset directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".download-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	written, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("write asset %s: %w", assetID, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("finalize asset %s: %w", assetID, err)
	}
	return written, nil
}

// Ping verifies connectivity and key validity against the server ping endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, "/server-info/ping")
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping immich: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("immich ping returned %d", resp.StatusCode)
	}
	return nil
}
