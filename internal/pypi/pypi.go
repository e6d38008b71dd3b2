// Package pypi reads published package versions from the PyPI releases feed.
package pypi

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public PyPI instance.
const DefaultBaseURL = "https://pypi.org"

// ErrNoReleases indicates the feed exists but lists no releases.
var ErrNoReleases = errors.New("project has no published releases")

// Client queries the PyPI RSS feeds.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the PyPI base URL (used by tests).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New builds a PyPI client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type rssFeed struct {
	Channel struct {
		Items []struct {
			Title string `xml:"title"`
		} `xml:"item"`
	} `xml:"channel"`
}

// LatestVersion returns the most recently published version of a project,
// taken from the first item of its releases RSS feed.
func (c *Client) LatestVersion(ctx context.Context, project string) (string, error) {
	url := fmt.Sprintf("%s/rss/project/%s/releases.xml", c.baseURL, project)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch releases feed for %s: %w", project, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return "", fmt.Errorf("parse releases feed for %s: %w", project, err)
	}
	if len(feed.Channel.Items) == 0 {
		return "", ErrNoReleases
	}

	version := strings.TrimSpace(feed.Channel.Items[0].Title)
	if version == "" {
		return "", ErrNoReleases
	}
	return version, nil
}
