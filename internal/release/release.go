// Package release fetches official Bun release artifacts from GitHub.
package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pybun/pybun/internal/platform"
)

// DefaultBaseURL is the Bun releases page on GitHub.
const DefaultBaseURL = "https://github.com/oven-sh/bun/releases"

// ErrNoRedirect indicates the latest-release endpoint did not redirect to a tag.
var ErrNoRedirect = errors.New("latest release endpoint did not redirect")

// Client downloads Bun release artifacts. The zero value is not usable; use New.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the releases base URL (used by tests and mirrors).
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

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New builds a release client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 5 * time.Minute},
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReleaseURL returns the download URL for one platform's release archive.
func (c *Client) ReleaseURL(bunVersion string, p platform.Platform) string {
	return fmt.Sprintf("%s/download/bun-%s/%s", c.baseURL, bunVersion, p.ArchiveName())
}

// HashesURL returns the URL of the SHASUMS256.txt asset for a release.
func (c *Client) HashesURL(bunVersion string) string {
	return fmt.Sprintf("%s/download/bun-%s/SHASUMS256.txt", c.baseURL, bunVersion)
}

// Hashes fetches and parses the release's SHASUMS256.txt. Profile builds and
// targets pybun does not package are skipped.
func (c *Client) Hashes(ctx context.Context, bunVersion string) (map[platform.Platform]string, error) {
	url := c.HashesURL(bunVersion)
	c.logger.Info("fetching release hashes", "version", bunVersion)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch release hashes: %w", err)
	}

	return parseHashes(string(body)), nil
}

func parseHashes(content string) map[platform.Platform]string {
	hashes := make(map[platform.Platform]string)
	for _, line := range strings.Split(content, "\n") {
		hash, asset, ok := strings.Cut(line, "  ")
		if !ok {
			continue
		}
		target := strings.TrimSuffix(strings.TrimPrefix(asset, "bun-"), ".zip")
		if strings.Contains(target, "profile") {
			continue
		}
		p, err := platform.Parse(target)
		if err != nil {
			continue
		}
		hashes[p] = hash
	}
	return hashes
}

// Archive downloads the release archive for one platform.
func (c *Client) Archive(ctx context.Context, bunVersion string, p platform.Platform) ([]byte, error) {
	url := c.ReleaseURL(bunVersion, p)
	c.logger.Info("fetching release archive", "version", bunVersion, "platform", p)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch release archive for %s: %w", p, err)
	}

	c.logger.Debug("downloaded release archive", "url", url, "bytes", len(body))
	return body, nil
}

// Latest resolves the most recent Bun release version. GitHub serves the
// /latest endpoint as a redirect to the tag page; the redirect is not
// followed, the version comes out of the Location header.
func (c *Client) Latest(ctx context.Context) (string, error) {
	url := c.baseURL + "/latest"

	noRedirect := &http.Client{
		Transport: c.http.Transport,
		Timeout:   c.http.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := noRedirect.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolve latest release: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	location := resp.Header.Get("Location")
	if location == "" {
		return "", ErrNoRedirect
	}

	idx := strings.LastIndex(location, "/tag/bun-")
	if idx < 0 {
		return "", fmt.Errorf("unexpected latest release location %q", location)
	}
	version := location[idx+len("/tag/bun-"):]

	c.logger.Debug("resolved latest release", "version", version)
	return version, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
