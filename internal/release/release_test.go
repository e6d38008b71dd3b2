package release

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/pybun/pybun/internal/platform"
	"github.com/pybun/pybun/internal/releasetest"
)

func newTestClient(t *testing.T, stub *releasetest.Server) *Client {
	t.Helper()
	logger := log.New(testWriter{t})
	return New(WithBaseURL(stub.URL()), WithLogger(logger))
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestURLs(t *testing.T) {
	c := New()
	require.Equal(t,
		"https://github.com/oven-sh/bun/releases/download/bun-v1.2.3/bun-linux-x64.zip",
		c.ReleaseURL("v1.2.3", platform.LinuxX64))
	require.Equal(t,
		"https://github.com/oven-sh/bun/releases/download/bun-v1.2.3/SHASUMS256.txt",
		c.HashesURL("v1.2.3"))
}

func TestHashes(t *testing.T) {
	stub := releasetest.New(t, "v1.2.3")
	c := newTestClient(t, stub)

	hashes, err := c.Hashes(context.Background(), "v1.2.3")
	require.NoError(t, err)
	require.Len(t, hashes, len(platform.All()), "profile/baseline assets must be skipped")

	for _, p := range platform.All() {
		archive, err := c.Archive(context.Background(), "v1.2.3", p)
		require.NoError(t, err)
		sum := sha256.Sum256(archive)
		require.Equal(t, hashes[p], hex.EncodeToString(sum[:]), "hash for %s", p)
	}
}

func TestParseHashesSkipsUnknownTargets(t *testing.T) {
	content := "" +
		"aaaa  bun-linux-x64.zip\n" +
		"bbbb  bun-linux-x64-profile.zip\n" +
		"cccc  bun-linux-riscv64.zip\n" +
		"not a hash line\n" +
		"dddd  bun-windows-x64.zip\n"

	hashes := parseHashes(content)
	require.Equal(t, map[platform.Platform]string{
		platform.LinuxX64:   "aaaa",
		platform.WindowsX64: "dddd",
	}, hashes)
}

func TestHashesMissingRelease(t *testing.T) {
	stub := releasetest.New(t, "v1.2.3")
	c := newTestClient(t, stub)

	_, err := c.Hashes(context.Background(), "v9.9.9")
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}

func TestArchiveMissingPlatform(t *testing.T) {
	stub := releasetest.New(t, "v1.2.3")
	stub.DropArchive(platform.DarwinARM64)
	c := newTestClient(t, stub)

	_, err := c.Archive(context.Background(), "v1.2.3", platform.DarwinARM64)
	require.Error(t, err)
}

func TestLatest(t *testing.T) {
	stub := releasetest.New(t, "v1.2.3")
	c := newTestClient(t, stub)

	version, err := c.Latest(context.Background())
	require.NoError(t, err)
	require.Equal(t, "v1.2.3", version)
}
