// Package releasetest provides a hermetic in-process stand-in for the GitHub
// releases endpoints and the PyPI RSS feed that pybun talks to, so tests never
// touch the network.
package releasetest

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pybun/pybun/internal/platform"
)

// Server fakes a Bun release (SHASUMS256.txt, per-platform zips, the /latest
// redirect) and a PyPI releases feed.
type Server struct {
	BunVersion  string
	PyPIProject string
	PyPIVersion string

	archives    map[platform.Platform][]byte
	executables map[platform.Platform][]byte
	hashes      map[platform.Platform]string

	srv *httptest.Server
}

// New builds a server hosting release bunVersion for every supported platform.
func New(t *testing.T, bunVersion string) *Server {
	t.Helper()

	s := &Server{
		BunVersion:  bunVersion,
		PyPIProject: "pybun",
		archives:    make(map[platform.Platform][]byte),
		executables: make(map[platform.Platform][]byte),
		hashes:      make(map[platform.Platform]string),
	}

	for _, p := range platform.All() {
		exe := []byte(fmt.Sprintf("fake bun %s for %s\n", bunVersion, p))
		archive, err := MakeArchive(p, exe)
		if err != nil {
			t.Fatalf("build fake archive for %s: %v", p, err)
		}
		s.executables[p] = exe
		s.archives[p] = archive
		sum := sha256.Sum256(archive)
		s.hashes[p] = hex.EncodeToString(sum[:])
	}

	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)
	return s
}

// URL is the base URL tests should hand to release.WithBaseURL and the PyPI client.
func (s *Server) URL() string {
	return s.srv.URL
}

// ExecutableContent returns the fake Bun binary packed for a platform.
func (s *Server) ExecutableContent(p platform.Platform) []byte {
	return s.executables[p]
}

// CorruptHash makes the advertised hash for a platform disagree with its archive.
func (s *Server) CorruptHash(p platform.Platform) {
	s.hashes[p] = strings.Repeat("0", 64)
}

// DropArchive removes a platform's archive so downloads for it fail with 404.
func (s *Server) DropArchive(p platform.Platform) {
	delete(s.archives, p)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == "/latest":
		w.Header().Set("Location", fmt.Sprintf("%s/tag/bun-%s", s.srv.URL, s.BunVersion))
		w.WriteHeader(http.StatusFound)

	case path == fmt.Sprintf("/download/bun-%s/SHASUMS256.txt", s.BunVersion):
		var b strings.Builder
		for _, p := range platform.All() {
			fmt.Fprintf(&b, "%s  %s\n", s.hashes[p], p.ArchiveName())
		}
		// Assets pybun must ignore.
		fmt.Fprintf(&b, "%s  bun-linux-x64-profile.zip\n", strings.Repeat("a", 64))
		fmt.Fprintf(&b, "%s  bun-linux-x64-baseline.zip\n", strings.Repeat("b", 64))
		_, _ = w.Write([]byte(b.String()))

	case strings.HasPrefix(path, fmt.Sprintf("/download/bun-%s/bun-", s.BunVersion)):
		target := strings.TrimSuffix(strings.TrimPrefix(path, fmt.Sprintf("/download/bun-%s/bun-", s.BunVersion)), ".zip")
		p, err := platform.Parse(target)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		archive, ok := s.archives[p]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(archive)

	case path == fmt.Sprintf("/rss/project/%s/releases.xml", s.PyPIProject):
		if s.PyPIVersion == "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>PyPI recent updates for %s</title>
    <item><title>%s</title></item>
    <item><title>0.0.1</title></item>
  </channel>
</rss>
`, s.PyPIProject, s.PyPIVersion)

	default:
		http.NotFound(w, r)
	}
}

// MakeArchive builds a Bun release zip holding a single executable entry at
// the path Bun uses (bun-<platform>/bun[.exe]) with mode 0755.
func MakeArchive(p platform.Platform, executable []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	header := &zip.FileHeader{
		Name:   p.ExecutablePath(),
		Method: zip.Deflate,
	}
	header.SetMode(0o755)

	f, err := zw.CreateHeader(header)
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(executable); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
