// Package wheel writes Bun executables into reproducible Python wheels.
//
// A wheel is a zip archive with a dist-info directory describing the package.
// Reproducibility matters here: rebuilding the same Bun version must produce
// byte-identical wheels, so every entry gets a fixed timestamp and explicit
// mode bits instead of whatever the build host would stamp.
package wheel

import (
	"archive/zip"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pybun/pybun/internal/platform"
)

//go:embed assets/__main__.py
var shimSource []byte

//go:embed assets/entry_points.txt
var entryPoints []byte

//go:embed assets/description.md
var description string

// Name is the distribution name the wheels are published under.
const Name = "pybun"

// epoch is the fixed modification time stamped on every wheel entry.
var epoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// PackageVersion converts a Bun release version into the package version the
// wheel carries: the leading "v" goes away and an optional suffix (e.g.
// "post1") is appended with a dot.
func PackageVersion(bunVersion, suffix string) string {
	v := strings.TrimPrefix(bunVersion, "v")
	if suffix != "" {
		v = v + "." + suffix
	}
	return v
}

// Executable is a Bun binary pulled out of a release archive.
type Executable struct {
	Name    string
	Mode    fs.FileMode
	Content []byte
}

// ExtractExecutable pulls the Bun binary out of a release archive, keeping its
// mode bits so the wheel installs an executable file.
func ExtractExecutable(archive []byte, p platform.Platform) (Executable, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return Executable{}, fmt.Errorf("open release archive for %s: %w", p, err)
	}

	want := p.ExecutablePath()
	for _, f := range zr.File {
		if f.Name != want {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return Executable{}, err
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			return Executable{}, err
		}
		return Executable{
			Name:    p.ExecutableName(),
			Mode:    f.Mode(),
			Content: content,
		}, nil
	}
	return Executable{}, fmt.Errorf("release archive for %s has no %s entry", p, want)
}

// Wheel describes one platform-tagged wheel to be written.
type Wheel struct {
	PackageVersion string
	BunVersion     string
	Platform       platform.Platform
}

// Tag returns the full wheel tag, e.g. "py3-none-win_amd64".
func (w Wheel) Tag() string {
	return "py3-none-" + w.Platform.WheelTag()
}

// Filename returns the wheel file name for this build.
func (w Wheel) Filename() string {
	return fmt.Sprintf("%s-%s-%s.whl", Name, w.PackageVersion, w.Tag())
}

func (w Wheel) distInfoDir() string {
	return fmt.Sprintf("%s-%s.dist-info", Name, w.PackageVersion)
}

func (w Wheel) metadata() []byte {
	rows := []string{
		"Metadata-Version: 2.3",
		"Name: " + Name,
		"Version: " + w.PackageVersion,
		"Summary: Bun is an all-in-one toolkit for JavaScript and TypeScript apps.",
		"Description-Content-Type: text/markdown",
		"License: MIT",
		"Classifier: License :: OSI Approved :: MIT License",
		"Project-URL: Homepage, https://bun.sh/",
		"Project-URL: Source Code, https://github.com/oven-sh/bun",
		"Project-URL: Bug Tracker, https://github.com/oven-sh/bun/issues",
		"Project-URL: Changelog, https://bun.sh/blog/bun-" + w.BunVersion,
		"Project-URL: Documentation, https://bun.sh/docs",
		"Requires-Python: ~=3.9",
		"",
		description,
	}
	return []byte(strings.Join(rows, "\n"))
}

func (w Wheel) wheelFile() []byte {
	rows := []string{
		"Wheel-Version: 1.0",
		"Generator: pybun",
		"Root-Is-Purelib: false",
		"Tag: " + w.Tag(),
	}
	return []byte(strings.Join(rows, "\n"))
}

// Write builds the wheel in outputDir and returns its path. The output
// directory is created when missing.
func (w Wheel) Write(exe Executable, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", err
	}

	distInfo := w.distInfoDir()
	entries := []archiveEntry{
		{path: distInfo + "/METADATA", mode: 0o644, content: w.metadata()},
		{path: distInfo + "/WHEEL", mode: 0o644, content: w.wheelFile()},
		{path: distInfo + "/entry_points.txt", mode: 0o644, content: entryPoints},
		{path: Name + "/__init__.py", mode: 0o644, content: []byte("\n")},
		{path: Name + "/__main__.py", mode: 0o644, content: shimSource},
		{path: Name + "/" + exe.Name, mode: exe.Mode, content: exe.Content},
	}

	path := filepath.Join(outputDir, w.Filename())
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if err := writeArchive(out, entries, distInfo+"/RECORD"); err != nil {
		out.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return path, nil
}
