package wheel

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pybun/pybun/internal/platform"
	"github.com/pybun/pybun/internal/releasetest"
)

func TestPackageVersion(t *testing.T) {
	tests := []struct {
		bunVersion string
		suffix     string
		want       string
	}{
		{"v1.2.3", "", "1.2.3"},
		{"1.2.3", "", "1.2.3"},
		{"v1.2.3", "post1", "1.2.3.post1"},
		{"v1.2.3", "alpha2", "1.2.3.alpha2"},
	}
	for _, tt := range tests {
		t.Run(tt.bunVersion+"/"+tt.suffix, func(t *testing.T) {
			require.Equal(t, tt.want, PackageVersion(tt.bunVersion, tt.suffix))
		})
	}
}

func TestExtractExecutable(t *testing.T) {
	content := []byte("#!/bin/sh\necho bun\n")
	archive, err := releasetest.MakeArchive(platform.LinuxX64, content)
	require.NoError(t, err)

	exe, err := ExtractExecutable(archive, platform.LinuxX64)
	require.NoError(t, err)
	require.Equal(t, "bun", exe.Name)
	require.Equal(t, content, exe.Content)
	require.Equal(t, os.FileMode(0o755), exe.Mode.Perm())

	_, err = ExtractExecutable(archive, platform.WindowsX64)
	require.Error(t, err, "archive holds the wrong platform's layout")

	_, err = ExtractExecutable([]byte("not a zip"), platform.LinuxX64)
	require.Error(t, err)
}

func TestWheelNaming(t *testing.T) {
	w := Wheel{PackageVersion: "1.2.3", BunVersion: "v1.2.3", Platform: platform.WindowsX64}
	require.Equal(t, "py3-none-win_amd64", w.Tag())
	require.Equal(t, "pybun-1.2.3-py3-none-win_amd64.whl", w.Filename())
}

func buildTestWheel(t *testing.T, dir string) string {
	t.Helper()
	archive, err := releasetest.MakeArchive(platform.LinuxX64, []byte("fake bun binary"))
	require.NoError(t, err)
	exe, err := ExtractExecutable(archive, platform.LinuxX64)
	require.NoError(t, err)

	w := Wheel{PackageVersion: "1.2.3", BunVersion: "v1.2.3", Platform: platform.LinuxX64}
	path, err := w.Write(exe, dir)
	require.NoError(t, err)
	return path
}

func TestWriteWheelContents(t *testing.T) {
	dir := t.TempDir()
	path := buildTestWheel(t, filepath.Join(dir, "dist"))
	require.Equal(t, "pybun-1.2.3-py3-none-manylinux_2_12_x86_64.manylinux2010_x86_64.musllinux_1_1_x86_64.whl", filepath.Base(path))

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	contents := map[string][]byte{}
	for _, f := range zr.File {
		names = append(names, f.Name)

		require.Equal(t, 1980, f.Modified.UTC().Year(), "%s must carry the fixed timestamp", f.Name)

		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		contents[f.Name] = data

		switch f.Name {
		case "pybun/bun":
			require.Equal(t, os.FileMode(0o755), f.Mode().Perm())
		case "pybun-1.2.3.dist-info/RECORD":
			require.Equal(t, os.FileMode(0o664), f.Mode().Perm())
		default:
			require.Equal(t, os.FileMode(0o644), f.Mode().Perm())
		}
	}

	require.Equal(t, []string{
		"pybun-1.2.3.dist-info/METADATA",
		"pybun-1.2.3.dist-info/WHEEL",
		"pybun-1.2.3.dist-info/entry_points.txt",
		"pybun/__init__.py",
		"pybun/__main__.py",
		"pybun/bun",
		"pybun-1.2.3.dist-info/RECORD",
	}, names)

	metadata := string(contents["pybun-1.2.3.dist-info/METADATA"])
	require.Contains(t, metadata, "Metadata-Version: 2.3")
	require.Contains(t, metadata, "Name: pybun")
	require.Contains(t, metadata, "Version: 1.2.3")
	require.Contains(t, metadata, "Project-URL: Changelog, https://bun.sh/blog/bun-v1.2.3")
	require.Contains(t, metadata, "Requires-Python: ~=3.9")

	wheelFile := string(contents["pybun-1.2.3.dist-info/WHEEL"])
	require.Contains(t, wheelFile, "Wheel-Version: 1.0")
	require.Contains(t, wheelFile, "Root-Is-Purelib: false")
	require.Contains(t, wheelFile, "Tag: py3-none-manylinux_2_12_x86_64.manylinux2010_x86_64.musllinux_1_1_x86_64")

	require.Contains(t, string(contents["pybun-1.2.3.dist-info/entry_points.txt"]), "[console_scripts]")
	require.Contains(t, string(contents["pybun/__main__.py"]), "os.execv")
	require.Equal(t, []byte("fake bun binary"), contents["pybun/bun"])
}

func TestWriteRecordDigests(t *testing.T) {
	dir := t.TempDir()
	path := buildTestWheel(t, dir)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	contents := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		contents[f.Name] = data
	}

	record := string(contents["pybun-1.2.3.dist-info/RECORD"])
	require.True(t, strings.HasSuffix(record, "pybun-1.2.3.dist-info/RECORD,,\n"))

	lines := strings.Split(strings.TrimSuffix(record, "\n"), "\n")
	require.Len(t, lines, len(contents))

	for _, line := range lines[:len(lines)-1] {
		parts := strings.Split(line, ",")
		require.Len(t, parts, 3, "line %q", line)
		name, digest, size := parts[0], parts[1], parts[2]

		data, ok := contents[name]
		require.True(t, ok, "RECORD names unknown entry %q", name)

		sum := sha256.Sum256(data)
		require.Equal(t, "sha256="+base64.RawURLEncoding.EncodeToString(sum[:]), digest)
		require.Equal(t, fmt.Sprint(len(data)), size)
	}
}

func TestWriteIsReproducible(t *testing.T) {
	first := buildTestWheel(t, t.TempDir())
	second := buildTestWheel(t, t.TempDir())

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	require.True(t, bytes.Equal(a, b), "rebuilding the same inputs must produce identical wheels")
}
