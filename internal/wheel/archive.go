package wheel

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

type archiveEntry struct {
	path    string
	mode    fs.FileMode
	content []byte
}

// writeArchive writes the wheel zip: each entry deflated with the fixed epoch
// timestamp and Unix mode bits, followed by the RECORD manifest listing the
// sha256 digest and size of everything before it.
func writeArchive(out io.Writer, entries []archiveEntry, recordPath string) error {
	zw := zip.NewWriter(out)

	var record strings.Builder
	for _, e := range entries {
		if err := writeEntry(zw, e); err != nil {
			return err
		}
		fmt.Fprintf(&record, "%s,sha256=%s,%d\n", e.path, recordDigest(e.content), len(e.content))
	}
	fmt.Fprintf(&record, "%s,,\n", recordPath)

	// RECORD is group-writable by convention so installers can amend it.
	if err := writeEntry(zw, archiveEntry{
		path:    recordPath,
		mode:    0o664,
		content: []byte(record.String()),
	}); err != nil {
		return err
	}

	return zw.Close()
}

func writeEntry(zw *zip.Writer, e archiveEntry) error {
	header := &zip.FileHeader{
		Name:     e.path,
		Method:   zip.Deflate,
		Modified: epoch,
	}
	header.SetMode(e.mode)

	f, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = f.Write(e.content)
	return err
}

// recordDigest renders a sha256 digest the way RECORD wants it: urlsafe
// base64 without padding.
func recordDigest(content []byte) string {
	sum := sha256.Sum256(content)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
