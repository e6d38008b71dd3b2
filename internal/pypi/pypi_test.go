package pypi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pybun/pybun/internal/releasetest"
)

func TestLatestVersion(t *testing.T) {
	stub := releasetest.New(t, "v1.2.3")
	stub.PyPIVersion = "1.2.2"

	c := New(WithBaseURL(stub.URL()))
	version, err := c.LatestVersion(context.Background(), "pybun")
	require.NoError(t, err)
	require.Equal(t, "1.2.2", version)
}

func TestLatestVersionUnknownProject(t *testing.T) {
	stub := releasetest.New(t, "v1.2.3")
	stub.PyPIVersion = "1.2.2"

	c := New(WithBaseURL(stub.URL()))
	_, err := c.LatestVersion(context.Background(), "definitely-not-pybun")
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}

func TestLatestVersionEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel></channel></rss>`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	_, err := c.LatestVersion(context.Background(), "pybun")
	require.True(t, errors.Is(err, ErrNoReleases))
}

func TestLatestVersionBadXML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not xml}"))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	_, err := c.LatestVersion(context.Background(), "pybun")
	require.Error(t, err)
}
