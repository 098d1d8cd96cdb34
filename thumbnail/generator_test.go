package thumbnail

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horror-pipeline/config"
)

func fakeImage() []byte {
	return bytes.Repeat([]byte{0x89, 0x50, 0x4e, 0x47}, 64)
}

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg, err := config.Load("no-such-file.yaml")
	require.NoError(t, err)
	cfg.Paths.Output = t.TempDir()

	g := New(cfg)
	g.endpoint = srv.URL + "/prompt"
	return g
}

func TestGenerateDownloadsImage(t *testing.T) {
	var gotPath, gotQuery string
	g := newTestGenerator(t, func(rw http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		rw.Write(fakeImage())
	})

	out, err := g.Generate(context.Background(), "The House on Miller Road", "longform_aaaa1111")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, fakeImage(), data)
	assert.Equal(t, "longform_aaaa1111.png", filepath.Base(out))

	// Title and channel aesthetic made it into the prompt.
	assert.Contains(t, gotPath, "The House on Miller Road")
	assert.True(t, strings.Contains(gotPath, "horror thumbnail"))
	assert.Contains(t, gotQuery, "width=1792")
	assert.Contains(t, gotQuery, "model=flux")
}

func TestGenerateRejectsEmptyTitle(t *testing.T) {
	g := newTestGenerator(t, func(rw http.ResponseWriter, r *http.Request) {
		rw.Write(fakeImage())
	})

	_, err := g.Generate(context.Background(), "", "x")
	require.Error(t, err)
}

func TestDownloadRejectsTinyResponse(t *testing.T) {
	g := newTestGenerator(t, func(rw http.ResponseWriter, r *http.Request) {
		rw.Write([]byte("err"))
	})

	err := g.downloadImage(context.Background(), g.endpoint+"/x", filepath.Join(t.TempDir(), "x.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}

func TestDownloadRejectsHTTPError(t *testing.T) {
	g := newTestGenerator(t, func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusBadGateway)
	})

	err := g.downloadImage(context.Background(), g.endpoint+"/x", filepath.Join(t.TempDir(), "x.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
