package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtcweb/gallerybackend/models"
)

type fakeResolver struct {
	resolveErr error
	filePath   string
	fetchFn    func(filePath, rangeHeader string) (*http.Response, error)
}

func (f *fakeResolver) ResolveFilePath(_ context.Context, fileID string) (string, error) {
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	return f.filePath, nil
}

func (f *fakeResolver) FetchFile(_ context.Context, filePath, rangeHeader string) (*http.Response, error) {
	return f.fetchFn(filePath, rangeHeader)
}

func proxyRouter(h *FileProxyHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/file/*", h.ProxyFile)
	return r
}

func TestProxyFile_DirectURLRangePassthrough(t *testing.T) {
	var gotRange string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Content-Range", "bytes 0-99/5000")
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write(make([]byte, 100))
	}))
	defer upstream.Close()

	h := NewFileProxyHandler(&fakeResolver{})
	srv := httptest.NewServer(proxyRouter(h))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/file/"+url.PathEscape(upstream.URL+"/v.mp4"), nil)
	require.NoError(t, err)
	req.Header.Set("Range", "bytes=0-99")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "bytes=0-99", gotRange, "incoming Range must be forwarded upstream")
	assert.Equal(t, http.StatusPartialContent, resp.StatusCode, "206 must pass through unchanged")
	assert.Equal(t, "bytes 0-99/5000", resp.Header.Get("Content-Range"))
	assert.Equal(t, "video/mp4", resp.Header.Get("Content-Type"))
	assert.Equal(t, "public, max-age=14400", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Len(t, body, 100)
}

func TestProxyFile_DirectURLDownloadDisposition(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer upstream.Close()

	h := NewFileProxyHandler(&fakeResolver{})
	srv := httptest.NewServer(proxyRouter(h))
	defer srv.Close()

	target := srv.URL + "/file/" + url.PathEscape(upstream.URL+"/f.zip") + "?download=" + url.QueryEscape("套图.zip")
	resp, err := http.Get(target)
	require.NoError(t, err)
	defer resp.Body.Close()

	cd := resp.Header.Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(cd, "attachment; filename*=UTF-8''"), "got %q", cd)
	assert.NotContains(t, cd, "套", "filename must be percent-encoded")
}

func TestProxyFile_DirectURLUpstreamDown(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	h := NewFileProxyHandler(&fakeResolver{})
	srv := httptest.NewServer(proxyRouter(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/file/" + url.PathEscape(dead.URL+"/x"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestProxyFile_ForeignInvalidMetadata(t *testing.T) {
	h := NewFileProxyHandler(&fakeResolver{resolveErr: models.ErrUpstreamInvalid})
	srv := httptest.NewServer(proxyRouter(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/file/AgACAgUAAx0")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Invalid file metadata")
}

func TestProxyFile_ForeignRangeOnSecondFetchOnly(t *testing.T) {
	var fetchedPath, fetchedRange string
	resolver := &fakeResolver{
		filePath: "photos/p.jpg",
		fetchFn: func(filePath, rangeHeader string) (*http.Response, error) {
			fetchedPath = filePath
			fetchedRange = rangeHeader
			rec := httptest.NewRecorder()
			rec.Header().Set("Content-Type", "image/jpeg")
			rec.WriteHeader(http.StatusPartialContent)
			_, _ = rec.Write([]byte("jpegdata"))
			return rec.Result(), nil
		},
	}
	h := NewFileProxyHandler(resolver)
	srv := httptest.NewServer(proxyRouter(h))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/file/AgACAgUAAx0", nil)
	require.NoError(t, err)
	req.Header.Set("Range", "bytes=100-199")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "photos/p.jpg", fetchedPath)
	assert.Equal(t, "bytes=100-199", fetchedRange)
	assert.Equal(t, http.StatusPartialContent, resp.StatusCode)
	assert.Equal(t, "public, max-age=31536000", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestProxyFile_ForeignFetchFailure(t *testing.T) {
	resolver := &fakeResolver{
		filePath: "photos/p.jpg",
		fetchFn: func(filePath, rangeHeader string) (*http.Response, error) {
			return nil, fmt.Errorf("%w: connection reset", models.ErrProxyFailure)
		},
	}
	h := NewFileProxyHandler(resolver)
	srv := httptest.NewServer(proxyRouter(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/file/AgACAgUAAx0")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
