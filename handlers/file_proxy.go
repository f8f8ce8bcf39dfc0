package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/mtcweb/gallerybackend/models"
)

const (
	// direct-URL responses get a bounded cache lifetime
	directCacheControl = "public, max-age=14400"
	// resolved foreign files are immutable, cache them long
	foreignCacheControl = "public, max-age=31536000"
)

// hop-by-hop headers are never copied from upstream responses
var skippedResponseHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Trailer":             true,
	"Te":                  true,
}

// FileResolver is the foreign file-hosting upstream: identifier to path,
// then path to byte stream.
type FileResolver interface {
	ResolveFilePath(ctx context.Context, fileID string) (string, error)
	FetchFile(ctx context.Context, filePath, rangeHeader string) (*http.Response, error)
}

// FileProxyHandler streams files through /file/{reference}. A reference is
// either a fully-qualified URL or a foreign file identifier needing a
// metadata lookup first. Bodies are relayed, never buffered.
type FileProxyHandler struct {
	Resolver FileResolver

	// client for direct-URL fetches; no overall timeout, large video
	// bodies stream for longer than any sane fixed limit
	HTTPClient *http.Client
}

func NewFileProxyHandler(resolver FileResolver) *FileProxyHandler {
	return &FileProxyHandler{
		Resolver:   resolver,
		HTTPClient: &http.Client{},
	}
}

// ProxyFile serves GET /file/*.
func (h *FileProxyHandler) ProxyFile(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "*")
	if unescaped, err := url.PathUnescape(reference); err == nil {
		reference = unescaped
	}
	if reference == "" {
		http.Error(w, "404 Not Found", http.StatusNotFound)
		return
	}

	rangeHeader := r.Header.Get("Range")
	downloadName := r.URL.Query().Get("download")

	if strings.HasPrefix(reference, "http") {
		h.proxyDirect(w, r, reference, rangeHeader, downloadName)
		return
	}
	h.proxyForeign(w, r, reference, rangeHeader, downloadName)
}

func (h *FileProxyHandler) proxyDirect(w http.ResponseWriter, r *http.Request, rawURL, rangeHeader, downloadName string) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, rawURL, nil)
	if err != nil {
		http.Error(w, "Proxy error", http.StatusBadGateway)
		return
	}
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}

	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("direct file fetch failed")
		http.Error(w, "Proxy error", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	h.relay(w, resp, directCacheControl, downloadName)
}

func (h *FileProxyHandler) proxyForeign(w http.ResponseWriter, r *http.Request, fileID, rangeHeader, downloadName string) {
	filePath, err := h.Resolver.ResolveFilePath(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, models.ErrUpstreamInvalid) {
			http.Error(w, "Invalid file metadata", http.StatusBadGateway)
			return
		}
		log.WithError(err).Warn("file metadata lookup failed")
		http.Error(w, "Proxy error", http.StatusBadGateway)
		return
	}

	// the Range header is forwarded on the content fetch only; the
	// metadata lookup is a plain JSON call
	resp, err := h.Resolver.FetchFile(r.Context(), filePath, rangeHeader)
	if err != nil {
		log.WithError(err).Warn("file fetch failed")
		http.Error(w, "Proxy error", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	h.relay(w, resp, foreignCacheControl, downloadName)
}

// relay copies the upstream response to the client, preserving status and
// headers so partial-content replies keep working, then overrides caching,
// cross-origin and disposition.
func (h *FileProxyHandler) relay(w http.ResponseWriter, resp *http.Response, cacheControl, downloadName string) {
	for k, vv := range resp.Header {
		if skippedResponseHeaders[http.CanonicalHeaderKey(k)] {
			continue
		}
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if downloadName != "" {
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(downloadName))
	}

	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		// headers are gone; nothing to send the client, just record it
		log.WithError(err).Debug("file stream interrupted")
	}
}
