package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/mtcweb/gallerybackend/gallery"
	"github.com/mtcweb/gallerybackend/models"
	"github.com/mtcweb/gallerybackend/web"
)

// placeholder glyphs per cover kind, shown when an album has no images
var coverGlyphs = map[models.CoverKind]string{
	models.CoverVideo:   "🎬",
	models.CoverArchive: "📦",
	models.CoverAPK:     "🤖",
	models.CoverEXE:     "🪟",
	models.CoverPDF:     "📕",
	models.CoverText:    "📄",
	models.CoverFile:    "📁",
}

// AlbumSource is the read side of the album store.
type AlbumSource interface {
	ListAlbums(ctx context.Context) ([]models.Album, error)
	GetAlbum(ctx context.Context, code string) (models.Album, error)
}

// GalleryHandler serves the listing and detail pages.
type GalleryHandler struct {
	Store      AlbumSource
	Categories []string
	PageSize   int
	Renderer   *web.Renderer
}

// fileURL builds the proxy path for an opaque file reference, optionally
// with a download filename.
func fileURL(reference, downloadName string) string {
	u := "/file/" + url.PathEscape(reference)
	if downloadName != "" {
		u += "?download=" + url.QueryEscape(downloadName)
	}
	return u
}

func albumCard(a models.Album) web.AlbumCard {
	card := web.AlbumCard{
		Code:     a.Code,
		Title:    a.Title,
		Category: a.Category,
	}
	cover := a.Cover()
	if cover.Kind == models.CoverImage {
		card.CoverURL = fileURL(cover.Reference, "")
	} else {
		card.Glyph = coverGlyphs[cover.Kind]
	}
	return card
}

// ListAlbums serves /list and /category/{slug}, both with optional ?q= and
// ?page= parameters.
func (h *GalleryHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page, _ := strconv.Atoi(params.Get("page"))
	if page < 1 {
		page = 1
	}
	query := params.Get("q")

	category := ""
	if slug := chi.URLParam(r, "slug"); slug != "" {
		category = gallery.CategoryFromSlug(h.Categories, slug)
	}

	albums, err := h.Store.ListAlbums(r.Context())
	if err != nil {
		log.WithError(err).Error("failed to list albums")
		h.Renderer.ErrorPage(w, http.StatusInternalServerError, "Failed to load albums")
		return
	}

	pg := gallery.Paginate(albums, gallery.Options{
		Category: category,
		Query:    query,
		Page:     page,
		PageSize: h.PageSize,
	})

	cards := make([]web.AlbumCard, 0, len(pg.Items))
	for _, a := range pg.Items {
		cards = append(cards, albumCard(a))
	}

	var pagination []gallery.PageLink
	if pg.TotalPages > 1 {
		extra := url.Values{}
		if query != "" {
			extra.Set("q", query)
		}
		pagination = gallery.PageLinks(pg.CurrentPage, pg.TotalPages, r.URL.Path, extra)
	}

	heading := "All Albums"
	switch {
	case category != "":
		heading = "# " + category
	case query != "":
		heading = "🔍 " + query
	}

	h.Renderer.ListPage(w, query, category, web.ListData{
		Heading:    heading,
		Cards:      cards,
		Pagination: pagination,
	})
}

// GetAlbum serves the detail page for one code, with prev/next navigation
// over the newest-first collection.
func (h *GalleryHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	albums, err := h.Store.ListAlbums(r.Context())
	if err != nil {
		log.WithError(err).Error("failed to list albums")
		h.Renderer.ErrorPage(w, http.StatusInternalServerError, "Failed to load albums")
		return
	}

	idx, neighbors := gallery.FindNeighbors(albums, code)
	if idx < 0 {
		h.Renderer.ErrorPage(w, http.StatusNotFound, "Album not found")
		return
	}

	// the listing only needs summary fields; re-fetch the full record for
	// attachments, zip and password
	detail, err := h.Store.GetAlbum(r.Context(), code)
	if err != nil {
		// the code was just seen in the listing, so a missing or
		// unparsable record here means inconsistent store state
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrDataCorrupted) {
			log.WithField("code", code).Warn("album listed but unreadable on detail fetch")
			h.Renderer.ErrorPage(w, http.StatusInternalServerError, "Data corrupted")
			return
		}
		log.WithField("code", code).WithError(err).Error("failed to fetch album")
		h.Renderer.ErrorPage(w, http.StatusInternalServerError, "Failed to load album")
		return
	}

	images := make([]string, 0, len(detail.Files))
	for _, f := range detail.Files {
		images = append(images, fileURL(f, ""))
	}

	attachments := make([]web.AttachmentView, 0, len(detail.Attachments))
	for _, att := range detail.Attachments {
		attachments = append(attachments, web.AttachmentView{
			Name:  att.FileName,
			Href:  fileURL(att.Reference(), att.FileName),
			Video: att.IsVideo(),
		})
	}

	data := web.AlbumData{
		Code:        detail.Code,
		Title:       detail.Title,
		Category:    detail.Category,
		Images:      images,
		Attachments: attachments,
		Password:    detail.Password,
	}
	if detail.Zip != nil {
		data.Zip = &web.AttachmentView{
			Name: detail.Zip.FileName,
			Href: fileURL(detail.Zip.Reference(), detail.Zip.FileName),
		}
	}
	if neighbors.Prev != nil {
		data.Prev = &web.NeighborView{Code: neighbors.Prev.Code, Title: neighbors.Prev.Title}
	}
	if neighbors.Next != nil {
		data.Next = &web.NeighborView{Code: neighbors.Next.Code, Title: neighbors.Next.Title}
	}

	h.Renderer.AlbumPage(w, data)
}

// NotFound is the catch-all for unmatched paths.
func (h *GalleryHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Renderer.ErrorPage(w, http.StatusNotFound, "404 Not Found")
}
