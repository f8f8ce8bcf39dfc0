// Package web renders the HTML front-end. All variants of the site share one
// template set; the look is driven by data (site title, logo, categories),
// not by branching render paths.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/mtcweb/gallerybackend/gallery"
)

//go:embed templates/*.html
var templateFS embed.FS

// NavLink is one drawer entry.
type NavLink struct {
	Name   string
	Href   string
	Active bool
}

// AlbumCard is one tile on a listing page. CoverURL is empty for albums
// without images; Glyph then carries the placeholder icon.
type AlbumCard struct {
	Code     string
	Title    string
	Category string
	CoverURL string
	Glyph    string
}

// AttachmentView is a detail-page resource, either an inline video player or
// a download link.
type AttachmentView struct {
	Name  string
	Href  string
	Video bool
}

// NeighborView is a prev/next navigation target on the detail page.
type NeighborView struct {
	Code  string
	Title string
}

// Chrome is the shared page frame data: site identity, drawer navigation
// and the search box state.
type Chrome struct {
	SiteTitle string
	LogoURL   string
	Query     string
	Nav       []NavLink
}

// ListData feeds the listing template.
type ListData struct {
	Chrome
	Heading    string
	Cards      []AlbumCard
	Pagination []gallery.PageLink
}

// AlbumData feeds the detail template.
type AlbumData struct {
	Chrome
	Code        string
	Title       string
	Category    string
	Images      []string
	Attachments []AttachmentView
	Zip         *AttachmentView
	Prev        *NeighborView
	Next        *NeighborView
	Password    string
}

type errorData struct {
	Chrome
	Status  int
	Message string
}

// Renderer executes the embedded template set with the configured site
// identity and navigation.
type Renderer struct {
	tmpl       *template.Template
	siteTitle  string
	logoURL    string
	categories []string
}

func NewRenderer(siteTitle, logoURL string, categories []string) (*Renderer, error) {
	funcs := template.FuncMap{
		"truncate": func(s string, n int) string {
			runes := []rune(s)
			if len(runes) <= n {
				return s
			}
			return string(runes[:n]) + "…"
		},
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{
		tmpl:       tmpl,
		siteTitle:  siteTitle,
		logoURL:    logoURL,
		categories: categories,
	}, nil
}

func (r *Renderer) chrome(query, activeCategory string) Chrome {
	nav := make([]NavLink, 0, len(r.categories))
	for _, c := range r.categories {
		nav = append(nav, NavLink{
			Name:   c,
			Href:   "/category/" + gallery.Slugify(c),
			Active: c == activeCategory,
		})
	}
	return Chrome{
		SiteTitle: r.siteTitle,
		LogoURL:   r.logoURL,
		Query:     query,
		Nav:       nav,
	}
}

func (r *Renderer) execute(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.WithField("template", name).WithError(err).Error("template execution failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// ListPage renders a listing. activeCategory highlights the drawer entry.
func (r *Renderer) ListPage(w http.ResponseWriter, query, activeCategory string, data ListData) {
	data.Chrome = r.chrome(query, activeCategory)
	r.execute(w, http.StatusOK, "list.html", data)
}

// AlbumPage renders a detail view.
func (r *Renderer) AlbumPage(w http.ResponseWriter, data AlbumData) {
	data.Chrome = r.chrome("", data.Category)
	r.execute(w, http.StatusOK, "album.html", data)
}

// ErrorPage renders a minimal HTML error response.
func (r *Renderer) ErrorPage(w http.ResponseWriter, status int, message string) {
	r.execute(w, status, "error.html", errorData{
		Chrome: r.chrome("", ""),
		Status:     status,
		Message:    message,
	})
}
