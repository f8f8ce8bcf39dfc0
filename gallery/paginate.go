// Package gallery holds the pure listing pipeline: category and search
// filtering, page slicing, pagination link computation and neighbor lookup.
// Nothing in this package performs I/O.
package gallery

import (
	"strings"

	"github.com/mtcweb/gallerybackend/models"
)

// Options selects and slices an album collection.
type Options struct {
	// exact-match category filter; empty means no filter
	Category string
	// case-folded substring search over title and code; empty means no filter
	Query string

	Page     int
	PageSize int
}

// Page is one listing page plus its metadata.
type Page struct {
	Items       []models.Album
	CurrentPage int
	TotalPages  int
}

func filterCategory(albums []models.Album, category string) []models.Album {
	out := make([]models.Album, 0, len(albums))
	for _, a := range albums {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

func filterSearch(albums []models.Album, query string) []models.Album {
	query = strings.ToLower(query)
	out := make([]models.Album, 0, len(albums))
	for _, a := range albums {
		if strings.Contains(strings.ToLower(a.Title), query) ||
			strings.Contains(strings.ToLower(a.Code), query) {
			out = append(out, a)
		}
	}
	return out
}

// Paginate filters the collection, then slices the requested page. Filtering
// happens before slicing so page boundaries stay consistent with the active
// filter. An out-of-range page clamps into [1, TotalPages] instead of
// erroring.
func Paginate(albums []models.Album, opts Options) Page {
	if opts.Category != "" {
		albums = filterCategory(albums, opts.Category)
	}
	if opts.Query != "" {
		albums = filterSearch(albums, opts.Query)
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 1
	}

	totalPages := (len(albums) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	current := opts.Page
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	start := (current - 1) * pageSize
	end := start + pageSize
	if start > len(albums) {
		start = len(albums)
	}
	if end > len(albums) {
		end = len(albums)
	}

	return Page{
		Items:       albums[start:end],
		CurrentPage: current,
		TotalPages:  totalPages,
	}
}
