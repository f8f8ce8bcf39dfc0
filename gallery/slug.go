package gallery

import "regexp"

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify turns a category name into its URL path form by collapsing each
// whitespace run into a single dash. Matches the slugs the navigation links
// emit.
func Slugify(category string) string {
	return whitespaceRun.ReplaceAllString(category, "-")
}

// CategoryFromSlug resolves a URL slug back to a configured category name.
// An unknown slug is returned as-is, which then simply matches no album.
func CategoryFromSlug(categories []string, slug string) string {
	for _, c := range categories {
		if Slugify(c) == slug {
			return c
		}
	}
	return slug
}
