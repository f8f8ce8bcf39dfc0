package gallery

import (
	"net/url"
	"strconv"
)

// windowThreshold is the largest page count rendered without ellipsis
// compression.
const windowThreshold = 7

// PageLink is one token of a rendered pagination strip: a previous/next
// arrow, a numbered page or an ellipsis. Ellipsis and disabled tokens carry
// no href.
type PageLink struct {
	Page     int
	Label    string
	Href     string
	Ellipsis bool
	Disabled bool
	Active   bool
}

func pageHref(basePath string, extra url.Values, page int) string {
	q := url.Values{}
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("page", strconv.Itoa(page))
	return basePath + "?" + q.Encode()
}

// PageLinks computes the windowed pagination strip for a listing: a previous
// arrow, page 1, a compressed window around the current page, the last page
// and a next arrow. Up to windowThreshold pages every number is shown.
// Deterministic and I/O-free.
func PageLinks(current, total int, basePath string, extra url.Values) []PageLink {
	var links []PageLink

	number := func(p int) {
		links = append(links, PageLink{
			Page:   p,
			Label:  strconv.Itoa(p),
			Href:   pageHref(basePath, extra, p),
			Active: p == current,
		})
	}
	ellipsis := func() {
		links = append(links, PageLink{Label: "…", Ellipsis: true})
	}

	prev := PageLink{Page: current - 1, Label: "‹"}
	if current <= 1 {
		prev.Disabled = true
	} else {
		prev.Href = pageHref(basePath, extra, current-1)
	}
	links = append(links, prev)

	if total <= windowThreshold {
		for p := 1; p <= total; p++ {
			number(p)
		}
	} else {
		number(1)
		if current > 3 {
			ellipsis()
		}
		start := current - 1
		if start < 2 {
			start = 2
		}
		end := current + 1
		if end > total-1 {
			end = total - 1
		}
		for p := start; p <= end; p++ {
			number(p)
		}
		if current < total-2 {
			ellipsis()
		}
		number(total)
	}

	next := PageLink{Page: current + 1, Label: "›"}
	if current >= total {
		next.Disabled = true
	} else {
		next.Href = pageHref(basePath, extra, current+1)
	}
	links = append(links, next)

	return links
}
