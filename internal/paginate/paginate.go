// Package paginate derives the page selector row shown under the feed.
package paginate

// MaxVisible is the widest run of consecutive page numbers ever rendered.
const MaxVisible = 5

type Kind string

const (
	KindPage     Kind = "page"
	KindEllipsis Kind = "ellipsis"
	KindFirst    Kind = "first"
	KindLast     Kind = "last"
)

// Selector is one entry of the pager. Page is 0 for an ellipsis.
type Selector struct {
	Kind    Kind `json:"kind"`
	Page    int  `json:"page,omitempty"`
	Current bool `json:"current,omitempty"`
}

// TotalPages returns ceil(totalCount/pageSize), never less than 1.
func TotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 1
	}
	return (totalCount + pageSize - 1) / pageSize
}

// Bounds reports whether previous and next navigation is possible.
func Bounds(currentPage, totalPages int) (hasPrev, hasNext bool) {
	return currentPage > 1, currentPage < totalPages
}

// Window returns the selectors for currentPage out of totalPages: at most
// MaxVisible consecutive pages around the current one, plus jumps to the
// first and last page with ellipses where pages are skipped.
func Window(currentPage, totalPages int) []Selector {
	if totalPages < 1 {
		totalPages = 1
	}
	currentPage = clamp(currentPage, 1, totalPages)

	start := max(1, currentPage-MaxVisible/2)
	end := min(totalPages, start+MaxVisible-1)
	if end-start < MaxVisible-1 {
		start = max(1, end-MaxVisible+1)
	}

	out := make([]Selector, 0, MaxVisible+4)
	if start > 1 {
		out = append(out, Selector{Kind: KindFirst, Page: 1})
		if start > 2 {
			out = append(out, Selector{Kind: KindEllipsis})
		}
	}
	for p := start; p <= end; p++ {
		out = append(out, Selector{Kind: KindPage, Page: p, Current: p == currentPage})
	}
	if end < totalPages {
		if end < totalPages-1 {
			out = append(out, Selector{Kind: KindEllipsis})
		}
		out = append(out, Selector{Kind: KindLast, Page: totalPages})
	}
	return out
}

// Offers reports whether the window lets the user navigate to page.
func Offers(sel []Selector, page int) bool {
	for _, s := range sel {
		if s.Kind != KindEllipsis && s.Page == page {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
