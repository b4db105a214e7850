package domain

import "fmt"

type SortBy string

const (
	SortByTime  SortBy = "time"
	SortByScore SortBy = "score"
)

const (
	DefaultPageSize       = 20
	DefaultScoreThreshold = 0.6
)

func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(s) {
	case SortByTime, SortByScore:
		return SortBy(s), nil
	}
	return "", fmt.Errorf("unknown sort %q (valid: time, score)", s)
}

// FeedQuery holds the view parameters sent with every feed request.
type FeedQuery struct {
	ShowAboveThresholdOnly bool   `json:"show_above_threshold_only"`
	SortBy                 SortBy `json:"sort_by"`
	Page                   int    `json:"page"`
	PageSize               int    `json:"page_size"`
}

// DefaultQuery is the query a new session starts with.
func DefaultQuery(pageSize int) FeedQuery {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return FeedQuery{SortBy: SortByTime, Page: 1, PageSize: pageSize}
}

type Pagination struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalCount  int  `json:"total_count"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrev     bool `json:"has_prev"`
}

// FeedStats are server-wide counts, not derived from the current page.
type FeedStats struct {
	TotalAllJobs        int `json:"total_all_jobs"`
	TotalAboveThreshold int `json:"total_above_threshold"`
	FilteredCount       int `json:"filtered_count"`
}

// FeedResult is the outcome of one fetch. It is replaced wholesale, never patched.
type FeedResult struct {
	Jobs       []JobRecord `json:"jobs"`
	Pagination Pagination  `json:"pagination"`
	Stats      FeedStats   `json:"stats"`
	Degraded   bool        `json:"degraded,omitempty"`
}

// EmptyPagination mirrors what the dashboard shows before any data arrived.
func EmptyPagination(pageSize int) Pagination {
	return Pagination{CurrentPage: 1, PageSize: pageSize, TotalPages: 1}
}
