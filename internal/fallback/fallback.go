// Package fallback builds the placeholder feed shown while the job source is unreachable.
package fallback

import (
	"fmt"
	"time"

	"jobfeed-engine/internal/domain"
)

const (
	PlaceholderID    = "source-unavailable"
	PlaceholderTitle = "Job source unavailable"
	PlaceholderScore = 0.5
)

// Degraded returns a one-page, one-job result marked Degraded. It never fails.
func Degraded(q domain.FeedQuery, threshold float64, reason string, now time.Time) domain.FeedResult {
	if threshold <= 0 || threshold > 1 {
		threshold = domain.DefaultScoreThreshold
	}
	desc := fmt.Sprintf(
		"The job source could not be reached, so no live jobs can be shown. "+
			"The feed retries automatically; matches at or above %.0f%% will reappear once the source is back.",
		threshold*100)
	if reason != "" {
		desc += " Last error: " + reason
	}

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}

	return domain.FeedResult{
		Jobs: []domain.JobRecord{{
			ID:             PlaceholderID,
			Title:          PlaceholderTitle,
			Description:    desc,
			Posted:         now.UTC().Format(time.RFC3339),
			Skills:         []string{},
			Score:          PlaceholderScore,
			AboveThreshold: false,
		}},
		Pagination: domain.Pagination{
			CurrentPage: 1,
			PageSize:    pageSize,
			TotalCount:  1,
			TotalPages:  1,
		},
		Stats: domain.FeedStats{
			TotalAllJobs:  1,
			FilteredCount: 1,
		},
		Degraded: true,
	}
}

const backendDown = "Backend connection failed"

// SourceStats is the zeroed summary reported while the source is down.
func SourceStats(threshold float64) domain.SourceStats {
	if threshold <= 0 || threshold > 1 {
		threshold = domain.DefaultScoreThreshold
	}
	return domain.SourceStats{Threshold: threshold, Error: backendDown}
}

func ScrapeStatus() domain.ScrapeStatus {
	return domain.ScrapeStatus{Status: "backend_unavailable", Error: backendDown}
}
