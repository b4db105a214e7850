// Package stats derives the dashboard counters for a feed result.
package stats

import "jobfeed-engine/internal/domain"

type Summary struct {
	TotalAllJobs        int     `json:"total_all_jobs"`
	TotalAboveThreshold int     `json:"total_above_threshold"`
	FilteredCount       int     `json:"filtered_count"`
	AvgScore            float64 `json:"avg_score"`
}

// Aggregate takes the counts from the server's stats block as-is and
// averages the score over the jobs on the current page only. The page is a
// slice of the result set, so the average is page-local while the counts
// are server-wide.
func Aggregate(res domain.FeedResult) Summary {
	return Summary{
		TotalAllJobs:        res.Stats.TotalAllJobs,
		TotalAboveThreshold: res.Stats.TotalAboveThreshold,
		FilteredCount:       res.Stats.FilteredCount,
		AvgScore:            AvgScore(res.Jobs),
	}
}

// AvgScore is 0 for an empty page.
func AvgScore(jobs []domain.JobRecord) float64 {
	if len(jobs) == 0 {
		return 0
	}
	var sum float64
	for _, j := range jobs {
		sum += j.Score
	}
	return sum / float64(len(jobs))
}
