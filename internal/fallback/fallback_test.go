package fallback

import (
	"strings"
	"testing"
	"time"

	"jobfeed-engine/internal/domain"
)

func TestDegraded(t *testing.T) {
	q := domain.FeedQuery{SortBy: domain.SortByTime, Page: 3, PageSize: 20}
	res := Degraded(q, 0.6, "dial tcp: connection refused", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	if !res.Degraded {
		t.Error("result not marked degraded")
	}
	if len(res.Jobs) != 1 {
		t.Fatalf("want exactly one job, got %d", len(res.Jobs))
	}
	j := res.Jobs[0]
	if !strings.Contains(strings.ToLower(j.Title), "unavailable") {
		t.Errorf("title %q does not say unavailable", j.Title)
	}
	if j.Score != 0.5 || j.AboveThreshold {
		t.Errorf("score=%v above=%v, want 0.5 false", j.Score, j.AboveThreshold)
	}
	if !strings.Contains(j.Description, "60%") || !strings.Contains(j.Description, "connection refused") {
		t.Errorf("description %q misses threshold or reason", j.Description)
	}
	p := res.Pagination
	if p.CurrentPage != 1 || p.TotalPages != 1 || p.TotalCount != 1 || p.HasNext || p.HasPrev {
		t.Errorf("pagination = %+v", p)
	}
}

func TestDegradedDefaultsThreshold(t *testing.T) {
	res := Degraded(domain.FeedQuery{}, 0, "", time.Now())
	if !strings.Contains(res.Jobs[0].Description, "60%") {
		t.Errorf("description %q should use default threshold", res.Jobs[0].Description)
	}
	if res.Pagination.PageSize != domain.DefaultPageSize {
		t.Errorf("page size = %d", res.Pagination.PageSize)
	}
}

func TestSourceStatsFallback(t *testing.T) {
	st := SourceStats(0.7)
	if st.TotalJobs != 0 || st.AvgScore != 0 || st.Threshold != 0.7 || st.Error == "" {
		t.Errorf("SourceStats = %+v", st)
	}
	if ScrapeStatus().Status != "backend_unavailable" {
		t.Errorf("ScrapeStatus = %+v", ScrapeStatus())
	}
}
