package feed

import (
	"time"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/format"
	"jobfeed-engine/internal/paginate"
	"jobfeed-engine/internal/rank"
	"jobfeed-engine/internal/stats"
)

// JobView is a job record with its display fields resolved.
type JobView struct {
	domain.JobRecord
	Band            rank.Band `json:"band"`
	BandColor       string    `json:"band_color"`
	Percent         int       `json:"percent"`
	PostedDisplay   string    `json:"posted_display"`
	DescriptionText string    `json:"description_text"`
}

// View is a read-only copy of the session state, safe to hand to renderers.
type View struct {
	Query      domain.FeedQuery    `json:"query"`
	HasResult  bool                `json:"has_result"`
	Jobs       []JobView           `json:"jobs"`
	Pagination domain.Pagination   `json:"pagination"`
	Stats      stats.Summary       `json:"stats"`
	Pages      []paginate.Selector `json:"pages"`
	IsLoading  bool                `json:"is_loading"`
	Error      string              `json:"error,omitempty"`
	Degraded   bool                `json:"degraded"`
	Stale      bool                `json:"stale"`
	UpdatedAt  *time.Time          `json:"updated_at,omitempty"`
}

func (s *Session) View() View {
	s.mu.Lock()
	v := View{
		Query:     s.q.Query(),
		IsLoading: s.issued != s.applied,
		Error:     s.errMsg,
		Stale:     s.stale,
	}
	res := s.result
	updated := s.updatedAt
	s.mu.Unlock()

	v.Jobs = []JobView{}
	if res == nil {
		v.Pagination = domain.EmptyPagination(v.Query.PageSize)
		v.Pages = []paginate.Selector{}
		return v
	}

	now := s.now()
	v.HasResult = true
	v.Degraded = res.Degraded
	v.Pagination = res.Pagination
	v.Stats = stats.Aggregate(*res)
	v.Pages = paginate.Window(res.Pagination.CurrentPage, res.Pagination.TotalPages)
	v.UpdatedAt = &updated
	for _, j := range res.Jobs {
		v.Jobs = append(v.Jobs, newJobView(j, now))
	}
	return v
}

func newJobView(j domain.JobRecord, now time.Time) JobView {
	b := rank.Classify(j.Score)
	return JobView{
		JobRecord:       j,
		Band:            b,
		BandColor:       b.Color(),
		Percent:         format.Percent(j.Score),
		PostedDisplay:   format.Posted(j.Posted, now),
		DescriptionText: format.Description(j.Description),
	}
}
