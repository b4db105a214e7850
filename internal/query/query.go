// Package query owns the feed view parameters and their transitions.
package query

import (
	"errors"
	"net/url"
	"strconv"

	"jobfeed-engine/internal/domain"
)

var (
	ErrPageOutOfRange = errors.New("page out of range")
	ErrInvalidSort    = errors.New("invalid sort")
)

// State is the current FeedQuery plus the page count of the last known
// result, which bounds page navigation. The zero value is not usable; use New.
type State struct {
	q          domain.FeedQuery
	totalPages int
}

func New(pageSize int) State {
	return State{q: domain.DefaultQuery(pageSize), totalPages: 1}
}

// Restore rebuilds a state from a persisted query, repairing invalid fields.
func Restore(q domain.FeedQuery, pageSize int) State {
	s := New(pageSize)
	s.q.ShowAboveThresholdOnly = q.ShowAboveThresholdOnly
	if _, err := domain.ParseSortBy(string(q.SortBy)); err == nil {
		s.q.SortBy = q.SortBy
	}
	if q.Page > 1 {
		s.q.Page = q.Page
		s.totalPages = q.Page
	}
	return s
}

func (s State) Query() domain.FeedQuery { return s.q }

func (s State) TotalPages() int { return s.totalPages }

// Key is the serialized query; a new key supersedes any fetch for an older one.
func (s State) Key() string { return Key(s.q) }

// SetFilter changes the threshold filter and always returns to page 1.
func (s *State) SetFilter(aboveOnly bool) {
	s.q.ShowAboveThresholdOnly = aboveOnly
	s.q.Page = 1
}

// SetSort changes the order and always returns to page 1.
func (s *State) SetSort(by domain.SortBy) error {
	if _, err := domain.ParseSortBy(string(by)); err != nil {
		return errors.Join(ErrInvalidSort, err)
	}
	s.q.SortBy = by
	s.q.Page = 1
	return nil
}

// SetPage moves to p, which must lie within the last known page count.
func (s *State) SetPage(p int) error {
	if p < 1 || p > s.totalPages {
		return ErrPageOutOfRange
	}
	s.q.Page = p
	return nil
}

// Observe records the page count of a freshly applied result.
func (s *State) Observe(totalPages int) {
	if totalPages < 1 {
		totalPages = 1
	}
	s.totalPages = totalPages
}

// Values encodes q using the job source's query parameter names.
func Values(q domain.FeedQuery) url.Values {
	v := url.Values{}
	v.Set("show_above_threshold_only", strconv.FormatBool(q.ShowAboveThresholdOnly))
	v.Set("sort_by", string(q.SortBy))
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("page_size", strconv.Itoa(q.PageSize))
	return v
}

func Key(q domain.FeedQuery) string { return Values(q).Encode() }
