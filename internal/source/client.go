// Package source talks to the remote job source and its preference store.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/metrics"
	"jobfeed-engine/internal/paginate"
	"jobfeed-engine/internal/query"
)

const (
	OpFetchJobs    = "fetch jobs"
	OpLoadProfile  = "load profile"
	OpSaveProfile  = "save profile"
	OpLoadStats    = "load stats"
	OpScrapeStatus = "load scrape status"

	maxBody   = 8 << 20
	userAgent = "JobFeed/1.0 (+local)"
)

type Config struct {
	BaseURL    string // e.g. http://localhost:8000/api
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
	// Token returns the bearer token to send, or "" for none.
	Token func() string
	// OnUnauthorized runs after a 401 so the next call can pick up a new token.
	OnUnauthorized func()
}

// Client never caches; every call is a network round trip.
type Client struct {
	base    *url.URL
	hc      *http.Client
	limiter *HostLimiter
	token   func() string
	onAuth  func()
}

func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("source base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("source base url: scheme must be http or https, got %q", base.Scheme)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		base:    base,
		hc:      &http.Client{Timeout: timeout},
		limiter: NewHostLimiter(cfg.RatePerSec, cfg.Burst),
		token:   cfg.Token,
		onAuth:  cfg.OnUnauthorized,
	}, nil
}

type wireJob struct {
	domain.JobRecord
	Score *float64 `json:"score"`
}

type wireFeed struct {
	Jobs       []wireJob          `json:"jobs"`
	Pagination *domain.Pagination `json:"pagination"`
	Stats      *domain.FeedStats  `json:"stats"`
}

// FetchJobs requests one page of the feed for q.
func (c *Client) FetchJobs(ctx context.Context, q domain.FeedQuery) (domain.FeedResult, error) {
	var wf wireFeed
	if err := c.do(ctx, OpFetchJobs, http.MethodGet, "/jobs", query.Values(q), nil, &wf); err != nil {
		return domain.FeedResult{}, err
	}

	if wf.Jobs == nil {
		return domain.FeedResult{}, malformed(OpFetchJobs, "no jobs array")
	}

	res := domain.FeedResult{
		Jobs:       make([]domain.JobRecord, 0, len(wf.Jobs)),
		Pagination: domain.EmptyPagination(q.PageSize),
	}
	if wf.Pagination != nil {
		res.Pagination = *wf.Pagination
	}
	res.Pagination = normalizePagination(res.Pagination, q)
	if wf.Stats != nil {
		res.Stats = *wf.Stats
	}

	seen := make(map[string]bool, len(wf.Jobs))
	for i, w := range wf.Jobs {
		if w.Score == nil {
			return domain.FeedResult{}, malformed(OpFetchJobs, "job %d (%q) has no score", i, w.ID)
		}
		s := *w.Score
		if math.IsNaN(s) || s < 0 || s > 1 {
			return domain.FeedResult{}, malformed(OpFetchJobs, "job %q score %v outside [0,1]", w.ID, s)
		}
		if seen[w.ID] {
			return domain.FeedResult{}, malformed(OpFetchJobs, "duplicate job id %q", w.ID)
		}
		seen[w.ID] = true

		j := w.JobRecord
		j.Score = s
		if j.Skills == nil {
			j.Skills = []string{}
		}
		res.Jobs = append(res.Jobs, j)
	}
	return res, nil
}

// normalizePagination fills fields the source left out and recomputes the
// navigation flags from the page count.
func normalizePagination(p domain.Pagination, q domain.FeedQuery) domain.Pagination {
	if p.PageSize < 1 {
		p.PageSize = q.PageSize
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = max(q.Page, 1)
	}
	if p.TotalPages < 1 {
		p.TotalPages = paginate.TotalPages(p.TotalCount, p.PageSize)
	}
	p.HasPrev, p.HasNext = paginate.Bounds(p.CurrentPage, p.TotalPages)
	return p
}

func (c *Client) GetProfile(ctx context.Context) (domain.ProfilePreferences, error) {
	var p domain.ProfilePreferences
	err := c.do(ctx, OpLoadProfile, http.MethodGet, "/profile", nil, nil, &p)
	return p, err
}

// SaveProfile forwards p to the preference store and returns the stored
// record. Stores that reply with a bare acknowledgement get p back.
func (c *Client) SaveProfile(ctx context.Context, p domain.ProfilePreferences) (domain.ProfilePreferences, error) {
	var raw map[string]json.RawMessage
	if err := c.do(ctx, OpSaveProfile, http.MethodPost, "/profile", nil, p, &raw); err != nil {
		return domain.ProfilePreferences{}, err
	}
	if _, ok := raw["skills"]; !ok {
		return p, nil
	}
	b, _ := json.Marshal(raw)
	var stored domain.ProfilePreferences
	if err := json.Unmarshal(b, &stored); err != nil {
		return domain.ProfilePreferences{}, malformed(OpSaveProfile, "%v", err)
	}
	return stored, nil
}

func (c *Client) Stats(ctx context.Context) (domain.SourceStats, error) {
	var st domain.SourceStats
	err := c.do(ctx, OpLoadStats, http.MethodGet, "/stats", nil, nil, &st)
	return st, err
}

func (c *Client) ScrapeStatus(ctx context.Context) (domain.ScrapeStatus, error) {
	var st domain.ScrapeStatus
	err := c.do(ctx, OpScrapeStatus, http.MethodGet, "/scrape/status", nil, nil, &st)
	return st, err
}

func (c *Client) do(ctx context.Context, op, method, path string, params url.Values, body, out any) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "transport_error"
		}
		metrics.SourceRequestsTotal.WithLabelValues(op, outcome).Inc()
		metrics.SourceRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	u := *c.base
	u.Path = c.base.Path + path
	if params != nil {
		u.RawQuery = params.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Message: "encode request: " + err.Error(), Err: err}
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return networkErr(op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	if err := c.limiter.WaitURL(ctx, &u); err != nil {
		return networkErr(op, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return networkErr(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && c.onAuth != nil {
		c.onAuth()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		msg := "backend request failed: " + resp.Status
		if s := strings.TrimSpace(string(snippet)); s != "" {
			msg += ": " + s
		}
		return &TransportError{Op: op, Status: resp.StatusCode, Message: msg}
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBody))
	if err := dec.Decode(out); err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Message: "malformed response: " + err.Error(), Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return &TransportError{Op: op, Status: resp.StatusCode, Message: "malformed response: trailing data after JSON body"}
	}
	return nil
}
