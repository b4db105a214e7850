package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"jobfeed-engine/internal/config"
	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/events"
	"jobfeed-engine/internal/feed"
	"jobfeed-engine/internal/poll"
	"jobfeed-engine/internal/source"
)

// pagedFetcher serves a feed of total jobs, pageSize per page.
type pagedFetcher struct{ total int }

func (f pagedFetcher) FetchJobs(_ context.Context, q domain.FeedQuery) (domain.FeedResult, error) {
	pages := (f.total + q.PageSize - 1) / q.PageSize
	jobs := []domain.JobRecord{{ID: "j1", Title: "Go dev", Skills: []string{}, Score: 0.81, AboveThreshold: true}}
	return domain.FeedResult{
		Jobs: jobs,
		Pagination: domain.Pagination{
			CurrentPage: q.Page, PageSize: q.PageSize, TotalCount: f.total, TotalPages: pages,
			HasNext: q.Page < pages, HasPrev: q.Page > 1,
		},
		Stats: domain.FeedStats{TotalAllJobs: f.total, TotalAboveThreshold: 10, FilteredCount: f.total},
	}, nil
}

type fakeSource struct {
	profile domain.ProfilePreferences
	err     error
}

func (s *fakeSource) GetProfile(context.Context) (domain.ProfilePreferences, error) {
	return s.profile, s.err
}

func (s *fakeSource) SaveProfile(_ context.Context, p domain.ProfilePreferences) (domain.ProfilePreferences, error) {
	if s.err != nil {
		return domain.ProfilePreferences{}, s.err
	}
	s.profile = p
	return p, nil
}

func (s *fakeSource) Stats(context.Context) (domain.SourceStats, error) {
	if s.err != nil {
		return domain.SourceStats{}, s.err
	}
	return domain.SourceStats{TotalJobs: 97, AboveThreshold: 31, AvgScore: 0.58, Threshold: 0.6}, nil
}

func (s *fakeSource) ScrapeStatus(context.Context) (domain.ScrapeStatus, error) {
	if s.err != nil {
		return domain.ScrapeStatus{}, s.err
	}
	return domain.ScrapeStatus{Status: "completed", JobsFound: 12}, nil
}

type fakePoller struct{}

func (fakePoller) Status() poll.Status {
	return poll.Status{Running: true, Interval: "30s", Ticks: 4}
}

type fakeDB struct{ checkpoints int }

func (d *fakeDB) Checkpoint(context.Context) error {
	d.checkpoints++
	return nil
}

func (d *fakeDB) CountSnapshots(context.Context) (int, error) { return 2, nil }

type fakeToken struct{ token string }

func (t *fakeToken) Set(tok string) error {
	if strings.TrimSpace(tok) == "" {
		return errors.New("token is empty")
	}
	t.token = tok
	return nil
}

func (t *fakeToken) Clear() error {
	t.token = ""
	return nil
}

type env struct {
	h       http.Handler
	session *feed.Session
	src     *fakeSource
	db      *fakeDB
	token   *fakeToken
	hub     *events.Hub
	cfgPath string
	cfgVal  *atomic.Value
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s := feed.New(pagedFetcher{total: 97})
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.Wait()

	cfgPath := filepath.Join(t.TempDir(), "config.yml")
	if err := config.SaveAtomic(cfgPath, config.Default()); err != nil {
		t.Fatal(err)
	}
	var cfgVal atomic.Value
	cfgVal.Store(config.Default())

	e := &env{
		session: s,
		src:     &fakeSource{profile: domain.ProfilePreferences{Skills: []string{"go", "sql"}, RateMin: 50, RateMax: 90, ScoreThreshold: 0.6}},
		db:      &fakeDB{},
		token:   &fakeToken{},
		hub:     events.NewHub(),
		cfgPath: cfgPath,
		cfgVal:  &cfgVal,
	}
	mux := NewMux(Deps{
		Session:     s,
		Source:      e.src,
		Poller:      fakePoller{},
		DB:          e.db,
		Token:       e.token,
		Hub:         e.hub,
		CfgVal:      &cfgVal,
		UserCfgPath: cfgPath,
		LoadCfg:     func() (config.Config, error) { return config.Load(cfgPath) },
	})
	e.h = Handler(mux)
	return e
}

func (e *env) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var e APIError
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return e
}

func TestFeedView(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/feed", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	var v feed.View
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	if v.Pagination.TotalPages != 5 || v.Stats.TotalAllJobs != 97 || len(v.Jobs) != 1 {
		t.Errorf("view = %+v", v)
	}
	if v.Jobs[0].BandColor == "" || v.Jobs[0].Percent != 81 {
		t.Errorf("job display fields = %+v", v.Jobs[0])
	}
}

func TestFeedTransitions(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/feed/page", `{"page":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("page 3 status = %d: %s", rec.Code, rec.Body)
	}
	e.session.Wait()

	rec = e.do(t, http.MethodPost, "/feed/page", `{"page":6}`)
	if rec.Code != http.StatusBadRequest || decodeErr(t, rec).Error.Code != "page_out_of_range" {
		t.Errorf("page 6 = %d %s", rec.Code, rec.Body)
	}

	rec = e.do(t, http.MethodPost, "/feed/filter", `{"above_threshold_only":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("filter status = %d", rec.Code)
	}
	e.session.Wait()
	if q := e.session.View().Query; !q.ShowAboveThresholdOnly || q.Page != 1 {
		t.Errorf("after filter query = %+v, want page reset", q)
	}

	rec = e.do(t, http.MethodPost, "/feed/sort", `{"sort_by":"newest"}`)
	if rec.Code != http.StatusBadRequest || decodeErr(t, rec).Error.Code != "invalid_sort" {
		t.Errorf("bad sort = %d %s", rec.Code, rec.Body)
	}
	rec = e.do(t, http.MethodPost, "/feed/sort", `{"sort_by":"score"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("sort status = %d", rec.Code)
	}

	rec = e.do(t, http.MethodPost, "/feed/filter", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty filter body status = %d", rec.Code)
	}
	rec = e.do(t, http.MethodPost, "/feed/refresh", "")
	if rec.Code != http.StatusAccepted {
		t.Errorf("refresh status = %d", rec.Code)
	}
	e.session.Wait()

	rec = e.do(t, http.MethodGet, "/feed/page", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /feed/page status = %d", rec.Code)
	}
}

func TestProfileForwarding(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/profile", "")
	var p domain.ProfilePreferences
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil || len(p.Skills) != 2 {
		t.Fatalf("profile = %+v err=%v", p, err)
	}

	rec = e.do(t, http.MethodPost, "/profile", `{"skills":["rust"],"rate_min":60,"rate_max":120,"score_threshold":0.7}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body)
	}
	if e.src.profile.RateMax != 120 || e.src.profile.Skills[0] != "rust" {
		t.Errorf("forwarded profile = %+v", e.src.profile)
	}

	// A record read back from the store, github_data included, saves unchanged.
	rec = e.do(t, http.MethodPost, "/profile",
		`{"github_username":"octo","skills":["go"],"rate_min":1,"rate_max":2,"score_threshold":0.5,"scrape_frequency":"30min","github_data":{"public_repos":12}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("save with github_data status = %d: %s", rec.Code, rec.Body)
	}
	if got := string(e.src.profile.GithubData); got != `{"public_repos":12}` {
		t.Errorf("forwarded github_data = %s", got)
	}
	if !strings.Contains(rec.Body.String(), `"github_data":{"public_repos":12}`) {
		t.Errorf("echoed profile = %s", rec.Body)
	}

	e.src.err = &source.TransportError{Op: source.OpSaveProfile, Status: 500, Message: "backend request failed: 500 Internal Server Error"}
	rec = e.do(t, http.MethodPost, "/profile", `{"skills":[]}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("failed save status = %d", rec.Code)
	}
	ae := decodeErr(t, rec)
	if ae.Error.Code != "profile_save_failed" ||
		ae.Error.Message != "Failed to update profile: backend request failed: 500 Internal Server Error" {
		t.Errorf("error = %+v", ae.Error)
	}

	rec = e.do(t, http.MethodGet, "/profile", "")
	if rec.Code != http.StatusBadGateway || decodeErr(t, rec).Error.Code != "profile_load_failed" {
		t.Errorf("failed load = %d", rec.Code)
	}
}

func TestSourceViewsFallBack(t *testing.T) {
	e := newEnv(t)

	var st domain.SourceStats
	_ = json.NewDecoder(e.do(t, http.MethodGet, "/source/stats", "").Body).Decode(&st)
	if st.TotalJobs != 97 {
		t.Errorf("stats = %+v", st)
	}

	e.src.err = errors.New("connection refused")
	_ = json.NewDecoder(e.do(t, http.MethodGet, "/source/stats", "").Body).Decode(&st)
	if st.TotalJobs != 0 || st.Error == "" || st.Threshold != 0.6 {
		t.Errorf("fallback stats = %+v", st)
	}

	var ss domain.ScrapeStatus
	_ = json.NewDecoder(e.do(t, http.MethodGet, "/source/scrape-status", "").Body).Decode(&ss)
	if ss.Status != "backend_unavailable" {
		t.Errorf("fallback scrape status = %+v", ss)
	}
}

func TestHealthAndPollStatus(t *testing.T) {
	e := newEnv(t)
	sub := e.hub.Subscribe()
	defer e.hub.Unsubscribe(sub)

	var out struct {
		OK     bool        `json:"ok"`
		Poll   poll.Status `json:"poll"`
		Events struct {
			Subscribers int `json:"subscribers"`
			Dropped     int `json:"dropped"`
		} `json:"events"`
		Snapshots int `json:"snapshots"`
	}
	if err := json.NewDecoder(e.do(t, http.MethodGet, "/health", "").Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.OK || out.Poll.Ticks != 4 {
		t.Errorf("health = %+v", out)
	}
	if out.Events.Subscribers != 1 || out.Snapshots != 2 {
		t.Errorf("health events/snapshots = %+v / %d", out.Events, out.Snapshots)
	}
	if rec := e.do(t, http.MethodGet, "/poll/status", ""); rec.Code != http.StatusOK {
		t.Errorf("poll status = %d", rec.Code)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	e := newEnv(t)

	cfg := config.Default()
	cfg.Feed.PageSize = 10
	body, _ := json.Marshal(cfg)
	rec := e.do(t, http.MethodPut, "/config", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /config = %d: %s", rec.Code, rec.Body)
	}
	if got := e.cfgVal.Load().(config.Config); got.Feed.PageSize != 10 {
		t.Errorf("stored config page size = %d", got.Feed.PageSize)
	}
	if _, err := os.Stat(e.cfgPath + ".bak"); err != nil {
		t.Errorf("no backup written: %v", err)
	}

	cfg.Feed.ScoreThreshold = 2
	body, _ = json.Marshal(cfg)
	rec = e.do(t, http.MethodPut, "/config", string(body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid config status = %d", rec.Code)
	}
	var vr config.Validation
	_ = json.NewDecoder(rec.Body).Decode(&vr)
	if vr.OK() {
		t.Error("validation errors missing")
	}

	rec = e.do(t, http.MethodPut, "/config", `{"nope":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field status = %d", rec.Code)
	}
	if rec := e.do(t, http.MethodGet, "/config/validate", ""); rec.Code != http.StatusOK {
		t.Errorf("validate status = %d", rec.Code)
	}
	if rec := e.do(t, http.MethodGet, "/config/path", ""); !strings.Contains(rec.Body.String(), "config.yml") {
		t.Errorf("path body = %s", rec.Body)
	}
}

func TestSecretsAndCheckpoint(t *testing.T) {
	e := newEnv(t)

	if rec := e.do(t, http.MethodPost, "/api/secrets/source-token", `{"token":"abc"}`); rec.Code != http.StatusNoContent {
		t.Fatalf("set token = %d", rec.Code)
	}
	if e.token.token != "abc" {
		t.Errorf("token = %q", e.token.token)
	}
	if rec := e.do(t, http.MethodPost, "/api/secrets/source-token", `{"token":""}`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty token = %d", rec.Code)
	}
	if rec := e.do(t, http.MethodDelete, "/api/secrets/source-token", ""); rec.Code != http.StatusNoContent || e.token.token != "" {
		t.Errorf("clear token = %d, token %q", rec.Code, e.token.token)
	}

	// httptest requests come from 192.0.2.1
	if rec := e.do(t, http.MethodPost, "/db/checkpoint", ""); rec.Code != http.StatusForbidden {
		t.Errorf("remote checkpoint = %d", rec.Code)
	}
	req := httptest.NewRequest(http.MethodPost, "/db/checkpoint", nil)
	req.RemoteAddr = "127.0.0.1:50123"
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || e.db.checkpoints != 1 {
		t.Errorf("local checkpoint = %d, checkpoints %d", rec.Code, e.db.checkpoints)
	}
}

func TestRecoverAndCors(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID, Recover, AccessLog(nil), Cors)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if ae := decodeErr(t, rec); ae.Error.RequestID != "req-1" || ae.Error.Code != "internal_error" {
		t.Errorf("error = %+v", ae.Error)
	}

	req = httptest.NewRequest(http.MethodOptions, "/feed", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("preflight = %d %v", rec.Code, rec.Header())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodGet, "/feed", "")
	rec := e.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "jobfeed_http_requests_total") {
		t.Errorf("metrics missing http counter")
	}
}

func TestSSEStream(t *testing.T) {
	e := newEnv(t)
	srv := httptest.NewServer(e.h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	lines := bufio.NewScanner(resp.Body)
	readData := func() events.Event {
		t.Helper()
		for lines.Scan() {
			if data, ok := strings.CutPrefix(lines.Text(), "data: "); ok {
				ev, err := events.Parse(data)
				if err != nil {
					t.Fatalf("bad event %q: %v", data, err)
				}
				return ev
			}
		}
		t.Fatalf("stream ended: %v", lines.Err())
		return events.Event{}
	}

	if ev := readData(); ev.Type != events.TypePing {
		t.Fatalf("first event = %+v, want ping", ev)
	}
	e.hub.Publish(events.MakeEvent("", events.TypeFeedUpdated, 1, nil))
	if ev := readData(); ev.Type != events.TypeFeedUpdated {
		t.Errorf("second event = %+v", ev)
	}
}
