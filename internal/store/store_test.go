package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"jobfeed-engine/internal/domain"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "jobfeed.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sample() domain.FeedResult {
	return domain.FeedResult{
		Jobs: []domain.JobRecord{
			{ID: "1", Title: "Go backend", Skills: []string{"go"}, Score: 0.82, AboveThreshold: true},
			{ID: "2", Title: "Data pipeline", Skills: []string{}, Score: 0.41},
		},
		Pagination: domain.Pagination{CurrentPage: 1, PageSize: 20, TotalCount: 2, TotalPages: 1},
		Stats:      domain.FeedStats{TotalAllJobs: 40, TotalAboveThreshold: 12, FilteredCount: 2},
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db := openTemp(t)
	if err := Migrate(db.Pool); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var v int
	if err := db.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		t.Fatal(err)
	}
	if v != schemaVersion {
		t.Errorf("user_version = %d, want %d", v, schemaVersion)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	if _, _, ok, err := db.LoadSnapshot(ctx, "page=1"); err != nil || ok {
		t.Fatalf("empty LoadSnapshot ok=%v err=%v", ok, err)
	}
	if err := db.SaveSnapshot(ctx, "page=1", sample(), at); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	got, gotAt, ok, err := db.LoadSnapshot(ctx, "page=1")
	if err != nil || !ok {
		t.Fatalf("LoadSnapshot ok=%v err=%v", ok, err)
	}
	if !gotAt.Equal(at) {
		t.Errorf("fetched_at = %v, want %v", gotAt, at)
	}
	if len(got.Jobs) != 2 || got.Jobs[0].Title != "Go backend" || got.Stats.TotalAllJobs != 40 {
		t.Errorf("snapshot = %+v", got)
	}

	// Upsert replaces the body for the same key.
	next := sample()
	next.Jobs = next.Jobs[:1]
	if err := db.SaveSnapshot(ctx, "page=1", next, at.Add(time.Minute)); err != nil {
		t.Fatalf("SaveSnapshot again: %v", err)
	}
	got, _, _, _ = db.LoadSnapshot(ctx, "page=1")
	if len(got.Jobs) != 1 {
		t.Errorf("jobs after upsert = %d, want 1", len(got.Jobs))
	}
}

func TestDegradedNotPersisted(t *testing.T) {
	db := openTemp(t)
	res := sample()
	res.Degraded = true
	err := db.SaveSnapshot(context.Background(), "k", res, time.Now())
	if !errors.Is(err, ErrDegraded) {
		t.Fatalf("err = %v, want ErrDegraded", err)
	}
	if n, _ := db.CountSnapshots(context.Background()); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestPruneSnapshots(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)

	_ = db.SaveSnapshot(ctx, "old", sample(), now.Add(-96*time.Hour))
	_ = db.SaveSnapshot(ctx, "fresh", sample(), now.Add(-time.Hour))

	n, err := db.PruneSnapshots(ctx, now.Add(-72*time.Hour))
	if err != nil {
		t.Fatalf("PruneSnapshots: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	if _, _, ok, _ := db.LoadSnapshot(ctx, "fresh"); !ok {
		t.Error("fresh snapshot pruned")
	}
}

func TestQueryRoundTrip(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	if _, ok, err := db.LoadQuery(ctx); err != nil || ok {
		t.Fatalf("empty LoadQuery ok=%v err=%v", ok, err)
	}
	want := domain.FeedQuery{ShowAboveThresholdOnly: true, SortBy: domain.SortByScore, Page: 3, PageSize: 20}
	if err := db.SaveQuery(ctx, want); err != nil {
		t.Fatalf("SaveQuery: %v", err)
	}
	want.Page = 4
	if err := db.SaveQuery(ctx, want); err != nil {
		t.Fatalf("SaveQuery again: %v", err)
	}
	got, ok, err := db.LoadQuery(ctx)
	if err != nil || !ok || got != want {
		t.Errorf("LoadQuery = %+v ok=%v err=%v, want %+v", got, ok, err, want)
	}
}

func TestCheckpoint(t *testing.T) {
	db := openTemp(t)
	if err := db.Checkpoint(context.Background()); err != nil {
		t.Errorf("Checkpoint: %v", err)
	}
}
