package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *Cache {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleVisits() []Visit {
	now := time.Now()
	return []Visit{
		{Kind: KindArticle, ItemID: "7001", Title: "Post A", URL: "https://juejin.cn/post/7001", VisitedAt: now.Add(-1 * time.Hour)},
		{Kind: KindRepo, ItemID: "denoland/deno", Title: "denoland/deno", URL: "https://github.com/denoland/deno", VisitedAt: now.Add(-2 * time.Hour)},
		{Kind: KindArticle, ItemID: "7003", Title: "Post C", URL: "https://juejin.cn/post/7003", VisitedAt: now.Add(-48 * time.Hour)},
	}
}

func seed(t *testing.T, db *Cache) {
	t.Helper()
	for _, v := range sampleVisits() {
		if err := db.RecordVisit(v); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
}

func TestRecordAndGet(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	got, err := db.GetVisits(QueryOpts{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 visits, got %d", len(got))
	}
	if got[0].ItemID != "7001" {
		t.Errorf("expected newest first, got %s", got[0].ItemID)
	}
	if got[1].Kind != KindRepo {
		t.Errorf("expected repo kind, got %s", got[1].Kind)
	}
}

func TestRecordVisitUpdatesExisting(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	v := sampleVisits()[2]
	v.Title = "Post C (edited)"
	v.VisitedAt = time.Now()
	if err := db.RecordVisit(v); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := db.GetVisits(QueryOpts{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 visits after re-visit, got %d", len(got))
	}
	if got[0].ItemID != "7003" || got[0].Title != "Post C (edited)" {
		t.Errorf("expected re-visited item first with new title, got %+v", got[0])
	}
}

func TestRecordVisitDefaultsTimestamp(t *testing.T) {
	db := testDB(t)
	if err := db.RecordVisit(Visit{Kind: KindArticle, ItemID: "1", URL: "https://juejin.cn/post/1"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, _ := db.GetVisits(QueryOpts{})
	if len(got) != 1 || time.Since(got[0].VisitedAt) > time.Minute {
		t.Errorf("expected a fresh timestamp, got %+v", got)
	}
}

func TestVisited(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	got, err := db.Visited(KindArticle, []string{"7001", "7002", "denoland/deno"})
	if err != nil {
		t.Fatalf("visited: %v", err)
	}
	if !got["7001"] {
		t.Error("expected 7001 visited")
	}
	if got["7002"] {
		t.Error("7002 was never visited")
	}
	if got["denoland/deno"] {
		t.Error("repo visits must not leak into the article kind")
	}

	empty, err := db.Visited(KindRepo, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("expected empty result for no ids, got %v, %v", empty, err)
	}
}

func TestQueryKindAndSince(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	got, err := db.GetVisits(QueryOpts{Kind: KindArticle})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 article visits, got %d", len(got))
	}

	got, err = db.GetVisits(QueryOpts{Since: time.Now().Add(-3 * time.Hour)})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 visits within 3h, got %d", len(got))
	}
}

func TestQueryLimit(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	got, err := db.GetVisits(QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 visit with limit, got %d", len(got))
	}
}

func TestEmptyDB(t *testing.T) {
	db := testDB(t)

	got, err := db.GetVisits(QueryOpts{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 visits in empty db, got %d", len(got))
	}
}

func TestPruneDeletesOldVisits(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	// Post C is 48h old. Prune anything older than 24h.
	deleted, err := db.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 pruned, got %d", deleted)
	}

	got, err := db.GetVisits(QueryOpts{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 remaining visits, got %d", len(got))
	}
}

func TestPruneNothingToDelete(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	deleted, err := db.Prune(365 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 pruned, got %d", deleted)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	seed(t, db)

	count, size, err := db.Stats(dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
	if size == 0 {
		t.Error("expected non-zero file size")
	}
}

func TestStreakFirstLaunch(t *testing.T) {
	db := testDB(t)
	streak, err := db.UpdateStreak()
	if err != nil {
		t.Fatalf("UpdateStreak: %v", err)
	}
	if streak != 1 {
		t.Errorf("expected streak 1 on first launch, got %d", streak)
	}
}

func TestStreakSameDay(t *testing.T) {
	db := testDB(t)
	db.UpdateStreak()
	streak, _ := db.UpdateStreak()
	if streak != 1 {
		t.Errorf("expected streak 1 on same day, got %d", streak)
	}
}

func TestStreakNextDay(t *testing.T) {
	db := testDB(t)
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	db.setMeta("last_active_date", yesterday)
	db.setMeta("streak_days", "5")

	streak, _ := db.UpdateStreak()
	if streak != 6 {
		t.Errorf("expected streak 6, got %d", streak)
	}
}

func TestStreakReset(t *testing.T) {
	db := testDB(t)
	old := time.Now().AddDate(0, 0, -3).Format("2006-01-02")
	db.setMeta("last_active_date", old)
	db.setMeta("streak_days", "10")

	streak, _ := db.UpdateStreak()
	if streak != 1 {
		t.Errorf("expected streak reset to 1, got %d", streak)
	}
}

func TestOpenCreatesDir(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "deep", "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("opening db in nested dir: %v", err)
	}
	db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("expected directory to be created")
	}
}
