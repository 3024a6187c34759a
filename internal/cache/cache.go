package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type Cache struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	c := &Cache{readDB: readDB, writeDB: writeDB}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS visits (
			kind       TEXT NOT NULL,
			item_id    TEXT NOT NULL,
			title      TEXT NOT NULL DEFAULT '',
			url        TEXT NOT NULL,
			visited_at DATETIME NOT NULL,
			PRIMARY KEY (kind, item_id)
		);
		CREATE INDEX IF NOT EXISTS idx_visits_visited_at ON visits(visited_at DESC);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// RecordVisit stores v, refreshing the timestamp of an earlier visit.
func (c *Cache) RecordVisit(v Visit) error {
	if v.VisitedAt.IsZero() {
		v.VisitedAt = time.Now()
	}
	_, err := c.writeDB.Exec(`
		INSERT INTO visits (kind, item_id, title, url, visited_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(kind, item_id) DO UPDATE SET
			title = excluded.title,
			url = excluded.url,
			visited_at = excluded.visited_at
	`, string(v.Kind), v.ItemID, v.Title, v.URL, v.VisitedAt)
	if err != nil {
		return fmt.Errorf("recording visit %s/%s: %w", v.Kind, v.ItemID, err)
	}
	return nil
}

// Visited returns the subset of ids of the given kind that were visited.
func (c *Cache) Visited(kind Kind, ids []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, string(kind))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	query := "SELECT item_id FROM visits WHERE kind = ? AND item_id IN (" + strings.Join(placeholders, ",") + ")" //nolint:gosec

	rows, err := c.readDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying visits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}

// GetVisits lists visits, newest first.
func (c *Cache) GetVisits(opts QueryOpts) ([]Visit, error) {
	var (
		where []string
		args  []interface{}
	)

	if opts.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(opts.Kind))
	}
	if !opts.Since.IsZero() {
		where = append(where, "visited_at >= ?")
		args = append(args, opts.Since)
	}

	query := "SELECT kind, item_id, title, url, visited_at FROM visits"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY visited_at DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 500
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := c.readDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var (
			v    Visit
			kind string
		)
		if err := rows.Scan(&kind, &v.ItemID, &v.Title, &v.URL, &v.VisitedAt); err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		v.Kind = Kind(kind)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// Prune deletes visits older than retention and reclaims space.
func (c *Cache) Prune(retention time.Duration) (int64, error) {
	res, err := c.writeDB.Exec("DELETE FROM visits WHERE visited_at < ?", time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("pruning visits: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if _, err := c.writeDB.Exec("VACUUM"); err != nil {
			return n, fmt.Errorf("vacuum: %w", err)
		}
	}
	return n, nil
}

// Stats returns the number of visits and the database file size.
func (c *Cache) Stats(dbPath string) (int, int64, error) {
	var count int
	if err := c.readDB.QueryRow("SELECT COUNT(*) FROM visits").Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting visits: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("stat cache: %w", err)
	}
	return count, info.Size(), nil
}

// UpdateStreak records today's launch and returns the number of consecutive
// days jjfeed has been opened.
func (c *Cache) UpdateStreak() (int, error) {
	today := time.Now().Format("2006-01-02")
	last, _ := c.getMeta("last_active_date")
	streak, _ := strconv.Atoi(c.metaOr("streak_days", "0"))

	switch last {
	case today:
		if streak < 1 {
			streak = 1
		}
		return streak, nil
	case time.Now().AddDate(0, 0, -1).Format("2006-01-02"):
		streak++
	default:
		streak = 1
	}

	if err := c.setMeta("last_active_date", today); err != nil {
		return 0, err
	}
	if err := c.setMeta("streak_days", strconv.Itoa(streak)); err != nil {
		return 0, err
	}
	return streak, nil
}

func (c *Cache) getMeta(key string) (string, error) {
	var value string
	err := c.readDB.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	return value, err
}

func (c *Cache) metaOr(key, fallback string) string {
	v, err := c.getMeta(key)
	if err != nil {
		return fallback
	}
	return v
}

func (c *Cache) setMeta(key, value string) error {
	_, err := c.writeDB.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
