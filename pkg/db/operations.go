package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dtnitsch/llm-page-assistant/models"
)

// ErrNotWebURL is returned by InsertURL for URLs without a scheme and host,
// such as file:// or about:blank pages.
var ErrNotWebURL = errors.New("not an absolute web URL")

// InsertURL parses and inserts a URL, returning the url_id.
// If the URL already exists, returns the existing url_id.
func (db *DB) InsertURL(ctx context.Context, rawURL string) (int64, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse URL %q: %w: %v", rawURL, ErrNotWebURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return 0, fmt.Errorf("failed to parse URL %q: %w", rawURL, ErrNotWebURL)
	}

	var existingID int64
	err = db.QueryRowContext(ctx, "SELECT url_id FROM urls WHERE original_url = ?", rawURL).Scan(&existingID)
	if err == nil {
		return existingID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check existing URL: %w", err)
	}

	// scheme + host + path, no query/fragment
	canonicalURL := fmt.Sprintf("%s://%s%s", parsed.Scheme, parsed.Host, parsed.Path)

	result, err := db.ExecContext(ctx, `
		INSERT INTO urls (original_url, canonical_url, scheme, domain, path, fragment)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rawURL, canonicalURL, parsed.Scheme, parsed.Host, parsed.Path, parsed.Fragment)
	if err != nil {
		return 0, fmt.Errorf("failed to insert URL: %w", err)
	}

	urlID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get URL ID: %w", err)
	}
	return urlID, nil
}

// GetURLByID returns the original URL for a url_id.
func (db *DB) GetURLByID(ctx context.Context, urlID int64) (string, error) {
	var u string
	err := db.QueryRowContext(ctx, "SELECT original_url FROM urls WHERE url_id = ?", urlID).Scan(&u)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("URL ID %d not found", urlID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get URL: %w", err)
	}
	return u, nil
}

// RecordRun stores one dispatch outcome. A run with a web page URL is linked
// to its urls row; other pages are recorded without a url_id.
func (db *DB) RecordRun(ctx context.Context, run models.RunRecord) error {
	var urlID sql.NullInt64
	if run.URL != "" {
		id, err := db.InsertURL(ctx, run.URL)
		switch {
		case err == nil:
			urlID = sql.NullInt64{Int64: id, Valid: true}
		case !errors.Is(err, ErrNotWebURL):
			return err
		}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO task_runs (kind, url_id, success, error_type, error_message, duration_ms, snapshot_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, string(run.Kind), urlID, run.Success, run.ErrorType, run.ErrorMessage, run.DurationMS, run.SnapshotHash)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RunFilter narrows ListRuns. Zero values match everything.
type RunFilter struct {
	Kind       models.TaskKind
	URLID      int64
	FailedOnly bool
	Limit      int
}

// ListRuns returns runs newest first.
func (db *DB) ListRuns(ctx context.Context, filter RunFilter) ([]models.RunRecord, error) {
	query := `
		SELECT r.run_id, r.kind, COALESCE(r.url_id, 0), COALESCE(u.original_url, ''), r.success,
		       COALESCE(r.error_type, ''), COALESCE(r.error_message, ''),
		       r.duration_ms, COALESCE(r.snapshot_hash, ''), r.created_at
		FROM task_runs r
		LEFT JOIN urls u ON u.url_id = r.url_id
		WHERE 1 = 1`
	var args []interface{}
	if filter.Kind != "" {
		query += " AND r.kind = ?"
		args = append(args, string(filter.Kind))
	}
	if filter.URLID > 0 {
		query += " AND r.url_id = ?"
		args = append(args, filter.URLID)
	}
	if filter.FailedOnly {
		query += " AND r.success = 0"
	}
	query += " ORDER BY r.run_id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.RunRecord
	for rows.Next() {
		var (
			r    models.RunRecord
			kind string
		)
		if err := rows.Scan(&r.RunID, &kind, &r.URLID, &r.URL, &r.Success, &r.ErrorType, &r.ErrorMessage,
			&r.DurationMS, &r.SnapshotHash, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Kind = models.TaskKind(kind)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

// PruneRuns deletes runs older than the cutoff and returns how many went.
func (db *DB) PruneRuns(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format("2006-01-02 15:04:05")
	res, err := db.ExecContext(ctx, "DELETE FROM task_runs WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned runs: %w", err)
	}
	return n, nil
}
