package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Fingerprint records the content fingerprint computed for a video.
type Fingerprint struct {
	Path       string
	Size       int64
	CID        string
	ComputedAt time.Time
}

// Download records one subtitle file written next to a video.
type Download struct {
	ID         int64
	CID        string
	VideoPath  string
	Index      int
	Language   string
	URL        string
	TargetPath string
	Bytes      int64
	CreatedAt  time.Time
}

// Stats summarizes the contents of the store.
type Stats struct {
	Fingerprints int
	Downloads    int
}

// RecordFingerprint stores the fingerprint for fp.Path, replacing any earlier
// value for the same path.
func (s *Store) RecordFingerprint(ctx context.Context, fp Fingerprint) error {
	if strings.TrimSpace(fp.Path) == "" || strings.TrimSpace(fp.CID) == "" {
		return errors.New("history: fingerprint path and cid are required")
	}
	_, err := s.execWithRetry(ctx, `
		INSERT INTO fingerprints (path, size, cid, computed_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET size = excluded.size, cid = excluded.cid, computed_at = excluded.computed_at`,
		fp.Path, fp.Size, fp.CID, s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("record fingerprint: %w", err)
	}
	return nil
}

// LookupFingerprint returns the stored fingerprint for path.
func (s *Store) LookupFingerprint(ctx context.Context, path string) (Fingerprint, bool, error) {
	ctx = ensureContext(ctx)
	var (
		fp         Fingerprint
		computedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT path, size, cid, computed_at FROM fingerprints WHERE path = ?`, path,
	).Scan(&fp.Path, &fp.Size, &fp.CID, &computedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Fingerprint{}, false, nil
	}
	if err != nil {
		return Fingerprint{}, false, fmt.Errorf("lookup fingerprint: %w", err)
	}
	fp.ComputedAt = parseTime(computedAt)
	return fp, true, nil
}

// RecordDownload appends a download entry and returns its identifier.
func (s *Store) RecordDownload(ctx context.Context, d Download) (int64, error) {
	if strings.TrimSpace(d.TargetPath) == "" {
		return 0, errors.New("history: download target path is required")
	}
	res, err := s.execWithRetry(ctx, `
		INSERT INTO downloads (cid, video_path, idx, language, url, target_path, bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.CID, d.VideoPath, d.Index, d.Language, d.URL, d.TargetPath, d.Bytes, s.timestamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("record download: %w", err)
	}
	return res.LastInsertId()
}

// ListDownloads returns up to limit downloads, newest first. A limit of zero
// or less returns every entry.
func (s *Store) ListDownloads(ctx context.Context, limit int) ([]Download, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, cid, video_path, idx, language, url, target_path, bytes, created_at
		FROM downloads ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	defer rows.Close()

	var downloads []Download
	for rows.Next() {
		var (
			d         Download
			createdAt string
		)
		if err := rows.Scan(&d.ID, &d.CID, &d.VideoPath, &d.Index, &d.Language, &d.URL, &d.TargetPath, &d.Bytes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan download: %w", err)
		}
		d.CreatedAt = parseTime(createdAt)
		downloads = append(downloads, d)
	}
	return downloads, rows.Err()
}

// Stats counts stored fingerprints and downloads.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var stats Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(1) FROM fingerprints), (SELECT COUNT(1) FROM downloads)`,
	).Scan(&stats.Fingerprints, &stats.Downloads)
	if err != nil {
		return Stats{}, fmt.Errorf("history stats: %w", err)
	}
	return stats, nil
}

// Clear removes every fingerprint and download, returning the number of
// download entries deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var removed int64
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		res, err := tx.ExecContext(ctx, `DELETE FROM downloads`)
		if err != nil {
			return fmt.Errorf("clear downloads: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM fingerprints`); err != nil {
			return fmt.Errorf("clear fingerprints: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return removed, nil
}
