// Package database persists computed image fingerprints in SQLite so
// repeated visual detection runs only download URLs they have not seen
// before. The cache is keyed by url and lives outside the painting
// record schema.
package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"kunstquiz/types"
)

// InitCache opens (creating if needed) the fingerprint cache.
func InitCache(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS fingerprints (
		url TEXT PRIMARY KEY,
		phash TEXT NOT NULL,
		ahash TEXT NOT NULL,
		dhash TEXT NOT NULL,
		whash TEXT NOT NULL,
		fetched_at TEXT
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create fingerprint table: %w", err)
	}
	return db, nil
}

// LookupFingerprint returns the cached fingerprint for a url, if any.
func LookupFingerprint(db *sql.DB, url string) (types.Fingerprint, bool, error) {
	var fp types.Fingerprint
	var phash, ahash, dhash, whash string

	err := db.QueryRow(
		"SELECT phash, ahash, dhash, whash FROM fingerprints WHERE url = ?", url,
	).Scan(&phash, &ahash, &dhash, &whash)
	if err == sql.ErrNoRows {
		return fp, false, nil
	}
	if err != nil {
		return fp, false, fmt.Errorf("cache lookup for %s: %w", url, err)
	}

	fields := []struct {
		hex string
		dst *uint64
	}{
		{phash, &fp.PHash},
		{ahash, &fp.AHash},
		{dhash, &fp.DHash},
		{whash, &fp.WHash},
	}
	for _, f := range fields {
		bits, err := strconv.ParseUint(f.hex, 16, 64)
		if err != nil {
			return fp, false, fmt.Errorf("corrupt cache entry for %s: %w", url, err)
		}
		*f.dst = bits
	}
	return fp, true, nil
}

// StoreFingerprint upserts the fingerprint computed for a url.
func StoreFingerprint(db *sql.DB, url string, fp types.Fingerprint) error {
	_, err := db.Exec(`
		INSERT INTO fingerprints (url, phash, ahash, dhash, whash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			phash = excluded.phash,
			ahash = excluded.ahash,
			dhash = excluded.dhash,
			whash = excluded.whash,
			fetched_at = excluded.fetched_at`,
		url,
		fmt.Sprintf("%016x", fp.PHash),
		fmt.Sprintf("%016x", fp.AHash),
		fmt.Sprintf("%016x", fp.DHash),
		fmt.Sprintf("%016x", fp.WHash),
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store fingerprint for %s: %w", url, err)
	}
	return nil
}

// CacheStats reports how many fingerprints the cache holds.
func CacheStats(db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM fingerprints").Scan(&count); err != nil {
		return 0, fmt.Errorf("cache stats: %w", err)
	}
	return count, nil
}
