// Package cache provides a persistent TTL key/value store backed by SQLite.
package cache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

// foldTransformer strips combining marks so accented and unaccented
// spellings of the same name produce the same cache key.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a cache key fragment: diacritics stripped,
// lowercased, trimmed, internal whitespace collapsed to a single "_".
// Idempotent, so it is safe to apply at both write and read time.
func Normalize(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	fields := strings.Fields(strings.ToLower(folded))
	return strings.Join(fields, "_")
}

// Key builds a namespaced cache key from a domain and its semantic
// parameters, e.g. Key("team", "Manchester United") -> "team:manchester_united".
func Key(domain string, params ...string) string {
	normalized := make([]string, 0, len(params))
	for _, p := range params {
		normalized = append(normalized, Normalize(p))
	}
	return domain + ":" + strings.Join(normalized, ":")
}

// Store is a SQLite-backed key/value store with per-entry expiry.
// Expiry is checked at read time; there is no background eviction.
// Entries are overwritten wholesale, last writer wins.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates (or opens) the store at the given file path. Use ":memory:"
// for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		expires_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached value for key, or ok=false if the key is absent
// or its entry has expired.
func (s *Store) Get(key string) ([]byte, bool) {
	var value []byte
	var expiresAt int64

	row := s.db.QueryRow(`SELECT value, expires_at FROM kv WHERE key = ?`, Normalize(key))
	if err := row.Scan(&value, &expiresAt); err != nil {
		return nil, false
	}
	if s.now().Unix() >= expiresAt {
		return nil, false
	}
	return value, true
}

// Set stores value under key with the given TTL, replacing any previous
// entry. A non-positive TTL stores an already-expired entry.
func (s *Store) Set(key string, value []byte, ttl time.Duration) error {
	expiresAt := s.now().Add(ttl).Unix()
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		Normalize(key), value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
