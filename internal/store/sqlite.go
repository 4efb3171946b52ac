package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"internfinder-engine/internal/domain"
)

// SQLite persists listings in an append-only table with a unique identity key
// column. It is the default backend.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS listings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  company TEXT NOT NULL,
  role TEXT NOT NULL,
  location TEXT NOT NULL,
  link TEXT NOT NULL,
  source TEXT NOT NULL,
  date_found TEXT NOT NULL,
  key TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_listings_key
ON listings(key);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_listings_date_found
ON listings(date_found);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// Load returns every stored listing in original insertion order. A fresh
// database yields an empty sequence, never an error.
func (s *SQLite) Load(ctx context.Context) ([]domain.Listing, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT company, role, location, link, source, date_found
FROM listings
ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		var l domain.Listing
		var src, dateStr string
		if err := rows.Scan(&l.Company, &l.Role, &l.Location, &l.Link, &src, &dateStr); err != nil {
			return nil, err
		}
		l.Source = domain.Source(src)
		l.DateFound, err = time.Parse(time.RFC3339, dateStr)
		if err != nil {
			return nil, fmt.Errorf("listing company=%q role=%q has bad date_found %q: %w",
				l.Company, l.Role, dateStr, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ExistingKeys returns the stored key set for duplicate testing.
func (s *SQLite) ExistingKeys(ctx context.Context) (map[domain.IdentityKey]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM listings;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[domain.IdentityKey]struct{})
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys[domain.IdentityKey(k)] = struct{}{}
	}
	return keys, rows.Err()
}

// AppendAll appends listings in the given order inside one transaction.
// A key that is already present fails the whole batch with ErrDuplicateKey;
// the transaction rolls back and nothing is recorded.
func (s *SQLite) AppendAll(ctx context.Context, listings []domain.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, l := range listings {
		k := string(domain.KeyOf(l))

		var one int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM listings WHERE key = ? LIMIT 1;`, k).Scan(&one)
		if err == nil {
			return fmt.Errorf("append company=%q role=%q key=%q: %w",
				l.Company, l.Role, k, ErrDuplicateKey)
		}
		if err != sql.ErrNoRows {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO listings(company, role, location, link, source, date_found, key)
VALUES(?,?,?,?,?,?,?);`,
			l.Company,
			l.Role,
			l.Location,
			l.Link,
			string(l.Source),
			l.DateFound.UTC().Format(time.RFC3339),
			k,
		); err != nil {
			return fmt.Errorf("insert listing: %w", err)
		}
	}

	return tx.Commit()
}
