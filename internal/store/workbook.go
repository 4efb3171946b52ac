package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"internfinder-engine/internal/domain"
)

var workbookHeader = []string{"Company", "Role", "Location", "Link", "Date Found", "Source"}

// Workbook persists listings in a tabular CSV file with a fixed column order.
// Appends rewrite the whole sequence to a temp path and rename it into place,
// so a crash mid-write never leaves a torn record behind.
type Workbook struct {
	path string
	mu   sync.Mutex
}

func OpenWorkbook(path string) *Workbook {
	return &Workbook{path: path}
}

// Load returns all persisted listings in insertion order. A missing file is
// the first-ever run and yields an empty sequence, never an error.
func (w *Workbook) Load(ctx context.Context) ([]domain.Listing, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.load(ctx)
}

func (w *Workbook) load(_ context.Context) ([]domain.Listing, error) {
	b, err := os.ReadFile(w.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}

	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse workbook: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	out := make([]domain.Listing, 0, len(records)-1)
	for i, rec := range records[1:] { // skip header
		if len(rec) != len(workbookHeader) {
			return nil, fmt.Errorf("workbook row %d has %d columns, want %d", i+2, len(rec), len(workbookHeader))
		}
		l := domain.Listing{
			Company:  rec[0],
			Role:     rec[1],
			Location: rec[2],
			Link:     rec[3],
			Source:   domain.Source(rec[5]),
		}
		l.DateFound, err = time.Parse(time.RFC3339, rec[4])
		if err != nil {
			return nil, fmt.Errorf("workbook row %d has bad date %q: %w", i+2, rec[4], err)
		}
		out = append(out, l)
	}
	return out, nil
}

func (w *Workbook) ExistingKeys(ctx context.Context) (map[domain.IdentityKey]struct{}, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.load(ctx)
	if err != nil {
		return nil, err
	}
	keys := make(map[domain.IdentityKey]struct{}, len(rows))
	for _, l := range rows {
		keys[domain.KeyOf(l)] = struct{}{}
	}
	return keys, nil
}

// AppendAll tail-appends listings in the given order, preserving the header
// row and everything already stored. The full sequence is written to a temp
// file and renamed over the original in one step. A key already present fails
// the whole batch with ErrDuplicateKey and leaves the file untouched.
func (w *Workbook) AppendAll(ctx context.Context, listings []domain.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	current, err := w.load(ctx)
	if err != nil {
		return err
	}

	seen := make(map[domain.IdentityKey]struct{}, len(current))
	for _, l := range current {
		seen[domain.KeyOf(l)] = struct{}{}
	}
	for _, l := range listings {
		k := domain.KeyOf(l)
		if _, dup := seen[k]; dup {
			return fmt.Errorf("append company=%q role=%q key=%q: %w",
				l.Company, l.Role, k, ErrDuplicateKey)
		}
		seen[k] = struct{}{}
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(workbookHeader); err != nil {
		return err
	}
	for _, l := range append(current, listings...) {
		if err := cw.Write([]string{
			l.Company,
			l.Role,
			l.Location,
			l.Link,
			l.DateFound.UTC().Format(time.RFC3339),
			string(l.Source),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write workbook temp: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}
