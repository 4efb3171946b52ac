package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internfinder-engine/internal/domain"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func listing(company, role, link string) domain.Listing {
	return domain.Listing{
		Company:   company,
		Role:      role,
		Location:  "Remote",
		Link:      link,
		Source:    domain.SourceInternshala,
		DateFound: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSQLite_LoadEmpty(t *testing.T) {
	s := openTestDB(t)
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	keys, err := s.ExistingKeys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSQLite_AppendPreservesOrder(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	first := []domain.Listing{
		listing("Acme", "Backend Intern", "https://acme.example/jobs/1"),
		listing("Beta", "Data Intern", "https://beta.example/jobs/2"),
	}
	require.NoError(t, s.AppendAll(ctx, first))
	require.NoError(t, s.AppendAll(ctx, []domain.Listing{
		listing("Gamma", "ML Intern", "https://gamma.example/jobs/3"),
	}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Acme", got[0].Company)
	assert.Equal(t, "Beta", got[1].Company)
	assert.Equal(t, "Gamma", got[2].Company)
	assert.Equal(t, first[0].DateFound, got[0].DateFound)
}

func TestSQLite_DuplicateKeyFailsWholeBatch(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.AppendAll(ctx, []domain.Listing{
		listing("Acme", "Backend Intern", "https://acme.example/jobs/1"),
	}))

	err := s.AppendAll(ctx, []domain.Listing{
		listing("Gamma", "ML Intern", "https://gamma.example/jobs/3"),
		listing("Acme Again", "Backend Intern", "https://acme.example/jobs/1"),
	})
	require.ErrorIs(t, err, ErrDuplicateKey)

	// The batch rolled back: Gamma must not be there either.
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.AppendAll(ctx, []domain.Listing{
		listing("Acme", "Backend Intern", "https://acme.example/jobs/1"),
	}))
	require.NoError(t, s.Close())

	s2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Acme", got[0].Company)

	keys, err := s2.ExistingKeys(ctx)
	require.NoError(t, err)
	_, ok := keys[domain.IdentityKey("https://acme.example/jobs/1")]
	assert.True(t, ok)
}

func TestSQLite_LoadFailsOnCorruptDate(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.AppendAll(ctx, []domain.Listing{
		listing("Acme", "Backend Intern", "https://acme.example/jobs/1"),
	}))
	_, err := s.db.Exec(`UPDATE listings SET date_found = 'yesterday-ish';`)
	require.NoError(t, err)

	_, err = s.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date_found")
}

func TestSQLite_AppendEmptyBatchIsNoop(t *testing.T) {
	s := openTestDB(t)
	require.NoError(t, s.AppendAll(context.Background(), nil))
}
