package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internfinder-engine/internal/domain"
)

func TestWorkbook_MissingFileIsEmpty(t *testing.T) {
	w := OpenWorkbook(filepath.Join(t.TempDir(), "internships.csv"))
	got, err := w.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWorkbook_AppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "internships.csv")
	w := OpenWorkbook(path)
	ctx := context.Background()

	require.NoError(t, w.AppendAll(ctx, []domain.Listing{
		listing("Acme", "Backend Intern", "https://acme.example/jobs/1"),
		listing("Beta", "Data Intern", "https://beta.example/jobs/2"),
	}))
	require.NoError(t, w.AppendAll(ctx, []domain.Listing{
		listing("Gamma", "ML Intern", "https://gamma.example/jobs/3"),
	}))

	// A second handle on the same file sees the same sequence.
	got, err := OpenWorkbook(path).Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Acme", got[0].Company)
	assert.Equal(t, "Gamma", got[2].Company)
	assert.Equal(t, domain.SourceInternshala, got[0].Source)
	assert.False(t, got[0].DateFound.IsZero())
}

func TestWorkbook_HeaderRowIsWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "internships.csv")
	w := OpenWorkbook(path)

	require.NoError(t, w.AppendAll(context.Background(), []domain.Listing{
		listing("Acme", "Backend Intern", "https://acme.example/jobs/1"),
	}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "Company,Role,Location,Link,Date Found,Source"))
}

func TestWorkbook_DuplicateKeyLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "internships.csv")
	w := OpenWorkbook(path)
	ctx := context.Background()

	require.NoError(t, w.AppendAll(ctx, []domain.Listing{
		listing("Acme", "Backend Intern", "https://acme.example/jobs/1"),
	}))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	err = w.AppendAll(ctx, []domain.Listing{
		listing("Gamma", "ML Intern", "https://gamma.example/jobs/3"),
		listing("Acme", "Backend Intern", "https://acme.example/jobs/1"),
	})
	require.ErrorIs(t, err, ErrDuplicateKey)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestWorkbook_LoadFailsOnCorruptDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "internships.csv")
	rows := "Company,Role,Location,Link,Date Found,Source\n" +
		"Acme,Backend Intern,Remote,https://acme.example/jobs/1,yesterday-ish,internshala\n"
	require.NoError(t, os.WriteFile(path, []byte(rows), 0o644))

	_, err := OpenWorkbook(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad date")
}

func TestWorkbook_DuplicateWithinBatchRejected(t *testing.T) {
	w := OpenWorkbook(filepath.Join(t.TempDir(), "internships.csv"))

	err := w.AppendAll(context.Background(), []domain.Listing{
		listing("Acme", "Backend Intern", "https://acme.example/jobs/1"),
		listing("Acme Corp", "Backend Intern", "https://acme.example/jobs/1"),
	})
	require.ErrorIs(t, err, ErrDuplicateKey)
}
