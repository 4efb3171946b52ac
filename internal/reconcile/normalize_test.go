package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internfinder-engine/internal/domain"
)

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l, err := Normalize(domain.RawListing{
		Company:  "  Acme \n Corp ",
		Role:     "Backend\tIntern",
		Location: " Remote ",
	}, domain.SourceInternshala, now)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", l.Company)
	assert.Equal(t, "Backend Intern", l.Role)
	assert.Equal(t, "Remote", l.Location)
	assert.Equal(t, now, l.DateFound)
	assert.Equal(t, domain.SourceInternshala, l.Source)
}

func TestNormalize_CanonicalizesLink(t *testing.T) {
	l, err := Normalize(domain.RawListing{
		Company: "Acme",
		Role:    "Intern",
		Link:    "  HTTPS://Acme.Example/jobs/42/?utm_source=feed  ",
	}, domain.SourceWellfound, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "https://acme.example/jobs/42", l.Link)
}

func TestNormalize_RejectsEmptyCompanyAndRole(t *testing.T) {
	_, err := Normalize(domain.RawListing{
		Location: "Remote",
		Link:     "https://acme.example/jobs/42",
	}, domain.SourceGlassdoor, time.Now())
	require.ErrorIs(t, err, ErrMalformedListing)
}

func TestNormalize_KeepsPartialRecords(t *testing.T) {
	// Company-only and role-only records are valid.
	l, err := Normalize(domain.RawListing{Company: "Acme"}, domain.SourceEmail, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Acme", l.Company)
	assert.Empty(t, l.Role)

	l, err = Normalize(domain.RawListing{Role: "Intern"}, domain.SourceEmail, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Intern", l.Role)
	assert.Empty(t, l.Company)
}
