package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"internfinder-engine/internal/domain"
	"internfinder-engine/internal/rank"
)

func sample() []domain.Listing {
	return []domain.Listing{
		{
			Company:   "Acme <Labs>",
			Role:      "Backend Intern",
			Location:  "Remote",
			Link:      "https://acme.example/jobs/1",
			Source:    domain.SourceInternshala,
			DateFound: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			Company:   "Beta",
			Role:      "Data Intern",
			Source:    domain.SourceEmail,
			DateFound: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestRenderBody_TextAndHTML(t *testing.T) {
	listings := sample()
	anns := map[domain.IdentityKey]rank.Annotation{
		domain.KeyOf(listings[0]): {Score: 60, Rationale: "matches: go"},
	}

	text, htmlBody := renderBody(listings, anns)

	assert.Contains(t, text, "Found 2 new internships!")
	assert.Contains(t, text, "Company: Acme <Labs>")
	assert.Contains(t, text, "Match: 60/100 (matches: go)")

	assert.Contains(t, htmlBody, "Acme &lt;Labs&gt;")
	assert.Contains(t, htmlBody, `<a href="https://acme.example/jobs/1">View</a>`)
	assert.Contains(t, htmlBody, "60/100")
	// linkless listing renders a placeholder, not an empty anchor
	assert.Contains(t, htmlBody, "N/A")
}

func TestRenderBody_NoAnnotations(t *testing.T) {
	text, htmlBody := renderBody(sample(), nil)
	assert.NotContains(t, text, "Match:")
	assert.Contains(t, htmlBody, "<th>Match</th>")
}
