package rank

import (
	"context"
	"strings"

	"internfinder-engine/internal/domain"
)

// KeywordScorer matches comma-separated skill terms against the listing text.
// It needs no credentials and is the always-available fallback.
type KeywordScorer struct{}

func (KeywordScorer) Annotate(_ context.Context, l domain.Listing, skills string) (Annotation, error) {
	text := strings.ToLower(l.Role + " " + l.Company + " " + l.Location)

	score := 0
	var hits []string
	for _, term := range strings.Split(skills, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(term)) {
			score += 20
			hits = append(hits, term)
		}
	}
	if score > 100 {
		score = 100
	}

	if len(hits) == 0 {
		return Annotation{Score: 0, Rationale: "no skill terms matched"}, nil
	}
	return Annotation{
		Score:     score,
		Rationale: "matches: " + strings.Join(hits, ", "),
	}, nil
}
