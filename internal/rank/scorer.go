package rank

import (
	"context"

	"internfinder-engine/internal/domain"
)

// Annotation is a display-only enrichment of a listing. It never feeds back
// into identity or the stored record.
type Annotation struct {
	Score     int    `json:"score"`
	Rationale string `json:"rationale"`
}

type Scorer interface {
	Annotate(ctx context.Context, l domain.Listing, skills string) (Annotation, error)
}
