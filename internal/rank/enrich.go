package rank

import (
	"context"
	"log"

	"internfinder-engine/internal/domain"
)

// AnnotateAll scores up to max listings and returns annotations keyed by
// identity. Scorer failures are absorbed per listing; enrichment never blocks
// a notification.
func AnnotateAll(ctx context.Context, s Scorer, listings []domain.Listing, skills string, max int) map[domain.IdentityKey]Annotation {
	out := make(map[domain.IdentityKey]Annotation, len(listings))
	if s == nil {
		return out
	}

	for i, l := range listings {
		if max > 0 && i >= max {
			break
		}
		ann, err := s.Annotate(ctx, l, skills)
		if err != nil {
			log.Printf("[rank] annotate company=%q role=%q: %v", l.Company, l.Role, err)
			continue
		}
		out[domain.KeyOf(l)] = ann
	}
	return out
}
