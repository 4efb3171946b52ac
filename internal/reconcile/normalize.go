package reconcile

import (
	"time"

	"internfinder-engine/internal/domain"
	"internfinder-engine/internal/scrape/util"
)

// Normalize maps a raw producer record into the canonical Listing. Missing
// fields become empty strings so every stored listing has total fields; text
// is whitespace-collapsed and the link canonicalized so formatting noise
// cannot mint a second identity for the same posting.
func Normalize(raw domain.RawListing, src domain.Source, foundAt time.Time) (domain.Listing, error) {
	l := domain.Listing{
		Company:   util.CleanText(raw.Company),
		Role:      util.CleanText(raw.Role),
		Location:  util.CleanText(raw.Location),
		Link:      util.CanonicalizeURL(raw.Link),
		Source:    src,
		DateFound: foundAt.UTC(),
	}
	if l.Company == "" && l.Role == "" {
		return domain.Listing{}, ErrMalformedListing
	}
	return l, nil
}
