package domain

import "strings"

// IdentityKey decides whether two listings denote the same real-world posting.
type IdentityKey string

// Unit separator: normalized text never contains it, so a literal "|" or
// other punctuation inside a field cannot forge a field boundary.
const keySep = "\x1f"

// KeyOf derives the dedup key from listing fields alone, never from Source or
// DateFound, so the same posting found via two producers collapses to one
// stored entry. A non-empty link is the strongest identity signal; without one
// the key falls back to the lower-cased company/role/location tuple.
func KeyOf(l Listing) IdentityKey {
	if l.Link != "" {
		return IdentityKey(l.Link)
	}
	return IdentityKey(strings.ToLower(l.Company) + keySep +
		strings.ToLower(l.Role) + keySep +
		strings.ToLower(l.Location))
}
