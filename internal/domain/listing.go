package domain

import "time"

// Source tags which producer yielded a listing.
type Source string

const (
	SourceInternshala Source = "internshala"
	SourceWellfound   Source = "wellfound"
	SourceGlassdoor   Source = "glassdoor"
	SourceCareers     Source = "careers"
	SourceLinkedIn    Source = "linkedin"
	SourceEmail       Source = "email"
)

// Listing is the canonical record of one internship posting. It is immutable
// once created: DateFound is stamped at first observation and never rewritten
// when the same posting shows up again.
type Listing struct {
	Company   string    `json:"company"`
	Role      string    `json:"role"`
	Location  string    `json:"location"`
	Link      string    `json:"link"`
	Source    Source    `json:"source"`
	DateFound time.Time `json:"dateFound"`
}

// RawListing is what producers hand over before normalization. Every field is
// present but may be empty; nothing source-specific leaks past this type.
type RawListing struct {
	Company  string
	Role     string
	Location string
	Link     string
}
