package notify

import (
	"fmt"
	"html"
	"strings"

	"internfinder-engine/internal/domain"
	"internfinder-engine/internal/rank"
)

// renderBody builds the plain-text and HTML variants of a notification email
// for the new listings of a run. Annotations, when present, decorate the
// display only.
func renderBody(listings []domain.Listing, anns map[domain.IdentityKey]rank.Annotation) (text, htmlBody string) {
	var tb strings.Builder
	fmt.Fprintf(&tb, "Found %d new internships!\n\n", len(listings))
	for _, l := range listings {
		fmt.Fprintf(&tb, "Company: %s\nRole: %s\nLocation: %s\nSource: %s\nLink: %s\n",
			l.Company, l.Role, l.Location, l.Source, l.Link)
		if ann, ok := anns[domain.KeyOf(l)]; ok {
			fmt.Fprintf(&tb, "Match: %d/100 (%s)\n", ann.Score, ann.Rationale)
		}
		tb.WriteString("---\n")
	}

	var hb strings.Builder
	fmt.Fprintf(&hb, `<html><body>
<h2>New Internships Found! (%d)</h2>
<table border="1" cellpadding="10" cellspacing="0" style="border-collapse: collapse; width: 100%%;">
<tr style="background-color: #4472C4; color: white;">
<th>Company</th><th>Role</th><th>Location</th><th>Source</th><th>Match</th><th>Link</th>
</tr>
`, len(listings))

	for _, l := range listings {
		link := "N/A"
		if l.Link != "" {
			link = fmt.Sprintf(`<a href="%s">View</a>`, html.EscapeString(l.Link))
		}
		match := ""
		if ann, ok := anns[domain.KeyOf(l)]; ok {
			match = fmt.Sprintf("%d/100 (%s)", ann.Score, html.EscapeString(ann.Rationale))
		}
		fmt.Fprintf(&hb, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(l.Company),
			html.EscapeString(l.Role),
			html.EscapeString(l.Location),
			html.EscapeString(string(l.Source)),
			match,
			link,
		)
	}

	hb.WriteString(`</table>
<p><small>This email was generated automatically by the internship finder engine.</small></p>
</body></html>
`)

	return tb.String(), hb.String()
}
