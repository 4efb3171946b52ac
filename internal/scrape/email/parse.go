package email

import (
	"bytes"
	"encoding/base64"
	"html"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"regexp"
	"strings"

	"internfinder-engine/internal/scrape/util"
)

var (
	reHref = regexp.MustCompile(`(?is)<a[^>]+href=["']([^"'#]+)["'][^>]*>`)
	reURL  = regexp.MustCompile(`https?://[^\s<>"']+`)
)

// parseBody splits an RFC822 message into its best plain-text and HTML parts.
func parseBody(raw []byte) (bodyText, htmlBody string) {
	if len(raw) == 0 {
		return "", ""
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		// treat unparseable raw bytes as plaintext best-effort
		return string(raw), ""
	}

	bodyRaw, _ := io.ReadAll(io.LimitReader(msg.Body, 6<<20))
	plain, htmlPart := extractMIMETextParts(msg.Header, bodyRaw)
	if plain == "" && htmlPart == "" {
		plain = string(bodyRaw)
	}
	return plain, htmlPart
}

func extractMIMETextParts(h mail.Header, body []byte) (plain, htmlPart string) {
	ct := h.Get("Content-Type")
	cte := strings.ToLower(strings.TrimSpace(h.Get("Content-Transfer-Encoding")))

	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return string(decodeTransferEncoding(body, cte)), ""
	}
	mediaType = strings.ToLower(mediaType)

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return string(decodeTransferEncoding(body, cte)), ""
		}
		mr := multipart.NewReader(bytes.NewReader(body), boundary)

		var bestPlain, bestHTML string
		for {
			p, err := mr.NextPart()
			if err != nil {
				break
			}
			partCTE := strings.ToLower(strings.TrimSpace(p.Header.Get("Content-Transfer-Encoding")))
			pMedia, _, _ := mime.ParseMediaType(p.Header.Get("Content-Type"))
			pMedia = strings.ToLower(pMedia)

			b, _ := io.ReadAll(io.LimitReader(p, 6<<20))
			b = decodeTransferEncoding(b, partCTE)

			if strings.HasPrefix(pMedia, "multipart/") {
				pl, ht := extractMIMETextParts(mail.Header(p.Header), b)
				if len(pl) > len(bestPlain) {
					bestPlain = pl
				}
				if len(ht) > len(bestHTML) {
					bestHTML = ht
				}
				continue
			}

			switch {
			case strings.HasPrefix(pMedia, "text/plain"):
				if len(b) > len(bestPlain) {
					bestPlain = string(b)
				}
			case strings.HasPrefix(pMedia, "text/html"):
				if len(b) > len(bestHTML) {
					bestHTML = string(b)
				}
			}
		}
		return bestPlain, bestHTML
	}

	s := decodeTransferEncoding(body, cte)
	if strings.HasPrefix(mediaType, "text/html") {
		return "", string(s)
	}
	return string(s), ""
}

func decodeTransferEncoding(b []byte, cte string) []byte {
	switch cte {
	case "base64":
		dec := base64.NewDecoder(base64.StdEncoding, bytes.NewReader(b))
		out, _ := io.ReadAll(io.LimitReader(dec, 6<<20))
		return out
	case "quoted-printable":
		dec := quotedprintable.NewReader(bytes.NewReader(b))
		out, _ := io.ReadAll(io.LimitReader(dec, 6<<20))
		return out
	default:
		return b
	}
}

func decodeRFC2047(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	dec := new(mime.WordDecoder)
	out, err := dec.DecodeHeader(s)
	if err != nil {
		return s
	}
	return out
}

// extractJobLink picks the first usable application link out of an email body,
// preferring anchor hrefs over naked URLs in the text.
func extractJobLink(bodyText, htmlBody string) string {
	if htmlBody != "" {
		for _, m := range reHref.FindAllStringSubmatch(htmlBody, -1) {
			href := strings.TrimSpace(html.UnescapeString(m[1]))
			if u := usableJobLink(href); u != "" {
				return u
			}
		}
	}
	for _, raw := range reURL.FindAllString(bodyText, -1) {
		raw = strings.TrimRight(raw, ".,);:]\"'")
		if u := usableJobLink(raw); u != "" {
			return u
		}
	}
	return ""
}

func usableJobLink(raw string) string {
	u := util.CanonicalizeURL(raw)
	if u == "" || !strings.HasPrefix(u, "http") {
		return ""
	}
	low := strings.ToLower(u)
	// alert-management and unsubscribe links identify the alert, not a posting
	if strings.Contains(low, "/comm/jobs/alerts") ||
		strings.Contains(low, "unsubscribe") ||
		strings.Contains(low, "email-settings") {
		return ""
	}
	return u
}

// friendlyFrom extracts a display name from a From header, falling back to
// the capitalized sender domain.
func friendlyFrom(from string) string {
	from = strings.TrimSpace(from)
	if from == "" {
		return ""
	}
	if i := strings.Index(from, "<"); i > 0 {
		name := strings.Trim(strings.TrimSpace(from[:i]), `"`)
		if name != "" {
			return name
		}
	}
	if at := strings.LastIndex(from, "@"); at >= 0 {
		d := strings.Trim(from[at+1:], "> ")
		parts := strings.Split(d, ".")
		if len(parts) > 0 && parts[0] != "" {
			return strings.ToUpper(parts[0][:1]) + parts[0][1:]
		}
	}
	return from
}

func containsAnyCI(s string, needles []string) bool {
	low := strings.ToLower(s)
	for _, n := range needles {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" && strings.Contains(low, n) {
			return true
		}
	}
	return false
}
