package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multipartMsg = "From: LinkedIn Job Alerts <jobalerts-noreply@linkedin.com>\r\n" +
	"To: you@example.com\r\n" +
	"Subject: =?utf-8?q?Software_Intern_roles_for_you?=\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
	"\r\n" +
	"--b1\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"New internship opportunity at Acme.\r\n" +
	"Apply: https://www.linkedin.com/jobs/view/12345/?trackingId=x\r\n" +
	"--b1\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<html><body><p>New internship opportunity at Acme.</p>" +
	"<a href=\"https://www.linkedin.com/comm/jobs/alerts?x=1\">Manage alerts</a>" +
	"<a href=\"https://www.linkedin.com/jobs/view/12345/?utm_source=email\">View job</a>" +
	"</body></html>\r\n" +
	"--b1--\r\n"

func TestParseBody_MultipartPicksBothParts(t *testing.T) {
	text, htmlBody := parseBody([]byte(multipartMsg))
	assert.Contains(t, text, "internship opportunity")
	assert.Contains(t, htmlBody, "<a href=")
}

func TestExtractJobLink_PrefersAnchorsAndSkipsAlertLinks(t *testing.T) {
	text, htmlBody := parseBody([]byte(multipartMsg))
	link := extractJobLink(text, htmlBody)
	require.NotEmpty(t, link)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/12345", link)
}

func TestExtractJobLink_FallsBackToNakedURL(t *testing.T) {
	link := extractJobLink("apply at https://acme.example/jobs/9.", "")
	assert.Equal(t, "https://acme.example/jobs/9", link)
}

func TestExtractJobLink_NothingUsable(t *testing.T) {
	link := extractJobLink("no links here", `<a href="https://x.example/unsubscribe">bye</a>`)
	assert.Empty(t, link)
}

func TestParseBody_PlainFallbackForBrokenMessage(t *testing.T) {
	text, htmlBody := parseBody([]byte("not an rfc822 message at all"))
	assert.Equal(t, "not an rfc822 message at all", text)
	assert.Empty(t, htmlBody)
}

func TestDecodeRFC2047(t *testing.T) {
	assert.Equal(t, "Software Intern roles for you",
		decodeRFC2047("=?utf-8?q?Software_Intern_roles_for_you?="))
	assert.Equal(t, "plain subject", decodeRFC2047("plain subject"))
}

func TestFriendlyFrom(t *testing.T) {
	assert.Equal(t, "LinkedIn Job Alerts",
		friendlyFrom(`"LinkedIn Job Alerts" <jobalerts-noreply@linkedin.com>`))
	assert.Equal(t, "Internshala", friendlyFrom("noreply@internshala.com"))
	assert.Empty(t, friendlyFrom(""))
}

func TestContainsAnyCI(t *testing.T) {
	from := "jobalerts-noreply@LINKEDIN.com"
	assert.True(t, containsAnyCI(from, []string{"linkedin.com"}))
	assert.False(t, containsAnyCI(from, []string{"glassdoor.com"}))
	assert.False(t, containsAnyCI(from, nil))
}

func TestParseBody_QuotedPrintablePart(t *testing.T) {
	msg := "From: a@b.c\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"intern=20opportunity\r\n"
	text, _ := parseBody([]byte(msg))
	assert.True(t, strings.Contains(text, "intern opportunity"))
}
