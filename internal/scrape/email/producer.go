package email

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/emersion/go-imap/v2"

	"internfinder-engine/internal/domain"
	"internfinder-engine/internal/scrape/util"
)

const maxRoleLength = 80

type Config struct {
	Addr     string // host:port, :993 assumed when the port is missing
	Username string
	Password string
	Mailbox  string
	FromAny  []string // sender filter; empty means accept everything unseen
	MaxMsgs  int
}

// Producer turns unread job-alert emails into raw listings. The mailbox
// cursor is producer-side state: a message is marked \Seen once it has been
// turned into a record (or rejected by the sender filter), so the next run
// starts where this one left off. The hand-off is at most once: if the run
// later fails to persist, already-seen messages are not re-yielded, unlike
// the stateless board scrapers.
type Producer struct {
	cfg Config
}

func New(cfg Config) *Producer {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	if !strings.Contains(cfg.Addr, ":") && cfg.Addr != "" {
		cfg.Addr += ":993"
	}
	if cfg.MaxMsgs <= 0 {
		cfg.MaxMsgs = 50
	}
	return &Producer{cfg: cfg}
}

func (p *Producer) Source() domain.Source { return domain.SourceEmail }

func (p *Producer) Fetch(ctx context.Context, _ string) ([]domain.RawListing, error) {
	c, err := dialAndLogin(ctx, p.cfg.Addr, p.cfg.Username, p.cfg.Password)
	if err != nil {
		return nil, err
	}
	defer logoutAndClose(c)

	if _, err := c.Select(p.cfg.Mailbox, &imap.SelectOptions{ReadOnly: false}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %q: %w", p.cfg.Mailbox, err)
	}

	msgs, err := fetchUnseen(ctx, c, p.cfg.MaxMsgs)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, nil
	}

	var out []domain.RawListing
	processed := make([]imap.UID, 0, len(msgs))

	for _, m := range msgs {
		processed = append(processed, m.UID)

		if len(p.cfg.FromAny) > 0 && !containsAnyCI(m.From, p.cfg.FromAny) {
			continue
		}

		subject := decodeRFC2047(m.Subject)
		bodyText, htmlBody := parseBody(m.RawMessage)

		blob := strings.ToLower(bodyText + " " + htmlBody)
		if !strings.Contains(blob, "job") && !strings.Contains(blob, "opportunity") &&
			!strings.Contains(blob, "intern") {
			continue
		}

		out = append(out, domain.RawListing{
			Company: friendlyFrom(m.From),
			Role:    util.Clip(subject, maxRoleLength),
			Link:    extractJobLink(bodyText, htmlBody),
		})
	}

	if err := markSeen(c, processed); err != nil {
		log.Printf("[email] mark seen failed for %d messages: %v", len(processed), err)
	}

	return out, nil
}
