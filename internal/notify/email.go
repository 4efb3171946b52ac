package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"

	"internfinder-engine/internal/domain"
	"internfinder-engine/internal/rank"
)

type EmailConfig struct {
	Host     string // smtp host
	Port     int    // implicit-TLS port, typically 465
	From     string
	To       string
	Password string
}

// Email delivers a run's new listings as a multipart text+HTML message over
// SMTPS. An optional scorer annotates the first few listings for display.
type Email struct {
	cfg      EmailConfig
	scorer   rank.Scorer
	skills   string
	maxScore int // annotation cap per run
}

func NewEmail(cfg EmailConfig, scorer rank.Scorer, skills string, maxScore int) *Email {
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	return &Email{cfg: cfg, scorer: scorer, skills: skills, maxScore: maxScore}
}

func (e *Email) Notify(ctx context.Context, fresh []domain.Listing) error {
	if len(fresh) == 0 {
		return nil
	}
	if e.cfg.Host == "" || e.cfg.From == "" || e.cfg.To == "" {
		return fmt.Errorf("email notifier missing host/from/to")
	}

	anns := rank.AnnotateAll(ctx, e.scorer, fresh, e.skills, e.maxScore)
	text, htmlBody := renderBody(fresh, anns)
	subject := fmt.Sprintf("[Internship Bot] Found %d New Internships", len(fresh))
	msg := buildMessage(e.cfg.From, e.cfg.To, subject, text, htmlBody)

	addr := fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)
	d := &net.Dialer{Timeout: 15 * time.Second}
	rawConn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	// a dead server must not outlive the run's deadline
	if dl, ok := ctx.Deadline(); ok {
		_ = rawConn.SetDeadline(dl)
	}

	conn := tls.Client(rawConn, &tls.Config{
		MinVersion: tls.VersionTLS12,
		ServerName: e.cfg.Host,
	})
	if err := conn.HandshakeContext(ctx); err != nil {
		_ = rawConn.Close()
		return fmt.Errorf("smtp tls handshake: %w", err)
	}

	c, err := smtp.NewClient(conn, e.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer func() { _ = c.Close() }()

	if err := c.Auth(smtp.PlainAuth("", e.cfg.From, e.cfg.Password, e.cfg.Host)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(e.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(e.cfg.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	if err := c.Quit(); err != nil {
		log.Printf("[notify] smtp quit: %v", err)
	}

	log.Printf("[notify] sent email with %d new listings to %s", len(fresh), e.cfg.To)
	return nil
}

const boundary = "internfinder-alt-boundary"

func buildMessage(from, to, subject, text, htmlBody string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(text)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.String()
}
