package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// Dialer is the part of gomail.Dialer the transport needs.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPTransport struct {
	From     string
	FromName string
	Domain   string
	Dialer   Dialer
}

func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.SSL = cfg.SSL
	if !cfg.VerifyCertificates {
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, InsecureSkipVerify: true}
	}
	return &SMTPTransport{
		From:     cfg.User,
		FromName: cfg.FromName,
		Domain:   domainOf(cfg.User, cfg.Host),
		Dialer:   d,
	}
}

// Send delivers msg and returns the Message-ID it was sent with. gomail has
// no context support, so the dial runs in its own goroutine and ctx only
// bounds how long the caller waits for it.
func (s *SMTPTransport) Send(ctx context.Context, msg Message) (string, error) {
	if len(msg.To) == 0 {
		return "", errors.New("message has no recipients")
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), s.Domain)

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.From, s.FromName)
	m.SetHeader("To", msg.To...)
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", msg.Cc...)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/html", msg.HTML)

	done := make(chan error, 1)
	go func() {
		done <- s.Dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("smtp send: %w", err)
		}
		return messageID, nil
	case <-ctx.Done():
		return "", fmt.Errorf("smtp send: %w", ctx.Err())
	}
}

func domainOf(user, host string) string {
	if i := strings.LastIndex(user, "@"); i >= 0 && i < len(user)-1 {
		return user[i+1:]
	}
	if host != "" {
		return host
	}
	return "localhost"
}
