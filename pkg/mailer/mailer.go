// Package mailer delivers confirmation codes.
package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

// Mailer sends a plain-text message to a single recipient
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New returns an SMTP mailer, or a log mailer when no SMTP host is configured
func New(cfg utils.EmailConfig, log *zap.Logger) Mailer {
	if cfg.Host == "" {
		log.Warn("SMTP_HOST not set, confirmation codes will only be logged")
		return NewLogMailer(log)
	}
	return NewSMTPMailer(cfg, log)
}

// SMTPMailer sends mail through an SMTP relay with optional PLAIN auth
type SMTPMailer struct {
	cfg      utils.EmailConfig
	log      *zap.Logger
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg utils.EmailConfig, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:      cfg,
		log:      log.With(zap.String("mailer", "smtp")),
		sendMail: smtp.SendMail,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	msg := buildMessage(m.cfg.From, to, subject, body, time.Now())
	if err := m.sendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		m.log.Error("Failed to send mail",
			zap.Error(err),
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	m.log.Info("Mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func buildMessage(from, to, subject, body string, date time.Time) []byte {
	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("Date: " + date.Format(time.RFC1123Z) + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")
	return []byte(msg.String())
}

// LogMailer writes messages to the log instead of sending them (development)
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log.With(zap.String("mailer", "log"))}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info("Mail (not delivered)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
