package mailer

import (
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Transport security modes for the SMTP connection.
const (
	EncryptionSTARTTLS = "starttls" // opportunistic upgrade, typically port 587
	EncryptionSSL      = "ssl"      // implicit TLS, typically port 465
)

// SMTPConfig holds the static relay configuration.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	Encryption string // EncryptionSTARTTLS or EncryptionSSL
}

// SMTPProvider sends emails through an authenticated SMTP relay.
type SMTPProvider struct {
	dialer *gomail.Dialer
}

// NewSMTPProvider creates a new SMTP provider for the given relay.
func NewSMTPProvider(cfg SMTPConfig) (*SMTPProvider, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, fmt.Errorf("smtp host and port are required")
	}
	switch cfg.Encryption {
	case EncryptionSTARTTLS, EncryptionSSL:
	default:
		return nil, fmt.Errorf("unsupported smtp encryption mode: %q", cfg.Encryption)
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.SSL = cfg.Encryption == EncryptionSSL
	dialer.TLSConfig = &tls.Config{ServerName: cfg.Host}

	return &SMTPProvider{dialer: dialer}, nil
}

// Name returns the provider name.
func (s *SMTPProvider) Name() string {
	return "smtp"
}

// Send delivers the message in a single synchronous SMTP session.
func (s *SMTPProvider) Send(msg Message) (SendResult, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}

	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		if msg.HTML != "" {
			m.AddAlternative("text/html", msg.HTML)
		}
	} else {
		m.SetBody("text/html", msg.HTML)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return SendResult{}, fmt.Errorf("smtp send failed: %w", err)
	}

	// SMTP has no provider-side message ID to report.
	return SendResult{}, nil
}
