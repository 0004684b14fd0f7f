package mailer

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLogProviderSend(t *testing.T) {
	provider := NewLogProvider(discardLogger())

	msg := Message{
		From:    "test@example.com",
		To:      []string{"recipient@example.com"},
		ReplyTo: "visitor@example.com",
		Subject: "Test Subject",
		HTML:    "<p>Test HTML</p>",
		Text:    "Test text",
	}

	result, err := provider.Send(msg)
	if err != nil {
		t.Fatalf("LogProvider.Send() error = %v", err)
	}

	if result.ProviderMessageID == "" {
		t.Error("LogProvider.Send() returned empty message ID")
	}

	if !strings.HasPrefix(result.ProviderMessageID, "log-") {
		t.Errorf("LogProvider.Send() message ID = %v, want prefix 'log-'", result.ProviderMessageID)
	}
}

func TestLogProviderName(t *testing.T) {
	provider := NewLogProvider(discardLogger())

	if got := provider.Name(); got != "log" {
		t.Errorf("LogProvider.Name() = %v, want 'log'", got)
	}
}

type recordingProvider struct {
	sent []Message
}

func (r *recordingProvider) Name() string { return "recording" }
func (r *recordingProvider) Send(msg Message) (SendResult, error) {
	r.sent = append(r.sent, msg)
	return SendResult{ProviderMessageID: "rec-1"}, nil
}

func TestMailerSendAppliesDefaultFrom(t *testing.T) {
	provider := &recordingProvider{}
	m := New(provider, "Oberoi Realty Website <no-reply@oberoirealty.example>")

	if _, err := m.Send(Message{To: []string{"sales@example.com"}, Subject: "Test"}); err != nil {
		t.Fatalf("Mailer.Send() error = %v", err)
	}

	if len(provider.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(provider.sent))
	}
	if got := provider.sent[0].From; got != "Oberoi Realty Website <no-reply@oberoirealty.example>" {
		t.Errorf("default From not applied, got %q", got)
	}
}

func TestMailerSendKeepsExplicitFrom(t *testing.T) {
	provider := &recordingProvider{}
	m := New(provider, "default@example.com")

	if _, err := m.Send(Message{From: "explicit@example.com", To: []string{"sales@example.com"}}); err != nil {
		t.Fatalf("Mailer.Send() error = %v", err)
	}

	if got := provider.sent[0].From; got != "explicit@example.com" {
		t.Errorf("explicit From overridden, got %q", got)
	}
}

func TestMailerProviderName(t *testing.T) {
	m := New(&recordingProvider{}, "default@example.com")

	if got := m.ProviderName(); got != "recording" {
		t.Errorf("Mailer.ProviderName() = %v, want 'recording'", got)
	}
}

func TestResendProviderName(t *testing.T) {
	provider := NewResendProvider("fake-api-key")

	if got := provider.Name(); got != "resend" {
		t.Errorf("ResendProvider.Name() = %v, want 'resend'", got)
	}
}

func TestNewSMTPProviderRequiresHostAndPort(t *testing.T) {
	if _, err := NewSMTPProvider(SMTPConfig{Port: 587, Encryption: EncryptionSTARTTLS}); err == nil {
		t.Error("expected error for missing host")
	}
	if _, err := NewSMTPProvider(SMTPConfig{Host: "smtp.example.com", Encryption: EncryptionSTARTTLS}); err == nil {
		t.Error("expected error for missing port")
	}
}

func TestNewSMTPProviderRejectsUnknownEncryption(t *testing.T) {
	_, err := NewSMTPProvider(SMTPConfig{Host: "smtp.example.com", Port: 587, Encryption: "tlsv9"})
	if err == nil {
		t.Fatal("expected error for unknown encryption mode")
	}
	if !strings.Contains(err.Error(), "tlsv9") {
		t.Errorf("error should name the rejected mode, got %v", err)
	}
}

func TestNewSMTPProviderAcceptsBothEncryptionModes(t *testing.T) {
	for _, mode := range []string{EncryptionSTARTTLS, EncryptionSSL} {
		provider, err := NewSMTPProvider(SMTPConfig{Host: "smtp.example.com", Port: 587, Encryption: mode})
		if err != nil {
			t.Fatalf("NewSMTPProvider(%s) error = %v", mode, err)
		}
		if got := provider.Name(); got != "smtp" {
			t.Errorf("SMTPProvider.Name() = %v, want 'smtp'", got)
		}
	}
}
