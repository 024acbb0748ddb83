// Package notify sends email alerts when a classifier flags a text as
// cyberbullying with high confidence.
package notify

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// EmailConfig holds SMTP settings for the alert sender.
type EmailConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"-"`
	To       string `json:"to"`
}

// Configured reports whether the settings are complete enough to send.
func (c EmailConfig) Configured() bool {
	return c.Host != "" && c.Port > 0 && c.User != "" && c.Password != "" && c.To != ""
}

// MaskedPassword returns the password with all but the first two characters
// replaced, for display and logs.
func (c EmailConfig) MaskedPassword() string {
	if len(c.Password) <= 2 {
		return strings.Repeat("*", len(c.Password))
	}
	return c.Password[:2] + strings.Repeat("*", len(c.Password)-2)
}

// Alert describes one flagged text.
type Alert struct {
	Text       string
	Label      string
	Confidence *float64
	ModelName  string
	DetectedAt time.Time
}

// Sender delivers alerts over SMTP. Settings can be replaced at runtime;
// reads and writes are safe for concurrent use.
type Sender struct {
	mu   sync.RWMutex
	cfg  EmailConfig
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewSender creates a Sender with the given settings.
func NewSender(cfg EmailConfig) *Sender {
	return &Sender{cfg: cfg, send: smtp.SendMail}
}

// Config returns the current settings.
func (s *Sender) Config() EmailConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update replaces the settings.
func (s *Sender) Update(cfg EmailConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

// Send delivers one alert email synchronously.
func (s *Sender) Send(alert Alert) error {
	cfg := s.Config()
	if !cfg.Configured() {
		return errors.NewConfigurationError("smtp", "incomplete email settings")
	}

	msg := buildMessage(cfg, alert)
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	auth := smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	if err := s.send(addr, auth, cfg.User, []string{cfg.To}, msg); err != nil {
		return errors.Wrap(err, "notify: send alert")
	}
	return nil
}

// SendAsync delivers the alert in the background. Failures are logged, not
// returned; an alert must never block or fail a prediction.
func (s *Sender) SendAsync(alert Alert) {
	go func() {
		if err := s.Send(alert); err != nil {
			slog.Warn("alert email failed", slog.String("model", alert.ModelName), slog.Any("error", err))
		}
	}()
}

func buildMessage(cfg EmailConfig, alert Alert) []byte {
	confidence := "n/a"
	if alert.Confidence != nil {
		confidence = fmt.Sprintf("%.1f%%", *alert.Confidence*100)
	}
	detectedAt := alert.DetectedAt
	if detectedAt.IsZero() {
		detectedAt = time.Now()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", cfg.User)
	fmt.Fprintf(&b, "To: %s\r\n", cfg.To)
	fmt.Fprintf(&b, "Subject: Cyberbullying Alert - %s\r\n", alert.Label)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString("<html><body>")
	b.WriteString("<h2>Cyberbullying Detection Alert</h2>")
	fmt.Fprintf(&b, "<p><b>Classification:</b> %s</p>", alert.Label)
	fmt.Fprintf(&b, "<p><b>Confidence:</b> %s</p>", confidence)
	fmt.Fprintf(&b, "<p><b>Model:</b> %s</p>", alert.ModelName)
	fmt.Fprintf(&b, "<p><b>Detected at:</b> %s</p>", detectedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "<p><b>Text:</b></p><blockquote>%s</blockquote>", alert.Text)
	b.WriteString("</body></html>")
	return []byte(b.String())
}
