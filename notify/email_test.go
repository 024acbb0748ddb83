package notify

import (
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() EmailConfig {
	return EmailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		User:     "alerts@example.com",
		Password: "hunter2secret",
		To:       "moderator@example.com",
	}
}

func TestConfigured(t *testing.T) {
	assert.True(t, validConfig().Configured())

	incomplete := validConfig()
	incomplete.Password = ""
	assert.False(t, incomplete.Configured())

	assert.False(t, EmailConfig{}.Configured())
}

func TestMaskedPassword(t *testing.T) {
	cfg := validConfig()
	masked := cfg.MaskedPassword()
	assert.Equal(t, "hu***********", masked)
	assert.NotContains(t, masked, "hunter2")

	short := EmailConfig{Password: "ab"}
	assert.Equal(t, "**", short.MaskedPassword())
}

func TestSendUsesSMTPSettings(t *testing.T) {
	sender := NewSender(validConfig())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	sender.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	confidence := 0.93
	err := sender.Send(Alert{
		Text:       "you are a stupid loser",
		Label:      "Cyberbullying",
		Confidence: &confidence,
		ModelName:  "TF-IDF + SVM",
		DetectedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "alerts@example.com", gotFrom)
	assert.Equal(t, []string{"moderator@example.com"}, gotTo)

	body := string(gotMsg)
	assert.Contains(t, body, "Subject: Cyberbullying Alert - Cyberbullying")
	assert.Contains(t, body, "93.0%")
	assert.Contains(t, body, "TF-IDF + SVM")
	assert.Contains(t, body, "you are a stupid loser")
	assert.Contains(t, body, "text/html")
}

func TestSendWithoutConfidence(t *testing.T) {
	sender := NewSender(validConfig())
	var gotMsg []byte
	sender.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotMsg = msg
		return nil
	}

	require.NoError(t, sender.Send(Alert{Text: "flagged", Label: "Cyberbullying", ModelName: "m"}))
	assert.Contains(t, string(gotMsg), "n/a")
}

func TestSendUnconfigured(t *testing.T) {
	sender := NewSender(EmailConfig{})
	err := sender.Send(Alert{Text: "x", Label: "y"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "smtp"))
}

func TestUpdateReplacesSettings(t *testing.T) {
	sender := NewSender(EmailConfig{})
	assert.False(t, sender.Config().Configured())

	sender.Update(validConfig())
	assert.True(t, sender.Config().Configured())
	assert.Equal(t, "smtp.example.com", sender.Config().Host)
}
