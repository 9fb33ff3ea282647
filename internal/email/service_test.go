package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollenow/pollenow/internal/config"
)

func TestSendPasswordResetEmail(t *testing.T) {
	s := NewService(config.EmailConfig{
		SMTPHost:    "smtp.example.com",
		SMTPPort:    "587",
		SMTPUser:    "noreply@example.com",
		FrontendURL: "https://pollenow.example.com",
	}, "1 hour")

	var gotAddr string
	var gotTo []string
	var gotMsg string
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	require.NoError(t, s.SendPasswordResetEmail(context.Background(), "a@example.com", "abc123"))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"a@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Reset your password")
	assert.Contains(t, gotMsg, "https://pollenow.example.com/reset-password?token=abc123")
	assert.Contains(t, gotMsg, "expires in 1 hour")
}

func TestSendPasswordResetEmail_SendFailure(t *testing.T) {
	s := NewService(config.EmailConfig{SMTPHost: "smtp.example.com", SMTPPort: "587"}, "1 hour")
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := s.SendPasswordResetEmail(context.Background(), "a@example.com", "abc123")
	assert.ErrorContains(t, err, "connection refused")
}

func TestFormatTTL(t *testing.T) {
	assert.Equal(t, "1 hour", FormatTTL(time.Hour))
	assert.Equal(t, "2 hours", FormatTTL(2*time.Hour))
	assert.Equal(t, "90 minutes", FormatTTL(90*time.Minute))
	assert.Equal(t, "1 minute", FormatTTL(time.Minute))
}
