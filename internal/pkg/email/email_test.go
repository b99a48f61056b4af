package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func TestSendInvitation_SkipsWhenSMTPNotConfigured(t *testing.T) {
	calls := 0
	svc, err := newEmailService(config.SMTPConfig{MaxRetries: 3}, func(string, smtp.Auth, string, []string, []byte) error {
		calls++
		return nil
	}, 0)
	require.NoError(t, err)

	err = svc.SendInvitation(context.Background(), "a@b.com", "Acme", "http://localhost:3000/login")
	assert.NoError(t, err)
	assert.Equal(t, 0, calls)
}

func TestSendInvitation_RendersTemplate(t *testing.T) {
	var sent []recordedMail
	cfg := config.SMTPConfig{Host: "smtp.test", Port: 2525, From: "no-reply@acme.test", FromName: "Acme", MaxRetries: 3}
	svc, err := newEmailService(cfg, func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, recordedMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}, 0)
	require.NoError(t, err)

	err = svc.SendInvitation(context.Background(), "a@b.com", "Acme Corp", "http://localhost:3000/login")
	require.NoError(t, err)

	require.Len(t, sent, 1)
	assert.Equal(t, "smtp.test:2525", sent[0].addr)
	assert.Equal(t, []string{"a@b.com"}, sent[0].to)
	assert.Contains(t, sent[0].msg, "Subject: Invitation to join Acme Corp\r\n")
	assert.Contains(t, sent[0].msg, "http://localhost:3000/login")
	assert.True(t, strings.Contains(sent[0].msg, "<strong>a@b.com</strong>"))
}

func TestSendInvitation_EncodesHeaderValues(t *testing.T) {
	var sent []recordedMail
	cfg := config.SMTPConfig{Host: "smtp.test", Port: 25, From: "no-reply@acme.test", FromName: "Acme\r\nX-Injected: 1", MaxRetries: 1}
	svc, err := newEmailService(cfg, func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, recordedMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}, 0)
	require.NoError(t, err)

	err = svc.SendInvitation(context.Background(), "a@b.com", "Acme\r\nBcc: evil@x.test", "http://x")
	require.NoError(t, err)

	require.Len(t, sent, 1)
	assert.Equal(t, []string{"a@b.com"}, sent[0].to)
	assert.NotContains(t, sent[0].msg, "\r\nBcc:")
	assert.NotContains(t, sent[0].msg, "\r\nX-Injected:")
	assert.Contains(t, sent[0].msg, "\r\nSubject: =?UTF-8?q?Invitation_to_join_Acme=0D=0A")
	assert.Contains(t, sent[0].msg, "From: =?UTF-8?q?Acme=0D=0A")
}

func TestSendInvitation_RetriesThenFails(t *testing.T) {
	calls := 0
	cfg := config.SMTPConfig{Host: "smtp.test", Port: 25, From: "no-reply@acme.test", MaxRetries: 3}
	svc, err := newEmailService(cfg, func(string, smtp.Auth, string, []string, []byte) error {
		calls++
		return errors.New("421 service not available")
	}, 0)
	require.NoError(t, err)

	err = svc.SendInvitation(context.Background(), "a@b.com", "Acme", "http://x")
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorContains(t, err, "421 service not available")
}

func TestSendInvitation_RecoversOnRetry(t *testing.T) {
	calls := 0
	cfg := config.SMTPConfig{Host: "smtp.test", Port: 25, From: "no-reply@acme.test", MaxRetries: 3}
	svc, err := newEmailService(cfg, func(string, smtp.Auth, string, []string, []byte) error {
		calls++
		if calls == 1 {
			return errors.New("temporary failure")
		}
		return nil
	}, 0)
	require.NoError(t, err)

	assert.NoError(t, svc.SendInvitation(context.Background(), "a@b.com", "Acme", "http://x"))
	assert.Equal(t, 2, calls)
}
