package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"github.com/Deazl-Comparator/deazl-sub001/internal/config"
)

// ListInvitation describes a new collaborator grant to announce
type ListInvitation struct {
	ListID       string
	ListName     string
	InviterName  string
	InviteeEmail string
	Role         string
}

// InvitationNotifier tells a user they were given access to a list
type InvitationNotifier interface {
	NotifyInvitation(ctx context.Context, inv ListInvitation) error
}

// NopNotifier drops notifications; used when SMTP is not configured
type NopNotifier struct{}

func (NopNotifier) NotifyInvitation(context.Context, ListInvitation) error { return nil }

type smtpSettings struct {
	Host     string
	Port     int
	User     string
	Password string
	FromAddr string
	FromName string
}

// EmailService handles sending emails via SMTP
type EmailService struct {
	smtp   smtpSettings
	appURL string
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		smtp: smtpSettings{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			FromAddr: cfg.SMTPFromAddr,
			FromName: cfg.SMTPFromName,
		},
		appURL: strings.TrimRight(cfg.AppURL, "/"),
	}
}

// NotifyInvitation emails the invitee a link to the shared list
func (s *EmailService) NotifyInvitation(ctx context.Context, inv ListInvitation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, htmlBody, textBody := s.invitationEmail(inv)
	return s.sendMail(s.smtp, []string{inv.InviteeEmail}, subject, htmlBody, textBody)
}

// invitationEmail renders the subject and both bodies of an invitation
func (s *EmailService) invitationEmail(inv ListInvitation) (string, string, string) {
	link := fmt.Sprintf("%s/shopping-lists/%s", s.appURL, inv.ListID)
	access := "view"
	if inv.Role == "EDITOR" {
		access = "edit"
	}

	subject := fmt.Sprintf("%s shared the list \"%s\" with you", inv.InviterName, inv.ListName)

	htmlBody := `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1 style="margin: 0;">Deazl</h1>
        <p><strong>` + html.EscapeString(inv.InviterName) + `</strong> invited you to ` + access + ` the shopping list
        <strong>` + html.EscapeString(inv.ListName) + `</strong>.</p>
        <p><a href="` + html.EscapeString(link) + `">Open the list</a></p>
    </div>
</body>
</html>`

	textBody := fmt.Sprintf("%s invited you to %s the shopping list \"%s\".\r\n\r\nOpen it here: %s\r\n",
		inv.InviterName, access, inv.ListName, link)

	return subject, htmlBody, textBody
}

// sendMail is the internal method that handles SMTP communication
func (s *EmailService) sendMail(smtpCfg smtpSettings, to []string, subject, htmlBody, textBody string) error {
	// Build the email headers and body
	boundary := "boundary-deazl-email-7f3a"

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", smtpCfg.FromName, smtpCfg.FromAddr))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary))
	msg.WriteString("\r\n")

	// Plain text part
	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: 7bit\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(textBody)
	msg.WriteString("\r\n")

	// HTML part
	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: 7bit\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	// Connect to SMTP server
	addr := fmt.Sprintf("%s:%d", smtpCfg.Host, smtpCfg.Port)

	// Create authentication if credentials provided
	var auth smtp.Auth
	if smtpCfg.User != "" && smtpCfg.Password != "" {
		auth = smtp.PlainAuth("", smtpCfg.User, smtpCfg.Password, smtpCfg.Host)
	}

	// For ports 465, use implicit TLS
	if smtpCfg.Port == 465 {
		return s.sendMailWithTLS(smtpCfg, addr, auth, to, msg.String())
	}

	// For other ports (587, 25), use STARTTLS
	return s.sendMailWithSTARTTLS(smtpCfg, addr, auth, to, msg.String())
}

// sendMailWithTLS sends mail using implicit TLS (port 465)
func (s *EmailService) sendMailWithTLS(smtpCfg smtpSettings, addr string, auth smtp.Auth, to []string, msg string) error {
	tlsConfig := &tls.Config{
		ServerName: smtpCfg.Host,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, smtpCfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(smtpCfg.FromAddr); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}

	_, err = w.Write([]byte(msg))
	if err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

// sendMailWithSTARTTLS sends mail using STARTTLS (ports 587, 25)
func (s *EmailService) sendMailWithSTARTTLS(smtpCfg smtpSettings, addr string, auth smtp.Auth, to []string, msg string) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	// Try STARTTLS if available
	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{
			ServerName: smtpCfg.Host,
		}
		if err = client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(smtpCfg.FromAddr); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}

	_, err = w.Write([]byte(msg))
	if err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
