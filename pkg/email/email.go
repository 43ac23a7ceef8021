package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotConfigured is returned when no SMTP host is set.
var ErrNotConfigured = errors.New("email: SMTP is not configured")

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   sendFunc
	now    func() time.Time
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail, now: time.Now}
}

// IsConfigured reports whether receipts can be sent by email.
func (s *EmailService) IsConfigured() bool {
	return s.config.SMTPHost != "" && s.config.FromEmail != ""
}

// Receipt is one receipt message. Text is the plain receipt body, Title its heading.
type Receipt struct {
	To       string
	Subject  string
	Title    string
	Text     string
	Business string
}

// SendReceipt mails a receipt and returns the Message-ID it was sent with.
func (s *EmailService) SendReceipt(ctx context.Context, r Receipt) (string, error) {
	if !s.IsConfigured() {
		return "", ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := renderReceipt(r)
	if err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}

	messageID := s.messageID()
	msg := s.buildHTMLEmail(r.To, r.Subject, messageID, body)

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}
	if err := s.send(addr, auth, s.config.FromEmail, []string{r.To}, msg); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return messageID, nil
}

func (s *EmailService) messageID() string {
	domain := "localhost"
	if _, d, ok := strings.Cut(s.config.FromEmail, "@"); ok && d != "" {
		domain = d
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

func (s *EmailService) buildHTMLEmail(to, subject, messageID, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"Message-ID: %s\r\n"+
			"Date: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		mime.QEncoding.Encode("utf-8", s.config.FromName),
		s.config.FromEmail,
		to,
		mime.QEncoding.Encode("utf-8", subject),
		messageID,
		s.now().Format(time.RFC1123Z),
	)
	return []byte(headers + htmlBody)
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
</head>
<body style="margin: 0; padding: 24px; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="max-width: 560px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; border-collapse: collapse;">
        <tr>
            <td style="background-color: #1a5fb4; padding: 24px; text-align: center;">
                <h1 style="color: #ffffff; margin: 0; font-size: 22px;">{{.Business}}</h1>
            </td>
        </tr>
        <tr>
            <td style="padding: 24px;">
                <h2 style="color: #1a1a2e; margin: 0 0 16px 0; font-size: 18px;">{{.Title}}</h2>
                <pre style="font-family: 'Courier New', monospace; font-size: 14px; line-height: 1.5; white-space: pre-wrap; color: #2d3748; margin: 0;">{{.Text}}</pre>
            </td>
        </tr>
    </table>
</body>
</html>
`))

func renderReceipt(r Receipt) (string, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}
