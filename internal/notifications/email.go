package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strconv"
	"time"

	"seatify/internal/shared/config"
)

// EmailService interface for sending emails
type EmailService interface {
	SendNotification(ctx context.Context, notification *Notification) error
	SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

// NewSMTPConfig builds the SMTP settings from application configuration.
func NewSMTPConfig(cfg *config.Config) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  "Seatify",
		UseTLS:    true,
	}
}

// SMTPEmailService is a real SMTP implementation of the EmailService interface
type SMTPEmailService struct {
	config    *SMTPConfig
	templates map[Type]*template.Template
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(config); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}

	return &SMTPEmailService{
		config: config,
		templates: map[Type]*template.Template{
			TypeBookingConfirmation: confirmationTemplate,
			TypeBookingCancellation: cancellationTemplate,
		},
	}, nil
}

func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil {
		return fmt.Errorf("SMTP config is nil")
	}
	if config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if config.FromEmail == "" {
		return fmt.Errorf("From email is required")
	}
	return nil
}

// SendNotification renders the notification's template and sends it.
func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *Notification) error {
	tmpl, exists := s.templates[notification.Type]
	if !exists {
		return fmt.Errorf("no template for notification type %s", notification.Type)
	}

	var htmlBuf bytes.Buffer
	if err := tmpl.Execute(&htmlBuf, notification); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	textBody := fmt.Sprintf("Hi %s, your booking for %s (seat %s) is %s.",
		notification.RecipientName,
		notification.Data.EventName,
		notification.Data.SeatLabel,
		statusWord(notification.Type),
	)

	return s.SendHTML(ctx, notification.RecipientEmail, notification.Subject, htmlBuf.String(), textBody)
}

func statusWord(t Type) string {
	if t == TypeBookingCancellation {
		return "cancelled"
	}
	return "confirmed"
}

// SendHTML sends an HTML email
func (s *SMTPEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	message := s.buildMessage(to, subject, htmlBody, textBody)

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var err error
	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, to, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	}

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("📧 [SMTP] Email sent successfully to %s", to)
	return nil
}

// sendWithSTARTTLS sends email with STARTTLS encryption
func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsconfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         s.config.Host,
	}

	if err = client.StartTLS(tlsconfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return w.Close()
}

// buildMessage creates the email message with proper headers
func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Date"] = time.Now().Format(time.RFC1123Z)

	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	headers["Content-Type"] = fmt.Sprintf("multipart/alternative; boundary=%s", boundary)

	var buf bytes.Buffer
	for k, v := range headers {
		fmt.Fprintf(&buf, "%s: %s\r\n", k, v)
	}
	buf.WriteString("\r\n")

	if textBody != "" {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		buf.WriteString(textBody + "\r\n")
	}

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	buf.WriteString(htmlBody + "\r\n")
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	return buf.Bytes()
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`
<html>
<body style="font-family: sans-serif; color: #222;">
<h2>Your seat is confirmed</h2>
<p>Hi {{.RecipientName}},</p>
<p>Your booking for <strong>{{.Data.EventName}}</strong> is confirmed.</p>
<ul>
<li>Seat: {{.Data.SeatLabel}}</li>
<li>Location: {{.Data.Location}}</li>
<li>Starts: {{.Data.StartTime.Format "Jan 2, 2006 3:04 PM"}}</li>
<li>Ends: {{.Data.EndTime.Format "Jan 2, 2006 3:04 PM"}}</li>
</ul>
{{if .Data.QRImageURL}}
<p>Show this QR code at the entrance:</p>
<p><img src="{{.Data.QRImageURL}}" alt="Entry QR code" width="256" height="256"></p>
{{else}}
<p><a href="{{.Data.ScanURL}}">Open your entry pass</a></p>
{{end}}
<p>See you there!<br>The Seatify team</p>
</body>
</html>
`))

var cancellationTemplate = template.Must(template.New("cancellation").Parse(`
<html>
<body style="font-family: sans-serif; color: #222;">
<h2>Booking cancelled</h2>
<p>Hi {{.RecipientName}},</p>
<p>Your booking for <strong>{{.Data.EventName}}</strong> (seat {{.Data.SeatLabel}}) has been cancelled.</p>
<p>The seat has been released and is available to other attendees.</p>
<p>The Seatify team</p>
</body>
</html>
`))
