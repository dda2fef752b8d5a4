package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"quickride/internal/shared/config"
)

// EmailService interface for sending emails
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
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
	Timeout   time.Duration
}

// NewSMTPConfig builds SMTP settings from application config
func NewSMTPConfig(cfg config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  "QuickRide",
		UseTLS:    true,
		Timeout:   30 * time.Second,
	}
}

// SMTPEmailService is a real SMTP implementation of the EmailService interface
type SMTPEmailService struct {
	config *SMTPConfig
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(config); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}

	return &SMTPEmailService{config: config}, nil
}

// validateSMTPConfig validates SMTP configuration
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
		return fmt.Errorf("from email is required")
	}

	return nil
}

// SendNotification renders and sends a notification via email
func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	log.Printf("📧 [SMTP] Sending %s notification to %s (%s)",
		notification.Type,
		notification.RecipientEmail,
		notification.RecipientName,
	)

	htmlBody, textBody := s.renderContent(notification)

	return s.SendHTML(ctx, notification.RecipientEmail, notification.Subject, htmlBody, textBody)
}

// SendHTML sends a multipart HTML email
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

// sendWithSTARTTLS sends email with STARTTLS encryption (recommended for Gmail)
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

	if auth != nil && s.config.Username != "" {
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

	var b strings.Builder
	for k, v := range headers {
		b.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	b.WriteString("\r\n")

	if textBody != "" {
		b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(textBody + "\r\n")
	}

	if htmlBody != "" {
		b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(htmlBody + "\r\n")
	}

	b.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return []byte(b.String())
}

// renderContent creates email content for each notification type
func (s *SMTPEmailService) renderContent(notification *EmailNotification) (string, string) {
	data := notification.TemplateData
	name := notification.RecipientName
	if name == "" {
		name = "traveller"
	}

	switch notification.Type {
	case NotificationTypeBookingConfirmed:
		htmlBody := fmt.Sprintf(`
			<h2>✅ Booking Confirmed</h2>
			<p>Hi %s,</p>
			<p>Your trip from <strong>%v</strong> to <strong>%v</strong> on %v at %v is confirmed.</p>
			<p>Seats: %v</p>
			<p>Amount Paid: %v</p>
			<p>Your tickets will arrive in a separate email shortly.</p>
			<p>Safe travels,<br>QuickRide Team</p>
		`,
			name, data["origin"], data["destination"], data["travel_date"], data["time_slot"],
			data["seat_count"], data["amount"],
		)

		textBody := fmt.Sprintf(
			"Hi %s,\n\nYour trip from %v to %v on %v at %v is confirmed.\nSeats: %v\nAmount Paid: %v\n\nYour tickets will arrive in a separate email shortly.\n\nSafe travels,\nQuickRide Team",
			name, data["origin"], data["destination"], data["travel_date"], data["time_slot"],
			data["seat_count"], data["amount"],
		)

		return htmlBody, textBody

	case NotificationTypeTicketsIssued:
		htmlBody := fmt.Sprintf(`
			<h2>🎫 Your Tickets Are Ready</h2>
			<p>Hi %s,</p>
			<p>Your tickets for the trip on %v at %v have been issued.</p>
			<p>Ticket Numbers: <strong>%v</strong></p>
			<p>Seats: %v</p>
			<p>Please have your ticket number ready when boarding.</p>
			<p>Safe travels,<br>QuickRide Team</p>
		`,
			name, data["travel_date"], data["time_slot"], data["ticket_numbers"], data["seat_labels"],
		)

		textBody := fmt.Sprintf(
			"Hi %s,\n\nYour tickets for the trip on %v at %v have been issued.\nTicket Numbers: %v\nSeats: %v\n\nPlease have your ticket number ready when boarding.\n\nSafe travels,\nQuickRide Team",
			name, data["travel_date"], data["time_slot"], data["ticket_numbers"], data["seat_labels"],
		)

		return htmlBody, textBody

	case NotificationTypeBookingCancelled:
		htmlBody := fmt.Sprintf(`
			<h2>Booking Cancelled</h2>
			<p>Hi %s,</p>
			<p>Your booking for the trip on %v at %v has been cancelled.</p>
			<p>If you did not request this, please contact support.</p>
			<p>Best regards,<br>QuickRide Team</p>
		`,
			name, data["travel_date"], data["time_slot"],
		)

		textBody := fmt.Sprintf(
			"Hi %s,\n\nYour booking for the trip on %v at %v has been cancelled.\nIf you did not request this, please contact support.\n\nBest regards,\nQuickRide Team",
			name, data["travel_date"], data["time_slot"],
		)

		return htmlBody, textBody

	case NotificationTypeRefundRequested:
		htmlBody := fmt.Sprintf(`
			<h2>💸 Refund In Progress</h2>
			<p>Hi %s,</p>
			<p>A refund of <strong>%v</strong> has been requested for your payment.</p>
			<p>Reference: %v</p>
			<p>Refunds usually arrive within 5-7 business days.</p>
			<p>Best regards,<br>QuickRide Team</p>
		`,
			name, data["refund_amount"], data["payment_ref"],
		)

		textBody := fmt.Sprintf(
			"Hi %s,\n\nA refund of %v has been requested for your payment.\nReference: %v\nRefunds usually arrive within 5-7 business days.\n\nBest regards,\nQuickRide Team",
			name, data["refund_amount"], data["payment_ref"],
		)

		return htmlBody, textBody

	case NotificationTypeWelcome:
		htmlBody := fmt.Sprintf(`
			<h2>👋 Welcome to QuickRide</h2>
			<p>Hi %s,</p>
			<p>Your account is ready. Search routes, pick a bus, and book your next trip in minutes.</p>
			<p>Safe travels,<br>QuickRide Team</p>
		`, name)

		textBody := fmt.Sprintf(
			"Hi %s,\n\nYour account is ready. Search routes, pick a bus, and book your next trip in minutes.\n\nSafe travels,\nQuickRide Team",
			name,
		)

		return htmlBody, textBody

	default:
		htmlBody := fmt.Sprintf(`
			<h2>%s</h2>
			<p>Hi %s,</p>
			<p>This is a notification from QuickRide.</p>
			<p>Best regards,<br>QuickRide Team</p>
		`, notification.Subject, name)

		textBody := fmt.Sprintf(
			"Hi %s,\n\nThis is a notification from QuickRide.\n\nBest regards,\nQuickRide Team",
			name,
		)

		return htmlBody, textBody
	}
}

// noopEmailService is used when SMTP is not configured; deliveries are logged only.
type noopEmailService struct{}

func (noopEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	log.Printf("📧 [NOOP] Would send %s notification to %s: %s",
		notification.Type, notification.RecipientEmail, notification.Subject)
	return nil
}

func (noopEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	log.Printf("📧 [NOOP] Would send email to %s: %s", to, subject)
	return nil
}
