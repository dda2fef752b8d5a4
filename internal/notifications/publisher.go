package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// BookingEventPublisher adapts the notification pipeline to the event
// publisher contract the booking and ticket services expect.
type BookingEventPublisher struct {
	service NotificationService
}

// NewBookingEventPublisher creates a publisher backed by the notification service
func NewBookingEventPublisher(service NotificationService) *BookingEventPublisher {
	return &BookingEventPublisher{service: service}
}

// PublishBookingEvent queues an email notification for a booking lifecycle event
func (p *BookingEventPublisher) PublishBookingEvent(ctx context.Context, eventType string,
	bookingID uuid.UUID, email string, payload map[string]interface{}) error {

	notificationType := mapEventType(eventType)
	addDisplayAmounts(payload)

	name := ""
	if n, ok := payload["recipient_name"].(string); ok {
		name = n
	}

	builder := NewNotificationBuilder().
		WithType(notificationType).
		WithRecipient(email, name).
		WithTemplateData(payload).
		WithBookingContext(bookingID)

	if raw, ok := payload["ticket_id"].(string); ok {
		if ticketID, err := uuid.Parse(raw); err == nil {
			builder = builder.WithTicketContext(ticketID)
		}
	}

	notification := builder.
		WithSubject(generateSubject(notificationType, payload)).
		Build()

	return p.service.SendNotification(ctx, notification)
}

// addDisplayAmounts turns minor-unit amounts into display strings for
// the email templates ("65.00 GHS").
func addDisplayAmounts(payload map[string]interface{}) {
	currency, _ := payload["currency"].(string)
	if minor, ok := asMinorUnits(payload["amount_minor"]); ok {
		payload["amount"] = formatAmount(minor, currency)
	}
	if minor, ok := asMinorUnits(payload["refund_minor"]); ok {
		payload["refund_amount"] = formatAmount(minor, currency)
	}
}

func asMinorUnits(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func formatAmount(minor int64, currency string) string {
	if currency == "" {
		currency = "GHS"
	}
	return fmt.Sprintf("%d.%02d %s", minor/100, minor%100, currency)
}

func mapEventType(eventType string) NotificationType {
	switch eventType {
	case "BOOKING_CONFIRMED":
		return NotificationTypeBookingConfirmed
	case "BOOKING_CANCELLED":
		return NotificationTypeBookingCancelled
	case "TICKETS_ISSUED":
		return NotificationTypeTicketsIssued
	case "REFUND_REQUESTED":
		return NotificationTypeRefundRequested
	case "WELCOME":
		return NotificationTypeWelcome
	default:
		return NotificationType(eventType)
	}
}

// generateSubject generates appropriate subjects for each notification type
func generateSubject(notificationType NotificationType, data map[string]interface{}) string {
	switch notificationType {
	case NotificationTypeBookingConfirmed:
		if origin, ok := data["origin"]; ok {
			if dest, ok := data["destination"]; ok {
				return fmt.Sprintf("✅ Booking confirmed: %v to %v", origin, dest)
			}
		}
		return "✅ Your booking is confirmed!"

	case NotificationTypeBookingCancelled:
		return "Your booking has been cancelled"

	case NotificationTypeTicketsIssued:
		if date, ok := data["travel_date"]; ok {
			return fmt.Sprintf("🎫 Your tickets for %v are ready", date)
		}
		return "🎫 Your tickets are ready"

	case NotificationTypeRefundRequested:
		return "💸 Your refund is being processed"

	case NotificationTypeWelcome:
		return "👋 Welcome to QuickRide!"

	default:
		return "📧 Notification from QuickRide"
	}
}
