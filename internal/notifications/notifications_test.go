package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationService) SendBatchNotifications(ctx context.Context, notifications []*EmailNotification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *MockNotificationService) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockNotificationService) Stop() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockNotificationService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestNotificationBuilder(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		n := NewNotificationBuilder().Build()

		assert.NotEqual(t, uuid.Nil, n.ID)
		assert.Equal(t, NotificationStatusPending, n.Status)
		assert.Equal(t, 3, n.MaxRetries)
		assert.Zero(t, n.RetryCount)
		assert.NotNil(t, n.TemplateData)
	})

	t.Run("typeSetsPriority", func(t *testing.T) {
		n := NewNotificationBuilder().
			WithType(NotificationTypeTicketsIssued).
			Build()

		assert.Equal(t, NotificationPriorityHigh, n.Priority)

		n = NewNotificationBuilder().
			WithType(NotificationTypeBookingConfirmed).
			Build()

		assert.Equal(t, NotificationPriorityMedium, n.Priority)

		n = NewNotificationBuilder().
			WithType(NotificationTypeWelcome).
			Build()

		assert.Equal(t, NotificationPriorityLow, n.Priority)
	})

	t.Run("fullChain", func(t *testing.T) {
		bookingID := uuid.New()
		ticketID := uuid.New()

		n := NewNotificationBuilder().
			WithType(NotificationTypeBookingConfirmed).
			WithRecipient("ama@example.com", "Ama Mensah").
			WithSubject("Your trip is booked").
			WithTemplateData(map[string]interface{}{"origin": "accra"}).
			WithBookingContext(bookingID).
			WithTicketContext(ticketID).
			Build()

		assert.Equal(t, "ama@example.com", n.RecipientEmail)
		assert.Equal(t, "Ama Mensah", n.RecipientName)
		assert.Equal(t, "Your trip is booked", n.Subject)
		assert.Equal(t, "accra", n.TemplateData["origin"])
		require.NotNil(t, n.BookingID)
		assert.Equal(t, bookingID, *n.BookingID)
		require.NotNil(t, n.TicketID)
		assert.Equal(t, ticketID, *n.TicketID)
	})

	t.Run("nilTemplateDataKeepsDefault", func(t *testing.T) {
		n := NewNotificationBuilder().WithTemplateData(nil).Build()
		assert.NotNil(t, n.TemplateData)
	})
}

func TestEmailNotificationRetryLifecycle(t *testing.T) {
	t.Run("retriesUntilExhausted", func(t *testing.T) {
		n := NewNotificationBuilder().WithType(NotificationTypeWelcome).Build()

		n.MarkFailed(errors.New("smtp timeout"))
		require.NotNil(t, n.LastError)
		assert.Equal(t, "smtp timeout", *n.LastError)
		assert.True(t, n.ShouldRetry())

		n.IncrementRetry()
		assert.Equal(t, NotificationStatusRetrying, n.Status)

		n.Status = NotificationStatusFailed
		n.IncrementRetry()
		n.Status = NotificationStatusFailed
		n.IncrementRetry()

		assert.Equal(t, 3, n.RetryCount)
		assert.Equal(t, NotificationStatusExpired, n.Status)
		assert.False(t, n.ShouldRetry())
	})

	t.Run("expiredNotificationsNotRetried", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		n := NewNotificationBuilder().WithExpiration(&past).Build()
		n.MarkFailed(errors.New("smtp timeout"))

		assert.True(t, n.IsExpired())
		assert.False(t, n.ShouldRetry())
	})

	t.Run("markSent", func(t *testing.T) {
		n := NewNotificationBuilder().Build()
		n.MarkSent()

		assert.Equal(t, NotificationStatusSent, n.Status)
		require.NotNil(t, n.SentAt)
	})
}

func TestGetPartitionKey(t *testing.T) {
	n := NewNotificationBuilder().
		WithRecipient("kwame@example.com", "Kwame").
		Build()

	assert.Equal(t, "kwame@example.com", n.GetPartitionKey())
}

func TestMapEventType(t *testing.T) {
	assert.Equal(t, NotificationTypeBookingConfirmed, mapEventType("BOOKING_CONFIRMED"))
	assert.Equal(t, NotificationTypeBookingCancelled, mapEventType("BOOKING_CANCELLED"))
	assert.Equal(t, NotificationTypeTicketsIssued, mapEventType("TICKETS_ISSUED"))
	assert.Equal(t, NotificationTypeRefundRequested, mapEventType("REFUND_REQUESTED"))
	assert.Equal(t, NotificationTypeWelcome, mapEventType("WELCOME"))
	assert.Equal(t, NotificationType("SOMETHING_ELSE"), mapEventType("SOMETHING_ELSE"))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "65.00 GHS", formatAmount(6500, "GHS"))
	assert.Equal(t, "45.50 GHS", formatAmount(4550, ""))
	assert.Equal(t, "0.05 NGN", formatAmount(5, "NGN"))
}

func TestAddDisplayAmounts(t *testing.T) {
	t.Run("convertsMinorUnits", func(t *testing.T) {
		payload := map[string]interface{}{
			"currency":     "GHS",
			"amount_minor": int64(13500),
			"refund_minor": 12150,
		}

		addDisplayAmounts(payload)

		assert.Equal(t, "135.00 GHS", payload["amount"])
		assert.Equal(t, "121.50 GHS", payload["refund_amount"])
	})

	t.Run("handlesJSONDecodedFloats", func(t *testing.T) {
		payload := map[string]interface{}{"amount_minor": float64(4500)}

		addDisplayAmounts(payload)

		assert.Equal(t, "45.00 GHS", payload["amount"])
	})

	t.Run("untouchedWithoutAmounts", func(t *testing.T) {
		payload := map[string]interface{}{"origin": "accra"}

		addDisplayAmounts(payload)

		assert.NotContains(t, payload, "amount")
		assert.NotContains(t, payload, "refund_amount")
	})
}

func TestBookingEventPublisher(t *testing.T) {
	t.Run("buildsNotificationFromPayload", func(t *testing.T) {
		service := new(MockNotificationService)
		publisher := NewBookingEventPublisher(service)

		bookingID := uuid.New()
		ticketID := uuid.New()

		var captured *EmailNotification
		service.On("SendNotification", mock.Anything, mock.AnythingOfType("*notifications.EmailNotification")).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*EmailNotification)
			}).
			Return(nil)

		err := publisher.PublishBookingEvent(context.Background(), "BOOKING_CONFIRMED", bookingID,
			"ama@example.com", map[string]interface{}{
				"recipient_name": "Ama Mensah",
				"ticket_id":      ticketID.String(),
				"origin":         "accra",
				"destination":    "kumasi",
				"amount_minor":   int64(6500),
				"currency":       "GHS",
			})

		require.NoError(t, err)
		require.NotNil(t, captured)
		assert.Equal(t, NotificationTypeBookingConfirmed, captured.Type)
		assert.Equal(t, "ama@example.com", captured.RecipientEmail)
		assert.Equal(t, "Ama Mensah", captured.RecipientName)
		assert.Equal(t, "✅ Booking confirmed: accra to kumasi", captured.Subject)
		assert.Equal(t, "65.00 GHS", captured.TemplateData["amount"])
		require.NotNil(t, captured.BookingID)
		assert.Equal(t, bookingID, *captured.BookingID)
		require.NotNil(t, captured.TicketID)
		assert.Equal(t, ticketID, *captured.TicketID)
	})

	t.Run("propagatesSendFailure", func(t *testing.T) {
		service := new(MockNotificationService)
		publisher := NewBookingEventPublisher(service)

		service.On("SendNotification", mock.Anything, mock.Anything).
			Return(errors.New("producer closed"))

		err := publisher.PublishBookingEvent(context.Background(), "BOOKING_CANCELLED",
			uuid.New(), "kwame@example.com", map[string]interface{}{})

		assert.Error(t, err)
	})
}

func TestGenerateSubject(t *testing.T) {
	assert.Equal(t, "✅ Booking confirmed: accra to tamale",
		generateSubject(NotificationTypeBookingConfirmed, map[string]interface{}{
			"origin": "accra", "destination": "tamale",
		}))
	assert.Equal(t, "✅ Your booking is confirmed!",
		generateSubject(NotificationTypeBookingConfirmed, map[string]interface{}{}))
	assert.Equal(t, "🎫 Your tickets for 2026-09-15 are ready",
		generateSubject(NotificationTypeTicketsIssued, map[string]interface{}{
			"travel_date": "2026-09-15",
		}))
	assert.Equal(t, "💸 Your refund is being processed",
		generateSubject(NotificationTypeRefundRequested, nil))
	assert.Equal(t, "👋 Welcome to QuickRide!",
		generateSubject(NotificationTypeWelcome, nil))
}
