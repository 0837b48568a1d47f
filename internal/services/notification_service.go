package services

import (
	"context"
	"fmt"

	"sink_quoter/internal/models"
)

// MessageSender delivers a plain text message to a phone number.
type MessageSender interface {
	SendTextMessage(ctx context.Context, phone, message string) error
}

type NotificationService interface {
	NotifyQuoteSent(ctx context.Context, quote *models.Quote, customer *models.Customer) error
}

type notificationService struct {
	sender MessageSender
}

func NewNotificationService(sender MessageSender) NotificationService {
	return &notificationService{sender: sender}
}

// NotifyQuoteSent tells the customer their quote is ready. Customers without
// a phone number are skipped.
func (s *notificationService) NotifyQuoteSent(ctx context.Context, quote *models.Quote, customer *models.Customer) error {
	if customer == nil || customer.Phone == "" {
		return nil
	}
	return s.sender.SendTextMessage(ctx, customer.Phone, quoteSentMessage(quote, customer))
}

func quoteSentMessage(quote *models.Quote, customer *models.Customer) string {
	msg := fmt.Sprintf("Hello %s, your sink installation quote %s is ready. Total: %s.",
		customer.Name, quote.QuoteNumber, quote.Total.StringFixed(2))
	if quote.ValidUntil != nil {
		msg += fmt.Sprintf(" Valid until %s.", quote.ValidUntil.Format("January 2, 2006"))
	}
	return msg
}
