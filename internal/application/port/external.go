package port

import "context"

// EmailSender dispatches a single email message
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender dispatches a single text message
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}
