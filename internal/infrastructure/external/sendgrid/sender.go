// Package sendgrid dispatches transactional email through the SendGrid v3
// mail API.
package sendgrid

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/gleeworld/approvals/internal/application/port"
)

// Config holds SendGrid configuration
type Config struct {
	APIKey    string
	FromName  string
	FromEmail string
}

// Sender implements port.EmailSender on top of SendGrid
type Sender struct {
	client *sendgrid.Client
	from   *sgmail.Email
	logger *zap.Logger
}

// NewSender creates a new SendGrid email sender
func NewSender(cfg Config, logger *zap.Logger) *Sender {
	return &Sender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		logger: logger,
	}
}

// SendEmail sends a single plain-text message
func (s *Sender) SendEmail(ctx context.Context, to, subject, body string) error {
	message := sgmail.NewSingleEmail(s.from, subject, sgmail.NewEmail("", to), body, body)

	res, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.logger.Error("SendGrid request failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		s.logger.Error("SendGrid rejected message",
			zap.String("to", to), zap.Int("status", res.StatusCode), zap.String("body", res.Body))
		return fmt.Errorf("sendgrid rejected message: status %d", res.StatusCode)
	}

	s.logger.Info("Email sent", zap.String("to", to), zap.Int("status", res.StatusCode))
	return nil
}

// Verify interface compliance
var _ port.EmailSender = (*Sender)(nil)
