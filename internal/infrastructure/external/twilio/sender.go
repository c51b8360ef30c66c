// Package twilio dispatches SMS through the Twilio messaging API, the
// carrier bridge the club already uses for group texts.
package twilio

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/gleeworld/approvals/internal/application/port"
)

// Config holds Twilio configuration
type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Sender implements port.SMSSender on top of Twilio
type Sender struct {
	client *twilio.RestClient
	from   string
	logger *zap.Logger
}

// NewSender creates a new Twilio SMS sender
func NewSender(cfg Config, logger *zap.Logger) *Sender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &Sender{
		client: client,
		from:   cfg.FromNumber,
		logger: logger,
	}
}

// SendSMS sends a single text message
func (s *Sender) SendSMS(ctx context.Context, to, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		s.logger.Error("Twilio send failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("twilio send: %w", err)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	s.logger.Info("SMS sent", zap.String("to", to), zap.String("message_sid", sid))
	return nil
}

// Verify interface compliance
var _ port.SMSSender = (*Sender)(nil)
