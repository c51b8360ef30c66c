package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gleeworld/approvals/internal/application/port"
	"github.com/gleeworld/approvals/internal/domain/entity"
	domainwf "github.com/gleeworld/approvals/internal/domain/workflow"
)

// NotificationService records and dispatches outbound messages describing a
// request's new state. One notification per applied transition; a dispatch
// failure marks the record FAILED but the state change stands.
type NotificationService interface {
	NotifyTransition(ctx context.Context, req *entity.Request, note string) error
	NotifySubmitted(ctx context.Context, req *entity.Request) error
}

type notificationServiceImpl struct {
	profileRepo      port.ProfileRepository
	notificationRepo port.NotificationRepository
	emailSender      port.EmailSender
	smsSender        port.SMSSender
	logger           Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	profileRepo port.ProfileRepository,
	notificationRepo port.NotificationRepository,
	emailSender port.EmailSender,
	smsSender port.SMSSender,
	logger Logger,
) NotificationService {
	return &notificationServiceImpl{
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
		emailSender:      emailSender,
		smsSender:        smsSender,
		logger:           logger,
	}
}

// NotifyTransition informs the requester that their request moved to a new
// state, including any reviewer note
func (s *notificationServiceImpl) NotifyTransition(ctx context.Context, req *entity.Request, note string) error {
	body := s.buildTransitionMessage(req, note)
	return s.dispatch(ctx, req, body)
}

// NotifySubmitted acknowledges a freshly created request
func (s *notificationServiceImpl) NotifySubmitted(ctx context.Context, req *entity.Request) error {
	body := fmt.Sprintf("Your %s request has been submitted and is awaiting review.", req.Kind)
	return s.dispatch(ctx, req, body)
}

func (s *notificationServiceImpl) dispatch(ctx context.Context, req *entity.Request, body string) error {
	profile, err := s.profileRepo.GetByID(ctx, req.RequesterID)
	if err != nil {
		return fmt.Errorf("get requester profile: %w", err)
	}
	if profile == nil {
		return fmt.Errorf("requester profile not found: %s", req.RequesterID)
	}

	channel, recipient := resolveChannel(profile)
	if channel == "" {
		return fmt.Errorf("requester %s has no reachable contact", req.RequesterID)
	}

	notification := &entity.Notification{
		RequestID: req.ID,
		Recipient: recipient,
		Channel:   channel,
		Body:      body,
		Status:    entity.NotificationPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	if err := s.send(ctx, profile, channel, body); err != nil {
		if markErr := s.notificationRepo.MarkFailed(ctx, notification.ID, err.Error()); markErr != nil {
			s.logger.Error("Failed to mark notification failed",
				"notification_id", notification.ID, "error", markErr)
		}
		return err
	}

	if err := s.notificationRepo.MarkSent(ctx, notification.ID); err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}

	s.logger.Info("Notification sent",
		"request_id", req.ID,
		"notification_id", notification.ID,
		"channel", channel)

	return nil
}

func (s *notificationServiceImpl) send(ctx context.Context, profile *entity.Profile, channel, body string) error {
	subject := "Glee Club request update"

	switch channel {
	case entity.ChannelEmail:
		return s.emailSender.SendEmail(ctx, profile.Email, subject, body)
	case entity.ChannelSMS:
		return s.smsSender.SendSMS(ctx, profile.Phone, body)
	case entity.ChannelBoth:
		if err := s.emailSender.SendEmail(ctx, profile.Email, subject, body); err != nil {
			return err
		}
		return s.smsSender.SendSMS(ctx, profile.Phone, body)
	default:
		return fmt.Errorf("unknown channel: %s", channel)
	}
}

// resolveChannel picks both when the profile carries email and phone, else
// whichever contact exists
func resolveChannel(profile *entity.Profile) (channel, recipient string) {
	switch {
	case profile.Email != "" && profile.Phone != "":
		return entity.ChannelBoth, profile.Email
	case profile.Email != "":
		return entity.ChannelEmail, profile.Email
	case profile.Phone != "":
		return entity.ChannelSMS, profile.Phone
	default:
		return "", ""
	}
}

// buildTransitionMessage builds the human-readable description of the new
// state plus any reviewer note
func (s *notificationServiceImpl) buildTransitionMessage(req *entity.Request, note string) string {
	var msg string
	switch domainwf.State(req.Status) {
	case domainwf.StateForwarded:
		msg = fmt.Sprintf("Your %s request has been forwarded to the director for a final decision.", req.Kind)
	case domainwf.StateReturned:
		msg = fmt.Sprintf("Your %s request needs more information before it can be reviewed.", req.Kind)
	case domainwf.StateApproved:
		msg = fmt.Sprintf("Your %s request has been approved.", req.Kind)
	case domainwf.StateDenied:
		msg = fmt.Sprintf("Your %s request has been denied.", req.Kind)
	case domainwf.StatePending:
		msg = fmt.Sprintf("Your %s request has been resubmitted and is awaiting review.", req.Kind)
	default:
		msg = fmt.Sprintf("Your %s request is now %s.", req.Kind, req.Status)
	}

	if note != "" {
		msg += "\n\nReviewer note: " + note
	}
	return msg
}

// Verify interface compliance
var _ NotificationService = (*notificationServiceImpl)(nil)
