package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/subosito/gotenv"

	"github.com/gleeworld/approvals/internal/config"
	"github.com/gleeworld/approvals/internal/infrastructure/external/sendgrid"
	"github.com/gleeworld/approvals/internal/infrastructure/external/twilio"
	"github.com/gleeworld/approvals/pkg/utils"
)

// Isolated smoke test for the SendGrid and Twilio delivery channels.
// Sends one test message on each channel without touching the database.
//
// Usage:
//
//	./bin/test-notification email someone@example.com
//	./bin/test-notification sms +15551234567

func main() {
	fmt.Println("=== Notification Channel Test ===")
	fmt.Println()

	if len(os.Args) < 3 {
		fmt.Println("Usage: test-notification <email|sms> <recipient>")
		os.Exit(1)
	}
	channel := os.Args[1]
	recipient := os.Args[2]

	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      "debug",
		OutputPath: "stdout",
		Format:     "console",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	switch channel {
	case "email":
		fmt.Printf("[email] Sending test message to %s\n", recipient)
		sender := sendgrid.NewSender(sendgrid.Config{
			APIKey:    cfg.Email.SendGridAPIKey,
			FromName:  cfg.Email.FromName,
			FromEmail: cfg.Email.FromEmail,
		}, logger)

		err = sender.SendEmail(ctx, recipient,
			"Glee Club notification test",
			"This is a test message from the request approval service.")

	case "sms":
		fmt.Printf("[sms] Sending test message to %s\n", recipient)
		sender := twilio.NewSender(twilio.Config{
			AccountSID: cfg.SMS.TwilioAccountSID,
			AuthToken:  cfg.SMS.TwilioAuthToken,
			FromNumber: cfg.SMS.FromNumber,
		}, logger)

		err = sender.SendSMS(ctx, recipient,
			"This is a test message from the Glee Club request approval service.")

	default:
		log.Fatalf("Unknown channel %q (want email or sms)", channel)
	}

	if err != nil {
		fmt.Printf("✗ Send failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Message sent")
	fmt.Println("\n=== Test Complete ===")
}
