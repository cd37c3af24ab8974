package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"earnshare-backend/internal/config"
	"earnshare-backend/internal/logger"
)

// sendGridAlertSender emails the operator when a deposit hold fails and
// needs manual intervention.
type sendGridAlertSender struct {
	client *sendgrid.Client
	cfg    config.EmailConfig
}

func NewSendGridAlertSender(cfg config.EmailConfig) AlertSender {
	return &sendGridAlertSender{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		cfg:    cfg,
	}
}

func (s *sendGridAlertSender) SendDepositAlert(ctx context.Context, orderID int64, stage, reason string) error {
	if s.cfg.SendGridAPIKey == "" || s.cfg.OperatorEmail == "" {
		logger.Debug("deposit alerts not configured, skipping", "order_id", orderID)
		return nil
	}

	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromAddress)
	to := mail.NewEmail("", s.cfg.OperatorEmail)
	subject := fmt.Sprintf("Deposit %s failed for order %d", stage, orderID)
	body := fmt.Sprintf(
		"Deposit %s failed for order %d.\n\nReason: %s\n\nThe hold needs manual review before the rental can stay covered.",
		stage, orderID, reason,
	)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send deposit alert: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("deposit alert rejected with status %d", resp.StatusCode)
	}
	return nil
}
