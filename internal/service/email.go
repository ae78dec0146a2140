package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"bloodlink-backend/internal/config"
	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"
)

type sendGridEmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewEmailService returns the SendGrid-backed email sender. With no API key
// configured it returns a no-op sender that only logs, so local development
// does not need a SendGrid account.
func NewEmailService(cfg config.SendGridConfig) EmailService {
	if cfg.APIKey == "" {
		logger.Warn("SendGrid API key not configured, emails will be logged only")
		return &logOnlyEmailService{}
	}
	return &sendGridEmailService{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (s *sendGridEmailService) SendPledgeReceivedNotification(ctx context.Context, hospitalEmail, hospitalName, donorName string, units int32, bloodGroup domain.BloodGroup) error {
	subject := fmt.Sprintf("New pledge: %d unit(s) of %s", units, bloodGroup)
	plain := fmt.Sprintf(
		"Hello %s,\n\n%s has pledged %d unit(s) of %s toward your blood request.\n\nPlease coordinate with the donor to schedule the donation.\n",
		hospitalName, donorName, units, bloodGroup)
	return s.send(ctx, hospitalEmail, hospitalName, subject, plain)
}

func (s *sendGridEmailService) SendPledgeThanksNotification(ctx context.Context, donorEmail, donorName string, units int32, hospitalName string) error {
	subject := "Thank you for your pledge"
	plain := fmt.Sprintf(
		"Dear %s,\n\nThank you for pledging %d unit(s) of blood to %s. Your pledge can save lives.\n\nThe hospital will contact you to arrange the donation.\n",
		donorName, units, hospitalName)
	return s.send(ctx, donorEmail, donorName, subject, plain)
}

func (s *sendGridEmailService) SendUrgentRequestDigest(ctx context.Context, hospitalEmail, hospitalName string, lines []string) error {
	subject := "Urgent blood requests still open"
	plain := fmt.Sprintf(
		"Hello %s,\n\nThe following urgent requests are still waiting for pledges:\n\n%s\n\nConsider sharing them with your donor network.\n",
		hospitalName, strings.Join(lines, "\n"))
	return s.send(ctx, hospitalEmail, hospitalName, subject, plain)
}

func (s *sendGridEmailService) send(ctx context.Context, toEmail, toName, subject, plain string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plain, "")

	logger.ExternalServiceCall("sendgrid", "send", "to", toEmail, "subject", subject)
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
		logger.ExternalServiceResult("sendgrid", "send", err)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "send", nil)
	return nil
}

type logOnlyEmailService struct{}

func (s *logOnlyEmailService) SendPledgeReceivedNotification(ctx context.Context, hospitalEmail, hospitalName, donorName string, units int32, bloodGroup domain.BloodGroup) error {
	logger.Info("Email suppressed (no SendGrid key)", "type", "pledge_received", "to", hospitalEmail)
	return nil
}

func (s *logOnlyEmailService) SendPledgeThanksNotification(ctx context.Context, donorEmail, donorName string, units int32, hospitalName string) error {
	logger.Info("Email suppressed (no SendGrid key)", "type", "pledge_thanks", "to", donorEmail)
	return nil
}

func (s *logOnlyEmailService) SendUrgentRequestDigest(ctx context.Context, hospitalEmail, hospitalName string, lines []string) error {
	logger.Info("Email suppressed (no SendGrid key)", "type", "urgent_digest", "to", hospitalEmail)
	return nil
}
