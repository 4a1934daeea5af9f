package services

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/taskshare/backend/internal/config"
	"github.com/taskshare/backend/pkg/logger"
)

// Notifier delivers best-effort emails. Implementations must not be
// relied on for delivery guarantees; callers treat every error as
// non-fatal.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

type EmailNotifier struct {
	client *resend.Client
	from   string
	isDev  bool
}

func NewEmailNotifier(cfg config.MailConfig) *EmailNotifier {
	var client *resend.Client
	if cfg.ResendAPIKey != "" && !cfg.DevMode {
		client = resend.NewClient(cfg.ResendAPIKey)
	}

	return &EmailNotifier{
		client: client,
		from:   cfg.FromAddress,
		isDev:  cfg.DevMode,
	}
}

func (n *EmailNotifier) Send(ctx context.Context, to, subject, body string) error {
	if n.isDev {
		logger.Info("email_sent_dev_mode", map[string]interface{}{
			"to":      to,
			"subject": subject,
		})
		return nil
	}

	if n.client == nil {
		return fmt.Errorf("email notifier not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := n.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		logger.Info("email_sent", map[string]interface{}{
			"to":      to,
			"subject": subject,
		})
	}
	return err
}
