package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shoply/shoply-api/pkg/helpers"
	"github.com/shoply/shoply-api/pkg/mailer/templates"
)

// Notifier dispatches the two domain emails. The queue-backed implementation
// resolves the publish before the HTTP response is returned; rendering and the
// actual Mailgun call happen in cmd/email_worker.
type Notifier interface {
	SendVerificationCode(ctx context.Context, to, code string, expiresIn time.Duration) error
	SendPasswordReset(ctx context.Context, to, link string, expiresIn time.Duration) error
}

// QueueNotifier publishes EmailJobs to RabbitMQ. When sending is disabled or
// no publisher is configured it logs the mail instead, the dev fallback.
type QueueNotifier struct {
	Pub     *helpers.RabbitPublisher
	AppName string
	Enabled bool
	Logger  *logrus.Logger
}

func NewQueueNotifier(pub *helpers.RabbitPublisher, appName string, enabled bool, logger *logrus.Logger) *QueueNotifier {
	return &QueueNotifier{Pub: pub, AppName: appName, Enabled: enabled, Logger: logger}
}

func (n *QueueNotifier) SendVerificationCode(ctx context.Context, to, code string, expiresIn time.Duration) error {
	return n.publish(ctx, EmailJob{
		To:       to,
		Template: templates.VerificationCode,
		Data: map[string]any{
			"AppName":   n.AppName,
			"Code":      code,
			"ExpiresIn": humanDuration(expiresIn),
		},
	})
}

func (n *QueueNotifier) SendPasswordReset(ctx context.Context, to, link string, expiresIn time.Duration) error {
	return n.publish(ctx, EmailJob{
		To:       to,
		Template: templates.PasswordReset,
		Data: map[string]any{
			"AppName":   n.AppName,
			"Link":      link,
			"ExpiresIn": humanDuration(expiresIn),
		},
	})
}

func (n *QueueNotifier) publish(ctx context.Context, job EmailJob) error {
	if !n.Enabled || n.Pub == nil {
		if n.Logger != nil {
			n.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).
				Info("mail sending disabled; email logged instead")
		}
		return nil
	}
	return n.Pub.PublishJSON(ctx, job)
}

func humanDuration(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int(d.Hours()))
	}
	if d >= time.Minute {
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	}
	return fmt.Sprintf("%d seconds", int(d.Seconds()))
}
