package email

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/tce-csbs/participation-portal/internal/metrics"
)

// Notifier renders templates and delivers them through a Sender under a RetryPolicy
type Notifier struct {
	sender    Sender
	templates *Templates
	policy    RetryPolicy
	logger    zerolog.Logger
}

// NewNotifier creates a new Notifier
func NewNotifier(sender Sender, templates *Templates, policy RetryPolicy, logger zerolog.Logger) *Notifier {
	return &Notifier{
		sender:    sender,
		templates: templates,
		policy:    policy,
		logger:    logger.With().Str("component", "notifier").Logger(),
	}
}

// Deliver sends msg, retrying per the policy. The returned error is the last transport failure.
func (n *Notifier) Deliver(ctx context.Context, template string, msg Message) error {
	attempts, err := n.policy.Do(ctx, func(ctx context.Context) error {
		metrics.NotificationAttempts.Inc()
		return n.sender.Send(ctx, msg)
	}, func(attempt int, err error, wait time.Duration) {
		n.logger.Warn().Err(err).
			Str("to", msg.To).
			Str("template", template).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Msg("Email sending failed, retrying")
	})
	if err != nil {
		metrics.Notifications.WithLabelValues(template, "failed").Inc()
		n.logger.Error().Err(err).
			Str("to", msg.To).
			Str("template", template).
			Int("attempts", attempts).
			Msg("All email sending attempts failed")
		return err
	}
	metrics.Notifications.WithLabelValues(template, "sent").Inc()
	n.logger.Debug().Str("to", msg.To).Str("template", template).Int("attempts", attempts).Msg("Email sent")
	return nil
}

func (n *Notifier) deliverRendered(ctx context.Context, template string, msg Message, err error) error {
	if err != nil {
		metrics.Notifications.WithLabelValues(template, "failed").Inc()
		n.logger.Error().Err(err).Str("template", template).Msg("Failed to render email")
		return err
	}
	return n.Deliver(ctx, template, msg)
}

// SendWelcome notifies a newly registered student
func (n *Notifier) SendWelcome(ctx context.Context, name, to string) error {
	msg, err := n.templates.Welcome(name, to)
	return n.deliverRendered(ctx, TemplateWelcome, msg, err)
}

// SendHackathonSubmitted confirms a hackathon submission
func (n *Notifier) SendHackathonSubmitted(ctx context.Context, name, to, title string) error {
	msg, err := n.templates.HackathonSubmitted(name, to, title)
	return n.deliverRendered(ctx, TemplateHackathonSubmitted, msg, err)
}

// SendInternshipSubmitted confirms an internship submission
func (n *Notifier) SendInternshipSubmitted(ctx context.Context, name, to, company string) error {
	msg, err := n.templates.InternshipSubmitted(name, to, company)
	return n.deliverRendered(ctx, TemplateInternshipSubmitted, msg, err)
}

// SendStatusChanged reports a review outcome
func (n *Notifier) SendStatusChanged(ctx context.Context, name, to string, update StatusUpdate) error {
	msg, err := n.templates.StatusChanged(name, to, update)
	return n.deliverRendered(ctx, TemplateStatusUpdate, msg, err)
}

// SendCreditAlert warns a student below the credit threshold
func (n *Notifier) SendCreditAlert(ctx context.Context, name, to string, credits, threshold float64) error {
	msg, err := n.templates.CreditAlert(name, to, credits, threshold)
	return n.deliverRendered(ctx, TemplateCreditAlert, msg, err)
}
