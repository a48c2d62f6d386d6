package messaging

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tikkit/tikkit-api/pkg/helpers"
	"github.com/tikkit/tikkit-api/pkg/mailer"
	mailtpl "github.com/tikkit/tikkit-api/pkg/mailer/templates"
)

// Outcome tells the caller how to settle the delivery.
type Outcome int

const (
	Ack     Outcome = iota
	Requeue         // transient send failure
	Drop            // the message can never be delivered
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	default:
		return "drop"
	}
}

// EmailConsumer renders queued email jobs and hands them to a Sender.
type EmailConsumer struct {
	Sender      mailer.Sender
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

func NewEmailConsumer(sender mailer.Sender, logger *logrus.Logger) *EmailConsumer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &EmailConsumer{Sender: sender, Logger: logger, SendTimeout: 15 * time.Second}
}

// Handle processes one raw queue message.
func (c *EmailConsumer) Handle(ctx context.Context, body []byte) Outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		c.Logger.WithError(err).Warn("bad email message")
		return Drop
	}
	if strings.TrimSpace(job.To) == "" {
		c.Logger.WithField("template", job.Template).Warn("email message without recipient")
		return Drop
	}

	helpers.EnsureRecipientAndEmail(&job)

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(strings.ToLower(job.Template), job.Data)
		if err != nil {
			c.Logger.WithError(err).WithField("template", job.Template).Error("render email failed")
			return Drop
		}
		subject, text, html = s, t, h
	}
	if subject == "" {
		subject = helpers.SubjectFor(&job)
	}

	sendCtx, cancel := context.WithTimeout(ctx, c.SendTimeout)
	defer cancel()
	if err := c.Sender.Send(sendCtx, job.To, subject, text, html); err != nil {
		c.Logger.WithError(err).WithField("to", job.To).Warn("send email failed")
		return Requeue
	}
	c.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return Ack
}
