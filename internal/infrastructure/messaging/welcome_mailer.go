package messaging

import (
	"context"
	"errors"

	"github.com/tikkit/tikkit-api/config"
	"github.com/tikkit/tikkit-api/internal/domain/entity"
	"github.com/tikkit/tikkit-api/pkg/mailer"
	mailtpl "github.com/tikkit/tikkit-api/pkg/mailer/templates"
)

// JobPublisher puts a JSON payload on the email queue. *helpers.RabbitPublisher satisfies it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// WelcomeMailer queues a welcome email for every newly registered user.
type WelcomeMailer struct {
	Pub JobPublisher
	Cfg *config.Config
}

func NewWelcomeMailer(pub JobPublisher, cfg *config.Config) *WelcomeMailer {
	return &WelcomeMailer{Pub: pub, Cfg: cfg}
}

func (m *WelcomeMailer) UserRegistered(ctx context.Context, u *entity.User) error {
	if m.Pub == nil {
		return errors.New("email publisher not configured")
	}
	data := mailtpl.NewWelcomeData(m.Cfg, u.Name, u.Email,
		mailtpl.WithTime(u.CreatedAt),
		mailtpl.WithPhone(u.Phone),
	)
	job := mailer.EmailJob{To: u.Email, Template: mailtpl.Welcome, Data: data}
	return m.Pub.PublishJSON(ctx, job)
}
