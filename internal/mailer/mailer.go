package mailer

import (
	"context"
	_ "embed"
	"time"

	"github.com/aymerick/raymond"
	"github.com/mailgun/mailgun-go/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:embed templates/welcome.html
var welcomeSource string

// WelcomeSubject is the subject line of the signup email.
const WelcomeSubject = "Welcome to Eau Clair!"

// WelcomeSender sends the signup welcome email.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, email, name string) error
}

// Mailer sends templated email through Mailgun.
type Mailer struct {
	MailGun *mailgun.MailgunImpl

	// Email address that the system sends from
	SystemAddress string
	SiteName      string

	welcome *raymond.Template
}

var _ WelcomeSender = (*Mailer)(nil)

// NewMailer returns a Mailer for the Mailgun domain, with templates parsed.
func NewMailer(domain, apiKey, systemAddress, siteName string) (*Mailer, error) {
	welcome, err := raymond.Parse(welcomeSource)
	if err != nil {
		return nil, errors.Wrap(err, "parse welcome template")
	}
	return &Mailer{
		MailGun:       mailgun.NewMailgun(domain, apiKey),
		SystemAddress: systemAddress,
		SiteName:      siteName,
		welcome:       welcome,
	}, nil
}

// RenderWelcome returns the HTML body of the welcome email.
func (m *Mailer) RenderWelcome(name string) (string, error) {
	body, err := m.welcome.Exec(map[string]string{
		"name":     name,
		"siteName": m.SiteName,
	})
	if err != nil {
		return "", errors.Wrap(err, "render welcome template")
	}
	return body, nil
}

func (m *Mailer) SendWelcome(ctx context.Context, email, name string) error {
	body, err := m.RenderWelcome(name)
	if err != nil {
		return err
	}

	message := m.MailGun.NewMessage(m.SystemAddress, WelcomeSubject, "", email)
	message.SetHtml(body)

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, id, err := m.MailGun.Send(sendCtx, message)
	if err != nil {
		return errors.Wrap(err, "send welcome email")
	}

	zap.L().Info("welcome email sent", zap.String("email", email), zap.String("id", id))
	return nil
}

// Noop stands in for Mailer when no provider is configured.
type Noop struct{}

func (Noop) SendWelcome(_ context.Context, email, _ string) error {
	zap.L().Info("mail disabled, skipping welcome email", zap.String("email", email))
	return nil
}
