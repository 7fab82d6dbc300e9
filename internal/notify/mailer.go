package notify

import (
	"fmt"
	"net/smtp"

	"libraryhub/internal/config"
	"libraryhub/internal/logging"
)

// Mailer sends registration confirmation emails over SMTP. Dispatch is
// fire-and-forget: it runs after the response is prepared and a failure is
// logged, never surfaced to the caller.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.EmailHost,
		port:     cfg.EmailPort,
		username: cfg.EmailUser,
		password: cfg.EmailPassword,
		from:     cfg.EmailFrom,
	}
}

// SendConfirmationAsync dispatches the confirmation email on its own
// goroutine and returns immediately.
func (m *Mailer) SendConfirmationAsync(email, username string) {
	go func() {
		if err := m.sendConfirmation(email, username); err != nil {
			logging.Logger.WithError(err).WithField("email", email).Error("confirmation email failed")
			return
		}
		logging.Logger.WithField("email", email).Info("confirmation email sent")
	}()
}

func (m *Mailer) sendConfirmation(email, username string) error {
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nThank you for registering! Please confirm your email by clicking on the link in this message.",
		username,
	)
	msg := []byte(
		"From: " + m.from + "\r\n" +
			"To: " + email + "\r\n" +
			"Subject: Welcome to our platform!\r\n" +
			"\r\n" + body + "\r\n",
	)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{email}, msg)
}
