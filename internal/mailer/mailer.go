package mailer

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"atsumeru/internal/dto"
	"atsumeru/internal/model"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	BaseURL  string
}

// Mailer sends organizer notifications over SMTP.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
	log     *zerolog.Logger
}

func New(cfg Config, log *zerolog.Logger) *Mailer {
	return &Mailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:    cfg.From,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		log:     log,
	}
}

// ManageURL is the organizer page of the event. The owner token is part of the link.
func ManageURL(baseURL string, event *model.Event) string {
	return fmt.Sprintf("%s/event/%s/manage?token=%s", strings.TrimRight(baseURL, "/"), event.ID, event.OwnerToken)
}

// Compose builds the subject and plain-text body of an activity notification.
func Compose(baseURL string, event *model.Event, msg dto.ResponseActivityMessage) (string, string) {
	verb := "answered"
	if msg.Kind == dto.ActivityUpdated {
		verb = "changed their answer"
	}
	subject := fmt.Sprintf("%s %s: %s", msg.Name, verb, event.Title)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s for \"%s\".\n\n", msg.Name, verb, event.Title)
	fmt.Fprintf(&b, "RSVP: %s\n", msg.RSVP)
	if event.Collecting {
		paid := "no"
		if msg.Paid {
			paid = "yes"
		}
		fmt.Fprintf(&b, "Paid: %s\n", paid)
	}
	fmt.Fprintf(&b, "\nAll responses: %s\n", ManageURL(baseURL, event))
	return subject, b.String()
}

func (m *Mailer) SendActivity(to string, event *model.Event, msg dto.ResponseActivityMessage) error {
	subject, body := Compose(m.baseURL, event, msg)

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", to)
	gm.SetHeader("Subject", subject)
	gm.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().
		Str("event_id", event.ID.String()).
		Str("response_id", msg.ResponseID.String()).
		Str("kind", msg.Kind).
		Msg("Activity email sent")
	return nil
}
