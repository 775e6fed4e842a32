package consumerWorker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"atsumeru/internal/dto"
	"atsumeru/internal/model"
	"atsumeru/internal/repo"
)

// Consumer delivers raw message bodies to a handler; a handler error nacks the delivery.
type Consumer interface {
	Consume(handler func([]byte) error) error
}

type Sender interface {
	SendActivity(to string, event *model.Event, msg dto.ResponseActivityMessage) error
}

// Reader turns response activity messages into e-mails to the event organizer.
type Reader struct {
	rmq    Consumer
	repo   repo.Repository
	mail   Sender
	log    *zerolog.Logger
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq Consumer, repo repo.Repository, mail Sender, log *zerolog.Logger) *Reader {
	return &Reader{
		rmq:  rmq,
		repo: repo,
		mail: mail,
		log:  log,
		done: make(chan struct{}),
	}
}

func (r *Reader) handle(ctx context.Context, body []byte) error {
	var msg dto.ResponseActivityMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		r.log.Error().Err(err).Msg("Failed to unmarshal activity message")
		return err
	}

	log := r.log.With().
		Str("event_id", msg.EventID.String()).
		Str("response_id", msg.ResponseID.String()).
		Str("kind", msg.Kind).
		Logger()
	log.Debug().Msg("Received activity message")

	event, err := r.repo.GetEventByID(ctx, msg.EventID)
	if err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			log.Warn().Msg("Event is gone, dropping message")
			return nil
		}
		return fmt.Errorf("load event: %w", err)
	}
	if event.NotifyEmail == nil {
		return nil
	}

	// the stored row wins over the message in case of later edits
	resp, err := r.repo.GetResponse(ctx, msg.EventID, msg.ResponseID)
	if err != nil {
		if errors.Is(err, repo.ErrResponseNotFound) {
			log.Warn().Msg("Response is gone, dropping message")
			return nil
		}
		return fmt.Errorf("load response: %w", err)
	}
	msg.Name = resp.Name
	msg.RSVP = resp.RSVP
	msg.Paid = resp.Paid

	if err := r.mail.SendActivity(*event.NotifyEmail, event, msg); err != nil {
		log.Warn().Err(err).Msg("Failed to send notification e-mail")
	}
	return nil
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.log.Info().Msg("RabbitMQ Reader started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			return r.handle(cctx, body)
		}

		if err := r.rmq.Consume(handler); err != nil {
			r.log.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		r.log.Info().Msg("RabbitMQ Reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
