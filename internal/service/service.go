package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"atsumeru/internal/dto"
	"atsumeru/internal/model"
	"atsumeru/internal/repo"
	"atsumeru/internal/token"
)

var (
	ErrEventNotFound    = fmt.Errorf("event %w", ErrNotFound)
	ErrResponseNotFound = fmt.Errorf("response %w", ErrNotFound)
)

type Service interface {
	CreateEvent(ctx context.Context, req dto.CreateEventRequest) (*dto.CreateEventResponse, error)
	GetEvent(ctx context.Context, eventID string) (*model.Event, error)
	UpdateSettings(ctx context.Context, eventID, ownerToken string, req dto.UpdateSettingsRequest) (*model.Event, error)
	OwnedEvents(ctx context.Context, ownerTokens []string) ([]model.EventSummary, error)

	CreateResponse(ctx context.Context, eventID string, req dto.CreateResponseRequest) (*dto.CreateResponseResponse, error)
	ListForOwner(ctx context.Context, eventID, ownerToken string) ([]model.Response, error)
	ListPublic(ctx context.Context, eventID string) ([]model.Response, error)
	SelfUpdate(ctx context.Context, eventID, responseID, editToken string, req dto.SelfUpdateRequest) (*model.Response, error)
	OwnerSetPaid(ctx context.Context, eventID, responseID, ownerToken string, paid bool) (*model.Response, error)
}

// ActivityPublisher hands participant activity to the notification pipeline.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, msg dto.ResponseActivityMessage) error
}

type Option func(*service)

// WithClock replaces the time source used for created_at, updated_at and paid_at.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithTokenSource replaces the Token Issuer.
func WithTokenSource(newToken func() (string, error)) Option {
	return func(s *service) { s.newToken = newToken }
}

type service struct {
	repo     repo.Repository
	log      *zerolog.Logger
	pub      ActivityPublisher
	now      func() time.Time
	newToken func() (string, error)
}

// NewService wires the managers to a repository. pub may be nil, which disables
// activity notifications.
func NewService(repo repo.Repository, logger *zerolog.Logger, pub ActivityPublisher, opts ...Option) Service {
	s := &service{
		repo:     repo,
		log:      logger,
		pub:      pub,
		now:      func() time.Time { return time.Now().UTC() },
		newToken: token.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func parseID(raw string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repo.ErrEventNotFound):
		return ErrEventNotFound
	case errors.Is(err, repo.ErrResponseNotFound):
		return ErrResponseNotFound
	}
	return err
}

func (s *service) publish(ctx context.Context, kind string, r *model.Response) {
	if s.pub == nil {
		return
	}
	msg := dto.ResponseActivityMessage{
		EventID:    r.EventID,
		ResponseID: r.ID,
		Kind:       kind,
		Name:       r.Name,
		RSVP:       r.RSVP,
		Paid:       r.Paid,
		At:         r.UpdatedAt,
	}
	if err := s.pub.PublishActivity(ctx, msg); err != nil {
		s.log.Warn().Err(err).
			Str("event_id", r.EventID.String()).
			Str("response_id", r.ID.String()).
			Msg("failed to publish response activity")
	}
}
