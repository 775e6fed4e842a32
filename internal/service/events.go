package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"atsumeru/internal/dto"
	"atsumeru/internal/model"
	"atsumeru/pkg/validator"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, invalid("date", "must be a date or date-time")
}

func checkAmount(a dto.Amount) (int64, error) {
	if a.Invalid || a.Value < 0 {
		return 0, invalid("amount", "must be an integer greater than or equal to 0")
	}
	return a.Value, nil
}

// optional trims s and returns nil when nothing is left.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *service) CreateEvent(ctx context.Context, req dto.CreateEventRequest) (*dto.CreateEventResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Place = strings.TrimSpace(req.Place)
	req.Note = strings.TrimSpace(req.Note)
	req.PayURL = strings.TrimSpace(req.PayURL)
	req.NotifyEmail = strings.TrimSpace(req.NotifyEmail)

	if verr := validator.Validate(ctx, req); verr != nil {
		return nil, validationFrom(verr)
	}
	amount, err := checkAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	ownerToken, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("issue owner token: %w", err)
	}

	event := &model.Event{
		ID:          uuid.New(),
		Title:       req.Title,
		Date:        date,
		Place:       optional(req.Place),
		Note:        optional(req.Note),
		Collecting:  req.Collecting,
		Amount:      amount,
		PayURL:      optional(req.PayURL),
		NotifyEmail: optional(req.NotifyEmail),
		OwnerToken:  ownerToken,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.log.Info().Str("event_id", event.ID.String()).Bool("collecting", event.Collecting).Msg("event created")

	return &dto.CreateEventResponse{EventID: event.ID, OwnerToken: ownerToken}, nil
}

func (s *service) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	id, err := parseID(eventID, ErrEventNotFound)
	if err != nil {
		return nil, err
	}
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return event, nil
}

func (s *service) UpdateSettings(ctx context.Context, eventID, ownerToken string, req dto.UpdateSettingsRequest) (*model.Event, error) {
	if ownerToken == "" {
		return nil, ErrUnauthenticated
	}

	req.PayURL = strings.TrimSpace(req.PayURL)
	if verr := validator.Validate(ctx, req); verr != nil {
		return nil, validationFrom(verr)
	}
	amount, err := checkAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	event, err := s.ownedEvent(ctx, eventID, ownerToken)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateEventSettings(ctx, event.ID, model.EventSettings{
		Collecting: req.Collecting,
		Amount:     amount,
		PayURL:     optional(req.PayURL),
	})
	if err != nil {
		return nil, mapRepoError(fmt.Errorf("update settings: %w", err))
	}

	s.log.Info().Str("event_id", event.ID.String()).
		Bool("collecting", updated.Collecting).
		Int64("amount", updated.Amount).
		Msg("event settings updated")

	return updated, nil
}

// OwnedEvents returns the events behind ownerTokens, newest first, with response counters.
func (s *service) OwnedEvents(ctx context.Context, ownerTokens []string) ([]model.EventSummary, error) {
	events, err := s.repo.GetEventsByOwnerTokens(ctx, ownerTokens)
	if err != nil {
		return nil, fmt.Errorf("get owned events: %w", err)
	}

	summaries := make([]model.EventSummary, 0, len(events))
	for _, e := range events {
		responses, err := s.repo.GetResponsesByEventID(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("get responses for event %s: %w", e.ID, err)
		}
		summaries = append(summaries, summarize(e, responses))
	}
	return summaries, nil
}

func summarize(e model.Event, responses []model.Response) model.EventSummary {
	sum := model.EventSummary{Event: e}
	for _, r := range responses {
		switch r.RSVP {
		case model.RSVPYes:
			sum.Yes++
			if r.Paid {
				sum.Paid++
			} else {
				sum.Unpaid++
			}
		case model.RSVPMaybe:
			sum.Maybe++
		case model.RSVPNo:
			sum.No++
		}
	}
	return sum
}
