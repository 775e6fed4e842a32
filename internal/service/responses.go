package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"atsumeru/internal/dto"
	"atsumeru/internal/model"
	"atsumeru/pkg/validator"
)

func (s *service) CreateResponse(ctx context.Context, eventID string, req dto.CreateResponseRequest) (*dto.CreateResponseResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if verr := validator.Validate(ctx, req); verr != nil {
		return nil, validationFrom(verr)
	}

	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	editToken, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("issue edit token: %w", err)
	}

	now := s.now()
	resp := &model.Response{
		ID:        uuid.New(),
		EventID:   event.ID,
		Name:      req.Name,
		RSVP:      model.RSVP(req.RSVP),
		Paid:      false,
		EditToken: editToken,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateResponse(ctx, resp); err != nil {
		return nil, mapRepoError(fmt.Errorf("create response: %w", err))
	}

	s.log.Info().
		Str("event_id", event.ID.String()).
		Str("response_id", resp.ID.String()).
		Str("rsvp", string(resp.RSVP)).
		Msg("response created")

	s.publish(ctx, dto.ActivityCreated, resp)

	return &dto.CreateResponseResponse{ResponseID: resp.ID, EditToken: editToken}, nil
}

func (s *service) ListForOwner(ctx context.Context, eventID, ownerToken string) ([]model.Response, error) {
	event, err := s.ownedEvent(ctx, eventID, ownerToken)
	if err != nil {
		return nil, err
	}
	responses, err := s.repo.GetResponsesByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return responses, nil
}

func (s *service) ListPublic(ctx context.Context, eventID string) ([]model.Response, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	responses, err := s.repo.GetResponsesByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return responses, nil
}

// SelfUpdate applies a participant's partial edit. A paid flag never survives
// an rsvp other than "yes": leaving "yes" clears paid and paid_at.
func (s *service) SelfUpdate(ctx context.Context, eventID, responseID, editToken string, req dto.SelfUpdateRequest) (*model.Response, error) {
	if editToken == "" {
		return nil, ErrUnauthenticated
	}
	evID, err := parseID(eventID, ErrResponseNotFound)
	if err != nil {
		return nil, err
	}
	id, err := parseID(responseID, ErrResponseNotFound)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetResponse(ctx, evID, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if err := authorize(current.EditToken, editToken); err != nil {
		return nil, err
	}

	patch := model.ResponsePatch{PaidRequiresYes: true, At: s.now()}
	if raw, ok := req.RSVP.(string); ok && model.RSVP(raw).Valid() {
		rsvp := model.RSVP(raw)
		patch.RSVP = &rsvp
	}
	if paid, ok := req.Paid.(bool); ok {
		patch.Paid = &paid
	}

	updated, err := s.repo.UpdateResponse(ctx, evID, id, patch)
	if err != nil {
		return nil, mapRepoError(fmt.Errorf("self update: %w", err))
	}

	s.log.Info().
		Str("event_id", evID.String()).
		Str("response_id", id.String()).
		Str("rsvp", string(updated.RSVP)).
		Bool("paid", updated.Paid).
		Msg("response updated by participant")

	s.publish(ctx, dto.ActivityUpdated, updated)

	return updated, nil
}

// OwnerSetPaid lets the organizer mark any response of the event paid or unpaid.
func (s *service) OwnerSetPaid(ctx context.Context, eventID, responseID, ownerToken string, paid bool) (*model.Response, error) {
	event, err := s.ownedEvent(ctx, eventID, ownerToken)
	if err != nil {
		return nil, err
	}
	id, err := parseID(responseID, ErrResponseNotFound)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateResponse(ctx, event.ID, id, model.ResponsePatch{Paid: &paid, At: s.now()})
	if err != nil {
		return nil, mapRepoError(fmt.Errorf("set paid: %w", err))
	}

	s.log.Info().
		Str("event_id", event.ID.String()).
		Str("response_id", id.String()).
		Bool("paid", updated.Paid).
		Msg("payment status set by organizer")

	return updated, nil
}
