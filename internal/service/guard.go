package service

import (
	"context"

	"atsumeru/internal/model"
	"atsumeru/internal/token"
)

// authorize compares a caller-supplied token with the stored one.
// An empty supplied token is Unauthenticated, a different one Forbidden.
func authorize(stored, supplied string) error {
	if supplied == "" {
		return ErrUnauthenticated
	}
	if stored == "" || !token.Equal(stored, supplied) {
		return ErrForbidden
	}
	return nil
}

// ownedEvent loads the event and checks ownerToken against its owner_token.
func (s *service) ownedEvent(ctx context.Context, eventID, ownerToken string) (*model.Event, error) {
	if ownerToken == "" {
		return nil, ErrUnauthenticated
	}
	id, err := parseID(eventID, ErrEventNotFound)
	if err != nil {
		return nil, err
	}
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if err := authorize(event.OwnerToken, ownerToken); err != nil {
		return nil, err
	}
	return event, nil
}
