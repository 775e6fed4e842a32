package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"atsumeru/internal/model"
)

// memory keeps events and responses in process. It is selected with
// storage.driver=memory for local runs and backs the service tests.
type memory struct {
	mu        sync.RWMutex
	events    map[uuid.UUID]model.Event
	responses map[uuid.UUID]model.Response

	// insertion order of responses, the tie-breaker for equal created_at
	order []uuid.UUID
}

func NewMemory() Repository {
	return &memory{
		events:    make(map[uuid.UUID]model.Event),
		responses: make(map[uuid.UUID]model.Response),
	}
}

func (m *memory) MigrateUp(string) error   { return nil }
func (m *memory) MigrateDown(string) error { return nil }

func (m *memory) CreateEvent(_ context.Context, e *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events[e.ID] = *e
	return nil
}

func (m *memory) GetEventByID(_ context.Context, id uuid.UUID) (*model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	return &e, nil
}

func (m *memory) UpdateEventSettings(_ context.Context, id uuid.UUID, s model.EventSettings) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	e.Collecting = s.Collecting
	e.Amount = s.Amount
	e.PayURL = s.PayURL
	m.events[id] = e
	return &e, nil
}

func (m *memory) GetEventsByOwnerTokens(_ context.Context, tokens []string) ([]model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	want := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		want[t] = struct{}{}
	}

	events := make([]model.Event, 0)
	for _, e := range m.events {
		if _, ok := want[e.OwnerToken]; ok {
			events = append(events, e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events, nil
}

func (m *memory) CreateResponse(_ context.Context, r *model.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[r.EventID]; !ok {
		return ErrEventNotFound
	}
	m.responses[r.ID] = *r
	m.order = append(m.order, r.ID)
	return nil
}

func (m *memory) GetResponse(_ context.Context, eventID, id uuid.UUID) (*model.Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.responses[id]
	if !ok || r.EventID != eventID {
		return nil, ErrResponseNotFound
	}
	return &r, nil
}

func (m *memory) GetResponsesByEventID(_ context.Context, eventID uuid.UUID) ([]model.Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	responses := make([]model.Response, 0)
	for _, id := range m.order {
		if r := m.responses[id]; r.EventID == eventID {
			responses = append(responses, r)
		}
	}
	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].CreatedAt.Before(responses[j].CreatedAt)
	})
	return responses, nil
}

func (m *memory) UpdateResponse(_ context.Context, eventID, id uuid.UUID, p model.ResponsePatch) (*model.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.responses[id]
	if !ok || r.EventID != eventID {
		return nil, ErrResponseNotFound
	}
	if p.RSVP != nil {
		r.RSVP = *p.RSVP
	}
	if p.Paid != nil {
		r.Paid = *p.Paid
		r.PaidAt = nil
		if *p.Paid {
			at := p.At
			r.PaidAt = &at
		}
	}
	if p.PaidRequiresYes && r.RSVP != model.RSVPYes {
		r.Paid = false
		r.PaidAt = nil
	}
	r.UpdatedAt = p.At
	m.responses[id] = r
	return &r, nil
}
