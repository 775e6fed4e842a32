package consumerWorker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atsumeru/internal/dto"
	"atsumeru/internal/model"
	"atsumeru/internal/repo"
)

type sentMail struct {
	to    string
	event uuid.UUID
	msg   dto.ResponseActivityMessage
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeSender) SendActivity(to string, event *model.Event, msg dto.ResponseActivityMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to: to, event: event.ID, msg: msg})
	return f.err
}

type fakeConsumer struct {
	handler func([]byte) error
	err     error
	ready   chan struct{}
}

func (f *fakeConsumer) Consume(handler func([]byte) error) error {
	if f.err != nil {
		return f.err
	}
	f.handler = handler
	close(f.ready)
	return nil
}

type fixture struct {
	reader *Reader
	repo   repo.Repository
	sender *fakeSender
	event  *model.Event
	resp   *model.Response
}

func newFixture(t *testing.T, notify *string) fixture {
	t.Helper()
	ctx := context.Background()
	r := repo.NewMemory()
	now := time.Now().UTC()

	event := &model.Event{ID: uuid.New(), Title: "Party", Collecting: true, NotifyEmail: notify, OwnerToken: "owner", CreatedAt: now}
	require.NoError(t, r.CreateEvent(ctx, event))
	resp := &model.Response{ID: uuid.New(), EventID: event.ID, Name: "Alice", RSVP: model.RSVPYes, EditToken: "edit", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, r.CreateResponse(ctx, resp))

	log := zerolog.Nop()
	sender := &fakeSender{}
	return fixture{
		reader: NewReader(&fakeConsumer{ready: make(chan struct{})}, r, sender, &log),
		repo:   r,
		sender: sender,
		event:  event,
		resp:   resp,
	}
}

func body(t *testing.T, msg dto.ResponseActivityMessage) []byte {
	t.Helper()
	b, err := json.Marshal(msg)
	require.NoError(t, err)
	return b
}

func TestHandleSendsStoredState(t *testing.T) {
	email := "host@example.com"
	f := newFixture(t, &email)

	paid := true
	_, err := f.repo.UpdateResponse(context.Background(), f.event.ID, f.resp.ID, model.ResponsePatch{Paid: &paid, At: time.Now()})
	require.NoError(t, err)

	err = f.reader.handle(context.Background(), body(t, dto.ResponseActivityMessage{
		EventID:    f.event.ID,
		ResponseID: f.resp.ID,
		Kind:       dto.ActivityUpdated,
		Name:       "stale",
		RSVP:       model.RSVPNo,
	}))
	require.NoError(t, err)

	require.Len(t, f.sender.sent, 1)
	sent := f.sender.sent[0]
	assert.Equal(t, email, sent.to)
	assert.Equal(t, f.event.ID, sent.event)
	assert.Equal(t, "Alice", sent.msg.Name)
	assert.Equal(t, model.RSVPYes, sent.msg.RSVP)
	assert.True(t, sent.msg.Paid)
	assert.Equal(t, dto.ActivityUpdated, sent.msg.Kind)
}

func TestHandleSkipsWithoutNotifyEmail(t *testing.T) {
	f := newFixture(t, nil)

	err := f.reader.handle(context.Background(), body(t, dto.ResponseActivityMessage{EventID: f.event.ID, ResponseID: f.resp.ID}))
	require.NoError(t, err)
	assert.Empty(t, f.sender.sent)
}

func TestHandleDropsUnknownRows(t *testing.T) {
	email := "host@example.com"
	f := newFixture(t, &email)

	err := f.reader.handle(context.Background(), body(t, dto.ResponseActivityMessage{EventID: uuid.New(), ResponseID: f.resp.ID}))
	assert.NoError(t, err)

	err = f.reader.handle(context.Background(), body(t, dto.ResponseActivityMessage{EventID: f.event.ID, ResponseID: uuid.New()}))
	assert.NoError(t, err)
	assert.Empty(t, f.sender.sent)
}

func TestHandleMalformedBody(t *testing.T) {
	f := newFixture(t, nil)
	assert.Error(t, f.reader.handle(context.Background(), []byte("{")))
}

func TestHandleMailFailureIsAcked(t *testing.T) {
	email := "host@example.com"
	f := newFixture(t, &email)
	f.sender.err = errors.New("smtp down")

	err := f.reader.handle(context.Background(), body(t, dto.ResponseActivityMessage{EventID: f.event.ID, ResponseID: f.resp.ID}))
	assert.NoError(t, err)
	assert.Len(t, f.sender.sent, 1)
}

func TestStartStop(t *testing.T) {
	email := "host@example.com"
	f := newFixture(t, &email)
	consumer := f.reader.rmq.(*fakeConsumer)

	f.reader.Start(context.Background())
	select {
	case <-consumer.ready:
	case <-time.After(time.Second):
		t.Fatal("consumer was not started")
	}

	require.NoError(t, consumer.handler(body(t, dto.ResponseActivityMessage{EventID: f.event.ID, ResponseID: f.resp.ID})))
	f.reader.Stop()

	f.sender.mu.Lock()
	defer f.sender.mu.Unlock()
	assert.Len(t, f.sender.sent, 1)
}

func TestStartConsumeError(t *testing.T) {
	log := zerolog.Nop()
	reader := NewReader(&fakeConsumer{err: errors.New("no channel"), ready: make(chan struct{})}, repo.NewMemory(), &fakeSender{}, &log)

	reader.Start(context.Background())
	select {
	case <-reader.done:
	case <-time.After(time.Second):
		t.Fatal("reader did not exit")
	}
	reader.Stop()
}
