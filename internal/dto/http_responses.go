package dto

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"

	"atsumeru/internal/model"
)

const (
	InternalError      = "Service is currently unavailable. Please try again later."
	InvalidJSON        = "Request body is not valid JSON"
	OwnerTokenRequired = "Owner token is required"
	OwnerTokenMismatch = "Owner token does not match"
	EditTokenRequired  = "Edit token is required"
	EditTokenMismatch  = "Edit token does not match"
	EventNotFound      = "Event not found"
	ResponseNotFound   = "Response not found"
	PaidMustBeBoolean  = "paid must be true or false"
)

type CreateEventResponse struct {
	EventID    uuid.UUID `json:"eventId"`
	OwnerToken string    `json:"ownerToken"`
}

type CreateResponseResponse struct {
	ResponseID uuid.UUID `json:"responseId"`
	EditToken  string    `json:"editToken"`
}

// EventView is the public projection of an event; it never carries owner_token or notify_email.
type EventView struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Date       *time.Time `json:"date"`
	Place      *string    `json:"place"`
	Note       *string    `json:"note"`
	Collecting bool       `json:"collecting"`
	Amount     int64      `json:"amount"`
	PayURL     *string    `json:"pay_url"`
	CreatedAt  time.Time  `json:"created_at"`
}

type EventSummaryView struct {
	EventView
	Yes    int `json:"yes"`
	Maybe  int `json:"maybe"`
	No     int `json:"no"`
	Paid   int `json:"paid"`
	Unpaid int `json:"unpaid"`
}

// EventTotals sums the per-event counters across the dashboard.
type EventTotals struct {
	Events int `json:"events"`
	Yes    int `json:"yes"`
	Maybe  int `json:"maybe"`
	No     int `json:"no"`
	Paid   int `json:"paid"`
	Unpaid int `json:"unpaid"`
}

type OwnedEventsResponse struct {
	Events []EventSummaryView `json:"events"`
	Totals EventTotals        `json:"totals"`
}

// OwnerResponseView is a response row as the organizer sees it.
type OwnerResponseView struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	RSVP      model.RSVP `json:"rsvp"`
	Paid      bool       `json:"paid"`
	PaidAt    *time.Time `json:"paid_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PublicResponseView is a response row as participants see it. It includes
// edit_token so that anyone holding the event link can edit any row.
type PublicResponseView struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	RSVP      model.RSVP `json:"rsvp"`
	Paid      bool       `json:"paid"`
	EditToken string     `json:"edit_token"`
	CreatedAt time.Time  `json:"created_at"`
}

type OwnerResponsesResponse struct {
	Responses []OwnerResponseView `json:"responses"`
}

type PublicResponsesResponse struct {
	Responses []PublicResponseView `json:"responses"`
}

type UpdatedResponseView struct {
	ID     uuid.UUID  `json:"id"`
	Name   string     `json:"name"`
	RSVP   model.RSVP `json:"rsvp"`
	Paid   bool       `json:"paid"`
	PaidAt *time.Time `json:"paid_at"`
}

type PaidView struct {
	ID     uuid.UUID  `json:"id"`
	Paid   bool       `json:"paid"`
	PaidAt *time.Time `json:"paid_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewEventView(e *model.Event) EventView {
	return EventView{
		ID:         e.ID,
		Title:      e.Title,
		Date:       e.Date,
		Place:      e.Place,
		Note:       e.Note,
		Collecting: e.Collecting,
		Amount:     e.Amount,
		PayURL:     e.PayURL,
		CreatedAt:  e.CreatedAt,
	}
}

func NewOwnerResponses(rows []model.Response) OwnerResponsesResponse {
	out := make([]OwnerResponseView, 0, len(rows))
	for _, r := range rows {
		out = append(out, OwnerResponseView{
			ID:        r.ID,
			Name:      r.Name,
			RSVP:      r.RSVP,
			Paid:      r.Paid,
			PaidAt:    r.PaidAt,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return OwnerResponsesResponse{Responses: out}
}

func NewPublicResponses(rows []model.Response) PublicResponsesResponse {
	out := make([]PublicResponseView, 0, len(rows))
	for _, r := range rows {
		out = append(out, PublicResponseView{
			ID:        r.ID,
			Name:      r.Name,
			RSVP:      r.RSVP,
			Paid:      r.Paid,
			EditToken: r.EditToken,
			CreatedAt: r.CreatedAt,
		})
	}
	return PublicResponsesResponse{Responses: out}
}

func NewOwnedEvents(summaries []model.EventSummary) OwnedEventsResponse {
	out := make([]EventSummaryView, 0, len(summaries))
	totals := EventTotals{Events: len(summaries)}
	for i := range summaries {
		s := &summaries[i]
		totals.Yes += s.Yes
		totals.Maybe += s.Maybe
		totals.No += s.No
		totals.Paid += s.Paid
		totals.Unpaid += s.Unpaid
		out = append(out, EventSummaryView{
			EventView: NewEventView(&s.Event),
			Yes:       s.Yes,
			Maybe:     s.Maybe,
			No:        s.No,
			Paid:      s.Paid,
			Unpaid:    s.Unpaid,
		})
	}
	return OwnedEventsResponse{Events: out, Totals: totals}
}

func ErrorJSON(c *ginext.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

func BadRequestError(c *ginext.Context, msg string) {
	ErrorJSON(c, http.StatusBadRequest, msg)
}

func UnauthenticatedError(c *ginext.Context, msg string) {
	ErrorJSON(c, http.StatusUnauthorized, msg)
}

func ForbiddenError(c *ginext.Context, msg string) {
	ErrorJSON(c, http.StatusForbidden, msg)
}

func NotFoundError(c *ginext.Context, msg string) {
	ErrorJSON(c, http.StatusNotFound, msg)
}

func InternalServerError(c *ginext.Context) {
	ErrorJSON(c, http.StatusInternalServerError, InternalError)
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(http.StatusOK, data)
}
