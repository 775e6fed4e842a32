package model

import (
	"time"

	"github.com/google/uuid"
)

type RSVP string

const (
	RSVPYes   RSVP = "yes"
	RSVPMaybe RSVP = "maybe"
	RSVPNo    RSVP = "no"
)

func (r RSVP) Valid() bool {
	switch r {
	case RSVPYes, RSVPMaybe, RSVPNo:
		return true
	}
	return false
}

type Event struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Date        *time.Time `db:"date" json:"date"`
	Place       *string    `db:"place" json:"place"`
	Note        *string    `db:"note" json:"note"`
	Collecting  bool       `db:"collecting" json:"collecting"`
	Amount      int64      `db:"amount" json:"amount"`
	PayURL      *string    `db:"pay_url" json:"pay_url"`
	NotifyEmail *string    `db:"notify_email" json:"-"`
	OwnerToken  string     `db:"owner_token" json:"-"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

type Response struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	EventID   uuid.UUID  `db:"event_id" json:"event_id"`
	Name      string     `db:"name" json:"name"`
	RSVP      RSVP       `db:"rsvp" json:"rsvp"`
	Paid      bool       `db:"paid" json:"paid"`
	PaidAt    *time.Time `db:"paid_at" json:"paid_at"`
	EditToken string     `db:"edit_token" json:"-"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// EventSettings is the part of an event the organizer may change after creation.
type EventSettings struct {
	Collecting bool
	Amount     int64
	PayURL     *string
}

// ResponsePatch describes a single-row update. Nil fields are left untouched;
// At becomes updated_at and, when Paid is true, paid_at.
// With PaidRequiresYes the row ends unpaid unless its resulting rsvp is "yes".
type ResponsePatch struct {
	RSVP            *RSVP
	Paid            *bool
	PaidRequiresYes bool
	At              time.Time
}

// EventSummary is an event with counters over its responses.
type EventSummary struct {
	Event
	Yes    int `json:"yes"`
	Maybe  int `json:"maybe"`
	No     int `json:"no"`
	Paid   int `json:"paid"`
	Unpaid int `json:"unpaid"`
}
