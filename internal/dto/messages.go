package dto

import (
	"time"

	"github.com/google/uuid"

	"atsumeru/internal/model"
)

const (
	ActivityCreated = "created"
	ActivityUpdated = "updated"
)

// ResponseActivityMessage is published to the broker when a participant answers or edits an answer.
type ResponseActivityMessage struct {
	EventID    uuid.UUID  `json:"event_id"`
	ResponseID uuid.UUID  `json:"response_id"`
	Kind       string     `json:"kind"`
	Name       string     `json:"name"`
	RSVP       model.RSVP `json:"rsvp"`
	Paid       bool       `json:"paid"`
	At         time.Time  `json:"at"`
}
