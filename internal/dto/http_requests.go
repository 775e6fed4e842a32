package dto

import (
	"math"
	"strconv"
	"strings"
)

type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Date        string `json:"date"`
	Place       string `json:"place" validate:"max=200"`
	Note        string `json:"note" validate:"max=2000"`
	Collecting  bool   `json:"collecting"`
	Amount      Amount `json:"amount"`
	PayURL      string `json:"pay_url" validate:"max=2048"`
	NotifyEmail string `json:"notify_email" validate:"omitempty,email,max=254"`
}

type UpdateSettingsRequest struct {
	Collecting bool   `json:"collecting"`
	Amount     Amount `json:"amount"`
	PayURL     string `json:"pay_url" validate:"max=2048"`
}

type CreateResponseRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	RSVP string `json:"rsvp" validate:"required,rsvp"`
}

// SelfUpdateRequest keeps raw values: fields of the wrong type are ignored, not rejected.
type SelfUpdateRequest struct {
	RSVP any `json:"rsvp"`
	Paid any `json:"paid"`
}

type SetPaidRequest struct {
	Paid any `json:"paid"`
}

// Amount accepts a JSON number or a numeric string. Absent, null and "" mean 0.
// Anything that is not an integer marks the amount Invalid instead of failing the decode,
// so the caller can report it as a field error.
type Amount struct {
	Value   int64
	Invalid bool
}

func NewAmount(v int64) Amount {
	return Amount{Value: v}
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = Amount{}

	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			a.Invalid = true
			return nil
		}
		s = strings.TrimSpace(unquoted)
		if s == "" {
			return nil
		}
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		a.Value = v
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) || math.Abs(f) >= math.Exp2(63) {
		a.Invalid = true
		return nil
	}
	a.Value = int64(f)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(a.Value, 10)), nil
}
