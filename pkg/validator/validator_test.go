package validator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `json:"name" validate:"required,max=5"`
	RSVP string `json:"rsvp" validate:"rsvp"`
	Mail string `json:"notify_email" validate:"omitempty,email"`
	Link string `json:"pay_url" validate:"omitempty,url"`
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		in    sample
		field string
		msg   string
	}{
		{name: "ok", in: sample{Name: "Bob", RSVP: "yes"}},
		{name: "missing name", in: sample{RSVP: "no"}, field: "name", msg: ErrFieldRequired},
		{name: "long name", in: sample{Name: "Robert", RSVP: "no"}, field: "name", msg: ErrFieldExceedsMaxLen},
		{name: "bad rsvp", in: sample{Name: "Bob", RSVP: "sure"}, field: "rsvp", msg: "must be one of yes, maybe, no"},
		{name: "bad mail", in: sample{Name: "Bob", RSVP: "maybe", Mail: "nope"}, field: "notify_email", msg: "must be a valid e-mail address"},
		{name: "bad url", in: sample{Name: "Bob", RSVP: "maybe", Link: "pay me"}, field: "pay_url", msg: "must be a valid URL"},
		{name: "good url", in: sample{Name: "Bob", RSVP: "maybe", Link: "https://pay.example/x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(ctx, tt.in)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var fe *FieldError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.field, fe.Field)
			assert.Equal(t, tt.msg, fe.Msg)
			assert.Equal(t, tt.field+" "+tt.msg, fe.Error())
		})
	}
}
