package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountUnmarshal(t *testing.T) {
	tests := []struct {
		body    string
		value   int64
		invalid bool
	}{
		{body: `{}`, value: 0},
		{body: `{"amount": null}`, value: 0},
		{body: `{"amount": 1000}`, value: 1000},
		{body: `{"amount": "2500"}`, value: 2500},
		{body: `{"amount": " 30 "}`, value: 30},
		{body: `{"amount": ""}`, value: 0},
		{body: `{"amount": 1e3}`, value: 1000},
		{body: `{"amount": -5}`, value: -5},
		{body: `{"amount": 12.5}`, invalid: true},
		{body: `{"amount": "abc"}`, invalid: true},
		{body: `{"amount": true}`, invalid: true},
		{body: `{"amount": [1]}`, invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req UpdateSettingsRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.invalid, req.Amount.Invalid)
			if !tt.invalid {
				assert.Equal(t, tt.value, req.Amount.Value)
			}
		})
	}
}

func TestSelfUpdateRequestKeepsRawTypes(t *testing.T) {
	var req SelfUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"rsvp": 3, "paid": "yes"}`), &req))

	_, isString := req.RSVP.(string)
	_, isBool := req.Paid.(bool)
	assert.False(t, isString)
	assert.False(t, isBool)
}
