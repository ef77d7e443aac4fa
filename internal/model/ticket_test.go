package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTicketStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    TicketStatus
		wantErr bool
	}{
		{in: "PENDING", want: StatusPending},
		{in: "confirmed", want: StatusConfirmed},
		{in: " Returned ", want: StatusReturned},
		{in: "CANCELLED", want: StatusCancelled},
		{in: "", wantErr: true},
		{in: "EXPIRED", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseTicketStatus(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownEnum, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseRequestType(t *testing.T) {
	got, err := ParseRequestType("purchase")
	require.NoError(t, err)
	assert.Equal(t, RequestPurchase, got)

	got, err = ParseRequestType("RETURN")
	require.NoError(t, err)
	assert.Equal(t, RequestReturn, got)

	_, err = ParseRequestType("REFUND")
	assert.ErrorIs(t, err, ErrUnknownEnum)
}

func TestParseTicketAction(t *testing.T) {
	tests := []struct {
		in      string
		want    TicketAction
		wantErr bool
	}{
		{in: "confirm", want: ActionConfirm},
		{in: "CANCEL", want: ActionCancel},
		{in: "process_return", want: ActionProcessReturn},
		{in: " request_return ", want: ActionRequestReturn},
		{in: "approve", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseTicketAction(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownEnum, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
