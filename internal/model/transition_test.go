package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransitionTable walks every legal transition and a representative
// set of illegal ones, verifying that the function is total: each triple
// yields either exactly one outcome or ErrInvalidTransition.
func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name        string
		status      TicketStatus
		request     RequestType
		action      TicketAction
		wantStatus  TicketStatus
		wantRequest RequestType
		wantErr     bool
	}{
		{
			name:        "confirm pending purchase",
			status:      StatusPending,
			request:     RequestPurchase,
			action:      ActionConfirm,
			wantStatus:  StatusConfirmed,
			wantRequest: RequestPurchase,
		},
		{
			name:        "cancel pending purchase",
			status:      StatusPending,
			request:     RequestPurchase,
			action:      ActionCancel,
			wantStatus:  StatusCancelled,
			wantRequest: RequestPurchase,
		},
		{
			name:        "cancel pending with return request",
			status:      StatusPending,
			request:     RequestReturn,
			action:      ActionCancel,
			wantStatus:  StatusCancelled,
			wantRequest: RequestReturn,
		},
		{
			name:        "request return on confirmed purchase flips request type only",
			status:      StatusConfirmed,
			request:     RequestPurchase,
			action:      ActionRequestReturn,
			wantStatus:  StatusConfirmed,
			wantRequest: RequestReturn,
		},
		{
			name:        "process requested return",
			status:      StatusConfirmed,
			request:     RequestReturn,
			action:      ActionProcessReturn,
			wantStatus:  StatusReturned,
			wantRequest: RequestReturn,
		},
		{
			name:    "confirm a confirmed ticket",
			status:  StatusConfirmed,
			request: RequestPurchase,
			action:  ActionConfirm,
			wantErr: true,
		},
		{
			name:    "cancel a confirmed ticket",
			status:  StatusConfirmed,
			request: RequestPurchase,
			action:  ActionCancel,
			wantErr: true,
		},
		{
			name:    "process return without a request",
			status:  StatusConfirmed,
			request: RequestPurchase,
			action:  ActionProcessReturn,
			wantErr: true,
		},
		{
			name:    "process return on pending ticket",
			status:  StatusPending,
			request: RequestReturn,
			action:  ActionProcessReturn,
			wantErr: true,
		},
		{
			name:    "request return on pending ticket",
			status:  StatusPending,
			request: RequestPurchase,
			action:  ActionRequestReturn,
			wantErr: true,
		},
		{
			name:    "request return twice",
			status:  StatusConfirmed,
			request: RequestReturn,
			action:  ActionRequestReturn,
			wantErr: true,
		},
		{
			name:    "confirm a returned ticket",
			status:  StatusReturned,
			request: RequestReturn,
			action:  ActionConfirm,
			wantErr: true,
		},
		{
			name:    "cancel a cancelled ticket",
			status:  StatusCancelled,
			request: RequestPurchase,
			action:  ActionCancel,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStatus, gotRequest, err := Transition(tt.status, tt.request, tt.action)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, gotStatus)
			assert.Equal(t, tt.wantRequest, gotRequest)
		})
	}
}

// TestTerminalStatesRejectEverything verifies that no action applies to
// RETURNED or CANCELLED tickets under any request type.
func TestTerminalStatesRejectEverything(t *testing.T) {
	actions := []TicketAction{ActionConfirm, ActionCancel, ActionProcessReturn, ActionRequestReturn}
	requests := []RequestType{RequestPurchase, RequestReturn}
	for _, status := range []TicketStatus{StatusReturned, StatusCancelled} {
		for _, req := range requests {
			for _, action := range actions {
				_, _, err := Transition(status, req, action)
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s/%s should reject %s", status, req, action)
			}
		}
	}
}

// TestReturnHandshake exercises the full two-party return flow: a
// confirmed purchase is flagged for return by the customer, then the
// return is processed by an administrator.
func TestReturnHandshake(t *testing.T) {
	status, request := StatusConfirmed, RequestPurchase

	status, request, err := Transition(status, request, ActionRequestReturn)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)
	assert.Equal(t, RequestReturn, request)
	assert.True(t, status.Active(), "ticket pending admin action still occupies its seat")

	status, request, err = Transition(status, request, ActionProcessReturn)
	require.NoError(t, err)
	assert.Equal(t, StatusReturned, status)
	assert.Equal(t, RequestReturn, request)
	assert.False(t, status.Active())
}

func TestActiveStatuses(t *testing.T) {
	assert.True(t, StatusPending.Active())
	assert.True(t, StatusConfirmed.Active())
	assert.False(t, StatusReturned.Active())
	assert.False(t, StatusCancelled.Active())
}
