package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		current  Status
		action   Action
		operator bool
		want     Status
		wantErr  error
	}{
		{name: "confirm pending", current: StatusPending, action: ActionConfirm, operator: true, want: StatusConfirmed},
		{name: "activate confirmed", current: StatusConfirmed, action: ActionActivate, operator: true, want: StatusActive},
		{name: "complete active", current: StatusActive, action: ActionComplete, operator: true, want: StatusCompleted},
		{name: "renter cancels pending", current: StatusPending, action: ActionCancel, operator: false, want: StatusCancelled},
		{name: "renter cancels confirmed", current: StatusConfirmed, action: ActionCancel, operator: false, want: StatusCancelled},
		{name: "operator cancels confirmed", current: StatusConfirmed, action: ActionCancel, operator: true, want: StatusCancelled},
		{name: "refund cancelled", current: StatusCancelled, action: ActionRefund, operator: true, want: StatusRefunded},
		{name: "refund completed", current: StatusCompleted, action: ActionRefund, operator: true, want: StatusRefunded},

		{name: "cancel active rejected", current: StatusActive, action: ActionCancel, operator: false, wantErr: ErrTransitionNotAllowed},
		{name: "cancel completed rejected", current: StatusCompleted, action: ActionCancel, operator: true, wantErr: ErrTransitionNotAllowed},
		{name: "confirm cancelled rejected", current: StatusCancelled, action: ActionConfirm, operator: true, wantErr: ErrTransitionNotAllowed},
		{name: "confirm twice rejected", current: StatusConfirmed, action: ActionConfirm, operator: true, wantErr: ErrTransitionNotAllowed},
		{name: "refund pending rejected", current: StatusPending, action: ActionRefund, operator: true, wantErr: ErrTransitionNotAllowed},

		{name: "renter cannot confirm", current: StatusPending, action: ActionConfirm, operator: false, wantErr: ErrOperatorOnly},
		{name: "renter cannot activate", current: StatusConfirmed, action: ActionActivate, operator: false, wantErr: ErrOperatorOnly},
		{name: "renter cannot complete", current: StatusActive, action: ActionComplete, operator: false, wantErr: ErrOperatorOnly},
		{name: "renter cannot refund", current: StatusCancelled, action: ActionRefund, operator: false, wantErr: ErrOperatorOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.current, tt.action, tt.operator)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyUnknownAction(t *testing.T) {
	_, err := Apply(StatusPending, Action("approve"), true)
	assert.Error(t, err)
}

func TestAllowed(t *testing.T) {
	assert.Equal(t, []Action{ActionConfirm, ActionCancel}, Allowed(StatusPending, true))
	assert.Equal(t, []Action{ActionCancel}, Allowed(StatusPending, false))

	assert.Equal(t, []Action{ActionActivate, ActionCancel}, Allowed(StatusConfirmed, true))
	assert.Equal(t, []Action{ActionCancel}, Allowed(StatusConfirmed, false))

	assert.Equal(t, []Action{ActionComplete}, Allowed(StatusActive, true))
	assert.Empty(t, Allowed(StatusActive, false))

	assert.Equal(t, []Action{ActionRefund}, Allowed(StatusCompleted, true))
	assert.Empty(t, Allowed(StatusCompleted, false))
	assert.Equal(t, []Action{ActionRefund}, Allowed(StatusCancelled, true))

	assert.Empty(t, Allowed(StatusRefunded, true))
	assert.Empty(t, Allowed(StatusRefunded, false))
}

func TestSourceStatusesAndTarget(t *testing.T) {
	assert.Equal(t, []Status{StatusPending, StatusConfirmed}, SourceStatuses(ActionCancel))
	assert.Nil(t, SourceStatuses(Action("nope")))

	target, ok := Target(ActionActivate)
	require.True(t, ok)
	assert.Equal(t, StatusActive, target)

	_, ok = Target(Action("nope"))
	assert.False(t, ok)
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus("PENDING"))
	assert.True(t, ValidStatus("REFUNDED"))
	assert.False(t, ValidStatus("pending"))
	assert.False(t, ValidStatus("ARCHIVED"))
}
