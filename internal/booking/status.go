package booking

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusRefunded  Status = "REFUNDED"
)

// Action is a requested booking status transition.
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionActivate Action = "activate"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
	ActionRefund   Action = "refund"
)

var (
	ErrTransitionNotAllowed = errors.New("transition not allowed from current status")
	ErrOperatorOnly         = errors.New("action requires an operator")
)

type transition struct {
	from         []Status
	to           Status
	operatorOnly bool
}

// transitions is the authoritative table of legal status changes. Everything
// not listed here is rejected regardless of who asks.
var transitions = map[Action]transition{
	ActionConfirm:  {from: []Status{StatusPending}, to: StatusConfirmed, operatorOnly: true},
	ActionActivate: {from: []Status{StatusConfirmed}, to: StatusActive, operatorOnly: true},
	ActionComplete: {from: []Status{StatusActive}, to: StatusCompleted, operatorOnly: true},
	ActionCancel:   {from: []Status{StatusPending, StatusConfirmed}, to: StatusCancelled},
	ActionRefund:   {from: []Status{StatusCancelled, StatusCompleted}, to: StatusRefunded, operatorOnly: true},
}

// actionOrder keeps Allowed output deterministic.
var actionOrder = []Action{ActionConfirm, ActionActivate, ActionComplete, ActionCancel, ActionRefund}

// Apply returns the status that results from performing action on current.
// It rejects unknown actions, transitions not in the table, and operator-only
// actions requested by non-operators.
func Apply(current Status, action Action, operator bool) (Status, error) {
	t, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("unknown action %q", action)
	}
	if t.operatorOnly && !operator {
		return "", ErrOperatorOnly
	}
	for _, from := range t.from {
		if from == current {
			return t.to, nil
		}
	}
	return "", fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, current, t.to)
}

// Allowed lists the actions a caller with the given operator flag may attempt
// from the current status. Terminal statuses yield an empty set.
func Allowed(current Status, operator bool) []Action {
	var actions []Action
	for _, a := range actionOrder {
		t := transitions[a]
		if t.operatorOnly && !operator {
			continue
		}
		for _, from := range t.from {
			if from == current {
				actions = append(actions, a)
				break
			}
		}
	}
	return actions
}

// SourceStatuses returns the statuses the action may be applied from, in
// table order. Used for conditional updates that must lose races cleanly.
func SourceStatuses(action Action) []Status {
	t, ok := transitions[action]
	if !ok {
		return nil
	}
	out := make([]Status, len(t.from))
	copy(out, t.from)
	return out
}

// Target returns the resulting status of an action.
func Target(action Action) (Status, bool) {
	t, ok := transitions[action]
	if !ok {
		return "", false
	}
	return t.to, true
}

// ValidStatus reports whether s is one of the known booking statuses.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusActive, StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}
