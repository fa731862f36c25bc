package service

import (
	"fmt"

	"cesms_backend/internals/features/events/requests/model"
)

// AlreadyProcessedError signals a decision attempted on a request that has
// already left Pending. The response carries the current state so the second
// reviewer sees what happened.
type AlreadyProcessedError struct {
	CurrentStatus string
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("request has already been %s", e.CurrentStatus)
}

// CanTransition reports whether a request may move from one status to
// another. Pending is the only state with outgoing edges; Approved,
// Rejected, and Cancelled are terminal.
func CanTransition(from, to string) bool {
	if from != model.RequestPending {
		return false
	}
	switch to {
	case model.RequestApproved, model.RequestRejected, model.RequestCancelled:
		return true
	default:
		return false
	}
}
