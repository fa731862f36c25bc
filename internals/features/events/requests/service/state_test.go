package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cesms_backend/internals/features/events/requests/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{model.RequestPending, model.RequestApproved, true},
		{model.RequestPending, model.RequestRejected, true},
		{model.RequestPending, model.RequestCancelled, true},
		{model.RequestPending, model.RequestPending, false},
		{model.RequestApproved, model.RequestRejected, false},
		{model.RequestApproved, model.RequestApproved, false},
		{model.RequestRejected, model.RequestApproved, false},
		{model.RequestCancelled, model.RequestApproved, false},
		{model.RequestPending, "Archived", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestAlreadyProcessedErrorMessage(t *testing.T) {
	err := &AlreadyProcessedError{CurrentStatus: model.RequestApproved}
	assert.Equal(t, "request has already been Approved", err.Error())
}
