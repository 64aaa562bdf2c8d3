package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatusValid(t *testing.T) {
	for _, status := range []RequestStatus{RequestStatusNew, RequestStatusAssigned, RequestStatusInProgress, RequestStatusDone, RequestStatusCanceled} {
		assert.True(t, status.Valid(), string(status))
	}
	assert.False(t, RequestStatus("assignad").Valid())
	assert.False(t, RequestStatus("").Valid())
}

func TestRequestStatusTerminal(t *testing.T) {
	assert.True(t, RequestStatusDone.Terminal())
	assert.True(t, RequestStatusCanceled.Terminal())
	assert.False(t, RequestStatusNew.Terminal())
	assert.False(t, RequestStatusAssigned.Terminal())
	assert.False(t, RequestStatusInProgress.Terminal())
}

func TestActionValid(t *testing.T) {
	for _, action := range []Action{ActionAssign, ActionCancel, ActionTake, ActionComplete} {
		assert.True(t, action.Valid(), string(action))
	}
	assert.False(t, Action("reopen").Valid())
}
