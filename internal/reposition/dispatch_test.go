package reposition

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCollaborator struct {
	accept bool
	reason string
	err    error
}

func (s stubCollaborator) SendRepositionRequest(a Action) (bool, string, error) {
	return s.accept, s.reason, s.err
}

func TestDispatcher_SingleFlightGuardsOverlappingCycles(t *testing.T) {
	d := NewDispatcher(stubCollaborator{accept: true})

	require.True(t, d.TryBeginCycle())
	assert.False(t, d.TryBeginCycle(), "a second cycle must not start while one is in flight")

	d.EndCycle()
	assert.True(t, d.TryBeginCycle())
}

func TestDispatcher_Dispatch_BucketsAcceptedDeclinedFailed(t *testing.T) {
	plan := Plan{Actions: []Action{
		{DriverID: uuid.New(), GridID: "a"},
		{DriverID: uuid.New(), GridID: "b"},
		{DriverID: uuid.New(), GridID: "c"},
	}}

	accepted := NewDispatcher(stubCollaborator{accept: true})
	result := accepted.Dispatch(Plan{Actions: plan.Actions[:1]}, time.Unix(0, 0))
	assert.Len(t, result.Successful, 1)
	assert.Empty(t, result.Failed)
	assert.Empty(t, result.Declined)
	assert.Equal(t, 1.0, result.SuccessRate)

	declined := NewDispatcher(stubCollaborator{accept: false, reason: "busy"})
	result = declined.Dispatch(Plan{Actions: plan.Actions[1:2]}, time.Unix(0, 0))
	assert.Len(t, result.Declined, 1)
	assert.Equal(t, "busy", result.Declined[0].Reason)

	failed := NewDispatcher(stubCollaborator{err: errors.New("timeout")})
	result = failed.Dispatch(Plan{Actions: plan.Actions[2:3]}, time.Unix(0, 0))
	assert.Len(t, result.Failed, 1)
}

func TestDispatcher_AcceptedActionBecomesActiveUntilComplete(t *testing.T) {
	d := NewDispatcher(stubCollaborator{accept: true})
	action := Action{DriverID: uuid.New()}

	d.Dispatch(Plan{Actions: []Action{action}}, time.Unix(0, 0))
	assert.True(t, d.IsActive(action.DriverID))

	d.Complete(action.DriverID)
	assert.False(t, d.IsActive(action.DriverID))
}

func TestDispatcher_AlreadyActiveDriverIsDeclinedWithoutCallingCollaborator(t *testing.T) {
	d := NewDispatcher(stubCollaborator{accept: true})
	action := Action{DriverID: uuid.New()}

	d.Dispatch(Plan{Actions: []Action{action}}, time.Unix(0, 0))
	result := d.Dispatch(Plan{Actions: []Action{action}}, time.Unix(1, 0))

	assert.Len(t, result.Declined, 1)
	assert.Empty(t, result.Successful)
}
