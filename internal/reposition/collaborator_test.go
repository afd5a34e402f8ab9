package reposition

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLoggingCollaborator_AlwaysAccepts(t *testing.T) {
	c := LoggingCollaborator{}
	accepted, reason, err := c.SendRepositionRequest(Action{DriverID: uuid.New(), GridID: "r2c3", Priority: PriorityHigh})
	assert.True(t, accepted)
	assert.Empty(t, reason)
	assert.NoError(t, err)
}
