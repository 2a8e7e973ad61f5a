package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatusCycle(t *testing.T) {
	assert.Equal(t, TaskInProgress, TaskPending.Next())
	assert.Equal(t, TaskCompleted, TaskInProgress.Next())
	assert.Equal(t, TaskPending, TaskCompleted.Next())
}

func TestTaskStatusCycleReturnsToStart(t *testing.T) {
	s := TaskPending
	for i := 0; i < 3; i++ {
		s = s.Next()
	}
	assert.Equal(t, TaskPending, s)
}

func TestUnknownStatusResetsToPending(t *testing.T) {
	assert.Equal(t, TaskPending, TaskStatus("Archived").Next())
}
