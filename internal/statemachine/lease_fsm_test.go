package statemachine

import (
	"context"
	"testing"

	"github.com/kmuchiri/nyumba-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestLeaseFSM_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	lease := &models.Lease{Status: models.LeaseStatusPending}
	fsm := NewLeaseFSM(lease)

	assert.NoError(t, fsm.Activate(ctx))
	assert.Equal(t, models.LeaseStatusActive, lease.Status)

	assert.NoError(t, fsm.MarkOverdue(ctx))
	assert.Equal(t, models.LeaseStatusOverdue, lease.Status)

	assert.NoError(t, fsm.CatchUp(ctx))
	assert.Equal(t, models.LeaseStatusActive, lease.Status)

	assert.NoError(t, fsm.Terminate(ctx))
	assert.Equal(t, models.LeaseStatusTerminated, lease.Status)
}

func TestLeaseFSM_TerminateFromOverdue(t *testing.T) {
	ctx := context.Background()
	lease := &models.Lease{Status: models.LeaseStatusOverdue}
	fsm := NewLeaseFSM(lease)

	assert.NoError(t, fsm.Terminate(ctx))
	assert.Equal(t, models.LeaseStatusTerminated, lease.Status)
}

func TestLeaseFSM_InvalidTransitions(t *testing.T) {
	ctx := context.Background()

	pending := &models.Lease{Status: models.LeaseStatusPending}
	assert.Error(t, NewLeaseFSM(pending).Terminate(ctx))
	assert.Error(t, NewLeaseFSM(pending).MarkOverdue(ctx))
	assert.Equal(t, models.LeaseStatusPending, pending.Status)

	terminated := &models.Lease{Status: models.LeaseStatusTerminated}
	assert.Error(t, NewLeaseFSM(terminated).Activate(ctx))
	assert.Error(t, NewLeaseFSM(terminated).Terminate(ctx))

	active := &models.Lease{Status: models.LeaseStatusActive}
	assert.Error(t, NewLeaseFSM(active).Activate(ctx))
	assert.Error(t, NewLeaseFSM(active).CatchUp(ctx))
}

func TestLeaseFSM_Can(t *testing.T) {
	fsm := NewLeaseFSM(&models.Lease{Status: models.LeaseStatusActive})

	assert.True(t, fsm.Can("mark_overdue"))
	assert.True(t, fsm.Can("terminate"))
	assert.False(t, fsm.Can("activate"))
}
