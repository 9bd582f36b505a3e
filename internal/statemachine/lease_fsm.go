package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/kmuchiri/nyumba-api/internal/models"
)

// LeaseFSM wraps a lease with its lifecycle state machine. The reconciliation
// engine never drives these transitions; only lease lifecycle events do.
type LeaseFSM struct {
	lease *models.Lease
	fsm   *fsm.FSM
}

// NewLeaseFSM creates a new lease state machine
func NewLeaseFSM(lease *models.Lease) *LeaseFSM {
	lfsm := &LeaseFSM{
		lease: lease,
	}

	lfsm.fsm = fsm.NewFSM(
		lease.Status,
		fsm.Events{
			// pending → active
			{Name: "activate", Src: []string{models.LeaseStatusPending}, Dst: models.LeaseStatusActive},

			// active → overdue
			{Name: "mark_overdue", Src: []string{models.LeaseStatusActive}, Dst: models.LeaseStatusOverdue},

			// overdue → active (arrears cleared)
			{Name: "catch_up", Src: []string{models.LeaseStatusOverdue}, Dst: models.LeaseStatusActive},

			// active/overdue → terminated
			{Name: "terminate", Src: []string{models.LeaseStatusActive, models.LeaseStatusOverdue}, Dst: models.LeaseStatusTerminated},
		},
		fsm.Callbacks{},
	)

	return lfsm
}

// Activate transitions the lease to active state
func (l *LeaseFSM) Activate(ctx context.Context) error {
	if !l.lease.MayActivate() {
		return fmt.Errorf("lease cannot be activated in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, "activate"); err != nil {
		return fmt.Errorf("failed to activate lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// MarkOverdue transitions the lease to overdue state
func (l *LeaseFSM) MarkOverdue(ctx context.Context) error {
	if !l.lease.MayMarkOverdue() {
		return fmt.Errorf("lease cannot be marked overdue in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, "mark_overdue"); err != nil {
		return fmt.Errorf("failed to mark lease overdue: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// CatchUp transitions an overdue lease back to active
func (l *LeaseFSM) CatchUp(ctx context.Context) error {
	if !l.lease.MayCatchUp() {
		return fmt.Errorf("lease cannot catch up in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, "catch_up"); err != nil {
		return fmt.Errorf("failed to catch up lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Terminate transitions the lease to terminated state
func (l *LeaseFSM) Terminate(ctx context.Context) error {
	if !l.lease.MayTerminate() {
		return fmt.Errorf("lease cannot be terminated in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, "terminate"); err != nil {
		return fmt.Errorf("failed to terminate lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Current returns the current state
func (l *LeaseFSM) Current() string {
	return l.fsm.Current()
}

// Can checks if a transition is possible
func (l *LeaseFSM) Can(event string) bool {
	return l.fsm.Can(event)
}
