package scheduler

import "github.com/nm-morais/go-sched/pkg/timer"

// Action is a control command accepted by the scheduler. The set of actions
// is closed: StartTimer, CancelTimer and Shutdown.
type Action interface {
	isAction()
}

// StartTimer installs Timer. If a timer with the same ID is already active it
// is atomically replaced: the old countdown is discarded and a brand-new
// countdown of the new timer's full period begins.
type StartTimer struct {
	Timer timer.Timer
}

// CancelTimer removes the timer with the given ID. Cancelling an unknown ID
// is a no-op.
type CancelTimer struct {
	ID timer.ID
}

// Shutdown terminates the scheduler: every pending countdown is cancelled,
// the registry is cleared and the event channel is closed. No action is
// accepted afterwards.
type Shutdown struct{}

func (StartTimer) isAction() {}

func (CancelTimer) isAction() {}

func (Shutdown) isAction() {}
