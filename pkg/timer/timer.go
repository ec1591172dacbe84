package timer

import (
	"time"

	"github.com/nm-morais/go-sched/pkg/event"
)

// ID identifies a timer. At most one timer is active per ID; starting another
// timer with the same ID replaces the active one and restarts the countdown
// from the new timer's full period.
type ID = string

// RepeatForever marks a timer that fires every period until cancelled or the
// scheduler shuts down. Any negative repeat value is treated the same way.
const RepeatForever = -1

// Context is handed to OnFire on every firing. Remaining is the number of
// firings still budgeted after this one (negative for indefinite timers).
type Context struct {
	ID        ID
	FiredAt   time.Time
	Remaining int
}

type Timer interface {
	ID() ID
	Period() time.Duration

	// Repeat is the total firing budget. RepeatForever means unlimited;
	// a budget of 0 means the timer never fires.
	Repeat() int

	// OnFire maps a firing to an outbound event. A nil return emits nothing,
	// but the firing still consumes one unit of the repeat budget.
	OnFire(ctx Context) event.Event
}

type simpleTimer struct {
	id     ID
	period time.Duration
	repeat int
	fire   func(Context) event.Event
}

// New builds a Timer from a callback value.
func New(id ID, period time.Duration, repeat int, fire func(Context) event.Event) Timer {
	return &simpleTimer{
		id:     id,
		period: period,
		repeat: repeat,
		fire:   fire,
	}
}

func (t *simpleTimer) ID() ID {
	return t.id
}

func (t *simpleTimer) Period() time.Duration {
	return t.period
}

func (t *simpleTimer) Repeat() int {
	return t.repeat
}

func (t *simpleTimer) OnFire(ctx Context) event.Event {
	if t.fire == nil {
		return nil
	}
	return t.fire(ctx)
}
