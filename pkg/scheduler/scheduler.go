package scheduler

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nm-morais/go-sched/configs"
	deadlinequeue "github.com/nm-morais/go-sched/pkg/dataStructures/deadlineQueue"
	"github.com/nm-morais/go-sched/pkg/event"
	"github.com/nm-morais/go-sched/pkg/logs"
	"github.com/nm-morais/go-sched/pkg/timer"
)

const schedulerCaller = "scheduler"

type loopState uint8

const (
	running loopState = iota
	draining
)

// Scheduler turns a stream of timer-control actions into a stream of fired
// events. All registry mutation happens on a single dispatch loop goroutine,
// which merges inbound actions with due countdowns taken from a deadline
// min-heap. Both channels crossing its boundary are bounded: a full action
// channel blocks producers and a full event channel blocks firings, so
// events are delayed under backpressure but never dropped.
//
// A Scheduler holds no global state; independent instances can coexist.
type Scheduler struct {
	config  configs.SchedulerConfig
	actions chan Action
	events  chan event.Event
	done    chan struct{}
	reg     *registry
	pending *deadlinequeue.DeadlineQueue
	logger  *log.Logger
}

func New(config configs.SchedulerConfig) *Scheduler {
	logger := logs.NewLogger(schedulerCaller)
	logs.SetLevel(logger, config.LogLevel)
	return &Scheduler{
		config:  config,
		actions: make(chan Action, config.ActionQueueSize),
		events:  make(chan event.Event, config.EventQueueSize),
		done:    make(chan struct{}),
		reg:     newRegistry(),
		pending: deadlinequeue.New(),
		logger:  logger,
	}
}

// Start launches the dispatch loop.
func (s *Scheduler) Start() {
	go s.run()
}

// Submit enqueues an action, blocking the caller while the action channel is
// full. After the scheduler has terminated, Submit discards the action.
func (s *Scheduler) Submit(a Action) {
	select {
	case <-s.done:
	case s.actions <- a:
	}
}

// Events is the outbound stream of fired events. Events from the same timer
// appear in firing order. The channel is closed exactly once, when the
// scheduler terminates; it is meant for a single consumer.
func (s *Scheduler) Events() <-chan event.Event {
	return s.events
}

// Done is closed once the dispatch loop has terminated.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) Logger() *log.Logger {
	return s.logger
}

func (s *Scheduler) run() {
	defer close(s.done)
	defer close(s.events)

	state := running
	for state == running {
		var wake *time.Timer
		var wakeChan <-chan time.Time
		if next := s.pending.Peek(); next != nil {
			wake = time.NewTimer(time.Until(time.Unix(0, next.Deadline)))
			wakeChan = wake.C
		}

		select {
		case a := <-s.actions:
			state = s.handleAction(a)
		case <-wakeChan:
			s.fireDue()
		}

		if wake != nil {
			wake.Stop()
		}
	}

	// Draining: drop every pending countdown so no timer outlives shutdown.
	s.pending.Clear()
	s.reg.clear()
	s.logger.Info("dispatch loop terminated")
}

func (s *Scheduler) handleAction(a Action) loopState {
	switch act := a.(type) {
	case StartTimer:
		s.startTimer(act.Timer)
	case CancelTimer:
		s.cancelTimer(act.ID)
	case Shutdown:
		s.logger.Info("shutdown received")
		return draining
	default:
		s.logger.Warnf("ignoring unknown action type %T", a)
	}
	return running
}

func (s *Scheduler) startTimer(t timer.Timer) {
	if t == nil {
		s.logger.Warn("ignoring StartTimer carrying a nil timer")
		return
	}
	if t.Repeat() == 0 {
		// a zero firing budget never fires; don't install it at all
		s.logger.Debugf("timer %s has an empty repeat budget, dropping", t.ID())
		return
	}
	entry := s.reg.put(t)
	s.pending.RemoveAll(t.ID())
	s.schedule(t.ID(), entry.generation, t.Period())
	s.logger.Debugf("started timer %s (period %s, repeat %d)", t.ID(), t.Period(), t.Repeat())
}

func (s *Scheduler) cancelTimer(id timer.ID) {
	s.reg.remove(id)
	s.pending.RemoveAll(id)
	s.logger.Debugf("cancelled timer %s", id)
}

func (s *Scheduler) schedule(id timer.ID, generation uint64, period time.Duration) {
	s.pending.Push(&deadlinequeue.Item{
		ID:         id,
		Generation: generation,
		Deadline:   time.Now().Add(period).UnixNano(),
	})
}

// fireDue pops every countdown whose deadline has passed and fires it.
func (s *Scheduler) fireDue() {
	now := time.Now()
	for {
		next := s.pending.Peek()
		if next == nil || next.Deadline > now.UnixNano() {
			return
		}
		s.fire(s.pending.Pop(), now)
	}
}

func (s *Scheduler) fire(item *deadlinequeue.Item, firedAt time.Time) {
	entry, ok := s.reg.lookup(item.ID)
	if !ok || entry.generation != item.Generation {
		// the countdown belongs to a timer that was cancelled or replaced
		s.logger.Debugf("dropping stale countdown for timer %s", item.ID)
		return
	}

	if entry.remaining > 0 {
		entry.remaining--
	}
	ctx := timer.Context{
		ID:        item.ID,
		FiredAt:   firedAt,
		Remaining: entry.remaining,
	}
	if ev := entry.timer.OnFire(ctx); ev != nil {
		s.events <- ev // blocks while the consumer lags
	}

	if entry.remaining == 0 {
		s.reg.remove(item.ID)
		s.logger.Debugf("timer %s exhausted its repeat budget", item.ID)
		return
	}
	s.schedule(item.ID, entry.generation, entry.timer.Period())
}
