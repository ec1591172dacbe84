package binding

import (
	"testing"
	"time"

	"github.com/nm-morais/go-sched/configs"
	"github.com/nm-morais/go-sched/pkg/event"
	"github.com/nm-morais/go-sched/pkg/scheduler"
	"github.com/nm-morais/go-sched/pkg/timer"
)

type pingEvent struct{ n int }

type strayEvent struct{}

func newTestManager(t *testing.T) (*Manager, *scheduler.Scheduler) {
	t.Helper()
	config := configs.DefaultConfig()
	config.LogLevel = "error"
	sched := scheduler.New(config)
	manager, err := NewManager(config, sched)
	if err != nil {
		t.Fatalf("building manager: %s", err.Reason())
	}
	sched.Start()
	manager.Start()
	return manager, sched
}

func Test_DispatchRunsRegisteredHandler(t *testing.T) {
	manager, sched := newTestManager(t)
	defer sched.Submit(scheduler.Shutdown{})

	handled := make(chan pingEvent, 1)
	if err := manager.RegisterEventHandler(pingEvent{}, func(ev event.Event) {
		handled <- ev.(pingEvent)
	}); err != nil {
		t.Fatalf("registering handler: %s", err.Reason())
	}

	manager.Submit(scheduler.StartTimer{Timer: timer.New("ping", 30*time.Millisecond, 1,
		func(timer.Context) event.Event {
			return pingEvent{n: 42}
		})})

	select {
	case got := <-handled:
		if got.n != 42 {
			t.Errorf("handler got %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}
}

func Test_DuplicateHandlerRegistrationFails(t *testing.T) {
	manager, sched := newTestManager(t)
	defer sched.Submit(scheduler.Shutdown{})

	noop := func(event.Event) {}
	if err := manager.RegisterEventHandler(pingEvent{}, noop); err != nil {
		t.Fatalf("first registration failed: %s", err.Reason())
	}
	if err := manager.RegisterEventHandler(pingEvent{}, noop); err == nil {
		t.Error("duplicate registration accepted")
	}
}

func Test_UnknownEventTypeDoesNotStopDispatch(t *testing.T) {
	manager, sched := newTestManager(t)
	defer sched.Submit(scheduler.Shutdown{})

	handled := make(chan struct{}, 1)
	if err := manager.RegisterEventHandler(pingEvent{}, func(event.Event) {
		handled <- struct{}{}
	}); err != nil {
		t.Fatalf("registering handler: %s", err.Reason())
	}

	// an event type nobody registered for is logged and dropped; the
	// dispatcher must keep serving later events
	manager.Submit(scheduler.StartTimer{Timer: timer.New("stray", 20*time.Millisecond, 1,
		func(timer.Context) event.Event {
			return strayEvent{}
		})})
	manager.Submit(scheduler.StartTimer{Timer: timer.New("ping", 60*time.Millisecond, 1,
		func(timer.Context) event.Event {
			return pingEvent{n: 1}
		})})

	select {
	case <-handled:
	case <-time.After(time.Second):
		t.Fatal("dispatcher stopped after an unknown event type")
	}
}

func Test_ShutdownEventTearsSchedulerDown(t *testing.T) {
	manager, sched := newTestManager(t)

	manager.Submit(scheduler.StartTimer{Timer: timer.New("idle", 50*time.Millisecond, 1,
		func(timer.Context) event.Event {
			return event.ShutdownEvent{}
		})})

	waited := make(chan struct{})
	go func() {
		manager.Wait()
		close(waited)
	}()

	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("manager did not tear down after ShutdownEvent")
	}

	select {
	case <-sched.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler still running after ShutdownEvent")
	}
}

func Test_AddTaskRunsAgainstScheduler(t *testing.T) {
	manager, sched := newTestManager(t)
	defer sched.Submit(scheduler.Shutdown{})

	handled := make(chan struct{}, 1)
	if err := manager.RegisterEventHandler(pingEvent{}, func(event.Event) {
		handled <- struct{}{}
	}); err != nil {
		t.Fatalf("registering handler: %s", err.Reason())
	}

	if !manager.AddTask(func(sched *scheduler.Scheduler) {
		sched.Submit(scheduler.StartTimer{Timer: timer.New("fromTask", 20*time.Millisecond, 1,
			func(timer.Context) event.Event {
				return pingEvent{n: 7}
			})})
	}) {
		t.Fatal("task refused")
	}

	select {
	case <-handled:
	case <-time.After(time.Second):
		t.Fatal("task never reached the scheduler")
	}
}

func Test_AddTaskRefusedAfterTeardown(t *testing.T) {
	manager, sched := newTestManager(t)

	sched.Submit(scheduler.Shutdown{})
	manager.Wait()

	if manager.AddTask(func(*scheduler.Scheduler) {}) {
		t.Error("task accepted after teardown")
	}
}
