package binding

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/panjf2000/ants"
	log "github.com/sirupsen/logrus"

	"github.com/nm-morais/go-sched/configs"
	blockingqueue "github.com/nm-morais/go-sched/pkg/dataStructures/blockingQueue"
	"github.com/nm-morais/go-sched/pkg/errors"
	"github.com/nm-morais/go-sched/pkg/event"
	"github.com/nm-morais/go-sched/pkg/logs"
	"github.com/nm-morais/go-sched/pkg/scheduler"
)

const bindingCaller = "bindingManager"

// EventHandler consumes one fired event.
type EventHandler func(ev event.Event)

// Task is deferred work performed against the scheduler by the manager's
// driver goroutine. Handlers queue tasks instead of blocking their worker on
// a full action channel.
type Task func(sched *scheduler.Scheduler)

// Manager is the protocol-binding side of the scheduler boundary: the single
// consumer of the event stream. Events are dispatched to handlers registered
// by dynamic event type and run on a worker pool, so ordering across events
// of the same type is not preserved here; consumers needing strict order
// should read the scheduler's event channel directly instead.
//
// When a ShutdownEvent arrives the manager submits Shutdown back to the
// scheduler and drains until the event channel closes.
type Manager struct {
	sched         *scheduler.Scheduler
	handlers      map[reflect.Type]EventHandler
	handlersMutex sync.RWMutex
	tasks         *blockingqueue.BlockingQueue
	pool          *ants.Pool
	logger        *log.Logger
	wg            sync.WaitGroup
}

func NewManager(config configs.SchedulerConfig, sched *scheduler.Scheduler) (*Manager, errors.Error) {
	logger := logs.NewLogger(bindingCaller)
	logs.SetLevel(logger, config.LogLevel)

	pool, err := ants.NewPool(config.DispatchPoolSize)
	if err != nil {
		return nil, errors.FatalError(500, err.Error(), bindingCaller)
	}
	tasks, err := blockingqueue.New(config.TaskQueueSize)
	if err != nil {
		return nil, errors.FatalError(500, err.Error(), bindingCaller)
	}

	return &Manager{
		sched:    sched,
		handlers: make(map[reflect.Type]EventHandler),
		tasks:    tasks,
		pool:     pool,
		logger:   logger,
	}, nil
}

// RegisterEventHandler binds handler to the dynamic type of prototype. All
// registrations must happen before events of that type start flowing.
func (m *Manager) RegisterEventHandler(prototype event.Event, handler EventHandler) errors.Error {
	if prototype == nil || handler == nil {
		return errors.FatalError(400, "nil event prototype or handler", bindingCaller)
	}
	key := reflect.TypeOf(prototype)
	m.handlersMutex.Lock()
	defer m.handlersMutex.Unlock()
	if _, ok := m.handlers[key]; ok {
		return errors.FatalError(409, fmt.Sprintf("handler already registered for %s", key), bindingCaller)
	}
	m.handlers[key] = handler
	return nil
}

// Start launches the event dispatcher and the task driver.
func (m *Manager) Start() {
	m.wg.Add(2)
	go m.dispatchLoop()
	go m.driveTasks()
}

// Submit forwards an action to the scheduler, blocking under backpressure.
func (m *Manager) Submit(a scheduler.Action) {
	m.sched.Submit(a)
}

// AddTask queues work for the driver goroutine, blocking while the task
// queue is full. It reports false once the manager is shutting down.
func (m *Manager) AddTask(t Task) bool {
	return m.tasks.Put(t) == nil
}

// Wait blocks until the scheduler has terminated and both manager loops have
// drained, then releases the worker pool.
func (m *Manager) Wait() {
	<-m.sched.Done()
	m.wg.Wait()
	m.pool.Release()
}

func (m *Manager) Logger() *log.Logger {
	return m.logger
}

func (m *Manager) dispatchLoop() {
	defer m.wg.Done()
	for ev := range m.sched.Events() {
		if _, isShutdown := ev.(event.ShutdownEvent); isShutdown {
			m.logger.Info("shutdown event received, stopping scheduler")
			m.sched.Submit(scheduler.Shutdown{})
			continue
		}
		m.dispatch(ev)
	}
	// event channel closed: scheduler terminated, stop the task driver too
	m.tasks.Close()
}

func (m *Manager) dispatch(ev event.Event) {
	m.handlersMutex.RLock()
	handler, ok := m.handlers[reflect.TypeOf(ev)]
	m.handlersMutex.RUnlock()
	if !ok {
		// contract violation by the event's producer, surfaced here rather
		// than swallowed
		err := errors.TemporaryError(404, fmt.Sprintf("no handler registered for event type %T", ev), bindingCaller)
		m.logger.Errorf("dropping event: %s", err.Reason())
		return
	}
	if err := m.pool.Submit(func() { handler(ev) }); err != nil {
		// pool already released mid-teardown; run inline so the event is
		// not lost
		handler(ev)
	}
}

func (m *Manager) driveTasks() {
	defer m.wg.Done()
	for {
		item, err := m.tasks.Get()
		if err != nil {
			return
		}
		item.(Task)(m.sched)
	}
}
