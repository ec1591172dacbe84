package event

// Event is an opaque payload emitted when a timer fires. The scheduler never
// inspects it; producers and consumers agree on concrete types out of band.
type Event interface{}

// ShutdownEvent is the reserved sentinel a timer callback may emit to ask the
// consumer to tear the scheduler down.
type ShutdownEvent struct{}
