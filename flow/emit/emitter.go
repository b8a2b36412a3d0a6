package emit

// Emitter receives lifecycle events from workflow execution.
//
// Implementations should be thread-safe (events arrive concurrently from
// multiple node executions), should not block the run, and must not panic;
// backend failures are handled internally.
//
// Common backends: stdout/file logging (LogEmitter), OpenTelemetry spans
// (OTelEmitter), async fan-out (BufferedEmitter), or the subscription Bus
// consumed by UI panels.
type Emitter interface {
	// Emit delivers one event. Implementations must not retain the Meta
	// map beyond the call unless they copy it.
	Emit(event Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(event Event)

// Emit implements the Emitter interface.
func (f EmitterFunc) Emit(event Event) { f(event) }

// Multi fans one event out to several emitters in order.
type Multi []Emitter

// Emit implements the Emitter interface.
func (m Multi) Emit(event Event) {
	for _, e := range m {
		if e != nil {
			e.Emit(event)
		}
	}
}
