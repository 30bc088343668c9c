package aggregates

import "time"

// Hooks receives aggregate write observations. Implementations must be cheap
// and must not fail the write path.
type Hooks interface {
	ObserveOperation(name, status string, elapsed time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

// NoopHooks returns hooks that discard every observation.
func NoopHooks() Hooks { return noopHooks{} }
