package confirmation

import "time"

// Timer is a single-shot timer the controller waits on between checks
type Timer interface {
	// C returns the channel that fires when the timer elapses
	C() <-chan time.Time
	// Stop cancels the timer; it reports whether the timer was still pending
	Stop() bool
}

// Clock creates timers. The production clock wraps time.NewTimer; tests
// supply a manual clock so the attempt-bound timeout stays deterministic.
type Clock interface {
	NewTimer(d time.Duration) Timer
}

type realClock struct{}

// NewRealClock returns a Clock backed by the runtime timers
func NewRealClock() Clock {
	return realClock{}
}

func (realClock) NewTimer(d time.Duration) Timer {
	return &realTimer{timer: time.NewTimer(d)}
}

type realTimer struct {
	timer *time.Timer
}

func (t *realTimer) C() <-chan time.Time {
	return t.timer.C
}

func (t *realTimer) Stop() bool {
	return t.timer.Stop()
}
