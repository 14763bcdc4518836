package runloop

import "time"

// Timer is a pending one-shot callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the call stopped the timer
	// before it fired.
	Stop() bool

	// Active reports whether the timer is still waiting to fire.
	Active() bool
}

// Scheduler arranges for callbacks to run after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}
