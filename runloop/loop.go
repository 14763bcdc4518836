package runloop

import (
	"sync"
	"sync/atomic"
	"time"
)

// Loop runs posted callbacks on a single dedicated goroutine.
//
// Post and AfterFunc are safe for concurrent use. Callbacks run one at a
// time in submission order; a timer callback is posted to the loop when its
// delay elapses.
type Loop struct {
	// work carries callbacks to the loop goroutine.
	work chan func()

	// done signals the loop goroutine to stop.
	done chan struct{}

	// mu orders sends on work against Close; closed is guarded by mu.
	mu     sync.RWMutex
	closed bool

	wg   sync.WaitGroup
	once sync.Once
}

// NewLoop starts a loop whose queue buffers up to queueSize callbacks.
// A queueSize below 1 selects a default of 64.
func NewLoop(queueSize int) *Loop {
	if queueSize < 1 {
		queueSize = 64
	}
	l := &Loop{
		work: make(chan func(), queueSize),
		done: make(chan struct{}),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer l.wg.Done()
	for {
		select {
		case <-l.done:
			l.drain()
			return
		case fn := <-l.work:
			if fn != nil {
				fn()
			}
		}
	}
}

// drain runs whatever is still queued when the loop stops.
func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.work:
			if fn != nil {
				fn()
			}
		default:
			return
		}
	}
}

// Post queues f to run on the loop goroutine. It reports false once the
// loop has been closed; a callback Post accepted always runs.
func (l *Loop) Post(f func()) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return false
	}
	l.work <- f
	return true
}

// Sync blocks until every callback posted before it has run.
func (l *Loop) Sync() {
	ch := make(chan struct{})
	if !l.Post(func() { close(ch) }) {
		return
	}
	<-ch
}

// AfterFunc schedules f to be posted to the loop after d.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{}
	t.active.Store(true)
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.active.CompareAndSwap(true, false) {
				f()
			}
		})
	})
	return t
}

// Close stops the loop after running the callbacks already queued.
// Close is idempotent.
func (l *Loop) Close() {
	l.once.Do(func() {
		// No send is in flight once the write lock is held, so drain sees
		// every accepted callback.
		l.mu.Lock()
		l.closed = true
		close(l.done)
		l.mu.Unlock()
		l.wg.Wait()
	})
}

type loopTimer struct {
	timer  *time.Timer
	active atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return t.active.CompareAndSwap(true, false)
}

func (t *loopTimer) Active() bool { return t.active.Load() }
