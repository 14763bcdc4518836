package compositor

import (
	"errors"

	"github.com/gogpu/compositor/runloop"
)

// ErrFlushInProgress is returned by FlushPendingLayerChanges when called
// from within a flush.
var ErrFlushInProgress = errors.New("compositor: flush already in progress")

// flushState tracks flush scheduling and throttling.
type flushState struct {
	throttlingEnabled bool

	// pending is set when a throttled flush was deferred to the timer.
	pending bool

	flushing bool

	// interaction suspends throttling until the next flush.
	interaction bool

	// shouldFlushOnReattach records a flush skipped while detached.
	shouldFlushOnReattach bool

	timer runloop.Timer
}

// ScheduleLayerFlush asks the host for a flush. While throttling is in
// effect a request that allows it is deferred until the throttle timer
// fires.
func (c *Compositor) ScheduleLayerFlush(canThrottle bool) {
	if canThrottle && c.IsThrottlingLayerFlushes() {
		c.flush.pending = true
		return
	}
	c.scheduleLayerFlushNow()
}

func (c *Compositor) scheduleLayerFlushNow() {
	c.flush.pending = false
	if c.host != nil {
		c.host.ScheduleCompositingLayerFlush()
	}
}

// FlushPendingLayerChanges commits the presentation tree to its stores.
// While the root surface is detached the flush is deferred until it is
// attached again.
func (c *Compositor) FlushPendingLayerChanges() error {
	if !c.attached {
		c.flush.shouldFlushOnReattach = true
		return nil
	}
	if c.flush.flushing {
		contractf(false, "re-entrant flush")
		return ErrFlushInProgress
	}

	var err error
	if c.rootContent != nil {
		c.flush.flushing = true
		err = c.rootContent.Flush()
		c.flush.flushing = false
		c.stats.Flushes++
		Logger().Debug("compositor: flushed", "flushes", c.stats.Flushes, "err", err)
	}

	c.updateViewportConstrainedLayersAfterFlush()
	c.startLayerFlushTimerIfNeeded()
	return err
}

// SetLayerFlushThrottlingEnabled turns flush throttling on or off.
// Disabling it releases a deferred flush at once.
func (c *Compositor) SetLayerFlushThrottlingEnabled(enabled bool) {
	c.flush.throttlingEnabled = enabled
	if enabled {
		return
	}
	c.stopFlushTimer()
	if c.flush.pending {
		c.scheduleLayerFlushNow()
	}
}

// DisableLayerFlushThrottlingTemporarilyForInteraction lets flushes
// through unthrottled until the next flush completes.
func (c *Compositor) DisableLayerFlushThrottlingTemporarilyForInteraction() {
	c.flush.interaction = true
}

// IsThrottlingLayerFlushes reports whether throttleable flush requests
// are being deferred.
func (c *Compositor) IsThrottlingLayerFlushes() bool {
	f := &c.flush
	return f.throttlingEnabled && f.timer != nil && f.timer.Active() && !f.interaction
}

// HasPendingLayerFlush reports a flush deferred by throttling.
func (c *Compositor) HasPendingLayerFlush() bool { return c.flush.pending }

// startLayerFlushTimerIfNeeded opens a throttle window after each flush.
func (c *Compositor) startLayerFlushTimerIfNeeded() {
	c.flush.interaction = false
	c.stopFlushTimer()
	if !c.flush.throttlingEnabled {
		return
	}
	c.flush.timer = c.scheduler.AfterFunc(c.cfg.FlushThrottleDelay, c.layerFlushTimerFired)
}

func (c *Compositor) layerFlushTimerFired() {
	c.flush.timer = nil
	if !c.flush.pending {
		return
	}
	c.scheduleLayerFlushNow()
}

func (c *Compositor) stopFlushTimer() {
	if c.flush.timer != nil {
		c.flush.timer.Stop()
		c.flush.timer = nil
	}
}
