package compositor

import (
	"time"

	"github.com/gogpu/compositor/runloop"
	"github.com/gogpu/compositor/scroll"
	"github.com/gogpu/compositor/surface"
)

// SurfaceFactory creates presentation surfaces. *surface.Registry
// implements it.
type SurfaceFactory interface {
	NewSurface(name string, client surface.Client) (*surface.Surface, error)
	CanCreate() bool
}

// Host embeds the presentation tree and runs its flushes.
type Host interface {
	// ScheduleCompositingLayerFlush asks for FlushPendingLayerChanges to be
	// called before the next display refresh.
	ScheduleCompositingLayerFlush()

	// AttachRootSurface hosts root, or removes the hosted surface when
	// root is nil.
	AttachRootSurface(root *surface.Surface)
}

// Option configures a Compositor during creation.
//
// Example:
//
//	c := compositor.New(view,
//	    compositor.WithHost(host),
//	    compositor.WithScrollCoordinator(scroll.NewTree()),
//	    compositor.WithDebugBorders(true),
//	)
type Option func(*options)

type options struct {
	config      Config
	host        Host
	scheduler   runloop.Scheduler
	surfaces    SurfaceFactory
	coordinator scroll.Coordinator
	deviceScale float64
	pageScale   float64
}

func defaultOptions() options {
	return options{
		config:      DefaultConfig(),
		surfaces:    surface.Default(),
		deviceScale: 1,
		pageScale:   1,
	}
}

// WithConfig replaces the default settings. Options after it adjust the
// replacement.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithTriggers selects which direct compositing reasons apply.
func WithTriggers(t Triggers) Option {
	return func(o *options) { o.config.Triggers = t }
}

// WithForceCompositing keeps the root composited even when nothing else
// needs to be.
func WithForceCompositing(force bool) Option {
	return func(o *options) { o.config.ForceCompositingMode = force }
}

// WithDebugBorders outlines every surface.
func WithDebugBorders(show bool) Option {
	return func(o *options) { o.config.ShowDebugBorders = show }
}

// WithRepaintCounter draws each surface's repaint count.
func WithRepaintCounter(show bool) Option {
	return func(o *options) { o.config.ShowRepaintCounter = show }
}

// WithFixedPositionCompositing allows fixed and sticky layers to be
// composited for their position.
func WithFixedPositionCompositing(enabled bool) Option {
	return func(o *options) { o.config.CompositingForFixedPosition = enabled }
}

// WithFlushDelay sets how long throttled flushes are deferred.
func WithFlushDelay(d time.Duration) Option {
	return func(o *options) { o.config.FlushThrottleDelay = d }
}

// WithScaleFactors sets the initial device and page scale. Non-positive
// values keep the default of 1.
func WithScaleFactors(device, page float64) Option {
	return func(o *options) {
		if device > 0 {
			o.deviceScale = device
		}
		if page > 0 {
			o.pageScale = page
		}
	}
}
// WithHost attaches the presentation tree to host. Without a host the
// root surface stays unattached and flushes are deferred.
func WithHost(h Host) Option {
	return func(o *options) { o.host = h }
}

// WithScheduler sets the timer source for deferred updates and throttled
// flushes. The default is a runloop.Manual the caller reaches through
// Compositor.Scheduler.
func WithScheduler(s runloop.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithSurfaceFactory sets where surfaces come from. The default is
// surface.Default().
func WithSurfaceFactory(f SurfaceFactory) Option {
	return func(o *options) { o.surfaces = f }
}

// WithScrollCoordinator publishes viewport constraints to c.
func WithScrollCoordinator(c scroll.Coordinator) Option {
	return func(o *options) { o.coordinator = c }
}
