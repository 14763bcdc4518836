package compositor

import "time"

// Triggers enable classes of direct compositing reasons.
type Triggers uint16

const (
	Trigger3DTransform Triggers = 1 << iota
	TriggerVideo
	TriggerPlugin
	TriggerCanvas
	TriggerAnimation
	TriggerFilter
	TriggerAnimatedOpacity
	TriggerIFrame

	TriggerAll = Trigger3DTransform | TriggerVideo | TriggerPlugin | TriggerCanvas |
		TriggerAnimation | TriggerFilter | TriggerAnimatedOpacity | TriggerIFrame
)

// Config holds settings that change compositing decisions. Changing any
// of the first four fields through UpdateSettings forces a hierarchy
// rebuild on the next update.
type Config struct {
	// AcceleratedCompositing allows layers to be composited at all.
	AcceleratedCompositing bool

	// ShowDebugBorders outlines every surface.
	ShowDebugBorders bool

	// ShowRepaintCounter draws each surface's repaint count.
	ShowRepaintCounter bool

	// ForceCompositingMode keeps the root composited even when nothing
	// else needs to be.
	ForceCompositingMode bool

	// Triggers selects which direct reasons apply.
	Triggers Triggers

	// CompositingForFixedPosition allows fixed and sticky layers to be
	// composited for their position.
	CompositingForFixedPosition bool

	// FixedRootBackground paints a fixed root background into its own
	// surface so it stays put while the document scrolls.
	FixedRootBackground bool

	// CanvasAreaThreshold is the minimum pixel area for a 2D canvas to be
	// composited.
	CanvasAreaThreshold int

	// FlushThrottleDelay is how long throttled flushes are deferred.
	FlushThrottleDelay time.Duration
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		AcceleratedCompositing:      true,
		Triggers:                    TriggerAll,
		CompositingForFixedPosition: true,
		CanvasAreaThreshold:         50 * 100,
		FlushThrottleDelay:          500 * time.Millisecond,
	}
}
