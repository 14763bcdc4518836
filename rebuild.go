package compositor

import (
	"github.com/gogpu/compositor/surface"
)

// rebuildCompositingLayerTree refreshes each backing under l and rebuilds
// the surface children lists so they mirror paint order. The surfaces l
// contributes are appended to parentList.
func (c *Compositor) rebuildCompositingLayerTree(l *Layer, parentList *[]*surface.Surface, depth int) {
	b := c.Backing(l)
	if b != nil {
		b.updateCompositedBounds()
		if rb := c.reflectionBacking(l); rb != nil {
			rb.updateCompositedBounds()
		}
		if b.updateConfiguration() {
			b.updateDebugIndicators(c.cfg.ShowDebugBorders, c.cfg.ShowRepaintCounter)
		}
		b.updateGeometry()
		if l.parent == nil {
			c.updateRootLayerPosition()
		}
		c.logLayerInfo(l, b, depth)
	}

	var list []*surface.Surface
	for _, child := range l.negZ() {
		c.rebuildCompositingLayerTree(child, &list, depth+1)
	}
	// The foreground paints above negative z children and below the rest.
	if b != nil && b.foreground != nil {
		list = append(list, b.foreground)
	}
	for _, child := range l.normalFlow() {
		c.rebuildCompositingLayerTree(child, &list, depth+1)
	}
	for _, child := range l.posZ() {
		c.rebuildCompositingLayerTree(child, &list, depth+1)
	}

	if b == nil {
		*parentList = append(*parentList, list...)
		return
	}

	host := b.ParentForSublayers()
	host.SetChildren(list)
	// SetChildren dropped the scrollbars when they share the host.
	if b.clipping == nil && b.scrollingContainer == nil {
		for _, s := range []*surface.Surface{b.hScrollbar, b.vScrollbar, b.scrollCorner} {
			if s != nil {
				host.AddChild(s)
			}
		}
	}
	*parentList = append(*parentList, b.ChildForSuperlayers())
}

// updateLayerTreeGeometry refreshes backing geometry without touching the
// surface hierarchy. It serves scroll updates.
func (c *Compositor) updateLayerTreeGeometry(l *Layer, depth int) {
	if b := c.Backing(l); b != nil {
		b.updateCompositedBounds()
		if rb := c.reflectionBacking(l); rb != nil {
			rb.updateCompositedBounds()
		}
		b.updateConfiguration()
		b.updateGeometry()
		if l.parent == nil {
			c.updateRootLayerPosition()
		}
	}
	l.children(func(child *Layer) {
		c.updateLayerTreeGeometry(child, depth+1)
	})
}

func (c *Compositor) reflectionBacking(l *Layer) *Backing {
	if l.reflection == nil {
		return nil
	}
	return c.Backing(l.reflection)
}

func (c *Compositor) resetRebuildStats() {
	s := &c.stats
	s.CompositedLayers = 0
	s.Obligatory, s.Secondary = 0, 0
	s.ObligatoryBytes, s.SecondaryBytes = 0, 0
}

// logLayerInfo counts b towards the rebuild statistics. Obligatory layers
// are composited for intrinsic reasons; secondary ones only because of
// their surroundings.
func (c *Compositor) logLayerInfo(l *Layer, b *Backing, depth int) {
	s := &c.stats
	s.CompositedLayers++
	bytes := b.backingStoreBytes()
	if c.requiresCompositingLayer(l, nil) || c.isRootLayer(l) {
		s.Obligatory++
		s.ObligatoryBytes += bytes
	} else {
		s.Secondary++
		s.SecondaryBytes += bytes
	}
	if !c.logEnabled() {
		return
	}
	Logger().Debug("compositor: layer",
		"layer", l.String(),
		"depth", depth,
		"bounds", formatRect(b.compositedBounds),
		"bytes", bytes,
		"reasons", c.ReasonsForCompositing(l).String())
}

func (c *Compositor) logRebuildStats() {
	s := c.stats
	Logger().Debug("compositor: rebuilt hierarchy",
		"layers", s.CompositedLayers,
		"obligatory", s.Obligatory,
		"obligatoryBytes", s.ObligatoryBytes,
		"secondary", s.Secondary,
		"secondaryBytes", s.SecondaryBytes)
}
