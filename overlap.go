package compositor

// rectList is the set of rectangles occupied by one compositing container,
// with their union kept for a quick reject.
type rectList struct {
	rects  []Rect
	bounds Rect
}

func (l *rectList) add(r Rect) {
	l.rects = append(l.rects, r)
	l.bounds = l.bounds.Union(r)
}

func (l *rectList) addList(o rectList) {
	l.rects = append(l.rects, o.rects...)
	l.bounds = l.bounds.Union(o.bounds)
}

func (l *rectList) intersects(r Rect) bool {
	if len(l.rects) == 0 || !intersects(l.bounds, r) {
		return false
	}
	for _, x := range l.rects {
		if intersects(x, r) {
			return true
		}
	}
	return false
}

// OverlapMap tracks the screen area already claimed by composited content
// during one decision pass.
//
// It is a stack of levels, one per open compositing container. A layer's
// rectangle is recorded one level below the top, so it becomes visible to
// overlap tests once its container is popped; until then only content
// outside the container sees it.
type OverlapMap struct {
	levels []rectList
	layers map[LayerID]struct{}
}

// NewOverlapMap returns a map with one level, standing for the root.
func NewOverlapMap() *OverlapMap {
	m := &OverlapMap{layers: make(map[LayerID]struct{})}
	m.PushCompositingContainer()
	return m
}

// PushCompositingContainer opens a level for a newly composited layer.
func (m *OverlapMap) PushCompositingContainer() {
	m.levels = append(m.levels, rectList{})
}

// PopCompositingContainer merges the top level into the one below. The
// base level is never popped.
func (m *OverlapMap) PopCompositingContainer() {
	n := len(m.levels)
	if n < 2 {
		contractf(false, "overlap map popped at depth %d", n)
		return
	}
	m.levels[n-2].addList(m.levels[n-1])
	m.levels = m.levels[:n-1]
}

// Add records r for layer l.
func (m *OverlapMap) Add(l *Layer, r Rect) {
	n := len(m.levels)
	contractf(n >= 2, "overlap map add at depth %d", n)
	m.levels[max(n-2, 0)].add(r)
	m.layers[l.id] = struct{}{}
}

// Contains reports whether l has been recorded.
func (m *OverlapMap) Contains(l *Layer) bool {
	_, ok := m.layers[l.id]
	return ok
}

// OverlapsLayers tests r against the top level.
func (m *OverlapMap) OverlapsLayers(r Rect) bool {
	return m.levels[len(m.levels)-1].intersects(r)
}

// IsEmpty reports whether no layer has been recorded.
func (m *OverlapMap) IsEmpty() bool { return len(m.layers) == 0 }

// Depth returns the number of levels.
func (m *OverlapMap) Depth() int { return len(m.levels) }
