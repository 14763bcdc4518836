package compositor

import "testing"

func TestOverlapMapDeferredVisibility(t *testing.T) {
	m := NewOverlapMap()
	a := NewLayer("A", XYWH(0, 0, 100, 100))

	m.PushCompositingContainer()
	m.Add(a, a.Bounds)
	if !m.Contains(a) {
		t.Error("Contains(A) = false after Add")
	}
	if m.OverlapsLayers(XYWH(50, 50, 10, 10)) {
		t.Error("rectangle visible inside its own container")
	}

	m.PopCompositingContainer()
	if !m.OverlapsLayers(XYWH(50, 50, 10, 10)) {
		t.Error("rectangle not visible after its container was popped")
	}
	if m.OverlapsLayers(XYWH(200, 200, 10, 10)) {
		t.Error("disjoint rectangle reported as overlapping")
	}
}

func TestOverlapMapNestedContainers(t *testing.T) {
	m := NewOverlapMap()
	outer := NewLayer("outer", XYWH(0, 0, 50, 50))
	inner := NewLayer("inner", XYWH(100, 100, 50, 50))

	m.PushCompositingContainer()
	m.Add(outer, outer.Bounds)
	m.PushCompositingContainer()
	m.Add(inner, inner.Bounds)
	m.PopCompositingContainer()

	// inner is visible to the rest of outer's container, outer is not yet.
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"inner", XYWH(110, 110, 5, 5), true},
		{"outer", XYWH(10, 10, 5, 5), false},
	}
	for _, tt := range tests {
		if got := m.OverlapsLayers(tt.r); got != tt.want {
			t.Errorf("OverlapsLayers(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}

	m.PopCompositingContainer()
	if !m.OverlapsLayers(XYWH(10, 10, 5, 5)) {
		t.Error("outer not visible at the base level")
	}
}

func TestOverlapMapDepthBalanced(t *testing.T) {
	m := NewOverlapMap()
	if got := m.Depth(); got != 1 {
		t.Fatalf("Depth() = %d, want 1", got)
	}
	for range 3 {
		m.PushCompositingContainer()
	}
	for range 3 {
		m.PopCompositingContainer()
	}
	if got := m.Depth(); got != 1 {
		t.Errorf("Depth() = %d, want 1", got)
	}
	if !m.IsEmpty() {
		t.Error("IsEmpty() = false with nothing added")
	}
}

func TestOverlapMapEmptyRectOccupiesPixel(t *testing.T) {
	r := overlapRect(XYWH(10, 10, 0, 0))
	if r.Empty() {
		t.Fatal("overlapRect() of an empty rectangle is empty")
	}
	if !intersects(r, XYWH(10, 10, 1, 1)) {
		t.Error("one-pixel footprint does not cover its position")
	}
}
