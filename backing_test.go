package compositor

import (
	"testing"
)

func TestClippingSurfaceForCompositedDescendants(t *testing.T) {
	root := newTestRoot()
	o := root.Append(NormalFlow, NewLayer("O", XYWH(0, 0, 200, 200)))
	o.Style.OverflowClip = true
	o.ClipRect = XYWH(0, 0, 200, 200)
	tr := o.Append(NormalFlow, transformed("T", XYWH(150, 150, 100, 100)))
	c, _ := newTestCompositor(t, root)

	c.UpdateCompositingLayers(UpdateAfterLayout, nil)

	if got := c.ReasonsForCompositing(o); !got.Has(ReasonClipsCompositingDescendants) {
		t.Fatalf("ReasonsForCompositing(O) = %v, want clips compositing descendants", got)
	}
	ob := c.Backing(o)
	clip := ob.Clipping()
	if clip == nil {
		t.Fatal("O has no clipping surface")
	}
	if !clip.MasksToBounds() {
		t.Error("clipping surface does not mask")
	}
	if ob.ParentForSublayers() != clip {
		t.Error("ParentForSublayers() is not the clipping surface")
	}
	tp := c.Backing(tr).Primary()
	if tp.Parent() != clip {
		t.Error("T is not hosted by O's clipping surface")
	}
	if got, want := tp.Position(), Pt(150, 150); got != want {
		t.Errorf("T position = %v, want %v", got, want)
	}
}

func TestAncestorClippingSurface(t *testing.T) {
	root := newTestRoot()
	ctr := root.Append(NormalFlow, transformed("C", XYWH(0, 0, 300, 300)))
	o := ctr.Append(NormalFlow, NewLayer("O", XYWH(10, 10, 100, 100)))
	// O cannot be composited, so its clip is applied by T's own surfaces.
	o.SelfPainting = false
	o.Style.OverflowClip = true
	o.ClipRect = XYWH(10, 10, 100, 100)
	tr := o.Append(NormalFlow, transformed("T", XYWH(50, 50, 200, 200)))
	c, _ := newTestCompositor(t, root)

	c.UpdateCompositingLayers(UpdateAfterLayout, nil)

	tb := c.Backing(tr)
	ac := tb.AncestorClipping()
	if ac == nil {
		t.Fatal("T has no ancestor clipping surface")
	}
	if tb.ChildForSuperlayers() != ac {
		t.Error("ChildForSuperlayers() is not the ancestor clipping surface")
	}
	tests := []struct {
		name string
		got  Point
		want Point
	}{
		{"ancestor clip position", ac.Position(), Pt(10, 10)},
		{"ancestor clip size", ac.Size(), Pt(100, 100)},
		{"primary position", tb.Primary().Position(), Pt(40, 40)},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestMaskSurface(t *testing.T) {
	root := newTestRoot()
	l := root.Append(NormalFlow, transformed("L", XYWH(10, 10, 80, 60)))
	l.Style.Mask = true
	c, _ := newTestCompositor(t, root)

	c.UpdateCompositingLayers(UpdateAfterLayout, nil)

	b := c.Backing(l)
	m := b.Mask()
	if m == nil {
		t.Fatal("L has no mask surface")
	}
	if b.Primary().Mask() != m {
		t.Error("primary does not reference the mask surface")
	}
	if m.Size() != b.Primary().Size() {
		t.Errorf("mask size = %v, want %v", m.Size(), b.Primary().Size())
	}

	l.Style.Mask = false
	c.SetCompositingLayersNeedRebuild()
	c.UpdateCompositingLayers(UpdateAfterLayout, nil)
	if b.Mask() != nil || b.Primary().Mask() != nil {
		t.Error("mask surface kept after the mask was removed")
	}
	if !m.Closed() {
		t.Error("released mask surface not closed")
	}
}

func TestCompositedScrollingSurfaces(t *testing.T) {
	root := newTestRoot()
	s := root.Append(NormalFlow, NewLayer("S", XYWH(0, 0, 120, 100)))
	s.Style.OverflowClip = true
	s.Style.TouchScrolling = true
	s.ScrollsOverflow = true
	s.ClipRect = XYWH(0, 0, 100, 100)
	s.ScrollSize = Pt(100, 400)
	s.ScrollOffset = Pt(0, 30)
	s.Scrollbars.Vertical = XYWH(100, 0, 20, 100)
	c, _ := newTestCompositor(t, root)

	c.UpdateCompositingLayers(UpdateAfterLayout, nil)

	if got := c.ReasonsForCompositing(s); !got.Has(ReasonOverflowScrollingTouch) {
		t.Fatalf("ReasonsForCompositing(S) = %v, want touch scrolling", got)
	}
	b := c.Backing(s)
	contents := b.ScrollingContents()
	if contents == nil {
		t.Fatal("S has no scrolled contents surface")
	}
	if b.ParentForSublayers() != contents {
		t.Error("ParentForSublayers() is not the scrolled contents")
	}
	if got, want := contents.Position(), Pt(0, -30); got != want {
		t.Errorf("contents position = %v, want %v", got, want)
	}
	if got, want := contents.Size(), Pt(100, 400); got != want {
		t.Errorf("contents size = %v, want %v", got, want)
	}
	if b.vScrollbar == nil || b.vScrollbar.Parent() != b.Primary() {
		t.Error("vertical scrollbar surface missing or misparented")
	}
	if b.hScrollbar != nil {
		t.Error("horizontal scrollbar surface created without a scrollbar")
	}
}

func TestFixedRootBackgroundSurfaces(t *testing.T) {
	root := newTestRoot()
	root.Append(NormalFlow, transformed("A", XYWH(10, 10, 100, 100)))
	cfg := DefaultConfig()
	cfg.FixedRootBackground = true
	c, _ := newTestCompositor(t, root, WithConfig(cfg))
	c.View().FixedBackground = true

	c.UpdateCompositingLayers(UpdateAfterLayout, nil)

	b := c.Backing(root)
	if b.Background() == nil {
		t.Fatal("root has no background surface")
	}
	ctr := b.ChildForSuperlayers()
	if ctr == b.Primary() {
		t.Fatal("ChildForSuperlayers() is the primary, want the containment surface")
	}
	kids := surfaceNames(ctr.Children())
	if len(kids) != 2 || kids[0] != "root (background)" || kids[1] != "root" {
		t.Errorf("containment children = %v, want [root (background) root]", kids)
	}
}

func TestBackingInvalidationInSurfaceCoordinates(t *testing.T) {
	root := newTestRoot()
	a := root.Append(NormalFlow, transformed("A", XYWH(100, 100, 100, 100)))
	c, _ := newTestCompositor(t, root)
	c.SetTracksRepaints(true)
	c.UpdateCompositingLayers(UpdateAfterLayout, nil)
	if err := c.FlushPendingLayerChanges(); err != nil {
		t.Fatalf("FlushPendingLayerChanges() = %v", err)
	}

	b := c.Backing(a)
	b.Primary().ResetTrackedRepaints()
	b.setContentsNeedDisplayInRect(XYWH(110, 120, 10, 10))

	got := b.Primary().TrackedRepaintRects()
	if len(got) != 1 || got[0] != XYWH(10, 20, 10, 10) {
		t.Errorf("TrackedRepaintRects() = %v, want [%v]", got, XYWH(10, 20, 10, 10))
	}
}

func TestBackingStoreBytes(t *testing.T) {
	root := newTestRoot()
	a := root.Append(NormalFlow, transformed("A", XYWH(0, 0, 10, 20)))
	c, _ := newTestCompositor(t, root, WithScaleFactors(2, 1))
	c.UpdateCompositingLayers(UpdateAfterLayout, nil)

	if got, want := c.Backing(a).backingStoreBytes(), int64(20*40*4); got != want {
		t.Errorf("backingStoreBytes() = %d, want %d", got, want)
	}
}
