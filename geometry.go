package compositor

import (
	"fmt"

	"golang.org/x/image/math/fixed"
)

// Rect is an axis-aligned rectangle in layout units (1/64 pixel), in the
// coordinate space of the root layer.
type Rect = fixed.Rectangle26_6

// Point is a position in layout units.
type Point = fixed.Point26_6

// R returns the rectangle with pixel corners (x0, y0) and (x1, y1).
func R(x0, y0, x1, y1 int) Rect { return fixed.R(x0, y0, x1, y1) }

// XYWH returns the rectangle at pixel (x, y) with size w by h.
func XYWH(x, y, w, h int) Rect { return fixed.R(x, y, x+w, y+h) }

// Pt returns the point at pixel (x, y).
func Pt(x, y int) Point { return fixed.P(x, y) }

func rectSize(r Rect) Point { return r.Max.Sub(r.Min) }

// enclosingRect snaps r outward to whole pixels.
func enclosingRect(r Rect) Rect {
	return Rect{
		Min: Point{X: fixed.I(r.Min.X.Floor()), Y: fixed.I(r.Min.Y.Floor())},
		Max: Point{X: fixed.I(r.Max.X.Ceil()), Y: fixed.I(r.Max.Y.Ceil())},
	}
}

// snappedRect rounds each edge to the nearest pixel.
func snappedRect(r Rect) Rect {
	return Rect{
		Min: Point{X: fixed.I(r.Min.X.Round()), Y: fixed.I(r.Min.Y.Round())},
		Max: Point{X: fixed.I(r.Max.X.Round()), Y: fixed.I(r.Max.Y.Round())},
	}
}

// overlapRect gives an empty rectangle a one-pixel footprint. Empty
// rectangles never intersect, but a layer still occupies its position.
func overlapRect(r Rect) Rect {
	if r.Empty() {
		return Rect{Min: r.Min, Max: r.Min.Add(fixed.P(1, 1))}
	}
	return r
}

func intersects(a, b Rect) bool {
	return !a.Intersect(b).Empty()
}

// contains reports whether inner lies within outer. An empty inner is
// contained anywhere.
func contains(outer, inner Rect) bool {
	return inner.In(outer)
}

func formatRect(r Rect) string {
	return fmt.Sprintf("(%s, %s %sx%s)", formatUnit(r.Min.X), formatUnit(r.Min.Y),
		formatUnit(r.Max.X-r.Min.X), formatUnit(r.Max.Y-r.Min.Y))
}

func formatUnit(v fixed.Int26_6) string {
	if v&63 == 0 {
		return fmt.Sprint(int(v >> 6))
	}
	return fmt.Sprintf("%.2f", float64(v)/64)
}
