// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/math/fixed"
)

// TextFlags select optional detail in AppendText output.
type TextFlags uint8

const (
	// TextRepaintRects appends the tracked repaint rectangles.
	TextRepaintRects TextFlags = 1 << iota

	// TextRepaintCounts appends the commit repaint count.
	TextRepaintCounts

	// TextDebug appends debug border and counter state.
	TextDebug

	// TextStores appends the allocated store size.
	TextStores
)

// Text renders the subtree rooted at s, one surface per line, children
// indented two spaces below their parent.
func (s *Surface) Text(flags TextFlags) string {
	var b strings.Builder
	s.AppendText(&b, 0, flags)
	return b.String()
}

// AppendText writes the subtree rooted at s to b starting at depth.
func (s *Surface) AppendText(b *strings.Builder, depth int, flags TextFlags) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(s.name)
	fmt.Fprintf(b, " (%s, %s) %sx%s", formatUnit(s.position.X), formatUnit(s.position.Y),
		formatUnit(s.size.X), formatUnit(s.size.Y))
	if s.drawsContent {
		b.WriteString(" draws")
	}
	if s.masksToBounds {
		b.WriteString(" clips")
	}
	if s.opacity != 1 {
		fmt.Fprintf(b, " opacity=%.2f", s.opacity)
	}
	if s.mask != nil {
		fmt.Fprintf(b, " mask=%q", s.mask.name)
	}
	if s.replica != nil {
		fmt.Fprintf(b, " replica=%q@(%s, %s)", s.replica.name,
			formatUnit(s.replicaPosition.X), formatUnit(s.replicaPosition.Y))
	}
	if flags&TextDebug != 0 {
		if s.showDebugBorder {
			b.WriteString(" border")
		}
		if s.showRepaintCounter && s.counterLabel != "" {
			fmt.Fprintf(b, " counter=%s", s.counterLabel)
		}
	}
	if flags&TextRepaintCounts != 0 && s.repaintCount > 0 {
		fmt.Fprintf(b, " repaints=%d", s.repaintCount)
	}
	if flags&TextStores != 0 && s.store != nil {
		w, h := s.store.Size()
		fmt.Fprintf(b, " store=%dx%d", w, h)
	}
	if flags&TextRepaintRects != 0 && len(s.repaintRects) > 0 {
		parts := make([]string, len(s.repaintRects))
		for i, r := range s.repaintRects {
			parts[i] = formatRect(r)
		}
		fmt.Fprintf(b, " repaint-rects=[%s]", strings.Join(parts, " "))
	}
	b.WriteByte('\n')
	for _, c := range s.children {
		c.AppendText(b, depth+1, flags)
	}
}

func formatRect(r fixed.Rectangle26_6) string {
	return fmt.Sprintf("(%s, %s %sx%s)", formatUnit(r.Min.X), formatUnit(r.Min.Y),
		formatUnit(r.Max.X-r.Min.X), formatUnit(r.Max.Y-r.Min.Y))
}

// formatUnit prints whole pixels without a fraction.
func formatUnit(v fixed.Int26_6) string {
	if v&63 == 0 {
		return strconv.Itoa(int(v >> 6))
	}
	return strconv.FormatFloat(float64(v)/64, 'f', 2, 64)
}
