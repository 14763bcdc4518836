// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"image/color"

	"github.com/gogpu/compositor/internal/badge"
	"github.com/gogpu/compositor/internal/logging"
)

// Debug border colors, chosen by what a surface does.
var (
	drawingBorder   = color.RGBA{R: 0, G: 128, B: 32, A: 128}
	clippingBorder  = color.RGBA{R: 128, G: 255, B: 255, A: 48}
	containerBorder = color.RGBA{R: 255, G: 255, B: 0, A: 192}
)

// Flush commits pending changes in the subtree rooted at s: stores are
// allocated or resized, dirty tiles are consumed and repaint counters
// advance. Store failures are collected and returned together; the rest
// of the tree is still committed.
func (s *Surface) Flush() error {
	var errs []error
	s.commit(&errs)
	return errors.Join(errs...)
}

func (s *Surface) commit(errs *[]error) {
	if s.closed {
		return
	}
	changed := s.flushPending
	s.flushPending = false

	if err := s.syncStore(); err != nil {
		*errs = append(*errs, &StoreError{Surface: s.name, Err: err})
	}
	if s.showDebugBorder {
		s.updateDebugBorder()
	}
	if s.needsDisplay {
		tiles := s.dirty.takeAll()
		s.needsDisplay = false
		s.repaintCount++
		changed = true
		logging.L().Debug("surface repainted", "surface", s.name, "tiles", tiles, "count", s.repaintCount)
		if s.showRepaintCounter {
			s.counterLabel = badge.Label(s.repaintCount)
			s.counterWidth = badge.Width(s.counterLabel)
		}
	}

	if s.mask != nil {
		s.mask.commit(errs)
	}
	if s.replica != nil {
		s.replica.commit(errs)
	}
	for _, c := range s.children {
		c.commit(errs)
	}
	if changed && s.client != nil {
		s.client.DidCommit(s)
	}
}

// syncStore makes the store match the surface's drawing state and size.
func (s *Surface) syncStore() error {
	w, h := s.pixelSize()
	if !s.drawsContent || w <= 0 || h <= 0 || s.newStore == nil {
		if s.store != nil {
			err := s.store.Close()
			s.store = nil
			return err
		}
		return nil
	}
	if s.store == nil {
		st, err := s.newStore(Options{Label: s.name, Width: w, Height: h})
		if err != nil {
			return err
		}
		s.store = st
	} else if err := s.store.Resize(w, h); err != nil {
		return err
	}
	if s.showDebugBorder {
		if bp, ok := s.store.(BorderPainter); ok {
			if err := bp.EnableDebugBorder(); err != nil {
				logging.L().Warn("surface: debug border unavailable", "surface", s.name, "err", err)
			}
		}
	}
	return nil
}

func (s *Surface) updateDebugBorder() {
	switch {
	case s.drawsContent:
		s.borderColor, s.borderWidth = drawingBorder, 2
	case s.masksToBounds:
		s.borderColor, s.borderWidth = clippingBorder, 20
	default:
		s.borderColor, s.borderWidth = containerBorder, 2
	}
}
