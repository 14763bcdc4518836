// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"math/bits"
	"sync/atomic"
)

// TileSize is the edge length, in device pixels, of one invalidation tile.
const TileSize = 256

// dirtyTiles records which tiles of a surface need repainting, one bit per
// tile packed into 64-bit words in row-major order.
type dirtyTiles struct {
	words  []atomic.Uint64
	tilesX int
	tilesY int
}

// newDirtyTiles covers a surface of width x height pixels. It returns nil
// for an empty surface.
func newDirtyTiles(width, height int) *dirtyTiles {
	if width <= 0 || height <= 0 {
		return nil
	}
	tx := (width + TileSize - 1) / TileSize
	ty := (height + TileSize - 1) / TileSize
	return &dirtyTiles{
		words:  make([]atomic.Uint64, (tx*ty+63)/64),
		tilesX: tx,
		tilesY: ty,
	}
}

func (d *dirtyTiles) mark(tx, ty int) {
	if tx < 0 || tx >= d.tilesX || ty < 0 || ty >= d.tilesY {
		return
	}
	idx := ty*d.tilesX + tx
	d.words[idx/64].Or(1 << (idx & 63))
}

// markRect marks every tile touched by the pixel rectangle [x0,x1)x[y0,y1).
func (d *dirtyTiles) markRect(x0, y0, x1, y1 int) {
	if d == nil || x1 <= x0 || y1 <= y0 {
		return
	}
	tx0, ty0 := max(x0/TileSize, 0), max(y0/TileSize, 0)
	tx1, ty1 := min((x1-1)/TileSize, d.tilesX-1), min((y1-1)/TileSize, d.tilesY-1)
	for ty := ty0; ty <= ty1; ty++ {
		for tx := tx0; tx <= tx1; tx++ {
			d.mark(tx, ty)
		}
	}
}

func (d *dirtyTiles) markAll() {
	if d == nil {
		return
	}
	total := d.tilesX * d.tilesY
	full := total / 64
	for i := range full {
		d.words[i].Store(^uint64(0))
	}
	if rem := total % 64; rem > 0 {
		d.words[full].Store((uint64(1) << rem) - 1)
	}
}

func (d *dirtyTiles) count() int {
	if d == nil {
		return 0
	}
	n := 0
	for i := range d.words {
		n += bits.OnesCount64(d.words[i].Load())
	}
	return n
}

// takeAll clears the bitmap and returns how many tiles were dirty.
func (d *dirtyTiles) takeAll() int {
	if d == nil {
		return 0
	}
	n := 0
	for i := range d.words {
		n += bits.OnesCount64(d.words[i].Swap(0))
	}
	return n
}

func (d *dirtyTiles) fits(width, height int) bool {
	if d == nil {
		return width <= 0 || height <= 0
	}
	return d.tilesX == (width+TileSize-1)/TileSize && d.tilesY == (height+TileSize-1)/TileSize
}
