package object

import "math"

// Background is a vertically scrolling tiled backdrop.
type Background struct {
	Offset     float64 // Current scroll offset in [0, TileHeight)
	Speed      float64 // Pixels per second
	TileHeight float64
}

// NewBackground creates a background that scrolls at speed and wraps every tileHeight pixels.
func NewBackground(speed, tileHeight float64) *Background {
	return &Background{Speed: speed, TileHeight: tileHeight}
}

// Update scrolls the background by speed*dt, wrapping at the tile height.
func (b *Background) Update(dt float64) {
	if b.TileHeight <= 0 {
		return
	}
	b.Offset = math.Mod(b.Offset+b.Speed*dt, b.TileHeight)
	if b.Offset < 0 {
		b.Offset += b.TileHeight
	}
}
