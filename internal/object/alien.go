package object

import (
	"github.com/tomz197/invaders/internal/physics"
	"github.com/tomz197/invaders/internal/settings"
)

// Alien is a single member of the enemy fleet.
type Alien struct {
	X, Y          float64 // Top-left corner
	Width, Height float64
	Destroyed     bool // Marked for removal

	settings *settings.Settings
}

// NewAlien creates an alien with its top-left corner at (x, y).
func NewAlien(s *settings.Settings, x, y float64) *Alien {
	return &Alien{
		X:        x,
		Y:        y,
		Width:    s.Base.AlienWidth,
		Height:   s.Base.AlienHeight,
		settings: s,
	}
}

// Update moves the alien horizontally in the fleet's current direction.
func (a *Alien) Update() {
	a.X += a.settings.Dynamic.AlienSpeed * a.settings.Dynamic.FleetDirection * a.settings.Dt()
}

// CheckEdges returns true if the alien touches the left or right screen edge.
func (a *Alien) CheckEdges() bool {
	return a.X <= 0 || a.X+a.Width >= a.settings.Base.ScreenWidth
}

// Drop moves the alien down by the given amount.
func (a *Alien) Drop(dy float64) {
	a.Y += dy
}

// MarkDestroyed marks the alien for removal.
func (a *Alien) MarkDestroyed() {
	a.Destroyed = true
}

// IsDestroyed returns true if the alien is marked for removal.
func (a *Alien) IsDestroyed() bool {
	return a.Destroyed
}

// Rect returns the alien's bounding rectangle.
func (a *Alien) Rect() physics.Rect {
	return physics.Rect{X: a.X, Y: a.Y, W: a.Width, H: a.Height}
}
