package object

import (
	"github.com/tomz197/invaders/internal/physics"
	"github.com/tomz197/invaders/internal/settings"
)

// Bullet is a shot fired upward by the ship.
type Bullet struct {
	X, Y          float64 // Top-left corner
	Width, Height float64
	destroyed     bool // Marked for destruction

	settings *settings.Settings
}

// NewBullet creates a bullet whose mid-top sits on the ship's mid-top.
func NewBullet(s *settings.Settings, ship *Ship) *Bullet {
	w := s.Base.BulletWidth
	return &Bullet{
		X:        ship.X + ship.Width/2 - w/2,
		Y:        ship.Y,
		Width:    w,
		Height:   s.Base.BulletHeight,
		settings: s,
	}
}

// Update moves the bullet up the screen.
// Returns true once the bullet has left the top of the screen.
func (b *Bullet) Update() bool {
	b.Y -= b.settings.Dynamic.BulletSpeed * b.settings.Dt()
	return b.OffScreen()
}

// OffScreen returns true if the bullet's bottom edge is above the screen.
func (b *Bullet) OffScreen() bool {
	return b.Y+b.Height <= 0
}

// MarkDestroyed marks the bullet for removal.
func (b *Bullet) MarkDestroyed() {
	b.destroyed = true
}

// IsDestroyed returns true if the bullet is marked for removal.
func (b *Bullet) IsDestroyed() bool {
	return b.destroyed
}

// Rect returns the bullet's bounding rectangle.
func (b *Bullet) Rect() physics.Rect {
	return physics.Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height}
}
