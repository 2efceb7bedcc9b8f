package object

import (
	"github.com/tomz197/invaders/internal/physics"
	"github.com/tomz197/invaders/internal/settings"
)

// Ship is the player-controlled ship at the bottom of the screen.
type Ship struct {
	X, Y          float64 // Top-left corner
	Width, Height float64

	MovingRight bool
	MovingLeft  bool

	settings *settings.Settings
}

// NewShip creates a ship centered at the bottom of the screen.
func NewShip(s *settings.Settings) *Ship {
	ship := &Ship{
		Width:    s.Base.ShipWidth,
		Height:   s.Base.ShipHeight,
		settings: s,
	}
	ship.Center()
	return ship
}

// Center places the ship's mid-bottom at the screen's mid-bottom.
func (sh *Ship) Center() {
	sh.X = (sh.settings.Base.ScreenWidth - sh.Width) / 2
	sh.Y = sh.settings.Base.ScreenHeight - sh.Height
}

// Stop clears both movement flags.
func (sh *Ship) Stop() {
	sh.MovingLeft = false
	sh.MovingRight = false
}

// Update moves the ship according to its movement flags,
// keeping it inside [0, screen width - ship width].
func (sh *Ship) Update() {
	dt := sh.settings.Dt()
	screenWidth := sh.settings.Base.ScreenWidth
	speed := sh.settings.Dynamic.ShipSpeed

	if sh.MovingRight && sh.X+sh.Width < screenWidth {
		sh.X += speed * dt
	}
	if sh.MovingLeft && sh.X > 0 {
		sh.X -= speed * dt
	}

	sh.X = physics.Clamp(sh.X, 0, screenWidth-sh.Width)
}

// Rect returns the ship's bounding rectangle.
func (sh *Ship) Rect() physics.Rect {
	return physics.Rect{X: sh.X, Y: sh.Y, W: sh.Width, H: sh.Height}
}
