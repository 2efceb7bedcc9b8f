// Package fleet manages the grid of aliens: spawning it, moving it in
// lockstep and stepping it down and back when it touches a screen edge.
package fleet

import (
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/settings"
)

// Fleet is the set of live aliens. The shared direction lives in
// settings.Dynamic.FleetDirection so that a new game resets it.
type Fleet struct {
	Aliens []*object.Alien

	settings *settings.Settings
}

// New creates an empty fleet.
func New(s *settings.Settings) *Fleet {
	return &Fleet{settings: s}
}

// GridSize returns the number of columns and rows that fit on the screen.
// One alien width is kept free on each side and between aliens; three alien
// heights plus the ship height are kept free vertically.
func GridSize(screenWidth, screenHeight, alienWidth, alienHeight, shipHeight float64) (cols, rows int) {
	if alienWidth <= 0 || alienHeight <= 0 {
		return 0, 0
	}
	availableX := screenWidth - 2*alienWidth
	cols = int(availableX / (2 * alienWidth))

	availableY := screenHeight - 3*alienHeight - shipHeight
	rows = int(availableY / (2 * alienHeight))

	if cols < 0 || availableX < 0 {
		cols = 0
	}
	if rows < 0 || availableY < 0 {
		rows = 0
	}
	return cols, rows
}

// Create replaces the fleet with a fresh grid of aliens and returns its size.
// The layout depends only on the screen, alien and ship dimensions.
func (f *Fleet) Create(shipHeight float64) int {
	b := f.settings.Base
	cols, rows := GridSize(b.ScreenWidth, b.ScreenHeight, b.AlienWidth, b.AlienHeight, shipHeight)

	f.Aliens = make([]*object.Alien, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x := b.AlienWidth + 2*b.AlienWidth*float64(col)
			y := b.AlienHeight + 2*b.AlienHeight*float64(row)
			f.Aliens = append(f.Aliens, object.NewAlien(f.settings, x, y))
		}
	}
	return len(f.Aliens)
}

// Len returns the number of live aliens.
func (f *Fleet) Len() int {
	return len(f.Aliens)
}

// Empty returns true if no aliens are left.
func (f *Fleet) Empty() bool {
	return len(f.Aliens) == 0
}

// Clear removes every alien.
func (f *Fleet) Clear() {
	clear(f.Aliens)
	f.Aliens = f.Aliens[:0]
}

// CheckEdges changes the fleet's direction if any alien touches the screen
// edge the fleet is heading for. The first such alien triggers the change;
// the rest are not checked. Returns true if the direction changed.
func (f *Fleet) CheckEdges() bool {
	dir := f.settings.Dynamic.FleetDirection
	width := f.settings.Base.ScreenWidth
	for _, a := range f.Aliens {
		if !a.CheckEdges() {
			continue
		}
		// After a long frame an alien can sit past the edge for a few
		// frames on its way back; that contact must not reverse again.
		if (dir < 0 && a.X <= 0) || (dir > 0 && a.X+a.Width >= width) {
			f.ChangeDirection()
			return true
		}
	}
	return false
}

// ChangeDirection drops every alien by the fleet drop speed and reverses the direction.
func (f *Fleet) ChangeDirection() {
	for _, a := range f.Aliens {
		a.Drop(f.settings.Base.FleetDropSpeed)
	}
	f.settings.Dynamic.FleetDirection *= -1
}

// Update moves every alien horizontally.
func (f *Fleet) Update() {
	for _, a := range f.Aliens {
		a.Update()
	}
}

// ReachedBottom returns true if any alien's bottom edge touches the screen bottom.
func (f *Fleet) ReachedBottom() bool {
	bottom := f.settings.Base.ScreenHeight
	for _, a := range f.Aliens {
		if a.Y+a.Height >= bottom {
			return true
		}
	}
	return false
}

// Compact removes aliens marked as destroyed. Returns the number removed.
func (f *Fleet) Compact() int {
	before := len(f.Aliens)
	f.Aliens = object.Compact(f.Aliens)
	return before - len(f.Aliens)
}
