package object

import "github.com/tomz197/invaders/internal/physics"

// Default button size in logical pixels.
const (
	ButtonWidth  = 200
	ButtonHeight = 50
)

// Button is a clickable labelled rectangle.
type Button struct {
	Label string
	Area  physics.Rect
}

// NewCenteredButton creates a default-sized button centered on the screen.
func NewCenteredButton(label string, screenWidth, screenHeight float64) Button {
	return Button{
		Label: label,
		Area:  physics.RectFromCenter(screenWidth/2, screenHeight/2, ButtonWidth, ButtonHeight),
	}
}

// Hit returns true if the point (x, y) lies on the button.
func (b Button) Hit(x, y float64) bool {
	return b.Area.Contains(x, y)
}

// Rect returns the button's bounding rectangle.
func (b Button) Rect() physics.Rect {
	return b.Area
}
