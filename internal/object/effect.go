package object

import "github.com/tomz197/invaders/internal/physics"

// Effect is a short-lived visual effect such as an explosion.
// It is advanced by the normal update cycle and removed once expired.
type Effect struct {
	Sprite   Sprite       // What to draw
	Area     physics.Rect // Where to draw it
	Lifetime float64      // Seconds remaining
	Duration float64      // Initial lifetime (for fade calculation)
}

// NewEffect creates an effect covering area for duration seconds.
func NewEffect(sprite Sprite, area physics.Rect, duration float64) *Effect {
	return &Effect{
		Sprite:   sprite,
		Area:     area,
		Lifetime: duration,
		Duration: duration,
	}
}

// Update decreases the remaining lifetime. Returns true when the effect has expired.
func (e *Effect) Update(dt float64) bool {
	e.Lifetime -= dt
	return e.Lifetime <= 0
}

// Progress returns how far the effect has played, from 0 (just spawned) to 1 (expired).
func (e *Effect) Progress() float64 {
	if e.Duration <= 0 {
		return 1
	}
	return physics.Clamp(1-e.Lifetime/e.Duration, 0, 1)
}

// Rect returns the effect's current area. Explosions shrink toward their center as they fade.
func (e *Effect) Rect() physics.Rect {
	scale := 1 - 0.5*e.Progress()
	return physics.RectFromCenter(e.Area.CenterX(), e.Area.CenterY(), e.Area.W*scale, e.Area.H*scale)
}

// UpdateEffects advances all effects and drops the expired ones in place.
func UpdateEffects(effects []*Effect, dt float64) []*Effect {
	kept := effects[:0]
	for _, e := range effects {
		if !e.Update(dt) {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(effects); i++ {
		effects[i] = nil
	}
	return kept
}

// Active returns true if an effect of the given sprite is still playing.
func Active(effects []*Effect, sprite Sprite) bool {
	for _, e := range effects {
		if e.Sprite == sprite {
			return true
		}
	}
	return false
}
