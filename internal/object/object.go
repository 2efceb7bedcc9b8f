// Package object contains the game entities: the player's ship, aliens,
// bullets and the purely visual background, effects and buttons.
//
// Entities are plain structs kept in homogeneous slices by the loop.
// Motion is scaled by the frame's delta time so it is independent of
// the frame rate.
package object

// Sprite identifies what a rectangle on screen represents.
type Sprite int

const (
	SpriteShip Sprite = iota
	SpriteAlien
	SpriteBullet
	SpriteAlienExplosion
	SpriteShipExplosion
)

// String returns the sprite name.
func (s Sprite) String() string {
	switch s {
	case SpriteShip:
		return "ship"
	case SpriteAlien:
		return "alien"
	case SpriteBullet:
		return "bullet"
	case SpriteAlienExplosion:
		return "alien-explosion"
	case SpriteShipExplosion:
		return "ship-explosion"
	default:
		return "unknown"
	}
}

// Destructible is implemented by entities that are removed by marking and compacting.
type Destructible interface {
	// MarkDestroyed marks the entity for removal on the next compaction.
	MarkDestroyed()
	// IsDestroyed returns true if the entity is marked for removal.
	IsDestroyed() bool
}

// Compact removes destroyed entities in place, preserving order.
func Compact[T Destructible](items []T) []T {
	kept := items[:0] // reuse backing array
	for _, it := range items {
		if !it.IsDestroyed() {
			kept = append(kept, it)
		}
	}
	// Drop references held past the new length.
	var zero T
	for i := len(kept); i < len(items); i++ {
		items[i] = zero
	}
	return kept
}
