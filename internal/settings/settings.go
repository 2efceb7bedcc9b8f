// Package settings holds the tunable game parameters: the base values fixed
// for a session and the dynamic values that reset every new game and
// escalate every wave.
package settings

import (
	"fmt"
	"math"
	"time"
)

// Base holds the values that stay constant for a whole session.
type Base struct {
	ScreenWidth  float64
	ScreenHeight float64

	ShipSpeed  float64 // Logical pixels per second
	ShipWidth  float64
	ShipHeight float64
	ShipLimit  int // Ships in reserve at the start of a game

	BulletSpeed    float64
	BulletWidth    float64
	BulletHeight   float64
	BulletsAllowed int

	AlienSpeed     float64
	AlienWidth     float64
	AlienHeight    float64
	FleetDropSpeed float64
	AlienPoints    int

	SpeedupScale  float64 // Speed multiplier applied on every wave clear
	ScoreScale    float64 // Alien point multiplier applied on every wave clear
	MaxSpeedScale float64 // Cap on dynamic speed relative to base, 0 = unbounded

	BackgroundScroll float64 // Background scroll speed, pixels per second
}

// Dynamic holds the values that change during a game.
type Dynamic struct {
	ShipSpeed      float64
	BulletSpeed    float64
	AlienSpeed     float64
	FleetDirection float64 // +1 moves right, -1 moves left
	AlienPoints    int
}

// Escalator computes the dynamic values for the next wave.
// Implementations may return any values; Settings enforces that speeds
// never decrease and respects MaxSpeedScale afterwards.
type Escalator interface {
	Escalate(current Dynamic, base Base) (Dynamic, error)
}

// Settings combines base and dynamic values with the current frame's delta time.
type Settings struct {
	Base
	Dynamic

	// DeltaTime is the elapsed simulated time of the frame being processed.
	DeltaTime time.Duration

	escalator Escalator
	onError   func(error)
}

// New creates settings with the dynamic values initialized from base.
func New(base Base) *Settings {
	s := &Settings{Base: base}
	s.InitializeDynamic()
	return s
}

// SetEscalator installs a custom difficulty curve. onError is called when the
// escalator fails and the built-in multiplication is used instead; it may be nil.
func (s *Settings) SetEscalator(e Escalator, onError func(error)) {
	s.escalator = e
	s.onError = onError
}

// InitializeDynamic resets every dynamic value to its base. Called at the start of every game.
func (s *Settings) InitializeDynamic() {
	s.Dynamic = Dynamic{
		ShipSpeed:      s.Base.ShipSpeed,
		BulletSpeed:    s.Base.BulletSpeed,
		AlienSpeed:     s.Base.AlienSpeed,
		FleetDirection: 1,
		AlienPoints:    s.Base.AlienPoints,
	}
}

// IncreaseSpeed escalates speeds and alien points for the next wave.
func (s *Settings) IncreaseSpeed() {
	prev := s.Dynamic
	next := s.defaultEscalation()

	if s.escalator != nil {
		custom, err := s.escalator.Escalate(prev, s.Base)
		if err == nil {
			err = checkFinite(custom)
		}
		if err != nil {
			if s.onError != nil {
				s.onError(err)
			}
		} else {
			next = custom
		}
	}

	// Speeds only grow within a game; direction is not the escalator's to change.
	next.ShipSpeed = s.capSpeed(math.Max(next.ShipSpeed, prev.ShipSpeed), s.Base.ShipSpeed)
	next.BulletSpeed = s.capSpeed(math.Max(next.BulletSpeed, prev.BulletSpeed), s.Base.BulletSpeed)
	next.AlienSpeed = s.capSpeed(math.Max(next.AlienSpeed, prev.AlienSpeed), s.Base.AlienSpeed)
	if next.AlienPoints < prev.AlienPoints {
		next.AlienPoints = prev.AlienPoints
	}
	next.FleetDirection = prev.FleetDirection

	s.Dynamic = next
}

func checkFinite(d Dynamic) error {
	for _, v := range []float64{d.ShipSpeed, d.BulletSpeed, d.AlienSpeed} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("escalator returned non-finite speed %v", v)
		}
	}
	return nil
}

func (s *Settings) defaultEscalation() Dynamic {
	d := s.Dynamic
	d.ShipSpeed *= s.SpeedupScale
	d.BulletSpeed *= s.SpeedupScale
	d.AlienSpeed *= s.SpeedupScale
	d.AlienPoints = int(float64(d.AlienPoints) * s.ScoreScale)
	return d
}

// capSpeed limits v to base*MaxSpeedScale when a cap is configured.
func (s *Settings) capSpeed(v, base float64) float64 {
	if s.MaxSpeedScale <= 0 {
		return v
	}
	return math.Min(v, base*s.MaxSpeedScale)
}

// Dt returns the current delta time in seconds.
func (s *Settings) Dt() float64 {
	return s.DeltaTime.Seconds()
}
