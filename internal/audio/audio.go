// Package audio plays the game's sound effects and music.
//
// Speaker mixes through the local sound device, Bell rings the terminal bell
// of a remote session and Nop stays silent. None of them ever block the game
// loop or report errors to it.
package audio

import (
	"io"
)

// Sound identifies a sound effect.
type Sound int

const (
	Shot Sound = iota
	AlienExplosion
	ShipExplosion
)

// Sounds lists every sound effect.
var Sounds = []Sound{Shot, AlienExplosion, ShipExplosion}

func (s Sound) String() string {
	switch s {
	case Shot:
		return "shot"
	case AlienExplosion:
		return "alien_explosion"
	case ShipExplosion:
		return "ship_explosion"
	}
	return "unknown"
}

// Nop discards every sound.
type Nop struct{}

func (Nop) Play(Sound) {}
func (Nop) PlayMusic() {}

// Bell rings the terminal bell when the ship explodes. Other sounds are
// dropped: a bell per shot is more noise than feedback.
type Bell struct {
	w io.Writer
}

// NewBell creates a bell writing to w, usually an SSH session.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Play(s Sound) {
	if s != ShipExplosion {
		return
	}
	b.w.Write([]byte{'\a'})
}

func (b *Bell) PlayMusic() {}
