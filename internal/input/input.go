// Package input turns raw terminal bytes into game events.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a movement key counts as held after its last
// byte arrived. Terminals only report presses, so a release is assumed once
// the key stops repeating. It must outlast the terminal's repeat delay or a
// held key stutters.
const keyHoldDuration = 550 * time.Millisecond

// Terminal mode sequences for SGR mouse reporting.
const (
	EnableMouse  = "\x1b[?1000h\x1b[?1006h"
	DisableMouse = "\x1b[?1000l\x1b[?1006l"
)

// Key is a key the game reacts to.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeySpace
	KeyEscape
	KeyEnter
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeySpace:
		return "space"
	case KeyEscape:
		return "escape"
	case KeyEnter:
		return "enter"
	}
	return "none"
}

// EventType is the kind of an input event.
type EventType int

const (
	Quit EventType = iota
	KeyDown
	KeyUp
	PointerDown
)

// Event is one input event. X and Y are set for PointerDown only and are in
// logical screen coordinates.
type Event struct {
	Type EventType
	Key  Key
	X, Y float64
}

// PointerMapper converts a 1-based terminal cell to logical screen coordinates.
type PointerMapper func(col, row int) (x, y float64)

// Stream delivers input bytes via a channel and turns them into events.
type Stream struct {
	ch      chan byte
	closed  bool
	pending []byte // Incomplete escape sequence carried to the next poll
	held    map[Key]time.Time
	mapper  PointerMapper
	now     func() time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// When r fails the stream reports Quit.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream(time.Now)
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream(now func() time.Time) *Stream {
	return &Stream{
		ch:   make(chan byte, 128),
		held: make(map[Key]time.Time),
		now:  now,
	}
}

// SetPointerMapper sets how mouse cells map to screen coordinates.
// Without one, pointer events carry the raw cell position.
func (s *Stream) SetPointerMapper(m PointerMapper) {
	s.mapper = m
}

// Poll drains all available bytes without blocking and returns the events
// they produce, followed by releases of keys that stopped repeating.
func (s *Stream) Poll() []Event {
	now := s.now()
	buf := s.pending
	s.pending = nil

	if s.closed {
		return []Event{{Type: Quit}}
	}

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	var events []Event
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			n, ev, complete := parseCSI(buf[i:])
			if !complete {
				s.pending = append([]byte(nil), buf[i:]...)
				break
			}
			i += n - 1
			if ev == nil {
				continue
			}
			if ev.Type == PointerDown {
				events = append(events, s.pointer(*ev))
				continue
			}
			events = s.press(events, ev.Key, now)
			continue
		}
		if b == '\x1b' && i+1 == len(buf) && !s.closed && len(buf) > 1 {
			// Possibly the start of a sequence split across reads.
			s.pending = []byte{b}
			break
		}

		switch b {
		case 'q', 'Q', 0x03:
			events = append(events, Event{Type: Quit})
		default:
			if k := keyForByte(b); k != KeyNone {
				events = s.press(events, k, now)
			}
		}
	}

	events = s.release(events, now)
	if s.closed {
		events = append(events, Event{Type: Quit})
	}
	return events
}

// press emits KeyDown for k. Movement keys are tracked as held; pressing one
// direction releases the other.
func (s *Stream) press(events []Event, k Key, now time.Time) []Event {
	if k != KeyLeft && k != KeyRight {
		return append(events, Event{Type: KeyDown, Key: k})
	}

	opposite := KeyLeft
	if k == KeyLeft {
		opposite = KeyRight
	}
	if _, ok := s.held[opposite]; ok {
		delete(s.held, opposite)
		events = append(events, Event{Type: KeyUp, Key: opposite})
	}

	if _, ok := s.held[k]; !ok {
		events = append(events, Event{Type: KeyDown, Key: k})
	}
	s.held[k] = now
	return events
}

// release emits KeyUp for held keys not seen within keyHoldDuration.
func (s *Stream) release(events []Event, now time.Time) []Event {
	for _, k := range []Key{KeyLeft, KeyRight} {
		last, ok := s.held[k]
		if ok && now.Sub(last) >= keyHoldDuration {
			delete(s.held, k)
			events = append(events, Event{Type: KeyUp, Key: k})
		}
	}
	return events
}

func (s *Stream) pointer(ev Event) Event {
	if s.mapper != nil {
		ev.X, ev.Y = s.mapper(int(ev.X), int(ev.Y))
	}
	return ev
}

func keyForByte(b byte) Key {
	switch b {
	case 'a', 'A', 'h', 'H':
		return KeyLeft
	case 'd', 'D', 'l', 'L':
		return KeyRight
	case ' ':
		return KeySpace
	case '\n', '\r':
		return KeyEnter
	case '\x1b':
		return KeyEscape
	}
	return KeyNone
}
