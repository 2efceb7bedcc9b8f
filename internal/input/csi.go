package input

import (
	"bytes"
	"strconv"
)

// maxCSILength bounds how long an unterminated sequence may be before it is
// dropped as garbage.
const maxCSILength = 32

// parseCSI parses a control sequence starting at buf[0] == ESC, buf[1] == '['.
// It returns the number of bytes consumed and the event, if any, the sequence
// stands for. complete is false when buf ends before the sequence does.
func parseCSI(buf []byte) (n int, ev *Event, complete bool) {
	end := -1
	for i := 2; i < len(buf); i++ {
		if buf[i] >= 0x40 && buf[i] <= 0x7e {
			end = i
			break
		}
	}
	if end < 0 {
		if len(buf) > maxCSILength {
			return len(buf), nil, true
		}
		return 0, nil, false
	}

	params := buf[2:end]
	final := buf[end]
	n = end + 1

	if len(params) > 0 && params[0] == '<' {
		return n, parseSGRMouse(params[1:], final), true
	}
	if len(params) > 0 {
		// Modified keys and the like.
		return n, nil, true
	}

	switch final {
	case 'C':
		return n, &Event{Type: KeyDown, Key: KeyRight}, true
	case 'D':
		return n, &Event{Type: KeyDown, Key: KeyLeft}, true
	}
	return n, nil, true
}

// parseSGRMouse handles "b;col;row" with final 'M' (press) or 'm' (release).
// Only a plain left-button press becomes an event.
func parseSGRMouse(params []byte, final byte) *Event {
	if final != 'M' {
		return nil
	}
	fields := bytes.Split(params, []byte{';'})
	if len(fields) != 3 {
		return nil
	}
	nums := make([]int, 3)
	for i, f := range fields {
		v, err := strconv.Atoi(string(f))
		if err != nil {
			return nil
		}
		nums[i] = v
	}

	button := nums[0]
	// Low bits select the button; 32 marks motion, 64 the wheel.
	if button&3 != 0 || button&(32|64) != 0 {
		return nil
	}
	return &Event{Type: PointerDown, X: float64(nums[1]), Y: float64(nums[2])}
}
