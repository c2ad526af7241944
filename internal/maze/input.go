package maze

import "strings"

// InputState is the current held/released state of the four movement keys.
// Key events write it, the frame tick reads it; the most recent write wins.
type InputState struct {
	held [4]bool
}

// Set marks a direction as held or released.
func (s *InputState) Set(d Direction, held bool) {
	if d < DirForward || d > DirRight {
		return
	}
	s.held[d] = held
}

// Held reports whether a direction is currently held.
func (s InputState) Held(d Direction) bool {
	if d < DirForward || d > DirRight {
		return false
	}
	return s.held[d]
}

// Release clears every held direction.
func (s *InputState) Release() {
	s.held = [4]bool{}
}

// Any reports whether at least one direction is held.
func (s InputState) Any() bool {
	for _, h := range s.held {
		if h {
			return true
		}
	}
	return false
}

// KeyDirection maps a key name to its movement direction.
// WASD and the arrow keys are accepted, case-insensitively.
func KeyDirection(key string) (Direction, bool) {
	switch strings.ToLower(key) {
	case "w", "up", "arrowup":
		return DirForward, true
	case "s", "down", "arrowdown":
		return DirBackward, true
	case "a", "left", "arrowleft":
		return DirLeft, true
	case "d", "right", "arrowright":
		return DirRight, true
	}
	return 0, false
}
