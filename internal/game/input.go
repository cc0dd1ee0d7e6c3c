package game

import (
	"time"
)

// KeyEvent is a raw key edge from any key source.
type KeyEvent struct {
	Key     string
	Pressed bool
}

// Input is a key edge stamped with the song time it was handled at.
type Input struct {
	KeyEvent
	Time time.Duration
}
