package game

import (
	"time"
)

// NoteEvent is an immutable beatmap entry. Time is the moment the note
// enters the field, measured from the start of the song.
type NoteEvent struct {
	ID   uint64        `json:"id"`
	Time time.Duration `json:"time"`
	Lane int           `json:"lane"`
}

type ActiveNote struct {
	NoteEvent

	// This is state
	Y      float64       `json:"y"`      // Distance travelled toward the target line
	Fading bool          `json:"fading"` // Hit, waiting for the fade delay before removal
	HitAt  time.Duration `json:"hitAt"`  // Song time of the hit, only valid while Fading
}

// Position is the distance travelled by a note spawned at spawn, at song
// time now, for a speed in units per millisecond.
func Position(spawn, now time.Duration, speed float64) float64 {
	return float64(now-spawn) / float64(time.Millisecond) * speed
}
