package game

import (
	"time"
)

// Beatmap is the ordered note schedule for one song.
type Beatmap struct {
	Events []NoteEvent
	BPM    float64
	Source string // Which generator produced the events

	// Length of the decoded audio, zero when no audio was loaded
	AudioDuration time.Duration
}

// Span is the song time at which the last note has left the field, given
// the time a note needs to travel past the miss threshold.
func (b *Beatmap) Span(travel time.Duration) time.Duration {
	if len(b.Events) == 0 {
		return 0
	}
	return b.Events[len(b.Events)-1].Time + travel
}

// Duration picks the audio length when known, the note span otherwise.
func (b *Beatmap) Duration(travel time.Duration) time.Duration {
	if b.AudioDuration > 0 {
		return b.AudioDuration
	}
	return b.Span(travel)
}

// LaneCounts returns how many events each lane holds.
func (b *Beatmap) LaneCounts() []int {
	counts := []int{}
	for _, e := range b.Events {
		for len(counts) <= e.Lane {
			counts = append(counts, 0)
		}
		counts[e.Lane]++
	}
	return counts
}
