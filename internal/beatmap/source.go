package beatmap

import (
	"context"
	"sort"
	"time"

	"git.lost.host/meutraa/beatlane/internal/game"
	"git.lost.host/meutraa/beatlane/internal/song"
)

// Source produces the note schedule of a song. Events are ordered by time,
// lanes are within range and same lane events are at least the configured
// spacing apart.
type Source interface {
	Generate(ctx context.Context, s song.Song) (game.Beatmap, error)
}

// Normalize drops events outside [0, limit] or outside the lanes, orders
// the rest by time and removes events closer than minSpacing to the
// previous event kept in the same lane. IDs are renumbered from 1. A zero
// limit means no limit.
func Normalize(events []game.NoteEvent, lanes int, minSpacing, limit time.Duration) []game.NoteEvent {
	ordered := make([]game.NoteEvent, 0, len(events))
	for _, e := range events {
		if e.Lane < 0 || e.Lane >= lanes || e.Time < 0 || (limit > 0 && e.Time > limit) {
			continue
		}
		ordered = append(ordered, e)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Time < ordered[j].Time
	})

	last := make([]time.Duration, lanes)
	seen := make([]bool, lanes)
	kept := ordered[:0]
	for _, e := range ordered {
		if seen[e.Lane] && e.Time-last[e.Lane] < minSpacing {
			continue
		}
		seen[e.Lane] = true
		last[e.Lane] = e.Time
		e.ID = uint64(len(kept) + 1)
		kept = append(kept, e)
	}
	return kept
}

// limit is the last spawn time that still reaches the target line before
// the song ends.
func limit(s song.Song, lead time.Duration) time.Duration {
	if s.Duration <= 0 {
		return 0
	}
	if l := s.Duration - lead; l > 0 {
		return l
	}
	return 1
}
