package beatmap

import (
	"context"
	"math"
	"math/rand"
	"time"

	"git.lost.host/meutraa/beatlane/internal/game"
	"git.lost.host/meutraa/beatlane/internal/song"
)

const fallbackBPM = 120

// Procedural places notes on beats and half beats in random lanes. With a
// zero Seed the sequence depends only on the song's BPM.
type Procedural struct {
	Lanes          int
	Notes          int           // Maximum number of notes
	Start          time.Duration // Spawn time of the first note
	HalfBeatChance float64       // Chance the next note is half a beat away
	MinSpacing     time.Duration
	Lead           time.Duration
	Seed           int64
}

func NewProcedural(lanes int, minSpacing, lead time.Duration) *Procedural {
	return &Procedural{
		Lanes:          lanes,
		Notes:          150,
		Start:          2 * time.Second,
		HalfBeatChance: 0.3,
		MinSpacing:     minSpacing,
		Lead:           lead,
	}
}

func (p *Procedural) Generate(ctx context.Context, s song.Song) (game.Beatmap, error) {
	bpm := s.BPM
	if bpm <= 0 {
		bpm = fallbackBPM
	}
	seed := p.Seed
	if seed == 0 {
		seed = int64(math.Round(bpm * 1000))
	}
	r := rand.New(rand.NewSource(seed))
	beat := time.Duration(float64(time.Minute) / bpm)
	// Half a beat must still move time forward
	if beat < 2*time.Millisecond {
		beat = 2 * time.Millisecond
	}
	end := limit(s, p.Lead)
	lanes := p.Lanes
	if lanes < 1 {
		lanes = 1
	}

	last := make([]time.Duration, lanes)
	used := make([]bool, lanes)
	events := []game.NoteEvent{}
	t := p.Start
	for len(events) < p.Notes && (end == 0 || t <= end) {
		// Take the first lane, from a random one onwards, that is far
		// enough from its previous note
		first := r.Intn(lanes)
		for i := 0; i < lanes; i++ {
			lane := (first + i) % lanes
			if used[lane] && t-last[lane] < p.MinSpacing {
				continue
			}
			used[lane], last[lane] = true, t
			events = append(events, game.NoteEvent{ID: uint64(len(events) + 1), Time: t, Lane: lane})
			break
		}

		if r.Float64() < p.HalfBeatChance {
			t += beat / 2
		} else {
			t += beat
		}
	}

	return game.Beatmap{Events: events, BPM: bpm, Source: "procedural"}, nil
}
