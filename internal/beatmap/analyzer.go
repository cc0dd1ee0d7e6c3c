package beatmap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/faiface/beep"

	"git.lost.host/meutraa/beatlane/internal/audio"
	"git.lost.host/meutraa/beatlane/internal/game"
	"git.lost.host/meutraa/beatlane/internal/song"
)

var ErrNoOnsets = errors.New("no onsets found in audio")

// Onset is a sudden rise of energy in the audio.
type Onset struct {
	Time       time.Duration
	Energy     float64
	Brightness float64 // Zero crossing rate of the window, 0 to 1
}

// Analyzer derives notes from the audio of a song. An onset should cross
// the target line, so its note spawns Lead earlier. Brighter onsets go to
// higher lanes.
type Analyzer struct {
	Lanes      int
	Lead       time.Duration
	MinSpacing time.Duration

	Window      int           // Samples per energy window
	History     int           // Windows averaged for the local energy
	Sensitivity float64       // Onset when energy exceeds the local average by this factor
	Floor       float64       // Windows quieter than this are never onsets
	MinGap      time.Duration // Between two onsets in any lane
	MaxSamples  int           // Stop decoding after this many samples, 0 for all

	Logger *log.Logger
}

func NewAnalyzer(lanes int, minSpacing, lead time.Duration) *Analyzer {
	return &Analyzer{
		Lanes:       lanes,
		Lead:        lead,
		MinSpacing:  minSpacing,
		Window:      1024,
		History:     43,
		Sensitivity: 1.4,
		Floor:       1e-4,
		MinGap:      120 * time.Millisecond,
		MaxSamples:  44100 * 60 * 10,
	}
}

func (a *Analyzer) Generate(ctx context.Context, s song.Song) (game.Beatmap, error) {
	rc, err := audio.Open(ctx, s.URL)
	if nil != err {
		return game.Beatmap{}, err
	}
	stream, format, err := audio.Decode(s.URL, rc)
	if nil != err {
		return game.Beatmap{}, fmt.Errorf("unable to decode %v: %w", s.URL, err)
	}
	defer stream.Close()

	length := audio.Length(stream, format)
	samples := audio.Mono(stream, a.MaxSamples)
	if err := ctx.Err(); nil != err {
		return game.Beatmap{}, err
	}

	onsets := a.Onsets(samples, format.SampleRate)
	lanes := a.assignLanes(onsets)
	events := make([]game.NoteEvent, 0, len(onsets))
	for i, o := range onsets {
		events = append(events, game.NoteEvent{Time: o.Time - a.Lead, Lane: lanes[i]})
	}
	events = Normalize(events, a.Lanes, a.MinSpacing, limit(song.Song{Duration: length}, a.Lead))
	if len(events) == 0 {
		return game.Beatmap{}, ErrNoOnsets
	}
	if nil != a.Logger {
		a.Logger.Printf("analysed %v: %v onsets, %v notes", s.URL, len(onsets), len(events))
	}

	return game.Beatmap{Events: events, BPM: s.BPM, Source: "analyzer", AudioDuration: length}, nil
}

// Onsets finds windows whose energy jumps above the recent average.
func (a *Analyzer) Onsets(samples []float64, rate beep.SampleRate) []Onset {
	if a.Window <= 0 || rate <= 0 {
		return nil
	}

	energies := []float64{}
	onsets := []Onset{}
	last := time.Duration(-1)
	for start := 0; start+a.Window <= len(samples); start += a.Window {
		w := samples[start : start+a.Window]
		energy, crossings := 0.0, 0
		for i, v := range w {
			energy += v * v
			if i > 0 && (v >= 0) != (w[i-1] >= 0) {
				crossings++
			}
		}
		energy /= float64(len(w))

		from := len(energies) - a.History
		if from < 0 {
			from = 0
		}
		average := 0.0
		for _, e := range energies[from:] {
			average += e
		}
		if n := len(energies) - from; n > 0 {
			average /= float64(n)
		}
		energies = append(energies, energy)

		at := rate.D(start)
		if energy < a.Floor || energy <= a.Sensitivity*average {
			continue
		}
		if last >= 0 && at-last < a.MinGap {
			continue
		}
		last = at
		onsets = append(onsets, Onset{
			Time:       at,
			Energy:     energy,
			Brightness: float64(crossings) / float64(len(w)-1),
		})
	}
	return onsets
}

// assignLanes spreads onsets over the lanes by brightness rank.
func (a *Analyzer) assignLanes(onsets []Onset) []int {
	order := make([]int, len(onsets))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return onsets[order[i]].Brightness < onsets[order[j]].Brightness
	})
	lanes := make([]int, len(onsets))
	for rank, i := range order {
		lanes[i] = rank * a.Lanes / len(onsets)
	}
	return lanes
}
