package beatmap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.lost.host/meutraa/beatlane/internal/game"
	"git.lost.host/meutraa/beatlane/internal/parser"
	"git.lost.host/meutraa/beatlane/internal/song"
)

var ErrNoChart = errors.New("no chart for this lane count")

// ChartFile reads notes from a StepMania chart. Mines are skipped and holds
// play as taps on their head.
type ChartFile struct {
	Path       string
	Difficulty int // Index among the charts with a matching lane count
	Lanes      int
	Lead       time.Duration
	MinSpacing time.Duration
	Parser     parser.Parser
}

func (c *ChartFile) Generate(ctx context.Context, s song.Song) (game.Beatmap, error) {
	p := c.Parser
	if nil == p {
		p = &parser.DefaultParser{}
	}
	charts, err := p.Parse(c.Path)
	if nil != err {
		return game.Beatmap{}, fmt.Errorf("unable to parse %v: %w", c.Path, err)
	}

	matching := []*parser.Chart{}
	for _, ch := range charts {
		if int(ch.Difficulty.NKeys) == c.Lanes {
			matching = append(matching, ch)
		}
	}
	if c.Difficulty < 0 || c.Difficulty >= len(matching) {
		return game.Beatmap{}, fmt.Errorf("difficulty %v of %v: %w", c.Difficulty, len(matching), ErrNoChart)
	}
	chart := matching[c.Difficulty]

	events := make([]game.NoteEvent, 0, len(chart.Notes))
	for _, n := range chart.Notes {
		if n.IsMine {
			continue
		}
		events = append(events, game.NoteEvent{Time: (n.Time - c.Lead).Round(time.Millisecond), Lane: n.Lane})
	}

	bpm := s.BPM
	if len(chart.BPMs) > 0 {
		bpm = chart.BPMs[0].Value
	}
	return game.Beatmap{
		Events: Normalize(events, c.Lanes, c.MinSpacing, limit(s, c.Lead)),
		BPM:    bpm,
		Source: "chart " + chart.Difficulty.Name,
	}, nil
}
