package engine

import (
	"errors"
	"io"
	"log"
	"sort"
	"time"

	"git.lost.host/meutraa/beatlane/internal/clock"
	"git.lost.host/meutraa/beatlane/internal/game"
)

// Step is the session state right after one replayed input.
type Step struct {
	Input game.Input
	Score int
	Combo int
}

// Replay plays inputs against a beatmap on a simulated clock ticking every
// frame, and returns the state after each input and at the end.
func Replay(cfg Config, keymap game.LaneKeyMap, bm game.Beatmap, inputs []game.Input, frame time.Duration) ([]Step, game.Snapshot, error) {
	if frame <= 0 {
		return nil, game.Snapshot{}, errors.New("replay frame period must be positive")
	}

	start := time.Unix(0, 0)
	mock := clock.NewMockTime(start)
	e := New(cfg, clock.New(mock), WithLogger(log.New(io.Discard, "", 0)))
	if err := e.SetLaneKeyMap(keymap); nil != err {
		return nil, game.Snapshot{}, err
	}
	e.LoadBeatmap(bm)
	if err := e.StartGame(); nil != err {
		return nil, game.Snapshot{}, err
	}

	ordered := make([]game.Input, len(inputs))
	copy(ordered, inputs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Time < ordered[j].Time
	})

	var elapsed time.Duration
	tick := func() {
		elapsed += frame
		mock.Set(start.Add(elapsed))
		e.Tick()
	}

	steps := make([]Step, 0, len(ordered))
	for _, in := range ordered {
		for elapsed+frame <= in.Time && e.IsPlaying() {
			tick()
		}
		if !e.IsPlaying() {
			break
		}
		mock.Set(start.Add(in.Time))
		e.Handle(in.KeyEvent)
		snapshot := e.Snapshot()
		steps = append(steps, Step{Input: in, Score: snapshot.Score, Combo: snapshot.Combo})
	}

	// Without a known duration the session only ends with the last input
	for e.IsPlaying() && e.Duration() > 0 {
		tick()
	}
	e.Stop()
	return steps, e.Snapshot(), nil
}
