package engine

import (
	"context"
	"time"

	"git.lost.host/meutraa/beatlane/internal/game"
)

// Runner drives an Engine from a single goroutine, so a tick never
// interleaves with a judgment.
type Runner struct {
	Engine *Engine

	Frames   <-chan time.Time     // One value per display refresh
	Keys     <-chan game.KeyEvent // Raw key edges
	Beatmaps <-chan game.Beatmap  // Late beatmaps, swapped in when they arrive

	// Called after every tick with a copy of the session
	OnFrame func(game.Snapshot)
}

// Run returns nil when the song ends, or the context error when cancelled.
func (r *Runner) Run(ctx context.Context) error {
	frames, keys, beatmaps := r.Frames, r.Keys, r.Beatmaps
	for {
		select {
		case <-ctx.Done():
			r.Engine.Stop()
			return ctx.Err()
		case bm, ok := <-beatmaps:
			if !ok {
				beatmaps = nil
				continue
			}
			r.Engine.LoadBeatmap(bm)
		case ev, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			r.Engine.Handle(ev)
		case _, ok := <-frames:
			if !ok {
				r.Engine.Stop()
				return nil
			}
			r.Engine.Tick()
			snapshot := r.Engine.Snapshot()
			if nil != r.OnFrame {
				r.OnFrame(snapshot)
			}
			if !snapshot.Playing {
				return nil
			}
		}
	}
}
