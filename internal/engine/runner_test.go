package engine

import (
	"context"
	"testing"
	"time"

	"git.lost.host/meutraa/beatlane/internal/clock"
	"git.lost.host/meutraa/beatlane/internal/game"
)

func TestRunnerStopsAtSongEnd(t *testing.T) {
	mock := clock.NewMockTime(epoch)
	e := New(DefaultConfig(), clock.New(mock), WithLogger(quiet))
	e.SetLaneKeyMap(simpleKeys(t))
	e.LoadBeatmap(game.Beatmap{AudioDuration: time.Second})
	if err := e.StartGame(); nil != err {
		t.Fatal(err)
	}
	mock.Advance(2 * time.Second)

	frames := make(chan time.Time, 1)
	frames <- time.Now()
	var last game.Snapshot
	calls := 0
	r := &Runner{Engine: e, Frames: frames, OnFrame: func(s game.Snapshot) {
		calls++
		last = s
	}}

	if err := r.Run(context.Background()); nil != err {
		t.Fatalf("expected a clean end, got %v", err)
	}
	if calls != 1 || last.Playing {
		t.Errorf("expected one final frame, got %v %+v", calls, last)
	}
}

func TestRunnerCancel(t *testing.T) {
	e := New(DefaultConfig(), nil, WithLogger(quiet))
	e.SetLaneKeyMap(simpleKeys(t))
	e.StartGame()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{Engine: e, Frames: make(chan time.Time)}
	if err := r.Run(ctx); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if e.IsPlaying() {
		t.Errorf("cancel should stop the session")
	}
}

func TestRunnerAppliesKeysAndBeatmaps(t *testing.T) {
	mock := clock.NewMockTime(epoch)
	e := New(DefaultConfig(), clock.New(mock), WithLogger(quiet))
	e.SetLaneKeyMap(simpleKeys(t))
	e.StartGame()

	frames := make(chan time.Time)
	keys := make(chan game.KeyEvent)
	beatmaps := make(chan game.Beatmap)
	snapshots := make(chan game.Snapshot, 8)
	r := &Runner{Engine: e, Frames: frames, Keys: keys, Beatmaps: beatmaps, OnFrame: func(s game.Snapshot) {
		snapshots <- s
	}}

	done := make(chan error)
	go func() { done <- r.Run(context.Background()) }()

	// Unbuffered sends complete in order, each is handled before the next
	beatmaps <- game.Beatmap{Events: []game.NoteEvent{ev(1, 0, 0)}}
	mock.Set(epoch)
	frames <- time.Now()
	<-snapshots
	mock.Set(epoch.Add(1200 * time.Millisecond))
	frames <- time.Now()
	<-snapshots
	keys <- game.KeyEvent{Key: "d", Pressed: true}
	close(frames)

	if err := <-done; nil != err {
		t.Fatal(err)
	}
	if s := e.Snapshot(); s.HitNotes != 1 || s.Score != 300 {
		t.Errorf("runner did not apply the key: %+v", s)
	}
}
