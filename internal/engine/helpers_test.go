package engine

import (
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"git.lost.host/meutraa/beatlane/internal/clock"
	"git.lost.host/meutraa/beatlane/internal/game"
)

var epoch = time.Unix(100, 0)

var quiet = log.New(io.Discard, "", 0)

type fakeAudio struct {
	err    error
	starts int
	misses []int
}

func (a *fakeAudio) Start() error {
	a.starts++
	return a.err
}

func (a *fakeAudio) Miss(lane int) {
	a.misses = append(a.misses, lane)
}

func ev(id uint64, ms int, lane int) game.NoteEvent {
	return game.NoteEvent{ID: id, Time: time.Duration(ms) * time.Millisecond, Lane: lane}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func simpleKeys(t *testing.T) game.LaneKeyMap {
	m, err := game.SimpleKeyMap("dfjk")
	if nil != err {
		t.Fatalf("unable to build key map: %v", err)
	}
	return m
}

func chordKeys(t *testing.T) game.LaneKeyMap {
	m, err := game.ChordKeyMap("as,df,jk,l;", 2)
	if nil != err {
		t.Fatalf("unable to build key map: %v", err)
	}
	return m
}

type harness struct {
	*Engine
	mock  *clock.MockTime
	audio *fakeAudio
}

// start builds a playing engine whose song time is controlled by at.
func start(t *testing.T, keymap game.LaneKeyMap, events ...game.NoteEvent) *harness {
	h := &harness{mock: clock.NewMockTime(epoch), audio: &fakeAudio{}}
	h.Engine = New(DefaultConfig(), clock.New(h.mock), WithLogger(quiet), WithAudio(h.audio))
	if err := h.SetLaneKeyMap(keymap); nil != err {
		t.Fatalf("unable to set key map: %v", err)
	}
	h.LoadBeatmap(game.Beatmap{Events: events, Source: "test"})
	if err := h.StartGame(); nil != err {
		t.Fatalf("unable to start: %v", err)
	}
	return h
}

// at moves the clock to song time d and ticks.
func (h *harness) at(d time.Duration) game.Snapshot {
	h.mock.Set(epoch.Add(d))
	h.Tick()
	return h.Snapshot()
}

func (h *harness) press(key string) game.Snapshot {
	h.KeyDown(key)
	return h.Snapshot()
}

func find(s game.Snapshot, id uint64) *game.ActiveNote {
	for i := range s.Notes {
		if s.Notes[i].ID == id {
			return &s.Notes[i]
		}
	}
	return nil
}

var errNoDevice = errors.New("no audio device")
