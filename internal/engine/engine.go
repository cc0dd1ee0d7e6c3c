package engine

import (
	"errors"
	"log"
	"sort"
	"time"

	"git.lost.host/meutraa/beatlane/internal/clock"
	"git.lost.host/meutraa/beatlane/internal/game"
	"git.lost.host/meutraa/beatlane/internal/score"
)

var ErrPlaying = errors.New("a session is already playing")

// AudioSink plays the song and sound effects. Failures are logged and never
// stop the simulation, the clock does not follow the audio.
type AudioSink interface {
	Start() error
	Miss(lane int)
}

type Option func(*Engine)

func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithAudio(audio AudioSink) Option {
	return func(e *Engine) {
		e.audio = audio
	}
}

func WithScorer(scorer score.Scorer) Option {
	return func(e *Engine) {
		if scorer != nil {
			e.scorer = scorer
		}
	}
}

// Engine owns one game session. All methods must be called from the same
// goroutine, see Runner.
type Engine struct {
	cfg    Config
	clock  *clock.Clock
	scorer score.Scorer
	logger *log.Logger
	audio  AudioSink

	keymap   game.LaneKeyMap
	beatmap  game.Beatmap
	next     int // Index of the next event to spawn
	spawned  int
	duration time.Duration

	session game.Session
	held    map[string]bool
	active  []bool // Lanes with enough keys held
	inputs  []game.Input
	seq     uint64
}

func New(cfg Config, clk *clock.Clock, opts ...Option) *Engine {
	if clk == nil {
		clk = clock.New(nil)
	}
	e := &Engine{
		cfg:    cfg,
		clock:  clk,
		scorer: &score.DefaultScorer{Windows: cfg.Windows, Points: cfg.Points},
		logger: log.Default(),
		held:   map[string]bool{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.session.Reset(0)
	return e
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) IsPlaying() bool {
	return e.session.Playing
}

// Duration is the song time at which the session ends, zero while unknown.
func (e *Engine) Duration() time.Duration {
	return e.duration
}

func (e *Engine) Snapshot() game.Snapshot {
	s := e.session.Snapshot()
	s.Pressed = make([]bool, len(e.active))
	copy(s.Pressed, e.active)
	return s
}

// Inputs returns the key edges handled during the current session.
func (e *Engine) Inputs() []game.Input {
	inputs := make([]game.Input, len(e.inputs))
	copy(inputs, e.inputs)
	return inputs
}

// SetLaneKeyMap swaps the active key mapping between sessions.
func (e *Engine) SetLaneKeyMap(keymap game.LaneKeyMap) error {
	if e.session.Playing {
		return ErrPlaying
	}
	e.keymap = keymap
	e.active = make([]bool, keymap.LaneCount())
	return nil
}

// LoadBeatmap installs the schedule for the next session. While playing it
// replaces the schedule: unhit notes on the field are removed, notes already
// due are spawned at their current position unless they were hit, notes
// already past the miss threshold are dropped.
func (e *Engine) LoadBeatmap(bm game.Beatmap) {
	events := make([]game.NoteEvent, len(bm.Events))
	copy(events, bm.Events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
	bm.Events = events

	e.beatmap = bm
	e.next = 0
	e.duration = bm.Duration(e.cfg.Travel())

	if !e.session.Playing {
		e.session.TotalNotes = len(events)
		return
	}

	// Unhit notes of the previous schedule make way for the new one
	kept := e.session.Notes[:0]
	for _, note := range e.session.Notes {
		if note.Fading {
			kept = append(kept, note)
			continue
		}
		e.spawned--
	}
	e.clear(kept)

	now := e.session.SongTime
	dropped := 0
	for ; e.next < len(events) && events[e.next].Time < now; e.next++ {
		ev := events[e.next]
		if e.isHit(ev) {
			continue
		}
		y := game.Position(ev.Time, now, e.cfg.NoteSpeed)
		if y > e.cfg.MissThreshold() {
			dropped++
			continue
		}
		e.session.Notes = append(e.session.Notes, &game.ActiveNote{NoteEvent: ev, Y: y})
		e.spawned++
	}
	e.session.TotalNotes = e.spawned + len(events) - e.next
	e.logger.Printf("beatmap from %v loaded at %v, %v notes, %v already gone", bm.Source, now, len(events), dropped)
}

// isHit reports whether a fading note already stands for ev.
func (e *Engine) isHit(ev game.NoteEvent) bool {
	for _, note := range e.session.Notes {
		if note.Fading && note.Time == ev.Time && note.Lane == ev.Lane {
			return true
		}
	}
	return false
}

// StartGame resets the session and the clock and begins playback.
func (e *Engine) StartGame() error {
	if e.session.Playing {
		return ErrPlaying
	}

	e.session.Reset(len(e.beatmap.Events))
	e.next = 0
	e.spawned = 0
	e.seq = 0
	e.held = map[string]bool{}
	e.active = make([]bool, e.keymap.LaneCount())
	e.inputs = []game.Input{}

	e.clock.Start()
	e.session.Playing = true

	if nil != e.audio {
		if err := e.audio.Start(); nil != err {
			e.logger.Println("unable to start audio, playing silently:", err)
		}
	}
	return nil
}

// Stop ends the session early.
func (e *Engine) Stop() {
	e.session.Playing = false
}
