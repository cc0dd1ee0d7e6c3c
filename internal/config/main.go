package config

import (
	"fmt"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"git.lost.host/meutraa/beatlane/internal/engine"
	"git.lost.host/meutraa/beatlane/internal/game"
	"git.lost.host/meutraa/beatlane/internal/song"
)

const (
	ModeSimple = "simple"
	ModeChord  = "chord"
)

type Settings struct {
	Song       string
	Audio      string
	Chart      string
	Difficulty int
	Analyze    bool
	Cache      string

	Mode       string
	KeysSimple string
	KeysChord  string
	ChordSize  int
	Device     string
	Hold       time.Duration

	Seed       int64
	MinSpacing time.Duration
	Lead       time.Duration
	Fade       time.Duration
	Viewport   float64
	Volume     float64

	FramePeriod time.Duration
	FeedAddr    string
	LogFile     string
}

func Parse(args []string) (*Settings, error) {
	s := &Settings{}
	app := kingpin.New("beatlane", "Hit the notes as they cross the line.")
	app.Version("0.1.0")

	app.Flag("song", "Song from the catalogue").Default(song.DefaultID).Short('s').StringVar(&s.Song)
	app.Flag("audio", "Audio file or url, replaces the song's").StringVar(&s.Audio)
	app.Flag("chart", "StepMania .sm chart to play").ExistingFileVar(&s.Chart)
	app.Flag("difficulty", "Chart difficulty index").Default("0").Short('d').IntVar(&s.Difficulty)
	app.Flag("analyze", "Derive notes from the audio").BoolVar(&s.Analyze)
	app.Flag("cache", "Beatmap cache database, empty to disable").Default("beatlane.db").StringVar(&s.Cache)

	app.Flag("mode", "Key mode").Default(ModeSimple).Short('m').EnumVar(&s.Mode, ModeSimple, ModeChord)
	app.Flag("keys-simple", "One key per lane").Default("dfjk").Short('k').StringVar(&s.KeysSimple)
	app.Flag("keys-chord", "Comma separated key groups per lane").Default("as,df,jk,l;").StringVar(&s.KeysChord)
	app.Flag("chord-size", "Keys of a group held together to activate a lane").Default("2").IntVar(&s.ChordSize)
	app.Flag("device", "Linux input device, e.g. /dev/input/event3, for real key releases").StringVar(&s.Device)
	app.Flag("hold", "Terminal keys count as held this long after a press").Default("150ms").DurationVar(&s.Hold)

	app.Flag("seed", "Procedural beatmap seed, 0 derives it from the bpm").Default("0").Int64Var(&s.Seed)
	app.Flag("min-spacing", "Minimum time between notes of one lane").Default("150ms").DurationVar(&s.MinSpacing)
	app.Flag("lead", "Time a note takes to reach the target line").Default("1200ms").Short('l').DurationVar(&s.Lead)
	app.Flag("fade", "Time a hit note stays visible").Default("200ms").DurationVar(&s.Fade)
	app.Flag("viewport", "Height of the playing field").Default("700").Float64Var(&s.Viewport)
	app.Flag("volume", "Song volume, 0 is unchanged").Default("0").Float64Var(&s.Volume)

	app.Flag("frame-period", "Render frame period").Default("4ms").Short('p').DurationVar(&s.FramePeriod)
	app.Flag("feed-addr", "Serve snapshots over websocket on this address, e.g. :8080").StringVar(&s.FeedAddr)
	app.Flag("log-file", "Log destination, the terminal is taken by the game").Default("beatlane.log").StringVar(&s.LogFile)

	if _, err := app.Parse(args); nil != err {
		return nil, err
	}
	if s.FramePeriod <= 0 {
		return nil, fmt.Errorf("frame period must be positive, got %v", s.FramePeriod)
	}
	return s, nil
}

func (s *Settings) KeyMap() (game.LaneKeyMap, error) {
	if s.Mode == ModeChord {
		return game.ChordKeyMap(s.KeysChord, s.ChordSize)
	}
	return game.SimpleKeyMap(s.KeysSimple)
}

// Labels names the keys of each lane for display.
func (s *Settings) Labels(m game.LaneKeyMap) []string {
	labels := make([]string, m.LaneCount())
	for i, l := range m.Lanes {
		for _, k := range l.Keys {
			labels[i] += k
		}
	}
	return labels
}

func (s *Settings) EngineConfig(lanes int) engine.Config {
	cfg := engine.DefaultConfig().ForViewport(s.Viewport).WithLead(s.Lead)
	cfg.Lanes = lanes
	if s.Fade > 0 {
		cfg.FadeDelay = s.Fade
	}
	return cfg
}

// SelectedSong is the catalogue song, with its audio replaced by --audio.
func (s *Settings) SelectedSong() (song.Song, error) {
	selected, err := song.Find(s.Song)
	if nil != err {
		return song.Song{}, err
	}
	if s.Audio != "" {
		selected.URL = s.Audio
		selected.Duration = 0
	}
	return selected, nil
}

// BeatmapKey names every setting that changes a generated beatmap.
func (s *Settings) BeatmapKey(lanes int, lead time.Duration) string {
	return fmt.Sprintf("analyze=%v chart=%v/%v lanes=%v seed=%v spacing=%v lead=%v",
		s.Analyze, s.Chart, s.Difficulty, lanes, s.Seed, s.MinSpacing, lead)
}
