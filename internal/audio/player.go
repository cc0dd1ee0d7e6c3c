package audio

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

var ErrNoSong = errors.New("no song loaded")

// Player plays the song and the miss sound through the speaker. Nothing it
// does blocks the game, a failed device leaves the game silent.
type Player struct {
	logger *log.Logger
	volume float64 // In beep's exponential scale, 0 is unchanged

	mu          sync.Mutex
	streamer    beep.StreamSeekCloser
	format      beep.Format
	mixer       *beep.Mixer
	song        *beep.Ctrl
	initialized bool
}

func NewPlayer(logger *log.Logger, volume float64) *Player {
	if logger == nil {
		logger = log.Default()
	}
	return &Player{logger: logger, volume: volume, mixer: &beep.Mixer{}}
}

// Load decodes the song and returns its length.
func (p *Player) Load(ctx context.Context, location string) (time.Duration, error) {
	rc, err := Open(ctx, location)
	if nil != err {
		return 0, err
	}
	s, format, err := Decode(location, rc)
	if nil != err {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if nil != p.streamer {
		p.streamer.Close()
	}
	p.streamer, p.format = s, format
	return Length(s, format), nil
}

func (p *Player) init() error {
	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.format.SampleRate, p.format.SampleRate.N(time.Second/60)); nil != err {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Start plays the song from the beginning.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if nil == p.streamer {
		return ErrNoSong
	}
	if err := p.init(); nil != err {
		return err
	}

	speaker.Lock()
	defer speaker.Unlock()
	if nil != p.song {
		// A Ctrl without a streamer is dropped by the mixer
		p.song.Streamer = nil
	}
	if err := p.streamer.Seek(0); nil != err {
		return err
	}
	p.song = &beep.Ctrl{Streamer: &effects.Volume{Streamer: p.streamer, Base: 2, Volume: p.volume}}
	p.mixer.Add(p.song)
	return nil
}

// Miss plays a short low buzz.
func (p *Player) Miss(lane int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	rate := p.format.SampleRate
	speaker.Lock()
	p.mixer.Add(beep.Take(rate.N(90*time.Millisecond), Buzz(rate, 110+float64(lane)*15)))
	speaker.Unlock()
}

func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized || nil == p.song {
		return
	}
	speaker.Lock()
	p.song.Paused = true
	speaker.Unlock()
}

func (p *Player) Close() {
	p.Stop()
	p.mu.Lock()
	defer p.mu.Unlock()
	if nil != p.streamer {
		if err := p.streamer.Close(); nil != err {
			p.logger.Println("unable to close audio stream:", err)
		}
		p.streamer = nil
	}
}

// Buzz is an endless decaying square wave.
func Buzz(rate beep.SampleRate, freq float64) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			t := float64(pos) / float64(rate)
			v := 0.2 * math.Exp(-t*25)
			if math.Sin(2*math.Pi*freq*t) < 0 {
				v = -v
			}
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	})
}
