package audio

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
)

var extTests = map[string]string{
	"song.MP3":                          ".mp3",
	"dir/track.ogg":                     ".ogg",
	"https://cdn.example.com/a/b.wav?x": ".wav",
	"noext":                             "",
}

func TestExt(t *testing.T) {
	for in, expected := range extTests {
		if out := Ext(in); out != expected {
			t.Log("in      ", in)
			t.Log("out     ", out)
			t.Log("expected", expected)
			t.Fail()
		}
	}
}

func TestDecodeWavLength(t *testing.T) {
	samples := make([]float64, 8000*2) // 2 seconds at 8kHz
	s, format, err := Decode("tone.wav", wavReader(8000, samples))
	if nil != err {
		t.Fatalf("unable to decode: %v", err)
	}
	defer s.Close()
	if format.SampleRate != 8000 {
		t.Errorf("unexpected rate %v", format.SampleRate)
	}
	if l := Length(s, format); l != 2*time.Second {
		t.Errorf("expected 2s, got %v", l)
	}
}

func TestDecodeUnsupported(t *testing.T) {
	if _, _, err := Decode("song.flac", wavReader(8000, nil)); nil == err {
		t.Error("expected an error for an unsupported format")
	}
}

func TestMono(t *testing.T) {
	s := beep.Take(10000, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i][0], samples[i][1] = 1, 0
		}
		return len(samples), true
	}))
	out := Mono(s, 0)
	if len(out) != 10000 || out[0] != 0.5 {
		t.Errorf("expected 10000 samples of 0.5, got %v", len(out))
	}

	if out := Mono(beep.Take(10000, Buzz(8000, 100)), 500); len(out) != 500 {
		t.Errorf("expected max 500 samples, got %v", len(out))
	}
}

func TestBuzzDecays(t *testing.T) {
	out := Mono(beep.Take(8000, Buzz(8000, 100)), 0)
	if math.Abs(out[0]) < math.Abs(out[len(out)-1]) {
		t.Errorf("buzz should decay")
	}
}

func TestOpenFileAndURL(t *testing.T) {
	data := pcmWav(8000, make([]float64, 800))

	p := filepath.Join(t.TempDir(), "a.wav")
	if err := os.WriteFile(p, data, 0o644); nil != err {
		t.Fatal(err)
	}
	rc, err := Open(context.Background(), p)
	if nil != err {
		t.Fatal(err)
	}
	if _, ok := rc.(io.Seeker); !ok {
		t.Error("local songs should seek")
	}
	rc.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/a.wav" {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	rc, err = Open(context.Background(), srv.URL+"/a.wav")
	if nil != err {
		t.Fatal(err)
	}
	if _, ok := rc.(io.Seeker); !ok {
		t.Error("remote songs should seek")
	}
	s, format, err := Decode(srv.URL+"/a.wav", rc)
	if nil != err {
		t.Fatal(err)
	}
	if Length(s, format) != 100*time.Millisecond {
		t.Errorf("unexpected length %v", Length(s, format))
	}
	// Player.Start rewinds the song
	Mono(s, 0)
	if err := s.Seek(0); nil != err {
		t.Errorf("remote songs should rewind: %v", err)
	}
	if n := len(Mono(s, 0)); n != 800 {
		t.Errorf("expected 800 samples after rewinding, got %v", n)
	}
	s.Close()

	if _, err := Open(context.Background(), srv.URL+"/missing.wav"); nil == err {
		t.Error("expected an error for a 404")
	}
}

func TestStartWithoutSong(t *testing.T) {
	p := NewPlayer(nil, 0)
	if err := p.Start(); err != ErrNoSong {
		t.Errorf("expected ErrNoSong, got %v", err)
	}
	// Miss before the speaker is up is a no-op
	p.Miss(0)
	p.Close()
}
