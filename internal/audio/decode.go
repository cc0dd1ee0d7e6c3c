package audio

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// Decode picks a decoder from the extension of name.
func Decode(name string, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext := Ext(name); ext {
	case ".mp3":
		return mp3.Decode(rc)
	case ".ogg":
		return vorbis.Decode(rc)
	case ".wav":
		s, format, err := wav.Decode(rc)
		if nil != err {
			rc.Close()
		}
		return s, format, err
	default:
		rc.Close()
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format %q", ext)
	}
}

// Ext is the lower case extension of a path or url.
func Ext(name string) string {
	if u, err := url.Parse(name); nil == err && u.Path != "" {
		name = u.Path
	}
	return strings.ToLower(path.Ext(name))
}

func Length(s beep.StreamSeekCloser, format beep.Format) time.Duration {
	return format.SampleRate.D(s.Len())
}

// Mono reads s to the end, or to max samples when max > 0, averaging the
// two channels.
func Mono(s beep.Streamer, max int) []float64 {
	buf := make([][2]float64, 4096)
	out := []float64{}
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			out = append(out, (frame[0]+frame[1])/2)
		}
		if !ok || (max > 0 && len(out) >= max) {
			break
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
