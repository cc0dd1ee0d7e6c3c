package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// seekable is a downloaded song. Decoders need to seek to rewind a song
// and to compute its length, which a response body cannot do.
type seekable struct {
	*bytes.Reader
}

func (seekable) Close() error {
	return nil
}

// Open returns the audio bytes of a local file or an http(s) url. Both can
// seek.
func Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !IsRemote(location) {
		return os.Open(location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if nil != err {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if nil != err {
		return nil, fmt.Errorf("unable to fetch %v: %w", location, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unable to fetch %v: %v", location, resp.Status)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if nil != err {
		return nil, fmt.Errorf("unable to read %v: %w", location, err)
	}
	return seekable{bytes.NewReader(data)}, nil
}
