package input

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/eiannone/keyboard"

	"git.lost.host/meutraa/beatlane/internal/game"
)

func rawEvents(evs ...keyEvent) io.Reader {
	var b bytes.Buffer
	for _, ev := range evs {
		binary.Write(&b, binary.LittleEndian, ev)
	}
	return &b
}

func quiet() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestKeyName(t *testing.T) {
	tests := map[uint16]string{32: "d", 33: "f", 36: "j", 37: "k", 39: ";", 57: "space"}
	for code, name := range tests {
		got, err := KeyName(code)
		if nil != err || got != name {
			t.Errorf("code %v: expected %q, got %q %v", code, name, got, err)
		}
	}
	if _, err := KeyName(500); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
}

func TestReadEvents(t *testing.T) {
	r := rawEvents(
		keyEvent{Type: evKey, Code: 32, Value: 1},
		keyEvent{Type: 0x04, Code: 4, Value: 32}, // Scan code
		keyEvent{Type: evKey, Code: 32, Value: 2},
		keyEvent{Type: evKey, Code: 500, Value: 1},
		keyEvent{Type: evKey, Code: 32, Value: 0},
	)
	events := make(chan game.KeyEvent, 8)
	if err := readEvents(context.Background(), r, events, quiet()); nil != err {
		t.Fatal(err)
	}
	close(events)

	expected := []game.KeyEvent{{Key: "d", Pressed: true}, {Key: "d"}}
	got := []game.KeyEvent{}
	for ev := range events {
		got = append(got, ev)
	}
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("event %v: expected %v, got %v", i, expected[i], got[i])
		}
	}
}

func TestReadEventsEscape(t *testing.T) {
	r := rawEvents(keyEvent{Type: evKey, Code: keyEsc, Value: 1}, keyEvent{Type: evKey, Code: 32, Value: 1})
	events := make(chan game.KeyEvent, 8)
	if err := readEvents(context.Background(), r, events, quiet()); !errors.Is(err, ErrQuit) {
		t.Errorf("expected ErrQuit, got %v", err)
	}
	if len(events) != 0 {
		t.Errorf("no events expected after escape, got %v", len(events))
	}
}

func TestDeviceReadError(t *testing.T) {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, keyEvent{Type: evKey, Code: 33, Value: 1})
	b.Write([]byte{1, 2, 3}) // Truncated event
	path := filepath.Join(t.TempDir(), "event0")
	if err := os.WriteFile(path, b.Bytes(), 0o600); nil != err {
		t.Fatal(err)
	}

	before := runtime.NumGoroutine()
	events := make(chan game.KeyEvent, 8)
	d := &Device{Path: path, Logger: quiet()}
	err := d.Run(context.Background(), events)
	if nil == err || errors.Is(err, ErrQuit) {
		t.Errorf("expected a read error, got %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected the complete event, got %v", len(events))
	}

	// The device is released without cancelling the context
	deadline := time.Now().Add(time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("%v goroutines left running", runtime.NumGoroutine()-before)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHolds(t *testing.T) {
	epoch := time.Unix(1000, 0)
	h := newHolds(100 * time.Millisecond)

	if !h.press("d", epoch) {
		t.Error("first press should be an edge")
	}
	if h.press("d", epoch.Add(60*time.Millisecond)) {
		t.Error("repeat should not be an edge")
	}
	h.press("f", epoch.Add(20*time.Millisecond))

	if released := h.expire(epoch.Add(130 * time.Millisecond)); len(released) != 1 || released[0] != "f" {
		t.Errorf("expected f released, got %v", released)
	}
	if released := h.expire(epoch.Add(160 * time.Millisecond)); len(released) != 1 || released[0] != "d" {
		t.Errorf("expected d released after its repeat, got %v", released)
	}
	if !h.press("d", epoch.Add(200*time.Millisecond)) {
		t.Error("press after release should be an edge")
	}
}

func TestTerminalKeyName(t *testing.T) {
	tests := []struct {
		key  keyboard.KeyEvent
		name string
		err  bool
	}{
		{keyboard.KeyEvent{Rune: 'd'}, "d", false},
		{keyboard.KeyEvent{Rune: 'J'}, "j", false},
		{keyboard.KeyEvent{Rune: ';'}, ";", false},
		{keyboard.KeyEvent{Key: keyboard.KeySpace}, "space", false},
		{keyboard.KeyEvent{Key: keyboard.KeyArrowUp}, "", true},
	}
	for _, test := range tests {
		name, err := terminalKeyName(test.key)
		if name != test.name || (nil != err) != test.err {
			t.Errorf("%+v: expected %q, got %q %v", test.key, test.name, name, err)
		}
	}
}
