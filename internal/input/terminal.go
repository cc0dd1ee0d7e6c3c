package input

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"
	"unicode"

	"github.com/eiannone/keyboard"

	"git.lost.host/meutraa/beatlane/internal/game"
)

// Terminal reads keys from the controlling terminal. Terminals only report
// presses, so a key counts as released Hold after its last press. Auto
// repeat keeps a key held.
type Terminal struct {
	Hold   time.Duration
	Logger *log.Logger
}

func (t *Terminal) Run(ctx context.Context, events chan<- game.KeyEvent) error {
	logger := t.Logger
	if nil == logger {
		logger = log.Default()
	}

	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			logger.Println("unable to close keyboard:", err)
		}
	}()

	holds := newHolds(t.Hold)
	ticker := time.NewTicker(holds.hold / 4)
	defer ticker.Stop()

	send := func(ev game.KeyEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			for _, key := range holds.expire(now) {
				if !send(game.KeyEvent{Key: key}) {
					return ctx.Err()
				}
			}
		case key, ok := <-keys:
			if !ok {
				return nil
			}
			if nil != key.Err {
				logger.Println("keyboard error:", key.Err)
				continue
			}
			if key.Key == keyboard.KeyEsc || key.Key == keyboard.KeyCtrlC {
				return ErrQuit
			}
			name, err := terminalKeyName(key)
			if nil != err {
				continue
			}
			if holds.press(name, time.Now()) && !send(game.KeyEvent{Key: name, Pressed: true}) {
				return ctx.Err()
			}
		}
	}
}

func terminalKeyName(key keyboard.KeyEvent) (string, error) {
	if key.Key == keyboard.KeySpace {
		return "space", nil
	}
	if key.Rune != 0 && unicode.IsPrint(key.Rune) {
		return string(unicode.ToLower(key.Rune)), nil
	}
	return "", fmt.Errorf("key %v: %w", key.Key, ErrUnknownKey)
}

// holds tracks synthetic key releases.
type holds struct {
	hold  time.Duration
	until map[string]time.Time
}

func newHolds(hold time.Duration) *holds {
	if hold <= 0 {
		hold = 150 * time.Millisecond
	}
	return &holds{hold: hold, until: map[string]time.Time{}}
}

// press extends the hold of key and reports whether it was not held before.
func (h *holds) press(key string, now time.Time) bool {
	_, held := h.until[key]
	h.until[key] = now.Add(h.hold)
	return !held
}

// expire releases and returns the keys whose hold ended at now.
func (h *holds) expire(now time.Time) []string {
	released := []string{}
	for key, until := range h.until {
		if !now.Before(until) {
			released = append(released, key)
			delete(h.until, key)
		}
	}
	sort.Strings(released)
	return released
}
