package input

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"syscall"

	"git.lost.host/meutraa/beatlane/internal/game"
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
const (
	evKey = 0x01

	keyEsc = 1
)

var keyNames = map[uint16]string{
	2: "1", 3: "2", 4: "3", 5: "4", 6: "5", 7: "6", 8: "7", 9: "8", 10: "9", 11: "0",
	16: "q", 17: "w", 18: "e", 19: "r", 20: "t", 21: "y", 22: "u", 23: "i", 24: "o", 25: "p",
	30: "a", 31: "s", 32: "d", 33: "f", 34: "g", 35: "h", 36: "j", 37: "k", 38: "l", 39: ";",
	44: "z", 45: "x", 46: "c", 47: "v", 48: "b", 49: "n", 50: "m", 51: ",", 52: ".", 53: "/",
	57: "space",
}

func KeyName(code uint16) (string, error) {
	name, ok := keyNames[code]
	if !ok {
		return "", fmt.Errorf("code %v: %w", code, ErrUnknownKey)
	}
	return name, nil
}

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Device reads a linux event device, e.g. /dev/input/event3, which reports
// real key releases. The user needs read access to the device.
type Device struct {
	Path   string
	Logger *log.Logger
}

func (d *Device) Run(ctx context.Context, events chan<- game.KeyEvent) error {
	file, err := os.Open(d.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Closing the device unblocks a pending read
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			file.Close()
		case <-done:
		}
	}()

	err = readEvents(ctx, file, events, d.Logger)
	if nil != ctx.Err() {
		return ctx.Err()
	}
	return err
}

func readEvents(ctx context.Context, r io.Reader, events chan<- game.KeyEvent, logger *log.Logger) error {
	if nil == logger {
		logger = log.Default()
	}

	var ev keyEvent
	for {
		if err := binary.Read(r, binary.LittleEndian, &ev); nil != err {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("unable to read keyboard input: %w", err)
		}
		// Value 2 is auto repeat
		if ev.Type != evKey || ev.Value > 1 {
			continue
		}
		if ev.Code == keyEsc {
			return ErrQuit
		}
		name, err := KeyName(ev.Code)
		if nil != err {
			logger.Println(err)
			continue
		}
		select {
		case events <- game.KeyEvent{Key: name, Pressed: ev.Value == 1}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
