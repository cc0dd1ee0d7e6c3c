package engine

import (
	"testing"
	"time"

	"git.lost.host/meutraa/beatlane/internal/game"
)

func press(at int, key string) []game.Input {
	return []game.Input{
		{KeyEvent: game.KeyEvent{Key: key, Pressed: true}, Time: ms(at)},
		{KeyEvent: game.KeyEvent{Key: key, Pressed: false}, Time: ms(at + 40)},
	}
}

func replayInputs() []game.Input {
	inputs := []game.Input{}
	inputs = append(inputs, press(1200, "d")...)
	inputs = append(inputs, press(1520, "f")...)
	inputs = append(inputs, press(1900, "j")...)
	inputs = append(inputs, press(2100, "k")...)
	return inputs
}

func replayBeatmap() game.Beatmap {
	return game.Beatmap{Events: []game.NoteEvent{
		ev(1, 0, 0), ev(2, 300, 1), ev(3, 700, 2), ev(4, 1200, 3),
	}}
}

func TestReplayIsDeterministic(t *testing.T) {
	first, end1, err := Replay(DefaultConfig(), simpleKeys(t), replayBeatmap(), replayInputs(), 16*time.Millisecond)
	if nil != err {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, end2, err := Replay(DefaultConfig(), simpleKeys(t), replayBeatmap(), replayInputs(), 16*time.Millisecond)
		if nil != err {
			t.Fatal(err)
		}
		if len(again) != len(first) || end1.Score != end2.Score || end1.Combo != end2.Combo {
			t.Fatalf("replays differ: %+v / %+v", end1, end2)
		}
		for j := range first {
			if first[j] != again[j] {
				t.Log("first", first[j])
				t.Log("again", again[j])
				t.Fail()
			}
		}
	}
	if end1.Playing || end1.HitNotes == 0 {
		t.Errorf("replay should run the song to the end with hits: %+v", end1)
	}
}

// A session recorded live replays to the same result when ticked on the
// same frames.
func TestReplayMatchesLiveSession(t *testing.T) {
	frame := 16 * time.Millisecond
	h := start(t, simpleKeys(t), replayBeatmap().Events...)
	keys := map[time.Duration]game.KeyEvent{}
	for _, in := range replayInputs() {
		// Align to frames so the live run ticks where the replay does
		keys[in.Time/frame*frame] = in.KeyEvent
	}

	for now := time.Duration(0); h.IsPlaying(); now += frame {
		h.at(now)
		if k, ok := keys[now]; ok {
			h.Handle(k)
		}
	}
	live := h.Snapshot()

	_, replayed, err := Replay(DefaultConfig(), simpleKeys(t), replayBeatmap(), h.Inputs(), frame)
	if nil != err {
		t.Fatal(err)
	}
	if live.Score != replayed.Score || live.HitNotes != replayed.HitNotes || live.BiggestCombo != replayed.BiggestCombo {
		t.Errorf("live %+v, replayed %+v", live, replayed)
	}
}

func TestReplayRejectsZeroFrame(t *testing.T) {
	if _, _, err := Replay(DefaultConfig(), simpleKeys(t), replayBeatmap(), nil, 0); nil == err {
		t.Error("expected an error for a zero frame period")
	}
}
