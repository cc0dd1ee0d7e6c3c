package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoLanes   = errors.New("key map has no lanes")
	ErrEmptyLane = errors.New("lane has no keys")
)

// LaneKeys is the set of keys that activate one lane, and how many of them
// must be held at once. Required is 1 for simple lanes, 2 or more for chords.
type LaneKeys struct {
	Keys     []string
	Required int
}

// LaneKeyMap resolves keys to lanes. A key mapped to several lanes resolves
// to the first of them.
type LaneKeyMap struct {
	Name  string
	Lanes []LaneKeys
}

func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func NewLaneKeyMap(name string, lanes ...LaneKeys) (LaneKeyMap, error) {
	if len(lanes) == 0 {
		return LaneKeyMap{}, ErrNoLanes
	}
	m := LaneKeyMap{Name: name, Lanes: make([]LaneKeys, len(lanes))}
	for i, l := range lanes {
		keys := make([]string, 0, len(l.Keys))
		for _, k := range l.Keys {
			if k = NormalizeKey(k); k != "" {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			return LaneKeyMap{}, fmt.Errorf("lane %d: %w", i, ErrEmptyLane)
		}
		if l.Required < 1 || l.Required > len(keys) {
			return LaneKeyMap{}, fmt.Errorf("lane %d requires %d of %d keys", i, l.Required, len(keys))
		}
		m.Lanes[i] = LaneKeys{Keys: keys, Required: l.Required}
	}
	return m, nil
}

// SimpleKeyMap maps one key per lane, e.g. "dfjk".
func SimpleKeyMap(keys string) (LaneKeyMap, error) {
	lanes := []LaneKeys{}
	for _, r := range keys {
		lanes = append(lanes, LaneKeys{Keys: []string{string(r)}, Required: 1})
	}
	return NewLaneKeyMap("simple", lanes...)
}

// ChordKeyMap maps a group of keys per lane, e.g. "as,df,jk,l;" with
// required keys held together to activate a lane.
func ChordKeyMap(groups string, required int) (LaneKeyMap, error) {
	lanes := []LaneKeys{}
	for _, g := range strings.Split(groups, ",") {
		keys := []string{}
		for _, r := range g {
			keys = append(keys, string(r))
		}
		lanes = append(lanes, LaneKeys{Keys: keys, Required: required})
	}
	return NewLaneKeyMap("chord", lanes...)
}

func (m LaneKeyMap) LaneCount() int {
	return len(m.Lanes)
}

// Lane returns the lane a key activates.
func (m LaneKeyMap) Lane(key string) (int, bool) {
	for i, l := range m.Lanes {
		for _, k := range l.Keys {
			if k == key {
				return i, true
			}
		}
	}
	return -1, false
}

// Held counts the keys of lane currently held.
func (m LaneKeyMap) Held(lane int, held map[string]bool) int {
	if lane < 0 || lane >= len(m.Lanes) {
		return 0
	}
	n := 0
	for _, k := range m.Lanes[lane].Keys {
		if held[k] {
			n++
		}
	}
	return n
}

// Active reports whether enough keys of lane are held to activate it.
func (m LaneKeyMap) Active(lane int, held map[string]bool) bool {
	if lane < 0 || lane >= len(m.Lanes) {
		return false
	}
	return m.Held(lane, held) >= m.Lanes[lane].Required
}
