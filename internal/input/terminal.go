package input

import (
	"sync"
	"time"

	"github.com/vhildebrand/cadence-sub001/internal/game"
)

// Terminal adapts a raw keyboard stream to the held-pitch snapshot.
// Terminals report presses but never key-up, so each fed rune counts
// as held for a fixed pulse. Holds are only really playable over MIDI;
// this keeps taps usable everywhere.
type Terminal struct {
	bindings map[rune]uint8
	pulse    time.Duration

	mu      sync.Mutex
	held    map[uint8]Key
	expires map[uint8]time.Time
}

const defaultPulse = 120 * time.Millisecond

func NewTerminal(bindings map[rune]uint8, pulse time.Duration) *Terminal {
	if pulse <= 0 {
		pulse = defaultPulse
	}
	return &Terminal{
		bindings: bindings,
		pulse:    pulse,
		held:     map[uint8]Key{},
		expires:  map[uint8]time.Time{},
	}
}

// Feed records a key press observed at `at`. Unbound runes are ignored.
func (t *Terminal) Feed(r rune, at time.Time) {
	pitch, ok := t.bindings[r]
	if !ok {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, down := t.held[pitch]; !down {
		t.held[pitch] = Key{Velocity: 127, At: at}
	}
	t.expires[pitch] = at.Add(t.pulse)
}

func (t *Terminal) Held() map[uint8]Key {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	held := make(map[uint8]Key, len(t.held))
	for pitch, k := range t.held {
		if now.After(t.expires[pitch]) {
			delete(t.held, pitch)
			delete(t.expires, pitch)
			continue
		}
		held[pitch] = k
	}
	return held
}

func (t *Terminal) Close() error {
	return nil
}

// BindLanes assigns lanes to key rows: naturals left to right on one
// row, accidentals on the row above, the way the pitches sit on a
// piano. Lanes beyond the available keys stay unbound.
func BindLanes(lanes []game.Lane, naturals, accidentals string) map[rune]uint8 {
	bindings := map[rune]uint8{}
	nat, acc := []rune(naturals), []rune(accidentals)
	ni, ai := 0, 0
	for _, l := range lanes {
		if l.Accidental {
			if ai < len(acc) {
				bindings[acc[ai]] = l.Pitch
				ai++
			}
			continue
		}
		if ni < len(nat) {
			bindings[nat[ni]] = l.Pitch
			ni++
		}
	}
	return bindings
}
