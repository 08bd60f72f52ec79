package game

import (
	"time"
)

type NoteType uint8

const (
	Tap NoteType = iota
	Hold
)

type NoteState uint8

const (
	Pending NoteState = iota
	Hit
	Missed
)

// Note is a single falling target. SpawnTime is the moment the note
// entered the field, relative to session start; the head reaches the
// hit line exactly one fall duration later.
type Note struct {
	ID        string
	Pitch     uint8
	Lane      int
	Type      NoteType
	SpawnTime time.Duration
	Duration  time.Duration // 0 for taps
	State     NoteState

	// This is state for the UI, recomputed every step
	Progress     float64 // head position through the field, 0..1
	HoldProgress float64 // fraction of the hold actually sustained
	Held         bool    // a claim is currently open on this note
}

// Target is the time the note head crosses the hit line.
func (n *Note) Target(fall time.Duration) time.Duration {
	return n.SpawnTime + fall
}

// ScoreNote is one record of an externally supplied score, already
// converted to engine units. Times are relative to the score start.
type ScoreNote struct {
	Pitch    uint8
	Start    time.Duration
	Duration time.Duration
	Type     NoteType
}

type EventKind uint8

const (
	Press EventKind = iota
	Release
)

// KeyEvent is a single press or release derived from diffing the
// held-pitch snapshot between two steps.
type KeyEvent struct {
	Pitch uint8
	Kind  EventKind
	Time  time.Duration
}

// KeyInfo is the per-pitch metadata of a held key.
type KeyInfo struct {
	Velocity uint8
	At       time.Duration
}
