// Package input exposes the device layer as a held-pitch snapshot.
// Providers update asynchronously; the engine diffs snapshots between
// steps, so no step ever blocks on input.
package input

import (
	"time"
)

// Key is the per-pitch metadata of a currently held key.
type Key struct {
	Velocity uint8
	At       time.Time
}

// Provider is a source of currently held pitches.
type Provider interface {
	// Held returns a snapshot of the pitches down right now.
	Held() map[uint8]Key
	Close() error
}
