// Package sched produces the notes a session judges, either by
// procedural generation or by just-in-time activation of an external
// score.
package sched

import (
	"time"

	"github.com/vhildebrand/cadence-sub001/internal/game"
)

// Scheduler yields the notes that should enter the field by `now`.
// Poll is called once per simulation step; fall is the current fall
// duration, which scripted scheduling needs to back-date spawns.
type Scheduler interface {
	Poll(now, fall time.Duration) []*game.Note
	Reset()
}
