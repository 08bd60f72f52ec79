// Package judge holds the timing-window math. Everything here is a
// pure function over the engine's state snapshot; timing error is kept
// in time.Duration so judging is independent of render geometry.
package judge

import (
	"time"

	"github.com/vhildebrand/cadence-sub001/internal/game"
)

const (
	PerfectPoints = 100
	GoodPoints    = 50
)

type Windows struct {
	Perfect time.Duration
	Good    time.Duration
}

// DefaultWindows matches the stock judgement table.
var DefaultWindows = Windows{
	Perfect: 100 * time.Millisecond,
	Good:    200 * time.Millisecond,
}

// HoldEntry is the widened acceptance window for starting a hold.
// Longer notes get a wider entry, one tenth of their duration.
func (w Windows) HoldEntry(duration time.Duration) time.Duration {
	return w.Good + duration/10
}

// Error is the signed timing error of an event at t against the note's
// hit-line crossing. Negative is early, positive is late.
func Error(n *game.Note, fall, t time.Duration) time.Duration {
	return t - n.Target(fall)
}

// Progress is the note head's fraction of the way through the field.
func Progress(n *game.Note, fall, now time.Duration) float64 {
	if fall <= 0 {
		return 1
	}
	p := float64(now-n.SpawnTime) / float64(fall)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}

// window is the acceptance window for a press against a note.
func (w Windows) window(n *game.Note) time.Duration {
	if n.Type == game.Hold {
		return w.HoldEntry(n.Duration)
	}
	return w.Good
}

// Match finds the pending note in a lane best matched by a press at t,
// or nil if nothing is within its window. Notes must be ordered by
// spawn time, which lets the scan stop once distances start growing.
func Match(notes []*game.Note, lane int, fall, t time.Duration, w Windows) *game.Note {
	var closest *game.Note
	best := time.Duration(1<<63 - 1)
	for _, n := range notes {
		if n.State != game.Pending || n.Held || n.Lane != lane {
			continue
		}
		d := abs(Error(n, fall, t))
		if d < best {
			best = d
			closest = n
		} else if nil != closest {
			// already found the closest, every later note is further
			break
		}
	}
	if nil == closest || best > w.window(closest) {
		return nil
	}
	return closest
}

// ClassifyTap grades a tap by absolute timing error. The caller has
// already established the error is within the good window.
func ClassifyTap(err time.Duration, w Windows) (game.Grade, int) {
	if abs(err) <= w.Perfect {
		return game.GradePerfect, PerfectPoints
	}
	return game.GradeGood, GoodPoints
}

// ClassifyStart grades the entry of a hold claim.
func ClassifyStart(err time.Duration, w Windows) game.StartQuality {
	d := abs(err)
	switch {
	case d <= w.Perfect:
		return game.StartPerfect
	case d <= w.Good:
		return game.StartGood
	}
	return game.StartLate
}

// ResolveHold combines completion ratio and start quality into a final
// grade and base points.
func ResolveHold(completion float64, q game.StartQuality) (game.Grade, int) {
	switch {
	case completion >= 0.9:
		switch q {
		case game.StartPerfect:
			return game.GradePerfect, 150
		case game.StartGood:
			return game.GradePerfect, 125
		}
		return game.GradeGood, 100
	case completion >= 0.7:
		switch q {
		case game.StartPerfect:
			return game.GradeGood, 100
		case game.StartGood:
			return game.GradeGood, 85
		}
		return game.GradeGood, 70
	}
	return game.GradeMiss, 0
}

// Multiplier is the combo bonus applied to base points: every ten
// consecutive non-miss judgements add one integer step.
func Multiplier(combo int) int {
	m := combo / 10
	if m < 1 {
		m = 1
	}
	return m
}

// Completion is the sustained fraction of a hold claim at time t.
func Completion(c *game.HoldClaim, t time.Duration) float64 {
	if c.Expected <= 0 {
		return 1
	}
	r := float64(t-c.Start) / float64(c.Expected)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
