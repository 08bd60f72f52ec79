// Package engine owns the per-step simulation: the clock, the active
// notes, the score tally, and the per-lane hold claims. All mutation
// happens inside Step; every other component is a pure function over
// the snapshot passed in.
package engine

import (
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/vhildebrand/cadence-sub001/internal/game"
	"github.com/vhildebrand/cadence-sub001/internal/judge"
	"github.com/vhildebrand/cadence-sub001/internal/sched"
)

type Mode uint8

const (
	ModeRandom Mode = iota
	ModeScripted
)

// Options fixes the tunables of a session.
type Options struct {
	Lanes   []game.Lane
	Windows judge.Windows
	Fall    time.Duration
	Random  sched.RandomOptions
	PreRoll time.Duration
	Seed    int64

	// Retention keeps unmatched presses around so late steps can
	// still judge them.
	Retention time.Duration
	// RetireMargin keeps judged notes on screen briefly past the
	// field before they are removed.
	RetireMargin time.Duration
	// FeedbackTTL is how long a hit flash stays visible.
	FeedbackTTL time.Duration

	// Debug turns invariant violations into panics instead of logs.
	Debug bool
}

func (o *Options) fillDefaults() {
	if o.Windows == (judge.Windows{}) {
		o.Windows = judge.DefaultWindows
	}
	if o.Fall <= 0 {
		o.Fall = 4 * time.Second
	}
	if o.Random == (sched.RandomOptions{}) {
		o.Random = sched.DefaultRandomOptions
	}
	if o.PreRoll <= 0 {
		o.PreRoll = 1500 * time.Millisecond
	}
	if o.Retention <= 0 {
		o.Retention = 2 * time.Second
	}
	if o.RetireMargin <= 0 {
		o.RetireMargin = 800 * time.Millisecond
	}
	if o.FeedbackTTL <= 0 {
		o.FeedbackTTL = 1200 * time.Millisecond
	}
}

type Engine struct {
	opts        Options
	laneByPitch map[uint8]int
	mode        Mode
	script      []game.ScoreNote
	scheduler   sched.Scheduler

	running  bool
	notes    []*game.Note
	claims   []*game.HoldClaim // indexed by lane
	score    game.ScoreState
	presses  []game.KeyEvent
	prevHeld map[uint8]game.KeyInfo
	feedback []game.Feedback

	// tap error accumulators for the session stats line
	errN, errSum, errSumSq float64
}

func New(opts Options) *Engine {
	opts.fillDefaults()
	e := &Engine{
		opts:        opts,
		laneByPitch: game.LaneByPitch(opts.Lanes),
	}
	e.clear()
	return e
}

func (e *Engine) clear() {
	e.notes = nil
	e.claims = make([]*game.HoldClaim, len(e.opts.Lanes))
	e.score = game.ScoreState{}
	e.presses = nil
	e.prevHeld = map[uint8]game.KeyInfo{}
	e.feedback = nil
	e.errN, e.errSum, e.errSumSq = 0, 0, 0
	if nil != e.scheduler {
		e.scheduler.Reset()
	}
}

// SelectMode picks the note source for the next Start. Changing mode
// mid-session takes effect on the following Start.
func (e *Engine) SelectMode(m Mode) {
	e.mode = m
	e.scheduler = nil
}

// LoadScriptedNotes replaces the score used by scripted mode. A nil or
// empty list is valid and simply yields no notes.
func (e *Engine) LoadScriptedNotes(notes []game.ScoreNote) {
	e.script = notes
	e.scheduler = nil
}

// SetFallDuration changes the field travel time mid-session.
func (e *Engine) SetFallDuration(fall time.Duration) {
	if fall > 0 {
		e.opts.Fall = fall
	}
}

func (e *Engine) FallDuration() time.Duration { return e.opts.Fall }

// Start begins a fresh session. Safe to call in any state; starting a
// running session is a no-op.
func (e *Engine) Start() {
	if e.running {
		return
	}
	e.clear()
	switch e.mode {
	case ModeScripted:
		e.scheduler = sched.NewScripted(e.script, e.opts.PreRoll, e.laneByPitch)
	default:
		seed := e.opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		e.scheduler = sched.NewRandom(e.opts.Lanes, e.opts.Random, rand.New(rand.NewSource(seed)))
	}
	e.running = true
}

// Stop halts judging without discarding the tally. Idempotent.
func (e *Engine) Stop() {
	e.running = false
}

// Reset returns the engine to a blank pre-start state. Idempotent.
func (e *Engine) Reset() {
	e.running = false
	e.clear()
}

func (e *Engine) Running() bool          { return e.running }
func (e *Engine) Notes() []*game.Note    { return e.notes }
func (e *Engine) Score() game.ScoreState { return e.score }

// Feedback returns the unexpired hit flashes.
func (e *Engine) Feedback() []game.Feedback { return e.feedback }

// Stats is the mean and standard deviation of tap timing error in
// milliseconds across the session so far.
func (e *Engine) Stats() (mean, stdev float64) {
	if e.errN < 1 {
		return 0, 0
	}
	mean = e.errSum / e.errN
	if e.errN < 2 {
		return mean, 0
	}
	stdev = math.Sqrt((e.errSumSq - e.errSum*e.errSum/e.errN) / (e.errN - 1))
	return mean, stdev
}

// Step advances the simulation to `now` (session-relative) against a
// snapshot of the currently held pitches. It never blocks on input.
func (e *Engine) Step(now time.Duration, held map[uint8]game.KeyInfo) {
	if !e.running {
		return
	}

	if nil != e.scheduler {
		e.notes = append(e.notes, e.scheduler.Poll(now, e.opts.Fall)...)
	}

	presses, releases := e.diffHeld(now, held)
	e.presses = append(e.presses, presses...)
	e.matchPresses(now)
	for _, ev := range releases {
		e.release(ev)
	}

	e.advance(now)
	e.retire(now)
	e.expire(now)
}

// diffHeld derives discrete key events from consecutive held-set
// snapshots. The input layer runs asynchronously; this never blocks.
func (e *Engine) diffHeld(now time.Duration, held map[uint8]game.KeyInfo) (presses, releases []game.KeyEvent) {
	for pitch, info := range held {
		if _, ok := e.prevHeld[pitch]; ok {
			continue
		}
		at := info.At
		if at <= 0 || at > now {
			at = now
		}
		presses = append(presses, game.KeyEvent{Pitch: pitch, Kind: game.Press, Time: at})
	}
	for pitch := range e.prevHeld {
		if _, ok := held[pitch]; !ok {
			releases = append(releases, game.KeyEvent{Pitch: pitch, Kind: game.Release, Time: now})
		}
	}
	e.prevHeld = make(map[uint8]game.KeyInfo, len(held))
	for pitch, info := range held {
		e.prevHeld[pitch] = info
	}
	return presses, releases
}

// matchPresses resolves buffered presses against pending notes.
// A press that matches is consumed; the rest stay buffered until they
// expire unmatched.
func (e *Engine) matchPresses(now time.Duration) {
	kept := e.presses[:0]
	for _, ev := range e.presses {
		lane, ok := e.laneByPitch[ev.Pitch]
		if !ok {
			continue
		}
		n := judge.Match(e.notes, lane, e.opts.Fall, ev.Time, e.opts.Windows)
		if nil == n {
			kept = append(kept, ev)
			continue
		}
		err := judge.Error(n, e.opts.Fall, ev.Time)
		if n.Type == game.Hold {
			e.claim(n, ev.Time, err)
			continue
		}
		grade, base := judge.ClassifyTap(err, e.opts.Windows)
		ms := float64(err) / float64(time.Millisecond)
		e.errN++
		e.errSum += ms
		e.errSumSq += ms * ms
		e.apply(grade, base, n, now)
	}
	e.presses = kept
}

func (e *Engine) claim(n *game.Note, at time.Duration, err time.Duration) {
	if nil != e.claims[n.Lane] {
		// At most one claim per lane; a press while the lane is
		// occupied opens nothing.
		return
	}
	e.claims[n.Lane] = &game.HoldClaim{
		NoteID:   n.ID,
		Lane:     n.Lane,
		Start:    at,
		Expected: n.Duration,
		Quality:  judge.ClassifyStart(err, e.opts.Windows),
	}
	n.Held = true
}

func (e *Engine) release(ev game.KeyEvent) {
	lane, ok := e.laneByPitch[ev.Pitch]
	if !ok {
		return
	}
	c := e.claims[lane]
	if nil == c {
		return
	}
	e.resolveClaim(c, e.noteByID(c.NoteID), ev.Time)
}

// resolveClaim closes a hold claim at time t, grading it by sustained
// completion and start quality.
func (e *Engine) resolveClaim(c *game.HoldClaim, n *game.Note, t time.Duration) {
	e.claims[c.Lane] = nil
	if nil == n || n.State != game.Pending {
		return
	}
	grade, base := judge.ResolveHold(judge.Completion(c, t), c.Quality)
	n.Held = false
	e.apply(grade, base, n, t)
}

// apply finalizes a judgement: transitions the note out of Pending
// exactly once and updates the tally and feedback.
func (e *Engine) apply(grade game.Grade, base int, n *game.Note, now time.Duration) {
	if n.State != game.Pending {
		if e.opts.Debug {
			log.Panicf("engine: re-judging note %s", n.ID)
		}
		return
	}
	if grade == game.GradeMiss {
		n.State = game.Missed
	} else {
		n.State = game.Hit
	}
	e.score.Apply(grade, base*judge.Multiplier(e.score.Combo))
	e.feedback = append(e.feedback, game.Feedback{
		Grade:  grade,
		Lane:   n.Lane,
		At:     now,
		Expire: now + e.opts.FeedbackTTL,
	})
}

// advance recomputes display state and transitions notes that slid
// past their window to Missed. Claimed holds are exempt until release
// or retirement.
func (e *Engine) advance(now time.Duration) {
	for _, n := range e.notes {
		n.Progress = judge.Progress(n, e.opts.Fall, now)
		if c := e.claims[n.Lane]; nil != c && c.NoteID == n.ID {
			n.HoldProgress = judge.Completion(c, now)
			continue
		}
		if n.State != game.Pending {
			continue
		}
		window := e.opts.Windows.Good
		if n.Type == game.Hold {
			window = e.opts.Windows.HoldEntry(n.Duration)
		}
		if judge.Error(n, e.opts.Fall, now) > window {
			e.apply(game.GradeMiss, 0, n, now)
		}
	}
}

// retire drops notes that are fully past the field plus the retention
// margin. A hold still claimed at retirement gets a forced
// release-equivalent resolution rather than a silent drop.
func (e *Engine) retire(now time.Duration) {
	kept := e.notes[:0]
	for _, n := range e.notes {
		if now <= n.Target(e.opts.Fall)+n.Duration+e.opts.RetireMargin {
			kept = append(kept, n)
			continue
		}
		if c := e.claims[n.Lane]; nil != c && c.NoteID == n.ID {
			e.resolveClaim(c, n, now)
		}
	}
	e.notes = kept
}

// expire sweeps the transient buffers.
func (e *Engine) expire(now time.Duration) {
	presses := e.presses[:0]
	for _, ev := range e.presses {
		if now-ev.Time <= e.opts.Retention {
			presses = append(presses, ev)
		}
	}
	e.presses = presses

	feedback := e.feedback[:0]
	for _, f := range e.feedback {
		if f.Expire > now {
			feedback = append(feedback, f)
		}
	}
	e.feedback = feedback
}

func (e *Engine) noteByID(id string) *game.Note {
	for _, n := range e.notes {
		if n.ID == id {
			return n
		}
	}
	return nil
}
