package sched

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/vhildebrand/cadence-sub001/internal/game"
)

// RandomOptions are the bands the procedural generator draws from.
type RandomOptions struct {
	MinInterval time.Duration
	MaxInterval time.Duration
	HoldChance  float64
	MinHold     time.Duration
	MaxHold     time.Duration
}

// DefaultRandomOptions matches the stock procedural session.
var DefaultRandomOptions = RandomOptions{
	MinInterval: 600 * time.Millisecond,
	MaxInterval: 1000 * time.Millisecond,
	HoldChance:  0.3,
	MinHold:     500 * time.Millisecond,
	MaxHold:     2000 * time.Millisecond,
}

// RandomScheduler emits one note whenever the elapsed time since the
// last spawn exceeds a randomized interval.
type RandomScheduler struct {
	lanes []game.Lane
	opts  RandomOptions
	rng   *rand.Rand

	lastSpawn time.Duration
	nextDelay time.Duration
	seq       int
}

func NewRandom(lanes []game.Lane, opts RandomOptions, rng *rand.Rand) *RandomScheduler {
	s := &RandomScheduler{lanes: lanes, opts: opts, rng: rng}
	s.Reset()
	return s
}

func (s *RandomScheduler) Reset() {
	s.lastSpawn = 0
	s.seq = 0
	s.nextDelay = s.interval()
}

func (s *RandomScheduler) interval() time.Duration {
	return s.opts.MinInterval + time.Duration(s.rng.Int63n(int64(s.opts.MaxInterval-s.opts.MinInterval)+1))
}

func (s *RandomScheduler) Poll(now, fall time.Duration) []*game.Note {
	if len(s.lanes) == 0 || now-s.lastSpawn < s.nextDelay {
		return nil
	}
	lane := s.lanes[s.rng.Intn(len(s.lanes))]
	n := &game.Note{
		ID:        "r-" + strconv.Itoa(s.seq),
		Pitch:     lane.Pitch,
		Lane:      lane.Index,
		Type:      game.Tap,
		SpawnTime: now,
	}
	if s.rng.Float64() < s.opts.HoldChance {
		n.Type = game.Hold
		n.Duration = s.opts.MinHold + time.Duration(s.rng.Int63n(int64(s.opts.MaxHold-s.opts.MinHold)+1))
	}
	s.seq++
	s.lastSpawn = now
	s.nextDelay = s.interval()
	return []*game.Note{n}
}
