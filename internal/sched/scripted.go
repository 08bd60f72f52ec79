package sched

import (
	"strconv"
	"time"

	"github.com/vhildebrand/cadence-sub001/internal/game"
)

// SpawnTolerance absorbs frame jitter when a record's spawn window is
// evaluated; a record up to this much early still spawns this step.
const SpawnTolerance = 30 * time.Millisecond

// ScriptedScheduler activates pre-ordered score records just in time.
// A record spawns one fall duration before its scheduled hit so that it
// reaches the hit line exactly on time; the pre-roll shifts the whole
// score so the first notes still enter from the top of the field.
type ScriptedScheduler struct {
	notes       []game.ScoreNote
	preRoll     time.Duration
	laneByPitch map[uint8]int

	cursor  int
	spawned map[string]bool
}

func NewScripted(notes []game.ScoreNote, preRoll time.Duration, laneByPitch map[uint8]int) *ScriptedScheduler {
	return &ScriptedScheduler{
		notes:       notes,
		preRoll:     preRoll,
		laneByPitch: laneByPitch,
		spawned:     map[string]bool{},
	}
}

func (s *ScriptedScheduler) Reset() {
	s.cursor = 0
	s.spawned = map[string]bool{}
}

func (s *ScriptedScheduler) Poll(now, fall time.Duration) []*game.Note {
	var out []*game.Note
	for i := s.cursor; i < len(s.notes); i++ {
		rec := s.notes[i]
		spawnAt := s.preRoll + rec.Start - fall
		if spawnAt > now+SpawnTolerance {
			break
		}
		id := "s-" + strconv.Itoa(i)
		if i == s.cursor {
			s.cursor++
		}
		if s.spawned[id] {
			continue
		}
		s.spawned[id] = true
		lane, ok := s.laneByPitch[rec.Pitch]
		if !ok {
			// unplayable pitch, not an error
			continue
		}
		out = append(out, &game.Note{
			ID:        id,
			Pitch:     rec.Pitch,
			Lane:      lane,
			Type:      rec.Type,
			SpawnTime: spawnAt,
			Duration:  rec.Duration,
		})
	}
	return out
}
