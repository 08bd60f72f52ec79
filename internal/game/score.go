package game

import (
	"time"
)

// Grade is the quality of one resolved judgement. It doubles as the
// index into ScoreState.Counts and the judgement display table.
type Grade uint8

const (
	GradePerfect Grade = iota
	GradeGood
	GradeMiss
	gradeCount
)

func (g Grade) String() string {
	switch g {
	case GradePerfect:
		return "Perfect"
	case GradeGood:
		return "Good"
	case GradeMiss:
		return "Miss"
	}
	return "?"
}

// Judgement is a display entry for one grade.
type Judgement struct {
	Window time.Duration
	Name   string
}

// ScoreState is the running tally for a session. Only the engine
// mutates it.
type ScoreState struct {
	Total     int
	Combo     int
	Streak    int
	MaxStreak int
	Counts    [gradeCount]int
}

// Apply records one judgement. Points are the already-multiplied
// contribution; a miss zeroes combo and streak but never the total.
func (s *ScoreState) Apply(g Grade, points int) {
	s.Counts[g]++
	if g == GradeMiss {
		s.Combo = 0
		s.Streak = 0
		return
	}
	s.Total += points
	s.Combo++
	s.Streak++
	if s.Streak > s.MaxStreak {
		s.MaxStreak = s.Streak
	}
}

// StartQuality classifies how well a hold claim was entered.
type StartQuality uint8

const (
	StartPerfect StartQuality = iota
	StartGood
	StartLate
)

// HoldClaim tracks one in-progress sustained note. At most one claim
// exists per lane.
type HoldClaim struct {
	NoteID   string
	Lane     int
	Start    time.Duration
	Expected time.Duration
	Quality  StartQuality
}

// Feedback is a transient hit/miss flash for the UI.
type Feedback struct {
	Grade  Grade
	Lane   int
	At     time.Duration
	Expire time.Duration
}
