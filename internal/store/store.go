package store

import (
	"github.com/vhildebrand/cadence-sub001/internal/game"
)

// Result is one persisted session outcome.
type Result struct {
	Sum       string
	Rate      float64
	Total     int
	Perfect   int
	Good      int
	Miss      int
	MaxStreak int
}

type Store interface {
	Init() error
	Deinit()

	// Save the outcome of this session
	Save(sum string, rate float64, s game.ScoreState)

	// Load up previous results for the score
	Load(sum string) []Result

	// Best is the highest saved total for the score, 0 if none
	Best(sum string) int
}
