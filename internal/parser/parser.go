package parser

import (
	"time"

	"github.com/vhildebrand/cadence-sub001/internal/game"
)

// Score is a parsed, read-only scripted-mode input.
type Score struct {
	Title         string
	Tempo         float64
	TotalDuration time.Duration
	Notes         []game.ScoreNote
}

type Parser interface {
	Parse(file string) (*Score, error)
}
