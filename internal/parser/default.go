package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/vhildebrand/cadence-sub001/internal/game"
)

// DefaultParser reads the JSON emitted by the MusicXML extraction
// pipeline: a note list with midi numbers and second-based timing plus
// tempo and title metadata. Rests are present in the file and skipped
// here; chord members arrive as separate records sharing a start time.
type DefaultParser struct {
	// HoldThreshold is the sustained length at which a score note is
	// treated as a hold target instead of a tap.
	HoldThreshold time.Duration
}

const defaultHoldThreshold = 600 * time.Millisecond

type scoreFile struct {
	Notes []struct {
		Type             string  `json:"type"`
		MidiNumber       int     `json:"midi_number"`
		StartTimeSeconds float64 `json:"start_time_seconds"`
		DurationSeconds  float64 `json:"duration_seconds"`
	} `json:"notes"`
	Tempo         float64 `json:"tempo"`
	TotalDuration float64 `json:"total_duration"`
	Metadata      struct {
		Title string `json:"title"`
	} `json:"metadata"`
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (p *DefaultParser) Parse(file string) (*Score, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, fmt.Errorf("unable to read score: %w", err)
	}
	var raw scoreFile
	if err := json.Unmarshal(data, &raw); nil != err {
		return nil, fmt.Errorf("unable to parse score %v: %w", file, err)
	}

	threshold := p.HoldThreshold
	if threshold <= 0 {
		threshold = defaultHoldThreshold
	}

	score := &Score{
		Title:         raw.Metadata.Title,
		Tempo:         raw.Tempo,
		TotalDuration: seconds(raw.TotalDuration),
	}
	for _, n := range raw.Notes {
		if n.Type == "rest" {
			continue
		}
		if n.MidiNumber < 0 || n.MidiNumber > 127 {
			continue
		}
		rec := game.ScoreNote{
			Pitch: uint8(n.MidiNumber),
			Start: seconds(n.StartTimeSeconds),
		}
		if d := seconds(n.DurationSeconds); d >= threshold {
			rec.Type = game.Hold
			rec.Duration = d
		}
		score.Notes = append(score.Notes, rec)
	}
	// The pipeline sorts per part; merged parts still need a global order.
	sort.SliceStable(score.Notes, func(i, j int) bool {
		return score.Notes[i].Start < score.Notes[j].Start
	})
	return score, nil
}
