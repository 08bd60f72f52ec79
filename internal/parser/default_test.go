package parser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vhildebrand/cadence-sub001/internal/game"
)

// A trimmed score as the MusicXML extraction pipeline emits it.
const sampleScore = `{
  "notes": [
    {"type": "note", "pitch": "C", "octave": 4, "midi_number": 60,
     "start_time_seconds": 0.0, "duration_seconds": 0.5},
    {"type": "rest",
     "start_time_seconds": 0.5, "duration_seconds": 0.5},
    {"type": "chord_note", "pitch": "E", "octave": 4, "midi_number": 64,
     "start_time_seconds": 1.0, "duration_seconds": 2.0},
    {"type": "chord_note", "pitch": "G", "octave": 4, "midi_number": 67,
     "start_time_seconds": 1.0, "duration_seconds": 0.25},
    {"type": "note", "pitch": "C", "octave": 9, "midi_number": 180,
     "start_time_seconds": 1.5, "duration_seconds": 0.5}
  ],
  "tempo": 96.0,
  "total_duration": 3.0,
  "metadata": {"title": "Test Piece", "composer": "Nobody"}
}`

func writeSample(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "score.json")
	if err := os.WriteFile(p, []byte(sampleScore), 0o644); nil != err {
		t.Fatal(err)
	}
	return p
}

func TestParse(t *testing.T) {
	psr := DefaultParser{}
	score, err := psr.Parse(writeSample(t))
	if nil != err {
		t.Fatal("unable to parse score", err)
	}

	if score.Title != "Test Piece" || score.Tempo != 96.0 {
		t.Log("metadata", score.Title, score.Tempo)
		t.Fail()
	}
	if score.TotalDuration != 3*time.Second {
		t.Log("total duration", score.TotalDuration)
		t.Fail()
	}

	// the rest and the out-of-domain pitch are dropped
	if len(score.Notes) != 3 {
		t.Fatal("note count", len(score.Notes), score.Notes)
	}

	expected := []game.ScoreNote{
		{Pitch: 60, Start: 0},
		{Pitch: 64, Start: time.Second, Duration: 2 * time.Second, Type: game.Hold},
		{Pitch: 67, Start: time.Second},
	}
	for i, n := range score.Notes {
		if n != expected[i] {
			t.Log("note    ", i, n)
			t.Log("expected", expected[i])
			t.Fail()
		}
	}
}

func TestParseHoldThreshold(t *testing.T) {
	psr := DefaultParser{HoldThreshold: 3 * time.Second}
	score, err := psr.Parse(writeSample(t))
	if nil != err {
		t.Fatal(err)
	}
	for _, n := range score.Notes {
		if n.Type == game.Hold {
			t.Log("hold below threshold", n)
			t.Fail()
		}
	}
}

func TestParseOrdering(t *testing.T) {
	psr := DefaultParser{}
	score, err := psr.Parse(writeSample(t))
	if nil != err {
		t.Fatal(err)
	}
	for i := 1; i < len(score.Notes); i++ {
		if score.Notes[i].Start < score.Notes[i-1].Start {
			t.Log("notes out of order at", i)
			t.Fail()
		}
	}
}

func TestParseMissingFile(t *testing.T) {
	psr := DefaultParser{}
	if _, err := psr.Parse(filepath.Join(t.TempDir(), "nope.json")); nil == err {
		t.Log("expected an error for a missing file")
		t.Fail()
	}
}

func TestParseMalformed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "score.json")
	if err := os.WriteFile(p, []byte("not json"), 0o644); nil != err {
		t.Fatal(err)
	}
	psr := DefaultParser{}
	if _, err := psr.Parse(p); nil == err {
		t.Log("expected an error for malformed json")
		t.Fail()
	}
}
