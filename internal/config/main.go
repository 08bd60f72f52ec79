package config

import (
	"errors"

	"github.com/vhildebrand/cadence-sub001/internal/game"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	Directory      = kingpin.Arg("directory", "Score directory for scripted mode").ExistingDir()
	Mode           = kingpin.Flag("mode", "Note source").Default("random").Short('m').Enum("random", "scripted")
	Rate           = kingpin.Flag("rate", "Playback speed").Default("1.0").Short('r').Float64()
	Delay          = kingpin.Flag("delay", "Start delay before the score begins").Default("1.5s").Short('d').Duration()
	Fall           = kingpin.Flag("fall", "Time for a note to fall to the hit line").Default("4s").Short('f').Duration()
	StartOctave    = kingpin.Flag("start-octave", "First octave of the playable range").Default("4").Int()
	EndOctave      = kingpin.Flag("end-octave", "Last octave of the playable range").Default("5").Int()
	PerfectWindow  = kingpin.Flag("perfect-window", "Perfect judgement window").Default("100ms").Duration()
	GoodWindow     = kingpin.Flag("good-window", "Good judgement window").Default("200ms").Duration()
	SpawnMin       = kingpin.Flag("spawn-min", "Minimum procedural spawn interval").Default("600ms").Duration()
	SpawnMax       = kingpin.Flag("spawn-max", "Maximum procedural spawn interval").Default("1000ms").Duration()
	HoldChance     = kingpin.Flag("hold-chance", "Probability a procedural note is a hold").Default("0.3").Float64()
	HoldMin        = kingpin.Flag("hold-min", "Minimum procedural hold length").Default("500ms").Duration()
	HoldMax        = kingpin.Flag("hold-max", "Maximum procedural hold length").Default("2s").Duration()
	Seed           = kingpin.Flag("seed", "Procedural RNG seed, 0 for time-based").Default("0").Int64()
	TickPeriod     = kingpin.Flag("tick-period", "Fixed simulation timestep").Default("4ms").Duration()
	FramePeriod    = kingpin.Flag("frame-period", "Render frame period").Default("16ms").Short('p').Duration()
	FeedbackTTL    = kingpin.Flag("feedback-ttl", "Hit flash display lifetime").Default("1200ms").Duration()
	MidiDevice     = kingpin.Flag("midi", "MIDI input device name").Default("").String()
	NaturalKeys    = kingpin.Flag("keys-natural", "Terminal keys for natural lanes").Default("asdfghjkl;zxcvbn").String()
	AccidentalKeys = kingpin.Flag("keys-accidental", "Terminal keys for accidental lanes").Default("wetyuop123456").String()
	ColumnSpacing  = kingpin.Flag("spacing", "Columns between lanes").Default("4").Short('S').Uint()
	BarRow         = kingpin.Flag("bar-row", "Rows above the bottom to draw the hit bar").Default("6").Uint()
	Debug          = kingpin.Flag("debug", "Panic on engine invariant violations").Bool()

	Judgements []game.Judgement
)

// Parse reads the command line and derives the judgement table. Called
// from main, never from init, so tests can import this package.
func Parse() error {
	kingpin.Version("0.1.0")
	kingpin.Parse()

	if *EndOctave < *StartOctave {
		return errors.New("end octave is before start octave")
	}
	if *GoodWindow < *PerfectWindow {
		return errors.New("good window is narrower than perfect window")
	}
	Judgements = []game.Judgement{
		{Window: *PerfectWindow, Name: "\033[38;5;153mPerfect\033[0m"},
		{Window: *GoodWindow, Name: "\033[1;32m   Good\033[0m"},
		{Window: -1, Name: "\033[1;31m   Miss\033[0m"},
	}
	return nil
}
