package main

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"

	"github.com/vhildebrand/cadence-sub001/internal/config"
	"github.com/vhildebrand/cadence-sub001/internal/engine"
	"github.com/vhildebrand/cadence-sub001/internal/game"
	"github.com/vhildebrand/cadence-sub001/internal/input"
	"github.com/vhildebrand/cadence-sub001/internal/judge"
	"github.com/vhildebrand/cadence-sub001/internal/parser"
	"github.com/vhildebrand/cadence-sub001/internal/render"
	"github.com/vhildebrand/cadence-sub001/internal/sched"
	"github.com/vhildebrand/cadence-sub001/internal/store"
	"github.com/vhildebrand/cadence-sub001/internal/theme"
)

func main() {
	if err := run(); nil != err {
		log.Fatalln(err)
	}
}

// findScoreFiles walks the score directory for the score JSON and an
// optional audio track.
func findScoreFiles(dir string) (scoreFile, audioFile string, err error) {
	err = filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		switch path.Ext(info.Name()) {
		case ".json":
			scoreFile = p
		case ".mp3", ".ogg":
			audioFile = p
		}
		return nil
	})
	if nil == err && scoreFile == "" {
		err = errors.New("unable to find a score .json file in the given directory")
	}
	return scoreFile, audioFile, err
}

// rateScale shifts a scripted score onto the sped-up (or slowed)
// session timeline.
func rateScale(notes []game.ScoreNote, rate float64) []game.ScoreNote {
	if rate == 1.0 {
		return notes
	}
	out := make([]game.ScoreNote, len(notes))
	for i, n := range notes {
		out[i] = n
		out[i].Start = time.Duration(math.Round(float64(n.Start) / rate))
		out[i].Duration = time.Duration(math.Round(float64(n.Duration) / rate))
	}
	return out
}

func startAudio(audioFile string, preRoll time.Duration, rate float64) error {
	f, err := os.Open(audioFile)
	if nil != err {
		return err
	}
	var streamer beep.StreamSeekCloser
	var format beep.Format
	if path.Ext(audioFile) == ".ogg" {
		streamer, format, err = vorbis.Decode(f)
	} else {
		streamer, format, err = mp3.Decode(f)
	}
	if nil != err {
		return err
	}

	if err := speaker.Init(
		beep.SampleRate(math.Round(float64(format.SampleRate)*rate)),
		format.SampleRate.N(time.Second/60),
	); nil != err {
		streamer.Close()
		return err
	}

	// The score's t=0 crosses the hit line one pre-roll after start.
	go func() {
		time.Sleep(preRoll)
		speaker.Play(beep.Seq(streamer, beep.Callback(func() {
			streamer.Close()
		})))
	}()
	return nil
}

func run() error {
	if err := config.Parse(); nil != err {
		return err
	}

	lanes := game.BuildLanes(*config.StartOctave, *config.EndOctave)
	if len(lanes) == 0 {
		return errors.New("octave range yields no playable lanes")
	}

	// Ensure our Default implementations are used as interfaces
	var r render.Renderer = &render.DefaultRenderer{}
	var th theme.Theme = &theme.DefaultTheme{}
	var psr parser.Parser = &parser.DefaultParser{}
	var st store.Store = &store.DefaultStore{}

	if err := st.Init(); nil != err {
		return fmt.Errorf("unable to open result store: %w", err)
	}
	defer st.Deinit()

	// The pre-roll covers one full fall so the first scripted notes
	// enter from the top of the field.
	preRoll := *config.Delay + *config.Fall

	opts := engine.Options{
		Lanes: lanes,
		Windows: judge.Windows{
			Perfect: *config.PerfectWindow,
			Good:    *config.GoodWindow,
		},
		Fall: *config.Fall,
		Random: sched.RandomOptions{
			MinInterval: *config.SpawnMin,
			MaxInterval: *config.SpawnMax,
			HoldChance:  *config.HoldChance,
			MinHold:     *config.HoldMin,
			MaxHold:     *config.HoldMax,
		},
		PreRoll:     preRoll,
		Seed:        *config.Seed,
		FeedbackTTL: *config.FeedbackTTL,
		Debug:       *config.Debug,
	}
	eng := engine.New(opts)

	var score *parser.Score
	var audioFile string
	sum := store.HashScore("random", nil)
	sessionEnd := time.Duration(0)

	if *config.Mode == "scripted" {
		if *config.Directory == "" {
			return errors.New("scripted mode needs a score directory")
		}
		scoreFile, audio, err := findScoreFiles(*config.Directory)
		if nil != err {
			return err
		}
		audioFile = audio
		score, err = psr.Parse(scoreFile)
		if nil != err {
			return err
		}
		notes := rateScale(score.Notes, *config.Rate)
		eng.SelectMode(engine.ModeScripted)
		eng.LoadScriptedNotes(notes)
		sum = store.HashScore(score.Title, score.Notes)
		sessionEnd = preRoll + time.Duration(float64(score.TotalDuration) / *config.Rate) + 5*time.Second
	} else {
		eng.SelectMode(engine.ModeRandom)
	}

	best := st.Best(sum)

	keyChannel, err := keyboard.GetKeys(128)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			log.Println("unable to close keyboard:", err)
		}
	}()

	var provider input.Provider
	var terminalInput *input.Terminal
	if *config.MidiDevice != "" {
		provider, err = input.OpenMIDI(*config.MidiDevice)
		if nil != err {
			return err
		}
	} else {
		bindings := input.BindLanes(lanes, *config.NaturalKeys, *config.AccidentalKeys)
		terminalInput = input.NewTerminal(bindings, 0)
		provider = terminalInput
	}
	defer func() {
		if err := provider.Close(); nil != err {
			log.Println("unable to close input:", err)
		}
	}()

	if audioFile != "" {
		if err := startAudio(audioFile, preRoll, *config.Rate); nil != err {
			return fmt.Errorf("unable to start audio: %w", err)
		}
	}

	if err := r.Init(); nil != err {
		return err
	}
	defer func() {
		// Restore the terminal state
		if err := r.Deinit(); nil != err {
			log.Println("unable to restore terminal:", err)
		}
	}()

	cc, rc, err := r.Size()
	if nil != err {
		return fmt.Errorf("unable to get terminal size: %w", err)
	}

	ui := newView(r, th, lanes, cc, rc)

	eng.Start()
	startTime := time.Now()
	simTime := time.Duration(0)
	tick := *config.TickPeriod

	r.RenderLoop(*config.FramePeriod, func(now time.Time) bool {
		elapsed := now.Sub(startTime)
		if sessionEnd != 0 && elapsed > sessionEnd {
			return false
		}

		// get the key inputs that occured so far
		for i := 0; i < len(keyChannel); i++ {
			key := <-keyChannel
			if key.Key == keyboard.KeyEsc || key.Key == keyboard.KeyCtrlC {
				return false
			}
			if nil != terminalInput {
				terminalInput.Feed(key.Rune, time.Now())
			}
		}

		// Fixed-timestep simulation, independent of the frame rate
		held := snapshot(provider, startTime)
		for simTime+tick <= elapsed {
			simTime += tick
			eng.Step(simTime, held)
		}

		ui.draw(eng, score, best, elapsed)
		return true
	})
	eng.Stop()

	st.Save(sum, *config.Rate, eng.Score())
	return nil
}

// snapshot converts the provider's wall-clock held set to the engine's
// session-relative timeline.
func snapshot(p input.Provider, start time.Time) map[uint8]game.KeyInfo {
	held := p.Held()
	out := make(map[uint8]game.KeyInfo, len(held))
	for pitch, k := range held {
		out[pitch] = game.KeyInfo{Velocity: k.Velocity, At: k.At.Sub(start)}
	}
	return out
}
