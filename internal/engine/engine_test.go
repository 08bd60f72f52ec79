package engine

import (
	"testing"
	"time"

	"github.com/vhildebrand/cadence-sub001/internal/game"
	"github.com/vhildebrand/cadence-sub001/internal/judge"
)

const (
	fall = 4 * time.Second
	tick = 4 * time.Millisecond
)

// testEngine runs scripted mode with PreRoll == Fall so a record with
// start S spawns at S and crosses the hit line at S + fall.
func testEngine(notes []game.ScoreNote) *Engine {
	e := New(Options{
		Lanes:   game.BuildLanes(4, 4),
		Windows: judge.DefaultWindows,
		Fall:    fall,
		PreRoll: fall,
		Debug:   true,
	})
	e.SelectMode(ModeScripted)
	e.LoadScriptedNotes(notes)
	e.Start()
	return e
}

// stepTo advances the engine in fixed ticks with a constant held set.
func stepTo(e *Engine, from, to time.Duration, held map[uint8]game.KeyInfo) time.Duration {
	now := from
	for ; now < to; now += tick {
		e.Step(now, held)
	}
	return now
}

func press(pitch uint8, at time.Duration) map[uint8]game.KeyInfo {
	return map[uint8]game.KeyInfo{pitch: {Velocity: 100, At: at}}
}

func tap(pitch uint8, start time.Duration) game.ScoreNote {
	return game.ScoreNote{Pitch: pitch, Start: start}
}

func hold(pitch uint8, start, duration time.Duration) game.ScoreNote {
	return game.ScoreNote{Pitch: pitch, Start: start, Duration: duration, Type: game.Hold}
}

func TestTapJudgements(t *testing.T) {
	cases := []struct {
		pressAt time.Duration
		grade   game.Grade
		total   int
	}{
		{4000 * time.Millisecond, game.GradePerfect, 100},
		{4080 * time.Millisecond, game.GradePerfect, 100},
		{4150 * time.Millisecond, game.GradeGood, 50},
		{3850 * time.Millisecond, game.GradeGood, 50},
	}
	for _, test := range cases {
		e := testEngine([]game.ScoreNote{tap(60, 0)})
		now := stepTo(e, 0, test.pressAt, nil)
		now = stepTo(e, now, test.pressAt+50*time.Millisecond, press(60, test.pressAt))
		stepTo(e, now, 10*time.Second, nil)

		s := e.Score()
		if s.Counts[test.grade] != 1 || s.Total != test.total {
			t.Log("press at", test.pressAt)
			t.Log("score   ", s)
			t.Log("expected", test.grade, test.total)
			t.Fail()
		}
		if s.Counts[game.GradeMiss] != 0 {
			t.Log("hit note also missed", s)
			t.Fail()
		}
	}
}

func TestTapOutsideWindowMisses(t *testing.T) {
	e := testEngine([]game.ScoreNote{tap(60, 0)})
	now := stepTo(e, 0, 3700*time.Millisecond, nil)
	// early press, outside every window: no match, note later misses
	now = stepTo(e, now, 3800*time.Millisecond, press(60, 3700*time.Millisecond))
	stepTo(e, now, 10*time.Second, nil)

	s := e.Score()
	if s.Counts[game.GradeMiss] != 1 || s.Total != 0 {
		t.Log("score", s)
		t.Fail()
	}
}

func TestUnpressedNoteMisses(t *testing.T) {
	e := testEngine([]game.ScoreNote{tap(60, 0)})
	stepTo(e, 0, 10*time.Second, nil)

	s := e.Score()
	if s.Counts[game.GradeMiss] != 1 {
		t.Log("score", s)
		t.Fail()
	}
	if s.Combo != 0 || s.Streak != 0 {
		t.Log("miss did not reset combo", s)
		t.Fail()
	}
	if len(e.Notes()) != 0 {
		t.Log("missed note never retired", e.Notes())
		t.Fail()
	}
}

func TestNoteJudgedAtMostOnce(t *testing.T) {
	e := testEngine([]game.ScoreNote{tap(60, 0)})
	now := stepTo(e, 0, 4*time.Second, nil)
	now = stepTo(e, now, 4100*time.Millisecond, press(60, 4*time.Second))
	// release and press again inside the window
	now = stepTo(e, now, 4120*time.Millisecond, nil)
	now = stepTo(e, now, 4180*time.Millisecond, press(60, 4150*time.Millisecond))
	stepTo(e, now, 10*time.Second, nil)

	s := e.Score()
	judged := s.Counts[game.GradePerfect] + s.Counts[game.GradeGood] + s.Counts[game.GradeMiss]
	if judged != 1 {
		t.Log("note judged more than once", s)
		t.Fail()
	}
}

func TestHoldOutcomes(t *testing.T) {
	cases := []struct {
		releaseAt time.Duration // after claim start
		grade     game.Grade
		total     int
	}{
		{950 * time.Millisecond, game.GradePerfect, 150},
		{750 * time.Millisecond, game.GradeGood, 100},
		{600 * time.Millisecond, game.GradeMiss, 0},
	}
	for _, test := range cases {
		e := testEngine([]game.ScoreNote{hold(60, 0, time.Second)})
		claimAt := 4 * time.Second
		now := stepTo(e, 0, claimAt, nil)
		now = stepTo(e, now, claimAt+test.releaseAt, press(60, claimAt))
		// steps resume without the key: the diff emits the release
		now = stepTo(e, now, claimAt+test.releaseAt+50*time.Millisecond, nil)
		stepTo(e, now, 12*time.Second, nil)

		s := e.Score()
		if s.Counts[test.grade] != 1 || s.Total != test.total {
			t.Log("release after", test.releaseAt)
			t.Log("score   ", s)
			t.Log("expected", test.grade, test.total)
			t.Fail()
		}
	}
}

func TestHoldGoodStartCapsGrade(t *testing.T) {
	e := testEngine([]game.ScoreNote{hold(60, 0, time.Second)})
	claimAt := 4150 * time.Millisecond // good, not perfect
	now := stepTo(e, 0, claimAt, nil)
	now = stepTo(e, now, claimAt+960*time.Millisecond, press(60, claimAt))
	now = stepTo(e, now, claimAt+time.Second, nil)
	stepTo(e, now, 12*time.Second, nil)

	s := e.Score()
	if s.Counts[game.GradePerfect] != 1 || s.Total != 125 {
		t.Log("score", s)
		t.Fail()
	}
}

func TestHoldProgressExposed(t *testing.T) {
	e := testEngine([]game.ScoreNote{hold(60, 0, time.Second)})
	now := stepTo(e, 0, 4*time.Second, nil)
	now = stepTo(e, now, 4500*time.Millisecond, press(60, 4*time.Second))

	var n *game.Note
	for _, c := range e.Notes() {
		if c.Pitch == 60 {
			n = c
		}
	}
	if nil == n || !n.Held {
		t.Fatal("hold not claimed", n)
	}
	if n.HoldProgress < 0.4 || n.HoldProgress > 0.6 {
		t.Log("hold progress", n.HoldProgress)
		t.Fail()
	}
}

func TestHoldRetirementForcesResolution(t *testing.T) {
	e := testEngine([]game.ScoreNote{hold(60, 0, time.Second)})
	now := stepTo(e, 0, 4*time.Second, nil)
	// claim and never release
	stepTo(e, now, 12*time.Second, press(60, 4*time.Second))

	s := e.Score()
	if s.Counts[game.GradePerfect] != 1 || s.Total != 150 {
		t.Log("abandoned claim not resolved at retirement", s)
		t.Fail()
	}
	if len(e.Notes()) != 0 {
		t.Log("claimed note never retired", e.Notes())
		t.Fail()
	}
}

func TestOneClaimPerLane(t *testing.T) {
	e := testEngine([]game.ScoreNote{
		hold(60, 0, time.Second),
		hold(60, 200*time.Millisecond, time.Second),
	})
	now := stepTo(e, 0, 4*time.Second, nil)
	now = stepTo(e, now, 5*time.Second, press(60, 4*time.Second))

	lane := game.LaneByPitch(game.BuildLanes(4, 4))[60]
	heldCount := 0
	for _, n := range e.Notes() {
		if n.Lane == lane && n.Held {
			heldCount++
		}
	}
	if heldCount != 1 {
		t.Log("held notes in lane", heldCount)
		t.Fail()
	}
	stepTo(e, now, 14*time.Second, nil)
}

func TestComboMultiplier(t *testing.T) {
	notes := make([]game.ScoreNote, 21)
	for i := range notes {
		notes[i] = tap(60, time.Duration(i)*500*time.Millisecond)
	}
	e := testEngine(notes)

	now := time.Duration(0)
	for i := range notes {
		target := fall + time.Duration(i)*500*time.Millisecond
		now = stepTo(e, now, target, nil)
		now = stepTo(e, now, target+50*time.Millisecond, press(60, target))
		now = stepTo(e, now, target+100*time.Millisecond, nil)
	}
	stepTo(e, now, now+10*time.Second, nil)

	s := e.Score()
	if s.Counts[game.GradePerfect] != 21 {
		t.Fatal("not all taps hit", s)
	}
	// combo 0-9 pay x1, 10-19 x1, 20 pays x2
	expected := 20*100 + 200
	if s.Total != expected {
		t.Log("total   ", s.Total)
		t.Log("expected", expected)
		t.Fail()
	}
	if s.MaxStreak != 21 {
		t.Log("max streak", s.MaxStreak)
		t.Fail()
	}
}

func TestMaxStreakSurvivesMiss(t *testing.T) {
	e := testEngine([]game.ScoreNote{
		tap(60, 0),
		tap(62, 500*time.Millisecond),
		tap(64, 1000*time.Millisecond),
	})
	now := stepTo(e, 0, 4*time.Second, nil)
	now = stepTo(e, now, 4100*time.Millisecond, press(60, 4*time.Second))
	now = stepTo(e, now, 4500*time.Millisecond, nil)
	now = stepTo(e, now, 4600*time.Millisecond, press(62, 4500*time.Millisecond))
	// let the third note miss
	stepTo(e, now, 12*time.Second, nil)

	s := e.Score()
	if s.MaxStreak != 2 {
		t.Log("max streak", s)
		t.Fail()
	}
	if s.Combo != 0 || s.Streak != 0 {
		t.Log("combo after miss", s)
		t.Fail()
	}
}

func TestFeedbackExpires(t *testing.T) {
	e := testEngine([]game.ScoreNote{tap(60, 0)})
	now := stepTo(e, 0, 4*time.Second, nil)
	now = stepTo(e, now, 4100*time.Millisecond, press(60, 4*time.Second))
	if len(e.Feedback()) != 1 {
		t.Fatal("no feedback after hit", e.Feedback())
	}
	stepTo(e, now, 6*time.Second, nil)
	if len(e.Feedback()) != 0 {
		t.Log("feedback never expired", e.Feedback())
		t.Fail()
	}
}

func TestLifecycleIdempotent(t *testing.T) {
	e := testEngine([]game.ScoreNote{tap(60, 0)})
	stepTo(e, 0, time.Second, nil)
	if len(e.Notes()) == 0 {
		t.Fatal("nothing spawned")
	}

	e.Stop()
	e.Stop()
	before := e.Score()
	e.Step(2*time.Second, press(60, 2*time.Second))
	if e.Score() != before {
		t.Log("stopped engine still judging")
		t.Fail()
	}

	e.Reset()
	e.Reset()
	if len(e.Notes()) != 0 || e.Score() != (game.ScoreState{}) || e.Running() {
		t.Log("reset left state behind")
		t.Fail()
	}

	// a fresh start replays the script from the beginning
	e.Start()
	e.Start()
	stepTo(e, 0, time.Second, nil)
	if len(e.Notes()) != 1 {
		t.Log("restart did not respawn", e.Notes())
		t.Fail()
	}
}

func TestSetFallDuration(t *testing.T) {
	e := testEngine([]game.ScoreNote{tap(60, 0)})
	e.SetFallDuration(2 * time.Second)
	if e.FallDuration() != 2*time.Second {
		t.Fatal("fall duration not applied")
	}
	e.SetFallDuration(0)
	if e.FallDuration() != 2*time.Second {
		t.Log("invalid fall duration accepted")
		t.Fail()
	}
}

func TestEmptyScriptIsValid(t *testing.T) {
	e := testEngine(nil)
	stepTo(e, 0, 5*time.Second, press(60, time.Second))
	if len(e.Notes()) != 0 || e.Score() != (game.ScoreState{}) {
		t.Log("empty script produced state", e.Notes(), e.Score())
		t.Fail()
	}
}
