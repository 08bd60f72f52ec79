package main

import (
	"fmt"
	"math"
	"time"

	"github.com/vhildebrand/cadence-sub001/internal/config"
	"github.com/vhildebrand/cadence-sub001/internal/engine"
	"github.com/vhildebrand/cadence-sub001/internal/game"
	"github.com/vhildebrand/cadence-sub001/internal/parser"
	"github.com/vhildebrand/cadence-sub001/internal/render"
	"github.com/vhildebrand/cadence-sub001/internal/theme"
)

// view draws the note field and the stat sidebar. All render
// bookkeeping lives here; the engine never knows about rows.
type view struct {
	r     render.Renderer
	th    theme.Theme
	lanes []game.Lane

	cols    []int // terminal column per lane
	hitRow  int
	rows    int
	sideCol int

	drawn        map[string]drawnNote
	seenFeedback map[string]bool
}

// drawnNote remembers where a note was last painted so it can be
// cleared, even after the engine retires it.
type drawnNote struct {
	lane, row, body int
}

func newView(r render.Renderer, th theme.Theme, lanes []game.Lane, cc, rc int) *view {
	spacing := int(*config.ColumnSpacing)
	width := (len(lanes) - 1) * spacing
	left := (cc - width) / 2
	if left < 2 {
		left = 2
	}
	cols := make([]int, len(lanes))
	for i := range lanes {
		cols[i] = left + i*spacing
	}
	sideCol := cols[0] - 30
	if sideCol < 2 {
		sideCol = 2
	}
	return &view{
		r:            r,
		th:           th,
		lanes:        lanes,
		cols:         cols,
		hitRow:       rc - int(*config.BarRow),
		rows:         rc,
		sideCol:      sideCol,
		drawn:        map[string]drawnNote{},
		seenFeedback: map[string]bool{},
	}
}

// rowFor maps a note head's progress onto the field: 0 is the top row,
// 1 is the hit bar.
func (v *view) rowFor(progress float64) int {
	return 1 + int(math.Round(progress*float64(v.hitRow-1)))
}

func (v *view) clearNote(id string) {
	d, ok := v.drawn[id]
	if !ok {
		return
	}
	col := v.cols[d.lane]
	for i := 0; i <= d.body; i++ {
		if row := d.row - i; row > 0 && row <= v.rows {
			v.r.Fill(row, col, " ")
		}
	}
	delete(v.drawn, id)
}

func (v *view) drawNote(n *game.Note, fall time.Duration) {
	col := v.cols[n.Lane]
	row := v.rowFor(n.Progress)

	body := 0
	if n.Type == game.Hold && fall > 0 {
		body = int(math.Round(float64(n.Duration) / float64(fall) * float64(v.hitRow-1)))
	}

	lane := v.lanes[n.Lane]
	for i := 1; i <= body; i++ {
		r := row - i
		if r <= 0 || r > v.hitRow {
			continue
		}
		if n.Held {
			v.r.Fill(r, col, v.th.RenderHoldHeld(lane))
		} else {
			v.r.Fill(r, col, v.th.RenderHoldBody(lane))
		}
	}
	if row > 0 && row <= v.hitRow {
		v.r.Fill(row, col, v.th.RenderNote(lane))
	}
	v.drawn[n.ID] = drawnNote{lane: n.Lane, row: row, body: body}
}

func (v *view) draw(eng *engine.Engine, score *parser.Score, best int, elapsed time.Duration) {
	fall := eng.FallDuration()

	// Render the hit bar and lane labels
	for _, lane := range v.lanes {
		v.r.Fill(v.hitRow, v.cols[lane.Index], v.th.RenderHitField(lane))
		v.r.Fill(v.hitRow+2, v.cols[lane.Index], v.th.LaneLabel(lane))
	}

	// Render notes, clearing whatever was painted last frame,
	// retired notes included
	active := map[string]bool{}
	for _, n := range eng.Notes() {
		active[n.ID] = true
	}
	for id := range v.drawn {
		if !active[id] {
			v.clearNote(id)
		}
	}
	for _, n := range eng.Notes() {
		v.clearNote(n.ID)
		if n.State != game.Pending && !n.Held {
			continue
		}
		v.drawNote(n, fall)
	}

	// Hit and miss flashes, one decoration per feedback event
	for _, f := range eng.Feedback() {
		key := fmt.Sprintf("%v@%v", f.Lane, f.At)
		if v.seenFeedback[key] {
			continue
		}
		v.seenFeedback[key] = true
		frames := int(*config.FeedbackTTL / *config.FramePeriod)
		v.r.AddDecoration(v.hitRow+1, v.cols[f.Lane], v.th.RenderFeedback(f.Grade), frames)
	}

	v.drawSidebar(eng, score, best, elapsed)
}

func (v *view) drawSidebar(eng *engine.Engine, score *parser.Score, best int, elapsed time.Duration) {
	s := eng.Score()
	mean, stdev := eng.Stats()

	row := 2
	line := func(format string, args ...interface{}) {
		v.r.Fill(row, v.sideCol, fmt.Sprintf(format, args...))
		row++
	}

	if nil != score {
		line("      Title:  %v", score.Title)
		line("      Tempo:  %6.1f", score.Tempo)
		line("      Notes:  %6v", len(score.Notes))
	}
	line("       Time:  %6.1fs", elapsed.Seconds())
	row++
	line("      Score:  %6v", s.Total)
	line("       Best:  %6v", best)
	line("      Combo:  %6v", s.Combo)
	line("     Streak:  %6v", s.Streak)
	line(" Max Streak:  %6v", s.MaxStreak)
	line("       Mean:  %6.2f ms", mean)
	line("      Stdev:  %6.2f ms", stdev)
	row++
	for i, j := range config.Judgements {
		line("%v:  %6v", j.Name, s.Counts[i])
	}
}
