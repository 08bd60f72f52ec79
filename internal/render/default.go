package render

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

type DefaultRenderer struct {
	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration
}

type decoration struct {
	Row, Col int
	Content  string
	Frames   int // remaining frames until removed
}

func (r *DefaultRenderer) Init() error {
	state, err := term.MakeRaw(int(os.Stdout.Fd()))
	if nil != err {
		return err
	}
	r.restoreState = state

	fmt.Printf("%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[J",      // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Printf("%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	return term.Restore(int(os.Stdout.Fd()), r.restoreState)
}

func (r *DefaultRenderer) Size() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

func (r *DefaultRenderer) AddDecoration(row, col int, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		Row:     row,
		Col:     col,
		Content: content,
		Frames:  frames,
	})
	r.Fill(row, col, content)
}

func (r *DefaultRenderer) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames == 0 {
			r.Fill(d.Row, d.Col, " ")
			continue
		}
		nd = append(nd, d)
		d.Frames--
	}
	r.decorations = nd
}

// RenderLoop drives frames at a fixed period until frame returns false.
func (r *DefaultRenderer) RenderLoop(period time.Duration, frame func(now time.Time) bool) {
	cont := true
	for cont {
		now := time.Now()
		deadline := now.Add(period)

		cont = frame(now)

		r.tickDecorations()
		r.flush()

		time.Sleep(time.Until(deadline))
	}
}

func (r *DefaultRenderer) Fill(row, col int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(col))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) flush() {
	os.Stdout.WriteString(r.buffer.String())
	r.buffer.Reset()
}
