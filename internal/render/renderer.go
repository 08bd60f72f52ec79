package render

import (
	"time"
)

type Renderer interface {
	Init() error
	Deinit() error
	Size() (columns, rows int, err error)
	AddDecoration(row, col int, content string, frames int)
	RenderLoop(period time.Duration, frame func(now time.Time) bool)
	Fill(row, col int, message string)
}
