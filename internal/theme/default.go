package theme

import (
	"fmt"

	"github.com/vhildebrand/cadence-sub001/internal/game"
)

type DefaultTheme struct {
}

type rgb struct{ R, G, B uint8 }

const (
	noteSym     = "⬤"
	holdBodySym = "│"
	holdHeldSym = "┃"
	barSym      = "-"
)

// Lane color tokens resolved to terminal colors. Accidental lanes are
// dimmed so the black-key columns read like a keyboard.
var colors = map[string]rgb{
	"red":     {236, 30, 0},
	"rose":    {236, 0, 106},
	"orange":  {236, 128, 0},
	"amber":   {236, 195, 0},
	"yellow":  {220, 220, 0},
	"green":   {0, 236, 128},
	"teal":    {0, 180, 160},
	"cyan":    {173, 236, 236},
	"blue":    {0, 118, 236},
	"indigo":  {80, 80, 236},
	"violet":  {106, 0, 236},
	"magenta": {200, 0, 200},
}

var fallback = rgb{255, 255, 255}

func colorOf(l game.Lane) rgb {
	col, ok := colors[l.Color]
	if !ok {
		return fallback
	}
	if l.Accidental {
		return rgb{col.R / 2, col.G / 2, col.B / 2}
	}
	return col
}

func paint(c rgb, sym string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, sym)
}

func (t *DefaultTheme) RenderNote(l game.Lane) string {
	return paint(colorOf(l), noteSym)
}

func (t *DefaultTheme) RenderHoldBody(l game.Lane) string {
	return paint(colorOf(l), holdBodySym)
}

func (t *DefaultTheme) RenderHoldHeld(l game.Lane) string {
	return paint(rgb{255, 255, 255}, holdHeldSym)
}

func (t *DefaultTheme) RenderHitField(l game.Lane) string {
	return barSym
}

func (t *DefaultTheme) RenderFeedback(g game.Grade) string {
	switch g {
	case game.GradePerfect:
		return "\033[38;5;153m✦\033[0m"
	case game.GradeGood:
		return "\033[1;32m•\033[0m"
	}
	return "\033[1;31m⨯\033[0m"
}

func (t *DefaultTheme) LaneLabel(l game.Lane) string {
	if l.Accidental {
		return "\033[2m" + l.Name + "\033[0m"
	}
	return l.Name
}
