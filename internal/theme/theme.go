package theme

import "github.com/vhildebrand/cadence-sub001/internal/game"

type Theme interface {
	RenderNote(lane game.Lane) string
	RenderHoldBody(lane game.Lane) string
	RenderHoldHeld(lane game.Lane) string
	RenderHitField(lane game.Lane) string
	RenderFeedback(grade game.Grade) string
	LaneLabel(lane game.Lane) string
}
