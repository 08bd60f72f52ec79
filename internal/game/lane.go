package game

import (
	"strconv"
)

// Lane is one playable pitch channel. Lanes are derived once from the
// configured octave range and never change during a session.
type Lane struct {
	Index      int
	Pitch      uint8
	Name       string
	Accidental bool
	Color      string
}

var pitchNames = [12]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

var accidentalClass = [12]bool{
	false, true, false, true, false, false, true, false, true, false, true, false,
}

// Color tokens per pitch class, resolved to real colors by the theme.
var laneColors = [12]string{
	"red", "rose", "orange", "amber", "yellow", "green",
	"teal", "cyan", "blue", "indigo", "violet", "magenta",
}

// BuildLanes derives the lane list for an inclusive octave range,
// pitch-ascending, clipped to the MIDI pitch domain. The same range
// always yields the same list. An empty range yields no lanes.
func BuildLanes(startOctave, endOctave int) []Lane {
	lanes := []Lane{}
	for octave := startOctave; octave <= endOctave; octave++ {
		for class := 0; class < 12; class++ {
			pitch := 12*(octave+1) + class
			if pitch < 0 || pitch > 127 {
				continue
			}
			lanes = append(lanes, Lane{
				Index:      len(lanes),
				Pitch:      uint8(pitch),
				Name:       pitchNames[class] + strconv.Itoa(octave),
				Accidental: accidentalClass[class],
				Color:      laneColors[class],
			})
		}
	}
	return lanes
}

// LaneByPitch builds the pitch lookup used to route key events and
// scripted records into lanes.
func LaneByPitch(lanes []Lane) map[uint8]int {
	m := make(map[uint8]int, len(lanes))
	for _, l := range lanes {
		m[l.Pitch] = l.Index
	}
	return m
}
