package converter

import (
	"fmt"
	"strings"
)

// FormatSteps renders trigs as x/- with a bar every 4 steps
func (t *Track) FormatSteps(steps int) string {
	if steps <= 0 || steps > StepCount {
		steps = StepCount
	}
	var b strings.Builder
	b.WriteByte('|')
	for i, on := range t.Trigs[:steps] {
		if on {
			b.WriteByte('x')
		} else {
			b.WriteByte('-')
		}
		if (i+1)%4 == 0 {
			b.WriteByte('|')
		}
	}
	return b.String()
}

// Steps returns the number of steps that carry trigs: 32 unless a trig is
// set beyond step 32
func (p *Pattern) Steps() int {
	for t := range p.Tracks {
		for _, on := range p.Tracks[t].Trigs[BaseSteps:] {
			if on {
				return StepCount
			}
		}
	}
	return BaseSteps
}

// Rows returns one rendered line per track, labelled with its MIDI note
func (p *Pattern) Rows(rootNote uint8) []string {
	steps := p.Steps()
	rows := make([]string, 0, TrackCount)
	for t := range p.Tracks {
		rows = append(rows, fmt.Sprintf("%3d %s", int(rootNote)+t, p.Tracks[t].FormatSteps(steps)))
	}
	return rows
}

func (p *Pattern) String() string {
	return strings.Join(p.Rows(DefaultRootNote), "\n") + "\n"
}
