package converter

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// SMF timing
const (
	TicksPerQuarter = 96
	TicksPerStep    = TicksPerQuarter / 4 // one 16th note
	DefaultRootNote = 36                  // C1
	DefaultVelocity = 127
)

// smfHeader is the MThd chunk of a format 0 file with one track at 96 PPQ
var smfHeader = [...]byte{
	'M', 'T', 'h', 'd',
	0x00, 0x00, 0x00, 0x06,
	0x00, 0x00, // format 0
	0x00, 0x01, // one track
	0x00, TicksPerQuarter,
}

var (
	trackChunkID = [...]byte{'M', 'T', 'r', 'k'}
	endOfTrack   = [...]byte{0x00, 0xFF, 0x2F, 0x00}
)

// MIDIOptions configures the track serializer
type MIDIOptions struct {
	RootNote uint8
	Velocity uint8
	Channel  uint8

	// ExplicitStatus writes the status byte on every event and uses note-off
	// messages instead of running-status note-ons with velocity 0
	ExplicitStatus bool
}

// DefaultMIDIOptions returns the canonical serializer settings
func DefaultMIDIOptions() MIDIOptions {
	return MIDIOptions{
		RootNote: DefaultRootNote,
		Velocity: DefaultVelocity,
	}
}

// MIDIWriter serializes patterns to Standard MIDI Files
type MIDIWriter struct {
	opts MIDIOptions
}

// NewMIDIWriter creates a MIDI writer
func NewMIDIWriter(opts MIDIOptions) (*MIDIWriter, error) {
	if int(opts.RootNote)+TrackCount-1 > 127 {
		return nil, fmt.Errorf("root note %d out of range: highest track would be %d", opts.RootNote, int(opts.RootNote)+TrackCount-1)
	}
	if opts.Velocity == 0 || opts.Velocity > 127 {
		return nil, fmt.Errorf("velocity %d out of range 1-127", opts.Velocity)
	}
	if opts.Channel > 15 {
		return nil, fmt.Errorf("channel %d out of range 0-15", opts.Channel)
	}
	return &MIDIWriter{opts: opts}, nil
}

// Options returns the writer settings
func (m *MIDIWriter) Options() MIDIOptions {
	return m.opts
}

// GenerateMIDI creates a single-track SMF from a Pattern.
// Each step is a 16th note; simultaneous trigs share one delta time and every
// note lasts one step.
func (m *MIDIWriter) GenerateMIDI(pattern *Pattern) ([]byte, error) {
	if pattern == nil {
		return nil, errors.New("nil pattern")
	}

	var events []byte
	var status byte
	var rest uint32
	notes := make([]uint8, 0, TrackCount)

	for step := 0; step < StepCount; step++ {
		notes = notes[:0]
		for t := range pattern.Tracks {
			if pattern.Tracks[t].Trigs[step] {
				notes = append(notes, m.opts.RootNote+uint8(t))
			}
		}
		if len(notes) == 0 {
			rest += TicksPerStep
			continue
		}

		for i, note := range notes {
			var delta uint32
			if i == 0 {
				delta = rest
			}
			events = AppendVLQ(events, delta)
			events = m.appendMessage(events, midi.NoteOn(m.opts.Channel, note, m.opts.Velocity), &status)
		}
		for i, note := range notes {
			var delta uint32
			if i == 0 {
				delta = TicksPerStep
			}
			events = AppendVLQ(events, delta)
			events = m.appendMessage(events, m.noteOff(note), &status)
		}
		rest = 0
	}
	events = append(events, endOfTrack[:]...)

	out := make([]byte, 0, len(smfHeader)+len(trackChunkID)+4+len(events))
	out = append(out, smfHeader[:]...)
	out = append(out, trackChunkID[:]...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(events)))
	out = append(out, events...)
	return out, nil
}

func (m *MIDIWriter) noteOff(note uint8) midi.Message {
	if m.opts.ExplicitStatus {
		return midi.NoteOff(m.opts.Channel, note)
	}
	return midi.NoteOn(m.opts.Channel, note, 0)
}

// appendMessage writes msg, dropping the status byte when it repeats the
// running status
func (m *MIDIWriter) appendMessage(dst []byte, msg midi.Message, status *byte) []byte {
	if !m.opts.ExplicitStatus && msg[0] == *status {
		return append(dst, msg[1:]...)
	}
	*status = msg[0]
	return append(dst, msg...)
}

// ParseMIDIFile reads a MIDI file back into a Pattern
func ParseMIDIFile(filename string, rootNote uint8) (*Pattern, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return ParseMIDI(data, rootNote)
}

// ParseMIDI quantizes the note starts of an SMF to 16th-note steps.
// Notes rootNote..rootNote+15 map to tracks 0..15; other notes and steps
// beyond the pattern are ignored.
func ParseMIDI(data []byte, rootNote uint8) (p *Pattern, err error) {
	// the smf reader can panic on malformed input
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("failed to parse MIDI: %v", r)
		}
	}()

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	ticksPerStep := int64(TicksPerStep)
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok && mt.Resolution() >= 4 {
		ticksPerStep = int64(mt.Resolution()) / 4
	}

	p = &Pattern{}
	for _, track := range s.Tracks {
		var tick int64
		for _, ev := range track {
			tick += int64(ev.Delta)

			var ch, key, vel uint8
			if !midi.Message(ev.Message).GetNoteStart(&ch, &key, &vel) {
				continue
			}
			if key < rootNote || int(key) >= int(rootNote)+TrackCount {
				continue
			}
			step := tick / ticksPerStep
			if step >= StepCount {
				continue
			}
			p.Tracks[key-rootNote].Trigs[step] = true
		}
	}
	return p, nil
}
