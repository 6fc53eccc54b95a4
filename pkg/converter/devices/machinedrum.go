// Package devices provides device-specific record layouts
package devices

import (
	"github.com/carrierdown/elektron-sysex-to-midi/pkg/converter"
)

// Machinedrum SysEx constants
const (
	ElektronManufID1 = 0x00
	ElektronManufID2 = 0x20
	ElektronManufID3 = 0x3C
	MDModelID        = 0x02
	MDPatternDump    = 0x67
	MDRootNote       = 36
	MDRecordLength   = 0x1522 // marker through end byte
)

// mdPatternHeader starts every Machinedrum pattern dump message:
// F0, Elektron ID, model, device, pattern dump, version 3.1
var mdPatternHeader = [...]byte{
	converter.SysExStart,
	ElektronManufID1, ElektronManufID2, ElektronManufID3,
	MDModelID, 0x00, MDPatternDump, 0x03, 0x01,
}

var mdLayout = converter.Layout{
	Trigs:           converter.Region{Offset: 0x0A, Length: 74},
	Locks:           converter.Region{Offset: 0x54, Length: 74},
	Accents:         converter.Region{Offset: 0x9E, Length: 19},
	AccentAmount:    0xB1,
	Length:          0xB2,
	TempoMultiplier: 0xB3,
	Scale:           0xB4,
	Kit:             0xB5,
	LockData:        converter.Region{Offset: 0xB7, Length: 2341},
	ExtraPattern:    converter.Region{Offset: 0x9DC, Length: 234},
	ExtraPattern64:  converter.Region{Offset: 0xAC6, Length: 2647},
	End:             0x1521,
}

// MachineDrum implements the Device interface for the Elektron Machinedrum
type MachineDrum struct{}

// NewMachineDrum creates a new Machinedrum device handler
func NewMachineDrum() *MachineDrum {
	return &MachineDrum{}
}

// ID returns the registry name
func (m *MachineDrum) ID() string {
	return "md"
}

// Name returns the device name
func (m *MachineDrum) Name() string {
	return "Elektron Machinedrum"
}

// Marker returns the byte sequence that starts a pattern record
func (m *MachineDrum) Marker() []byte {
	marker := mdPatternHeader
	return marker[:]
}

// Layout returns the pattern record layout
func (m *MachineDrum) Layout() converter.Layout {
	return mdLayout
}

// RootNote returns the MIDI note of track 0
func (m *MachineDrum) RootNote() uint8 {
	return MDRootNote
}
