// Package converter extracts drum patterns from Elektron SysEx dumps and
// converts them to Standard MIDI Files
package converter

// Pattern matrix dimensions
const (
	TrackCount = 16
	StepCount  = 64
	BaseSteps  = 32 // steps covered by the primary trig bitfield
)

// Track holds the trig flags of one drum track, indexed by step
type Track struct {
	Trigs [StepCount]bool
}

// Pattern is the decoded trig matrix of one pattern record.
// Track index is the MIDI pitch offset from the root note.
type Pattern struct {
	Tracks [TrackCount]Track
}

// TrigCount returns the number of set trigs in the pattern
func (p *Pattern) TrigCount() int {
	n := 0
	for t := range p.Tracks {
		for _, on := range p.Tracks[t].Trigs {
			if on {
				n++
			}
		}
	}
	return n
}

// Params holds the record fields that are decoded but not used by the
// MIDI conversion
type Params struct {
	LockBits        []byte
	AccentBits      []byte
	AccentAmount    uint8
	Length          uint8
	TempoMultiplier uint8
	Scale           uint8
	Kit             uint8
	LockData        []byte
	ExtraPattern    []byte
	ExtraPattern64  []byte
}

// Record is one pattern record found in a dump
type Record struct {
	Index    int // discovery order
	Offset   int // offset of the record marker
	Pattern  Pattern
	Params   Params
	Valid    bool // end-of-record byte was 0xF7
	Warnings []error
}

// Result holds the outcome of converting one record
type Result struct {
	Index    int
	Offset   int
	Filename string
	Record   *Record
	Data     []byte
	Err      error
}

// OK reports whether the record converted without errors or warnings
func (r Result) OK() bool {
	return r.Err == nil && r.Record != nil && r.Record.Valid && len(r.Record.Warnings) == 0
}

// Region is an encoded field within a record
type Region struct {
	Offset int // from the record marker
	Length int // encoded length in bytes
}

// DecodedLength returns the number of bytes the region decodes to
func (r Region) DecodedLength() int {
	return DataLengthToByteLength(r.Length)
}

// Layout describes the fixed field positions of a pattern record
type Layout struct {
	Trigs           Region
	Locks           Region
	Accents         Region
	AccentAmount    int
	Length          int
	TempoMultiplier int
	Scale           int
	Kit             int
	LockData        Region
	ExtraPattern    Region
	ExtraPattern64  Region
	End             int // offset of the 0xF7 terminator
}

// Device interface for device-specific record layouts
type Device interface {
	ID() string
	Name() string
	Marker() []byte
	Layout() Layout
	RootNote() uint8
}
