package converter

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord is reported when a record does not end with the SysEx end byte
var ErrInvalidRecord = errors.New("invalid record")

// bytes of trig bitfield per track
const trackBytes = 4

// Extract decodes the pattern record whose marker starts at base.
// Only the trig bitfield is required; other fields that cannot be read are
// left empty and reported in Record.Warnings.
func Extract(data []byte, base int, layout Layout) (*Record, error) {
	trigs, err := DecodeRegion(base+layout.Trigs.Offset, layout.Trigs.Length, data)
	if err != nil {
		return nil, fmt.Errorf("trig bitfield: %w", err)
	}
	if len(trigs) < TrackCount*trackBytes {
		return nil, fmt.Errorf("trig bitfield: %w: decoded %d bytes, need %d",
			ErrTruncatedRegion, len(trigs), TrackCount*trackBytes)
	}

	rec := &Record{Offset: base}
	decodeTrigs(&rec.Pattern, trigs, 0)

	region := func(name string, r Region) []byte {
		b, err := DecodeRegion(base+r.Offset, r.Length, data)
		if err != nil {
			rec.Warnings = append(rec.Warnings, fmt.Errorf("%s: %w", name, err))
		}
		return b
	}
	scalar := func(name string, off int) uint8 {
		ix := base + off
		if ix < 0 || ix >= len(data) {
			rec.Warnings = append(rec.Warnings, fmt.Errorf("%s: %w: offset %d", name, ErrTruncatedRegion, ix))
			return 0
		}
		return data[ix]
	}

	rec.Params = Params{
		LockBits:        region("lock bitfield", layout.Locks),
		AccentBits:      region("accent bitfield", layout.Accents),
		AccentAmount:    scalar("accent amount", layout.AccentAmount),
		Length:          scalar("pattern length", layout.Length),
		TempoMultiplier: scalar("tempo multiplier", layout.TempoMultiplier),
		Scale:           scalar("scale", layout.Scale),
		Kit:             scalar("kit", layout.Kit),
		LockData:        region("lock data", layout.LockData),
		ExtraPattern:    region("extra pattern", layout.ExtraPattern),
		ExtraPattern64:  region("64-step extension", layout.ExtraPattern64),
	}

	if len(rec.Params.ExtraPattern64) >= TrackCount*trackBytes {
		decodeTrigs(&rec.Pattern, rec.Params.ExtraPattern64, BaseSteps)
	}

	end := base + layout.End
	rec.Valid = end >= 0 && end < len(data) && data[end] == SysExEnd
	if !rec.Valid {
		rec.Warnings = append(rec.Warnings, fmt.Errorf("%w: no end byte 0x%02X at offset %d", ErrInvalidRecord, SysExEnd, end))
	}
	return rec, nil
}

// decodeTrigs fills 32 steps per track starting at step first.
// Each track uses 4 bytes, read last to first, bit 0 first.
func decodeTrigs(p *Pattern, bits []byte, first int) {
	for t := 0; t < TrackCount; t++ {
		group := bits[t*trackBytes : (t+1)*trackBytes]
		for byteCount := 0; byteCount < trackBytes; byteCount++ {
			b := group[trackBytes-1-byteCount]
			for bit := 0; bit < 8; bit++ {
				p.Tracks[t].Trigs[first+byteCount*8+bit] = b&(1<<bit) != 0
			}
		}
	}
}
