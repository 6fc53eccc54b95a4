package converter

// mockDevice implements Device with a compact record layout for testing
type mockDevice struct{}

var mockMarker = []byte{0xF0, 0x7D, 0x01}

func (m *mockDevice) ID() string      { return "mock" }
func (m *mockDevice) Name() string    { return "Mock Device" }
func (m *mockDevice) Marker() []byte  { return mockMarker }
func (m *mockDevice) RootNote() uint8 { return DefaultRootNote }
func (m *mockDevice) Layout() Layout {
	return Layout{
		Trigs:           Region{Offset: 3, Length: 74},
		Locks:           Region{Offset: 77, Length: 74},
		Accents:         Region{Offset: 151, Length: 19},
		AccentAmount:    170,
		Length:          171,
		TempoMultiplier: 172,
		Scale:           173,
		Kit:             174,
		LockData:        Region{Offset: 175, Length: 10},
		ExtraPattern:    Region{Offset: 185, Length: 10},
		ExtraPattern64:  Region{Offset: 195, Length: 74},
		End:             269,
	}
}

// encodeTrigs is the inverse of decodeTrigs for steps [first, first+32)
func encodeTrigs(p *Pattern, first int) []byte {
	bits := make([]byte, TrackCount*trackBytes)
	for t := 0; t < TrackCount; t++ {
		for byteCount := 0; byteCount < trackBytes; byteCount++ {
			var b byte
			for bit := 0; bit < 8; bit++ {
				if p.Tracks[t].Trigs[first+byteCount*8+bit] {
					b |= 1 << bit
				}
			}
			bits[t*trackBytes+trackBytes-1-byteCount] = b
		}
	}
	return bits
}

// buildRecord assembles a record for the device: the pattern's trigs are
// packed into the trig and 64-step regions, scalars are set from params and
// everything else is zero
func buildRecord(d Device, p *Pattern, params Params) []byte {
	layout := d.Layout()
	rec := make([]byte, layout.End+1)
	copy(rec, d.Marker())

	put := func(r Region, decoded []byte) {
		buf := make([]byte, r.DecodedLength())
		copy(buf, decoded)
		enc := EncodeRegion(buf)
		if len(enc) > r.Length {
			enc = enc[:r.Length]
		}
		copy(rec[r.Offset:], enc)
	}
	put(layout.Trigs, encodeTrigs(p, 0))
	put(layout.Locks, params.LockBits)
	put(layout.Accents, params.AccentBits)
	put(layout.LockData, params.LockData)
	put(layout.ExtraPattern, params.ExtraPattern)
	put(layout.ExtraPattern64, encodeTrigs(p, BaseSteps))

	rec[layout.AccentAmount] = params.AccentAmount
	rec[layout.Length] = params.Length
	rec[layout.TempoMultiplier] = params.TempoMultiplier
	rec[layout.Scale] = params.Scale
	rec[layout.Kit] = params.Kit
	rec[layout.End] = SysExEnd
	return rec
}

// decodeVLQ reads one variable-length quantity from b
func decodeVLQ(b []byte) (uint32, int) {
	var v uint32
	for i, c := range b {
		v = v<<7 | uint32(c&0x7F)
		if c&0x80 == 0 {
			return v, i + 1
		}
	}
	return v, len(b)
}

func patternWith(trigs ...[2]int) *Pattern {
	p := &Pattern{}
	for _, tr := range trigs {
		p.Tracks[tr[0]].Trigs[tr[1]] = true
	}
	return p
}
