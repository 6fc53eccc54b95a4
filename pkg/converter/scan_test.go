package converter

import "testing"

var mdMarker = []byte{0xF0, 0x00, 0x20, 0x3C, 0x02, 0x00, 0x67, 0x03, 0x01}

func TestFind(t *testing.T) {
	at100 := make([]byte, 200)
	copy(at100[100:], mdMarker)

	// a marker prefix that fails on its last byte, immediately followed by the marker
	overlap := append([]byte{0x11}, mdMarker[:8]...)
	overlap = append(overlap, mdMarker...)

	selfOverlap := []byte{0xAA, 0xAA, 0xAA, 0xAB}

	tests := []struct {
		name     string
		start    int
		marker   []byte
		haystack []byte
		want     int
	}{
		{"marker at 100", 0, mdMarker, at100, 109},
		{"start at match", 100, mdMarker, at100, 109},
		{"start past match", 101, mdMarker, at100, NotFound},
		{"no marker", 0, mdMarker, make([]byte, 500), NotFound},
		{"empty haystack", 0, mdMarker, nil, NotFound},
		{"marker at end", 0, mdMarker, append(make([]byte, 5), mdMarker...), 14},
		{"truncated marker at end", 0, mdMarker, append(make([]byte, 5), mdMarker[:8]...), NotFound},
		{"partial match then marker", 0, mdMarker, overlap, len(overlap)},
		{"self overlapping marker", 0, []byte{0xAA, 0xAA, 0xAB}, selfOverlap, 4},
		{"negative start", -5, mdMarker, at100, 109},
		{"empty marker", 0, nil, at100, NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Find(tt.start, tt.marker, tt.haystack); got != tt.want {
				t.Errorf("Find() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFindSuccessive(t *testing.T) {
	data := make([]byte, 64)
	copy(data[4:], mdMarker)
	copy(data[30:], mdMarker)

	first := Find(0, mdMarker, data)
	if first != 13 {
		t.Fatalf("first Find() = %d, want 13", first)
	}
	second := Find(first, mdMarker, data)
	if second != 39 {
		t.Fatalf("second Find() = %d, want 39", second)
	}
	if third := Find(second, mdMarker, data); third != NotFound {
		t.Errorf("third Find() = %d, want NotFound", third)
	}
}
