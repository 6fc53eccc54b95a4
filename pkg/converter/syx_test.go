package converter

import (
	"bytes"
	"testing"
)

func TestSplitSyx(t *testing.T) {
	data := []byte{
		0x00,
		0xF0, 0x00, 0x20, 0x3C, 0x02, 0x00, 0x67, 0x01, 0xF7,
		0x55,
		0xF0, 0x7E, 0xF7,
	}
	msgs, err := SplitSyx(data)
	if err != nil {
		t.Fatalf("SplitSyx() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("SplitSyx() returned %d messages, want 2", len(msgs))
	}
	if !bytes.Equal(msgs[1], []byte{0xF0, 0x7E, 0xF7}) {
		t.Errorf("second message = % X", msgs[1])
	}

	if _, err := SplitSyx([]byte{0xF0, 0x01, 0xF0, 0x02, 0xF7}); err == nil {
		t.Error("nested start byte should fail")
	}
	msgs, err = SplitSyx([]byte{0xF0, 0x01, 0xF7, 0xF0, 0x02})
	if err == nil {
		t.Error("unterminated message should fail")
	}
	if len(msgs) != 1 {
		t.Errorf("complete messages before the error = %d, want 1", len(msgs))
	}
}

func TestValidateSyx(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{"valid", []byte{0xF0, 0x00, 0x20, 0x3C, 0xF7}, false},
		{"too short", []byte{0xF0}, true},
		{"no start", []byte{0x00, 0x01, 0xF7}, true},
		{"no end", []byte{0xF0, 0x01, 0x02}, true},
		{"high data byte", []byte{0xF0, 0x81, 0xF7}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSyx(tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSyx() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestManufacturerID(t *testing.T) {
	id, err := ExtractManufacturerID([]byte{0xF0, 0x00, 0x20, 0x3C, 0x02, 0xF7})
	if err != nil || !bytes.Equal(id, []byte{0x00, 0x20, 0x3C}) {
		t.Errorf("ExtractManufacturerID() = % X, %v", id, err)
	}
	id, err = ExtractManufacturerID([]byte{0xF0, 0x41, 0x10, 0xF7})
	if err != nil || !bytes.Equal(id, []byte{0x41}) {
		t.Errorf("ExtractManufacturerID() = % X, %v", id, err)
	}
	if _, err := ExtractManufacturerID([]byte{0xF0, 0x00}); err == nil {
		t.Error("short data should fail")
	}

	if !IsElektronSyx(mdMarker) {
		t.Error("IsElektronSyx() should accept the Machinedrum marker")
	}
	if IsElektronSyx([]byte{0xF0, 0x00, 0x20, 0x32, 0x00, 0xF7}) {
		t.Error("IsElektronSyx() should reject other manufacturers")
	}
}

func TestSummarizeSyx(t *testing.T) {
	data := append([]byte{0x11}, mdMarker...)
	data = append(data, 0x00, 0xF7, 0xF0, 0x43, 0x00, 0xF7)

	infos, err := SummarizeSyx(data)
	if err != nil {
		t.Fatalf("SummarizeSyx() error = %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("SummarizeSyx() returned %d messages", len(infos))
	}
	if infos[0].Offset != 1 || infos[0].Length != 11 || !infos[0].Elektron || infos[0].Model != 0x02 || infos[0].Command != 0x67 {
		t.Errorf("first message = %+v", infos[0])
	}
	if infos[1].Offset != 12 || infos[1].Elektron {
		t.Errorf("second message = %+v", infos[1])
	}
}
