package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carrierdown/elektron-sysex-to-midi/pkg/converter"
	"github.com/carrierdown/elektron-sysex-to-midi/pkg/converter/devices"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeDump writes a two-pattern dump; the second record lacks its end byte
func writeDump(t *testing.T, dir string) string {
	t.Helper()
	record := func() []byte {
		rec := make([]byte, devices.MDRecordLength)
		copy(rec, devices.NewMachineDrum().Marker())
		rec[len(rec)-1] = converter.SysExEnd
		return rec
	}
	first := record()
	first[0x0A+1+3] = 0x01
	second := record()
	second[len(second)-1] = 0x00

	path := filepath.Join(dir, "dump.syx")
	if err := os.WriteFile(path, append(first, second...), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestConvertWritesPatterns(t *testing.T) {
	dir := t.TempDir()
	input := writeDump(t, dir)
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, input, "-o", outDir)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []string{
		"Wrote " + filepath.Join(outDir, "output-0.mid") + " successfully",
		"Wrote " + filepath.Join(outDir, "output-1.mid") + " with errors",
		"warning:",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}

	data, err := os.ReadFile(filepath.Join(outDir, "output-0.mid"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	p, err := converter.ParseMIDI(data, converter.DefaultRootNote)
	if err != nil {
		t.Fatalf("ParseMIDI() error = %v", err)
	}
	if p.TrigCount() != 1 || !p.Tracks[0].Trigs[0] {
		t.Errorf("converted pattern:\n%s", p)
	}
}

func TestConvertSubcommandFlags(t *testing.T) {
	dir := t.TempDir()
	input := writeDump(t, dir)

	_, err := execute(t, "convert", input, "-o", dir, "--prefix", "kit", "--root-note", "48", "--explicit-status", "-w", "4")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "kit-0.mid"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	// explicit note-off for note 48
	if !bytes.Contains(data, []byte{0x18, 0x80, 0x30, 0x00}) {
		t.Errorf("kit-0.mid = % X", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "kit-1.mid")); err != nil {
		t.Errorf("kit-1.mid not written: %v", err)
	}
}

func TestConvertNothingToDo(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no argument", nil, "Usage: mdsyx2midi <input.syx>"},
		{"missing file", []string{filepath.Join(t.TempDir(), "nope.syx")}, "File not found:"},
		{"convert missing file", []string{"convert", filepath.Join(t.TempDir(), "nope.syx")}, "File not found:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v, want nil", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestConvertNoPatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.syx")
	if err := os.WriteFile(path, []byte{0xF0, 0x00, 0x20, 0x3C, 0x02, 0x00, 0x52, 0x01, 0xF7}, 0644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, path, "-o", t.TempDir())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "No Elektron Machinedrum patterns found") {
		t.Errorf("output = %q", out)
	}
}

func TestConvertBadFlags(t *testing.T) {
	input := writeDump(t, t.TempDir())
	for _, args := range [][]string{
		{input, "--device", "rytm"},
		{input, "--root-note", "120"},
	} {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("Execute(%v) should fail", args)
		}
	}
}

func TestInspectDump(t *testing.T) {
	input := writeDump(t, t.TempDir())
	out, err := execute(t, "inspect", input)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{
		"1 SysEx messages",
		"not terminated",
		"elektron model 0x02 command 0x67",
		"Pattern 0 at offset 0x0 (valid: true",
		"Pattern 1 at offset 0x1522 (valid: false",
		" 36 |x---|",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectMIDI(t *testing.T) {
	dir := t.TempDir()
	input := writeDump(t, dir)
	if _, err := execute(t, input, "-o", dir); err != nil {
		t.Fatalf("convert error = %v", err)
	}

	out, err := execute(t, "inspect", filepath.Join(dir, "output-0.mid"))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "1 trigs over 32 steps") || !strings.Contains(out, " 36 |x---|") {
		t.Errorf("output:\n%s", out)
	}
}
