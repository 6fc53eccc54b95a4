package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Format represents a file format
type Format string

const (
	FormatMIDI    Format = "midi"
	FormatSyx     Format = "syx"
	FormatUnknown Format = "unknown"
)

// DefaultPrefix names output files prefix-N.mid
const DefaultPrefix = "output"

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mid", ".midi":
		return FormatMIDI
	case ".syx":
		return FormatSyx
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}

	if string(data[:4]) == "MThd" {
		return FormatMIDI
	}

	if data[0] == SysExStart {
		return FormatSyx
	}

	return FormatUnknown
}

// Options configures a Converter
type Options struct {
	MIDI    MIDIOptions
	Prefix  string
	Workers int
}

// DefaultOptions returns the options for a device
func DefaultOptions(device Device) Options {
	opts := Options{
		MIDI:    DefaultMIDIOptions(),
		Prefix:  DefaultPrefix,
		Workers: 1,
	}
	if device != nil {
		opts.MIDI.RootNote = device.RootNote()
	}
	return opts
}

// Converter turns SysEx dumps into MIDI files
type Converter struct {
	device Device
	opts   Options
}

// New creates a new Converter with the device defaults
func New(device Device) *Converter {
	return &Converter{device: device, opts: DefaultOptions(device)}
}

// NewWithOptions creates a Converter with explicit options
func NewWithOptions(device Device, opts Options) *Converter {
	return &Converter{device: device, opts: opts}
}

// GetDevice returns the current device
func (c *Converter) GetDevice() Device {
	return c.device
}

// SetDevice sets the device for conversion
func (c *Converter) SetDevice(device Device) {
	c.device = device
}

// Options returns the converter options
func (c *Converter) Options() Options {
	return c.opts
}

// Filename returns the output name of the record with the given index
func (c *Converter) Filename(index int) string {
	prefix := c.opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s-%d.mid", prefix, index)
}

// Scan returns the marker offsets of all pattern records in discovery order
func (c *Converter) Scan(data []byte) ([]int, error) {
	if c.device == nil {
		return nil, errors.New("no device configured")
	}
	marker := c.device.Marker()
	end := c.device.Layout().End

	var offsets []int
	pos := 0
	for pos < len(data) {
		ix := Find(pos, marker, data)
		if ix == NotFound {
			break
		}
		base := ix - len(marker)
		offsets = append(offsets, base)
		pos = base + end + 1
	}
	return offsets, nil
}

// ExtractAll decodes every pattern record in a dump.
// Records that cannot be decoded are skipped.
func (c *Converter) ExtractAll(data []byte) ([]*Record, error) {
	results, err := c.ConvertDump(data)
	if err != nil {
		return nil, err
	}
	records := make([]*Record, 0, len(results))
	for _, r := range results {
		if r.Record != nil {
			records = append(records, r.Record)
		}
	}
	return records, nil
}

// ConvertDump extracts every pattern record in data and serializes each to
// MIDI. A failure in one record does not stop the others; results are in
// discovery order.
func (c *Converter) ConvertDump(data []byte) ([]Result, error) {
	offsets, err := c.Scan(data)
	if err != nil {
		return nil, err
	}
	writer, err := NewMIDIWriter(c.opts.MIDI)
	if err != nil {
		return nil, err
	}
	layout := c.device.Layout()

	results := make([]Result, len(offsets))
	var g errgroup.Group
	if c.opts.Workers > 0 {
		g.SetLimit(c.opts.Workers)
	} else {
		g.SetLimit(1)
	}
	for i, base := range offsets {
		g.Go(func() error {
			results[i] = c.convertRecord(data, i, base, layout, writer)
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

func (c *Converter) convertRecord(data []byte, index, base int, layout Layout, writer *MIDIWriter) Result {
	res := Result{Index: index, Offset: base, Filename: c.Filename(index)}
	rec, err := Extract(data, base, layout)
	if err != nil {
		res.Err = fmt.Errorf("record %d at offset %d: %w", index, base, err)
		return res
	}
	rec.Index = index
	res.Record = rec
	res.Data, err = writer.GenerateMIDI(&rec.Pattern)
	if err != nil {
		res.Err = fmt.Errorf("record %d: %w", index, err)
	}
	return res
}

// ConvertFile converts a dump file and writes one MIDI file per pattern to outDir
func (c *Converter) ConvertFile(inputPath, outDir string) ([]Result, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	results, err := c.ConvertDump(data)
	if err != nil {
		return nil, fmt.Errorf("conversion failed: %w", err)
	}
	if err := WriteResults(outDir, results); err != nil {
		return results, err
	}
	return results, nil
}

// WriteResults writes the MIDI data of each successful result to dir
func WriteResults(dir string, results []Result) error {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, r := range results {
		if r.Data == nil {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, r.Filename), r.Data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	}
	return nil
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"syx -> midi",
		"midi -> grid",
	}
}
