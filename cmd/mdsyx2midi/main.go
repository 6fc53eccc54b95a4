// Package main is the entry point for mdsyx2midi CLI
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/carrierdown/elektron-sysex-to-midi/pkg/api"
	"github.com/carrierdown/elektron-sysex-to-midi/pkg/converter"
	"github.com/carrierdown/elektron-sysex-to-midi/pkg/converter/devices"
	"github.com/carrierdown/elektron-sysex-to-midi/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cliOptions holds the flag values shared by the commands
type cliOptions struct {
	deviceName     string
	outputDir      string
	prefix         string
	rootNote       int
	explicitStatus bool
	workers        int
	serverPort     int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:   "mdsyx2midi [input.syx]",
		Short: "Convert Elektron Machinedrum SysEx pattern dumps to MIDI",
		Long: `mdsyx2midi extracts every pattern from an Elektron Machinedrum SysEx
dump and writes one Standard MIDI File per pattern (output-0.mid, output-1.mid, ...).

Each of the 16 tracks becomes one note, starting at C1 (36); each step is a
16th note.

Examples:
  mdsyx2midi dump.syx
  mdsyx2midi convert dump.syx -o patterns --prefix kit1
  mdsyx2midi inspect dump.syx
  mdsyx2midi inspect output-0.mid
  mdsyx2midi tui
  mdsyx2midi serve --port 8080`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, o)
		},
	}

	convertCmd := &cobra.Command{
		Use:   "convert <input.syx>",
		Short: "Convert every pattern in a dump to MIDI files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, o)
		},
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect <input.syx|input.mid>",
		Short: "Print the messages and trig grids of a dump, or the grid of a MIDI file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, o)
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch interactive terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, err := o.converter()
			if err != nil {
				return err
			}
			return tui.Run(conv.GetDevice(), conv.Options())
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Starting API server on port %d...\n", o.serverPort)
			return api.StartServer(o.serverPort)
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&o.deviceName, "device", "d", "md", "Source device (md)")
	flags.StringVarP(&o.outputDir, "output", "o", ".", "Output directory")
	flags.StringVar(&o.prefix, "prefix", converter.DefaultPrefix, "Output file name prefix")
	flags.IntVar(&o.rootNote, "root-note", -1, "MIDI note of track 0 (default: device root note)")
	flags.BoolVar(&o.explicitStatus, "explicit-status", false, "Write a status byte on every event and use note-off messages")
	flags.IntVarP(&o.workers, "workers", "w", 1, "Patterns converted in parallel")

	// serve command
	serveCmd.Flags().IntVarP(&o.serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)

	return rootCmd
}

// converter builds a converter from the flag values
func (o *cliOptions) converter() (*converter.Converter, error) {
	device, err := devices.Lookup(o.deviceName)
	if err != nil {
		return nil, err
	}
	opts := converter.DefaultOptions(device)
	opts.Prefix = o.prefix
	opts.Workers = o.workers
	opts.MIDI.ExplicitStatus = o.explicitStatus
	if o.rootNote >= 0 {
		if o.rootNote > 127 {
			return nil, fmt.Errorf("root note %d is not a MIDI note", o.rootNote)
		}
		opts.MIDI.RootNote = uint8(o.rootNote)
	}
	if _, err := converter.NewMIDIWriter(opts.MIDI); err != nil {
		return nil, err
	}
	return converter.NewWithOptions(device, opts), nil
}

// inputFile returns the input path, or false after telling the user why
// there is nothing to do
func inputFile(out io.Writer, args []string) (string, bool) {
	if len(args) == 0 {
		fmt.Fprintln(out, "Usage: mdsyx2midi <input.syx>")
		return "", false
	}
	if _, err := os.Stat(args[0]); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "File not found: %s\n", args[0])
		return "", false
	}
	return args[0], true
}

func runConvert(cmd *cobra.Command, args []string, o *cliOptions) error {
	out := cmd.OutOrStdout()
	input, ok := inputFile(out, args)
	if !ok {
		return nil
	}

	conv, err := o.converter()
	if err != nil {
		return err
	}
	results, err := conv.ConvertFile(input, o.outputDir)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintf(out, "No %s patterns found in %s\n", conv.GetDevice().Name(), input)
		return nil
	}

	for _, r := range results {
		reportResult(out, r, filepath.Join(o.outputDir, r.Filename))
	}
	return nil
}

func reportResult(out io.Writer, r converter.Result, path string) {
	switch {
	case r.OK():
		fmt.Fprintf(out, "Wrote %s successfully\n", path)
		return
	case r.Data == nil:
		fmt.Fprintf(out, "Failed to convert pattern %d at offset 0x%X\n", r.Index, r.Offset)
	default:
		fmt.Fprintf(out, "Wrote %s with errors\n", path)
	}
	if r.Record != nil {
		for _, w := range r.Record.Warnings {
			fmt.Fprintf(out, "  warning: %v\n", w)
		}
	}
	if r.Err != nil {
		fmt.Fprintf(out, "  error: %v\n", r.Err)
	}
}

func runInspect(cmd *cobra.Command, args []string, o *cliOptions) error {
	out := cmd.OutOrStdout()
	input, ok := inputFile(out, args)
	if !ok {
		return nil
	}
	conv, err := o.converter()
	if err != nil {
		return err
	}
	root := conv.Options().MIDI.RootNote

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	format := converter.DetectFormat(input)
	if format == converter.FormatUnknown {
		format = converter.DetectFormatFromContent(data)
	}

	switch format {
	case converter.FormatMIDI:
		p, err := converter.ParseMIDI(data, root)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %d trigs over %d steps\n", input, p.TrigCount(), p.Steps())
		printGrid(out, p, root)
		return nil
	case converter.FormatSyx:
		return inspectDump(out, conv, input, data)
	default:
		return fmt.Errorf("unsupported input format: %s", input)
	}
}

func inspectDump(out io.Writer, conv *converter.Converter, input string, data []byte) error {
	msgs, err := converter.SummarizeSyx(data)
	fmt.Fprintf(out, "%s: %d bytes, %d SysEx messages\n", input, len(data), len(msgs))
	if err != nil {
		fmt.Fprintf(out, "  warning: %v\n", err)
	}
	for i, m := range msgs {
		line := fmt.Sprintf("  #%-3d offset 0x%06X length %5d", i, m.Offset, m.Length)
		if m.Elektron {
			line += fmt.Sprintf("  elektron model 0x%02X command 0x%02X", m.Model, m.Command)
		}
		if verr := converter.ValidateSyx(data[m.Offset : m.Offset+m.Length]); verr != nil {
			line += "  " + verr.Error()
		}
		fmt.Fprintln(out, line)
	}

	results, err := conv.ConvertDump(data)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintf(out, "No %s patterns found\n", conv.GetDevice().Name())
		return nil
	}

	root := conv.Options().MIDI.RootNote
	for _, r := range results {
		fmt.Fprintf(out, "\nPattern %d at offset 0x%X", r.Index, r.Offset)
		if r.Record == nil {
			fmt.Fprintf(out, ": %v\n", r.Err)
			continue
		}
		rec := r.Record
		fmt.Fprintf(out, " (valid: %t, kit %d, length %d, %d trigs)\n", rec.Valid, rec.Params.Kit, rec.Params.Length, rec.Pattern.TrigCount())
		for _, w := range rec.Warnings {
			fmt.Fprintf(out, "  warning: %v\n", w)
		}
		printGrid(out, &rec.Pattern, root)
	}
	return nil
}

func printGrid(out io.Writer, p *converter.Pattern, root uint8) {
	for _, row := range p.Rows(root) {
		fmt.Fprintln(out, row)
	}
}
