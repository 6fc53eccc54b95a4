// Package tui provides a terminal user interface for mdsyx2midi
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/carrierdown/elektron-sysex-to-midi/pkg/converter"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Machinedrum-inspired color scheme
var (
	mdOrange   = lipgloss.Color("#FF8C1A")
	mdAmber    = lipgloss.Color("#FFC04D")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(mdOrange).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(mdOrange).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(mdAmber).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(mdOrange).
			Bold(true)

	gridStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			MarginTop(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mdOrange).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateConverting
	StateResult
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string

	// WriteFiles writes one MIDI file per pattern next to the dump
	WriteFiles bool
}

var menuItems = []MenuItem{
	{Title: "Convert dump", Description: "Write one MIDI file per pattern next to the .syx dump", WriteFiles: true},
	{Title: "Inspect dump", Description: "Browse the trig grids of a .syx dump without writing files"},
	{Title: "Exit", Description: "Exit the application"},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	device       converter.Device
	opts         converter.Options
	action       MenuItem
	selectedFile string
	results      []converter.Result
	cursor       int
	err          error
	width        int
	height       int
}

// conversionDoneMsg signals conversion completion
type conversionDoneMsg struct {
	results []converter.Result
	err     error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model converting dumps of device with opts
func New(device converter.Device, opts converter.Options) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".syx"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(mdOrange)

	return Model{
		state:      StateMenu,
		filePicker: fp,
		spinner:    s,
		device:     device,
		opts:       opts,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// the file picker needs to receive all messages while it is shown
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateConverting
			return m, tea.Batch(m.spinner.Tick, m.performConversion())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case conversionDoneMsg:
		m.state = StateResult
		m.results = msg.results
		m.cursor = 0
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex == len(menuItems)-1 {
			return m, tea.Quit
		}
		m.action = menuItems[m.menuIndex]
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.results)-1 {
			m.cursor++
		}
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		m.results = nil
		m.cursor = 0
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performConversion() tea.Cmd {
	conv := converter.NewWithOptions(m.device, m.opts)
	path := m.selectedFile
	write := m.action.WriteFiles
	return func() tea.Msg {
		if write {
			results, err := conv.ConvertFile(path, filepath.Dir(path))
			return conversionDoneMsg{results: results, err: err}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return conversionDoneMsg{err: err}
		}
		results, err := conv.ConvertDump(data)
		return conversionDoneMsg{results: results, err: err}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT ACTION "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(mdAmber).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT SYX DUMP "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewConverting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" CONVERTING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Reading %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  %s patterns → midi", m.deviceName())))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	switch {
	case m.err != nil:
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Conversion failed: %s", m.err.Error())))
	case len(m.results) == 0:
		s.WriteString(titleStyle.Render(" NO PATTERNS "))
		s.WriteString("\n\n")
		s.WriteString(statusStyle.Render(fmt.Sprintf("No %s patterns found in %s", m.deviceName(), filepath.Base(m.selectedFile))))
	default:
		s.WriteString(titleStyle.Render(fmt.Sprintf(" %d PATTERNS ", len(m.results))))
		s.WriteString("\n\n")
		for i, r := range m.results {
			line := resultLine(r, m.action.WriteFiles)
			if i == m.cursor {
				s.WriteString(selectedStyle.Render("▸ " + line))
			} else {
				s.WriteString(menuStyle.Render("  " + line))
			}
			s.WriteString("\n")
		}
		s.WriteString(m.viewGrid(m.results[m.cursor]))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func resultLine(r converter.Result, written bool) string {
	verb := "Decoded"
	if written {
		verb = "Wrote"
	}
	if r.OK() {
		return successStyle.Render("✓") + fmt.Sprintf(" %s %s successfully", verb, r.Filename)
	}
	if r.Data == nil {
		return errorStyle.Render("✗") + fmt.Sprintf(" %s failed", r.Filename)
	}
	return errorStyle.Render("!") + fmt.Sprintf(" %s %s with errors", verb, r.Filename)
}

func (m Model) viewGrid(r converter.Result) string {
	var s strings.Builder
	if r.Err != nil {
		s.WriteString(errorStyle.Render(r.Err.Error()))
		s.WriteString("\n")
	}
	if r.Record == nil {
		return gridStyle.Render(s.String())
	}
	for _, w := range r.Record.Warnings {
		s.WriteString(statusStyle.Render("warning: " + w.Error()))
		s.WriteString("\n")
	}
	s.WriteString(strings.Join(r.Record.Pattern.Rows(m.opts.MIDI.RootNote), "\n"))
	return gridStyle.Render(s.String())
}

func (m Model) deviceName() string {
	if m.device == nil {
		return "unknown"
	}
	return m.device.Name()
}

func asciiLogo() string {
	logo := `
   __  __ ____  ______   ____  ______  __ ___ ____ ___
  |  \/  |  _ \/ ___\ \ / /\ \/ /___ \|  \/  |_ _|  _ \_ _|
  | |\/| | | | \___ \\ V /  \  /  __) | |\/| || || | | | |
  | |  | | |_| |___) || |   /  \ / __/| |  | || || |_| | |
  |_|  |_|____/|____/ |_|  /_/\_\_____|_|  |_|___|____/___|
`
	return lipgloss.NewStyle().Foreground(mdOrange).Render(logo)
}

// Run starts the TUI application
func Run(device converter.Device, opts converter.Options) error {
	p := tea.NewProgram(New(device, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
