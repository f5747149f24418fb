// Package tui provides a terminal user interface for musiz
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rain1024/musiz/pkg/notation"
	"github.com/rain1024/musiz/pkg/score"
)

// Manuscript-inspired color scheme
var (
	inkBlue   = lipgloss.Color("#4A90D9")
	parchment = lipgloss.Color("#E8DCC0")
	staffGray = lipgloss.Color("#8A8A8A")
	paperDark = lipgloss.Color("#2B2B2B")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(inkBlue).
			Background(paperDark).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(staffGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(inkBlue).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(parchment).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(inkBlue).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(inkBlue).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateWorking
	StateResult
)

// MenuItem represents one conversion or transposition action
type MenuItem struct {
	Title       string
	Description string
	To          notation.Format
	Semitones   int
}

var menuItems = []MenuItem{
	{Title: "ABC / MusicXML → MusicXML", Description: "Convert a notation file to MusicXML", To: notation.FormatMusicXML},
	{Title: "ABC / MusicXML → ABC", Description: "Convert a notation file to ABC notation", To: notation.FormatABC},
	{Title: "ABC / MusicXML → MIDI", Description: "Export a notation file as a Standard MIDI File", To: notation.FormatMIDI},
	{Title: "Transpose up a whole step", Description: "Shift every pitch up 2 semitones, same format", Semitones: 2},
	{Title: "Transpose down a whole step", Description: "Shift every pitch down 2 semitones, same format", Semitones: -2},
	{Title: "Exit", Description: "Exit the application"},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	outputFile   string
	action       MenuItem
	err          error
	width        int
	height       int
}

// workDoneMsg signals conversion completion
type workDoneMsg struct {
	outputFile string
	err        error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New() Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".abc", ".xml", ".musicxml"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(inkBlue)

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs to receive all messages while active.
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
			m.state = StateWorking
			return m, tea.Batch(m.spinner.Tick, m.performAction())
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

	case workDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
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
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		m.outputFile = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performAction() tea.Cmd {
	return func() tea.Msg {
		in, err := notation.ReadScore(m.selectedFile)
		if err != nil {
			return workDoneMsg{err: err}
		}

		s := in
		target := m.action.To
		suffix := ""
		if m.action.Semitones != 0 {
			s = score.Transpose(in, m.action.Semitones)
			target = notation.DetectFormat(m.selectedFile)
			suffix = fmt.Sprintf("_transposed%+d", m.action.Semitones)
		}

		var outputExt string
		switch target {
		case notation.FormatABC:
			outputExt = ".abc"
		case notation.FormatMIDI:
			outputExt = ".mid"
		default:
			outputExt = ".musicxml"
		}

		base := strings.TrimSuffix(m.selectedFile, filepath.Ext(m.selectedFile))
		outputFile := base + suffix + outputExt

		if err := notation.WriteScore(s, outputFile, "C"); err != nil {
			return workDoneMsg{err: err}
		}

		return workDoneMsg{outputFile: outputFile}
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
	case StateWorking:
		s.WriteString(m.viewWorking())
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
			s.WriteString(lipgloss.NewStyle().Foreground(parchment).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT NOTATION FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewWorking() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" WORKING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Processing %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  %s", m.action.Title)))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Failed: %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Done!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Input:  %s\n", filepath.Base(m.selectedFile)))
		s.WriteString(fmt.Sprintf("Output: %s", filepath.Base(m.outputFile)))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
   __  __ _   _ ____ ___ _____
  |  \/  | | | / ___|_ _|__  /
  | |\/| | | | \___ \| |  / /
  | |  | | |_| |___) | | / /_
  |_|  |_|\___/|____/___/____|
`
	return lipgloss.NewStyle().Foreground(inkBlue).Render(logo)
}

// Run starts the TUI application
func Run() error {
	p := tea.NewProgram(New(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
