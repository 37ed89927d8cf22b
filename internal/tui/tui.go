// Package tui provides a Bubble Tea terminal user interface for the
// photo processor.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mirzapolat/visual-bereal-processor/internal/config"
	"github.com/mirzapolat/visual-bereal-processor/internal/pipeline"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateValidating
	StateProcessing
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   pipeline.ProgressLevel
}

// maxLogEntries bounds the event log shown below the progress bar.
const maxLogEntries = 8

// eventBuffer hands pipeline events from the run goroutine to the
// Update loop, which drains it on every progress tick.
type eventBuffer struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (b *eventBuffer) add(entry LogEntry) {
	b.mu.Lock()
	b.entries = append(b.entries, entry)
	b.mu.Unlock()
}

func (b *eventBuffer) drain() []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.entries
	b.entries = nil
	return entries
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	events    *eventBuffer
	logs      []LogEntry
	err       error

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	// Pipeline reference
	processor *pipeline.Processor
	summary   string

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings, baseDir string) Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/bereal-export"
	ti.SetValue(baseDir)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	if settings == nil {
		settings = config.DefaultSettings()
	}

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		events:    &eventBuffer{},
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// StartDoneMsg is sent when validation completes and the
	// processor is ready.
	StartDoneMsg struct {
		Processor *pipeline.Processor
		Err       error
	}

	// RunDoneMsg is sent when the whole run completes.
	RunDoneMsg struct {
		Summary string
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateProcessing || m.state == StateValidating {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StateValidating
				return m, tea.Batch(m.startRun(), m.spinner.Tick)
			}

		case "ctrl+f":
			if m.state == StateInput {
				m.cycleFormat()
			}

		case "ctrl+b":
			if m.state == StateInput {
				m.settings.CreateCombinedImages = !m.settings.CreateCombinedImages
			}

		case "ctrl+r":
			if m.state == StateInput {
				m.settings.RearPhotoLarge = !m.settings.RearPhotoLarge
			}

		case "ctrl+k":
			if m.state == StateInput {
				m.settings.KeepOriginalFilename = !m.settings.KeepOriginalFilename
			}

		case "ctrl+d":
			if m.state == StateInput {
				m.settings.DeleteAfterCombine = !m.settings.DeleteAfterCombine
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.settings.VerboseLogging = !m.settings.VerboseLogging
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for another run
				m.state = StateInput
				m.events = &eventBuffer{}
				m.logs = nil
				m.err = nil
				m.processor = nil
				m.summary = ""
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case StartDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.processor = msg.Processor
			m.state = StateProcessing
			cmds = append(cmds, m.runPipeline(), m.tickProgress())
		}

	case RunDoneMsg:
		m.summary = msg.Summary
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		m.logs = append(m.logs, m.events.drain()...)
		if len(m.logs) > maxLogEntries {
			m.logs = m.logs[len(m.logs)-maxLogEntries:]
		}
		if m.processor != nil && m.state == StateProcessing {
			_, current, total := m.processor.Progress()
			var percent float64
			if total > 0 {
				percent = float64(current) / float64(total)
			}
			progressCmd := m.progress.SetPercent(percent)
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// cycleFormat rotates through the encodable export formats.
func (m *Model) cycleFormat() {
	switch m.settings.ExportFormat {
	case "png":
		m.settings.ExportFormat = "jpg"
	default:
		m.settings.ExportFormat = "png"
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("📸 BeReal Photo Processor"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Convert, tag and combine your exported photos"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateValidating:
		b.WriteString(m.viewValidating())
	case StateProcessing:
		b.WriteString(m.viewProcessing())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Export archive directory:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	check := func(on bool) string {
		if on {
			return "[×]"
		}
		return "[ ]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Export format: %s (ctrl+f)\n", m.settings.ExportFormat))
	b.WriteString(fmt.Sprintf("  %s Create combined images (ctrl+b)\n", check(m.settings.CreateCombinedImages)))
	b.WriteString(fmt.Sprintf("  %s Rear photo large (ctrl+r)\n", check(m.settings.RearPhotoLarge)))
	b.WriteString(fmt.Sprintf("  %s Keep original file names (ctrl+k)\n", check(m.settings.KeepOriginalFilename)))
	b.WriteString(fmt.Sprintf("  %s Delete singles after combining (ctrl+d)\n", check(m.settings.DeleteAfterCombine)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+v)\n", check(m.settings.VerboseLogging)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewValidating() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Checking archive..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewProcessing() string {
	var b strings.Builder

	stage, current, total := pipeline.StageIdle, 0, 0
	if m.processor != nil {
		stage, current, total = m.processor.Progress()
	}

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Stage: %s", stage)))
	b.WriteString("\n\n")

	var percent float64
	if total > 0 {
		percent = float64(current) / float64(total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Items: %d/%d", current, total)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render("✨ Processing Complete!\n\n" + m.summary)
	b.WriteString(box)

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case pipeline.LevelError:
			style = errorStyle
			prefix = "✗"
		case pipeline.LevelWarning:
			style = warningStyle
			prefix = "!"
		case pipeline.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case pipeline.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+f/b/r/k/d/v: toggle options • esc: quit"
	case StateValidating, StateProcessing:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// startRun validates the configuration and creates the processor.
func (m *Model) startRun() tea.Cmd {
	baseDir := m.textInput.Value()
	settings := m.settings

	buf := m.events
	verbose := settings.VerboseLogging

	return func() tea.Msg {
		paths := config.DefaultPaths(baseDir)

		// Events land in the buffer; the TickMsg handler drains it
		// into the visible log.
		proc, err := pipeline.New(settings, paths, func(event pipeline.ProgressEvent) {
			if event.Level == pipeline.LevelVerbose && !verbose {
				return
			}
			buf.add(LogEntry{Message: event.Message, Level: event.Level})
		})
		if err != nil {
			return StartDoneMsg{Err: err}
		}
		return StartDoneMsg{Processor: proc}
	}
}

// runPipeline executes the run in the background.
func (m *Model) runPipeline() tea.Cmd {
	proc := m.processor
	ctx := m.ctx

	return func() tea.Msg {
		if proc == nil {
			return RunDoneMsg{Err: fmt.Errorf("no processor")}
		}

		report, err := proc.Run(ctx)
		return RunDoneMsg{Summary: report.Summary(), Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, baseDir string) error {
	p := tea.NewProgram(NewModel(settings, baseDir), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
