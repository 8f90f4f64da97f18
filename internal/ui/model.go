package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Laplace1814/honggfuzz/internal/generator"
)

// TickMsg is sent on each poll tick
type TickMsg time.Time

// DoneMsg reports that the campaign returned
type DoneMsg struct {
	Err error
}

const tickInterval = 100 * time.Millisecond

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// ProgressModel polls campaign statistics and renders a live progress view
type ProgressModel struct {
	stats   func() generator.Stats
	snap    generator.Stats
	bar     *ProgressBar
	spinner *Spinner
	width   int

	done    bool
	aborted bool
	err     error
}

// NewProgressModel creates a model that calls stats on every tick
func NewProgressModel(stats func() generator.Stats) *ProgressModel {
	return &ProgressModel{
		stats:   stats,
		bar:     NewProgressBar(60),
		spinner: &Spinner{running: true},
		width:   80,
	}
}

// Aborted reports whether the user quit before completion
func (m *ProgressModel) Aborted() bool {
	return m.aborted
}

// Err returns the error the campaign finished with
func (m *ProgressModel) Err() error {
	return m.err
}

// Init starts the tick loop
func (m *ProgressModel) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages
func (m *ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if !m.done {
				m.aborted = true
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.SetWidth(msg.Width - 4)

	case DoneMsg:
		m.refresh()
		m.finish(msg.Err)
		return m, tea.Quit

	case TickMsg:
		m.refresh()
		if m.snap.Done() && !m.snap.Running {
			m.finish(nil)
			return m, tea.Quit
		}
		return m, tickCmd()
	}

	return m, nil
}

func (m *ProgressModel) refresh() {
	m.snap = m.stats()
	m.spinner.Tick()

	if m.snap.Target > 0 {
		attempted := m.snap.Generated + m.snap.Errors
		m.bar.SetProgress(float64(attempted) / float64(m.snap.Target))
		m.bar.SetETA(formatDuration(eta(m.snap)))
	}
}

func (m *ProgressModel) finish(err error) {
	m.done = true
	m.err = err
	m.spinner.SetRunning(false)
	m.bar.SetETA("")
}

// eta extrapolates the remaining time from the current rate
func eta(s generator.Stats) time.Duration {
	attempted := s.Generated + s.Errors
	if attempted == 0 || s.Elapsed <= 0 {
		return 0
	}
	remaining := int64(s.Target) - attempted
	if remaining <= 0 {
		return 0
	}
	perVariant := s.Elapsed / time.Duration(attempted)
	return perVariant * time.Duration(remaining)
}

// View renders the model
func (m *ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(Title))
	b.WriteString(" ")
	b.WriteString(m.spinner.Render())
	b.WriteString("\n\n")

	b.WriteString(m.bar.Render())
	b.WriteString("\n\n")

	b.WriteString(RenderLabelValue("Variants", fmt.Sprintf("%s / %s",
		formatNumber(m.snap.Generated), formatNumber(int64(m.snap.Target)))))
	b.WriteString("\n")
	b.WriteString(RenderLabelValue("Written", formatNumber(m.snap.Written)))
	b.WriteString("\n")
	b.WriteString(RenderLabelValue("Duplicates", formatNumber(m.snap.Duplicates)))
	b.WriteString("\n")
	if m.snap.Errors > 0 {
		b.WriteString(LabelStyle.Render("Errors:") + " " + ErrorStyle.Render(formatNumber(m.snap.Errors)))
		b.WriteString("\n")
	}
	b.WriteString(RenderLabelValue("Elapsed", formatDuration(m.snap.Elapsed)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(FooterStyle.Render(RenderHelp("q", "quit")))
	b.WriteString("\n")

	return b.String()
}

// NewProgram wraps the model in a bubbletea program
func NewProgram(m *ProgressModel, opts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(m, opts...)
}

func formatNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
