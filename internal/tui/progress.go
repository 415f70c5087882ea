// Package tui provides the terminal user interface for cogent: a live
// progress view over a single task's event stream.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dverbeek/cogent/pkg/models"
)

// Lipgloss styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	statusRunning = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	statusPaused = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	statusFailed = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusDone = lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// eventMsg wraps one progress event.
type eventMsg models.ProgressEvent

// streamClosedMsg signals the end of the event stream.
type streamClosedMsg struct{}

// Model is the bubbletea model following one task's progress stream.
type Model struct {
	taskID  string
	events  <-chan models.ProgressEvent
	spinner spinner.Model
	bar     progress.Model

	status   models.TaskStatus
	progress float64
	message  string
	result   *models.TaskResult
	done     bool
	width    int
}

// New creates a progress view for one task's event stream.
func New(taskID string, events <-chan models.ProgressEvent) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))

	return Model{
		taskID:  taskID,
		events:  events,
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient()),
		status:  models.TaskStatusPlanning,
		width:   60,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

// waitForEvent reads the next event off the stream.
func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(ev)
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 8
		return m, nil

	case eventMsg:
		m.status = msg.Status
		m.progress = msg.Progress
		if msg.Message != "" {
			m.message = msg.Message
		}
		if msg.Result != nil {
			m.result = msg.Result
		}
		if models.ProgressEvent(msg).Terminal() {
			m.done = true
			return m, tea.Quit
		}
		return m, m.waitForEvent()

	case streamClosedMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("cogent") + dimStyle.Render(" · task "+m.taskID) + "\n\n")

	switch m.status {
	case models.TaskStatusCompleted:
		sb.WriteString(statusDone.Render("✓ completed") + "\n")
	case models.TaskStatusFailed:
		sb.WriteString(statusFailed.Render("✗ failed") + "\n")
	case models.TaskStatusPaused:
		sb.WriteString(statusPaused.Render("paused") + " " + dimStyle.Render(m.message) + "\n")
	default:
		sb.WriteString(m.spinner.View() + statusRunning.Render(string(m.status)) + " " + dimStyle.Render(m.message) + "\n")
	}

	sb.WriteString(m.bar.ViewAs(m.progress) + "\n")

	if m.result != nil {
		var body strings.Builder
		fmt.Fprintf(&body, "confidence %.2f · completeness %s · %s\n\n",
			m.result.OverallConfidence, m.result.Completeness, m.result.ExecutionTime.Round(10*time.Millisecond))
		body.WriteString(m.result.FinalResult)
		sb.WriteString("\n" + resultStyle.Width(m.width-2).Render(body.String()) + "\n")
	}

	if m.done && m.status == models.TaskStatusFailed && m.message != "" {
		sb.WriteString(statusFailed.Render(m.message) + "\n")
	}

	return sb.String()
}

// Run drives the progress view until the stream terminates.
func Run(taskID string, events <-chan models.ProgressEvent) (*models.TaskResult, error) {
	final, err := tea.NewProgram(New(taskID, events)).Run()
	if err != nil {
		return nil, fmt.Errorf("run progress view: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m.result, nil
	}
	return nil, nil
}
