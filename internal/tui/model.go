// Package tui renders a task session as an interactive terminal view.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/output"
	"tasklist/internal/service"
	"tasklist/internal/session"
)

// syncedMsg reports that a session operation finished and the view should
// re-read the session state.
type syncedMsg struct {
	load bool
	err  error
}

// Model is the bubbletea model of the task view.
type Model struct {
	ctx     context.Context
	session *session.Session

	keys    keyMap
	input   textinput.Model
	spinner spinner.Model
	help    help.Model

	state       session.State
	cursor      int
	loadPending bool
}

// New creates a view over s. Requests run with ctx.
func New(ctx context.Context, s *session.Session) *Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.Prompt = "New task: "
	ti.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cursorStyle

	return &Model{
		ctx:     ctx,
		session: s,
		keys:    defaultKeyMap(),
		input:   ti,
		spinner: sp,
		help:    help.New(),
		state:   s.State(),
	}
}

// Init starts the spinner and the initial load.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.input.Width = msg.Width - len(m.input.Prompt) - 1
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.sync()
		return m, cmd

	case syncedMsg:
		if msg.load {
			m.loadPending = false
		}
		if errors.Is(msg.err, session.ErrClosed) {
			return m, nil
		}
		m.sync()
		return m, nil

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.session.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.state.Tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if task, ok := m.selected(); ok {
			return m, m.toggle(task)
		}
	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.selected(); ok {
			return m, m.remove(task.ID)
		}
	case key.Matches(msg, m.keys.Add):
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Reload):
		return m, m.load()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.session.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		title := m.input.Value()
		if strings.TrimSpace(title) == "" {
			return m, nil
		}
		return m, m.add(title)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetNewTitle(m.input.Value())
	return m, cmd
}

// sync copies the session state into the view.
func (m *Model) sync() {
	m.state = m.session.State()
	if m.cursor >= len(m.state.Tasks) {
		m.cursor = len(m.state.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.input.Value() != m.state.NewTitle {
		m.input.SetValue(m.state.NewTitle)
	}
}

func (m *Model) selected() (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Tasks) {
		return service.Task{}, false
	}
	return m.state.Tasks[m.cursor], true
}

func (m *Model) load() tea.Cmd {
	m.loadPending = true
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		return syncedMsg{load: true, err: s.Load(ctx)}
	}
}

func (m *Model) add(title string) tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		return syncedMsg{err: s.Add(ctx, title)}
	}
}

func (m *Model) toggle(task service.Task) tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		return syncedMsg{err: s.Toggle(ctx, task)}
	}
}

func (m *Model) remove(id string) tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		return syncedMsg{err: s.Delete(ctx, id)}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Task Management"))
	b.WriteString("\n")

	if m.state.Loading || m.loadPending {
		fmt.Fprintf(&b, "%s Loading tasks...\n", m.spinner.View())
	}
	if m.state.Err != "" {
		b.WriteString(errorStyle.Render("error: " + m.state.Err))
		b.WriteString("\n")
	}

	if len(m.state.Tasks) == 0 && !m.state.Loading && !m.loadPending {
		b.WriteString(mutedStyle.Render("no tasks"))
		b.WriteString("\n")
	}
	for i, task := range m.state.Tasks {
		line := output.Checkbox(task.Completed) + " " + output.NormalizeTitle(task.Title)
		if task.Completed {
			line = doneStyle.Render(line)
		}
		if i == m.cursor && !m.input.Focused() {
			b.WriteString(cursorStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Run shows the view until the user quits or ctx is cancelled. The session
// is closed on return so late responses are dropped.
func Run(ctx context.Context, s *session.Session, in io.Reader, out io.Writer) error {
	defer s.Close()

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(out)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	p := tea.NewProgram(New(ctx, s), opts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
