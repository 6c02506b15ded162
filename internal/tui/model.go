// Package tui implements the interactive chat dashboard. It is a thin
// presentation layer over session.Manager: every action the user takes is
// forwarded to the manager, and the view re-reads manager state after each
// update.
package tui

import (
	"fmt"
	"strings"

	"github.com/anil29717/DeepDoc/internal/models"
	"github.com/anil29717/DeepDoc/internal/session"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// sidebarEntry is one selectable row in the sidebar: a folder, a document, or
// the synthetic "no context" row at the top.
type sidebarEntry struct {
	label  string
	ctx    session.Context
	isNone bool
}

type askDoneMsg struct {
	question string
	err      error
}

type refreshDoneMsg struct{ err error }

// Model is the bubbletea model for the chat dashboard.
type Model struct {
	mgr       *session.Manager
	onContext func(session.Context)

	input      textinput.Model
	transcript viewport.Model
	spin       spinner.Model
	renderer   *glamour.TermRenderer

	focus         focusArea
	sidebarCursor int
	entries       []sidebarEntry

	width  int
	height int
	ready  bool

	asking bool
	status string
}

// New builds the dashboard model. onContext is invoked whenever the active
// context changes so the caller can persist it; it may be nil.
func New(mgr *session.Manager, onContext func(session.Context)) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question about the active document or folder..."
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		mgr:       mgr,
		onContext: onContext,
		input:     ti,
		spin:      sp,
		focus:     focusInput,
	}
	m.rebuildSidebar()
	return m
}

// Run starts the dashboard and blocks until the user quits.
func Run(mgr *session.Manager, onContext func(session.Context)) error {
	program := tea.NewProgram(New(mgr, onContext), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat dashboard failed: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

func (m *Model) rebuildSidebar() {
	active := m.mgr.Active()
	entries := []sidebarEntry{{label: "(no context)", ctx: session.None(), isNone: true}}
	for _, f := range m.mgr.Folders() {
		entries = append(entries, sidebarEntry{
			label: "📁 " + f.Name,
			ctx:   session.FolderContext(f.ID),
		})
	}
	for _, d := range m.mgr.Documents() {
		label := "📄 " + d.Filename
		if d.Status != models.StatusReady {
			label += " (" + strings.ToLower(string(d.Status)) + ")"
		}
		entries = append(entries, sidebarEntry{
			label: label,
			ctx:   session.DocumentContext(d.ID),
		})
	}
	m.entries = entries

	m.sidebarCursor = 0
	for i, e := range entries {
		if e.ctx == active {
			m.sidebarCursor = i
			break
		}
	}
}

func (m *Model) askCmd(question string) tea.Cmd {
	mgr := m.mgr
	return func() tea.Msg {
		_, err := mgr.Ask(question)
		return askDoneMsg{question: question, err: err}
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	mgr := m.mgr
	return func() tea.Msg {
		return refreshDoneMsg{err: mgr.RefreshDocuments()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refreshTranscript()
		return m, nil

	case askDoneMsg:
		m.asking = false
		if msg.err != nil {
			if e := m.mgr.CurrentError(); e != "" {
				m.status = e
			} else {
				m.status = msg.err.Error()
			}
		} else {
			m.status = ""
		}
		m.refreshTranscript()
		m.transcript.GotoBottom()
		return m, nil

	case refreshDoneMsg:
		if msg.err != nil {
			m.status = "Refresh failed"
		} else {
			m.status = fmt.Sprintf("Refreshed %d documents", len(m.mgr.Documents()))
		}
		m.rebuildSidebar()
		m.refreshTranscript()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.asking {
			// Pick up the optimistic user message appended by Ask.
			m.refreshTranscript()
			m.transcript.GotoBottom()
		}
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		if m.focus == focusInput {
			m.focus = focusSidebar
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil
	case "ctrl+r":
		m.status = "Refreshing..."
		return m, m.refreshCmd()
	case "ctrl+y":
		if answer, ok := lastAssistantMessage(m.mgr.Messages()); ok {
			if err := clipboard.WriteAll(answer); err != nil {
				m.status = "Copy failed: " + err.Error()
			} else {
				m.status = "Copied last answer"
			}
		} else {
			m.status = "Nothing to copy yet"
		}
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.sidebarCursor > 0 {
			m.sidebarCursor--
		}
	case "down", "j":
		if m.sidebarCursor < len(m.entries)-1 {
			m.sidebarCursor++
		}
	case "enter":
		if m.sidebarCursor >= len(m.entries) {
			return m, nil
		}
		entry := m.entries[m.sidebarCursor]
		if err := m.selectEntry(entry); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = ""
		m.refreshTranscript()
		m.transcript.GotoBottom()
		m.focus = focusInput
		m.input.Focus()
	}
	return m, nil
}

func (m *Model) selectEntry(entry sidebarEntry) error {
	var err error
	switch {
	case entry.isNone:
		m.mgr.ClearSelection()
	case entry.ctx.Kind == session.KindFolder:
		err = m.mgr.SelectFolder(entry.ctx.ID)
	default:
		err = m.mgr.SelectDocument(entry.ctx.ID)
	}
	if err != nil {
		return err
	}
	if m.onContext != nil {
		m.onContext(m.mgr.Active())
	}
	return nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "pgup":
		m.transcript.HalfViewUp()
		return m, nil
	case "pgdown":
		m.transcript.HalfViewDown()
		return m, nil
	case "enter":
		question := strings.TrimSpace(m.input.Value())
		if question == "" {
			return m, nil
		}
		if m.asking {
			m.status = "Still waiting for the previous answer"
			return m, nil
		}
		if m.mgr.Active().IsNone() {
			m.status = "Select a document or folder first (tab to open the sidebar)"
			return m, nil
		}
		m.input.SetValue("")
		m.asking = true
		m.status = ""
		return m, tea.Batch(m.askCmd(question), m.spin.Tick)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func lastAssistantMessage(msgs []models.Message) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == models.RoleAssistant {
			return msgs[i].Content, true
		}
	}
	return "", false
}
