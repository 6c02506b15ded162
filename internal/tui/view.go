package tui

import (
	"fmt"
	"strings"

	"github.com/anil29717/DeepDoc/internal/models"
	"github.com/anil29717/DeepDoc/internal/session"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 32

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	selectedRow  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	sidebarStyle = lipgloss.NewStyle().
			Width(sidebarWidth).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.Color("240"))
	userStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
)

func (m *Model) resize() {
	transcriptWidth := m.width - sidebarWidth - 2
	if transcriptWidth < 20 {
		transcriptWidth = 20
	}
	// header + input line + status line
	transcriptHeight := m.height - 4
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}

	if m.transcript.Width == 0 {
		m.transcript = viewport.New(transcriptWidth, transcriptHeight)
	} else {
		m.transcript.Width = transcriptWidth
		m.transcript.Height = transcriptHeight
	}
	m.input.Width = m.width - 4

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(transcriptWidth-2),
	)
	if err == nil {
		m.renderer = renderer
	}
}

// refreshTranscript re-renders the manager's transcript into the viewport,
// preserving the scroll position unless the caller jumps to the bottom.
func (m *Model) refreshTranscript() {
	if m.transcript.Width == 0 {
		return
	}
	var b strings.Builder
	for _, msg := range m.mgr.Messages() {
		if msg.Role == models.RoleUser {
			b.WriteString(userStyle.Render("You: "+msg.Content) + "\n\n")
			continue
		}
		b.WriteString(m.renderMarkdown(msg.Content))
		b.WriteString("\n")
	}
	m.transcript.SetContent(b.String())
}

func (m *Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content + "\n"
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return out
}

func (m Model) View() string {
	if !m.ready {
		return "Starting deepdoc chat..."
	}

	header := titleStyle.Render("deepdoc chat") + helpStyle.Render("  "+m.contextLabel())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.transcript.View())

	inputLine := "> " + m.input.View()
	if m.asking {
		inputLine = m.spin.View() + " thinking..."
	}

	return header + "\n" + body + "\n" + inputLine + "\n" + m.renderStatusLine()
}

func (m Model) contextLabel() string {
	active := m.mgr.Active()
	switch active.Kind {
	case session.KindDocument:
		if doc, ok := m.mgr.FindDocument(active.ID); ok {
			return "asking " + doc.Filename
		}
	case session.KindFolder:
		if folder, ok := m.mgr.FindFolder(active.ID); ok {
			return "asking folder " + folder.Name
		}
	default:
		return "no context selected"
	}
	return active.String()
}

func (m Model) renderSidebar() string {
	height := m.transcript.Height
	lines := make([]string, 0, height)
	lines = append(lines, titleStyle.Render("Contexts"))

	visible := height - 1
	if visible < 1 {
		visible = 1
	}
	offset := 0
	if m.sidebarCursor >= visible {
		offset = m.sidebarCursor - visible + 1
	}
	for i := offset; i < len(m.entries) && i-offset < visible; i++ {
		label := truncate(m.entries[i].label, sidebarWidth-4)
		if i == m.sidebarCursor && m.focus == focusSidebar {
			lines = append(lines, selectedRow.Render("> "+label))
		} else if m.entries[i].ctx == m.mgr.Active() {
			lines = append(lines, userStyle.Render("* "+label))
		} else {
			lines = append(lines, "  "+label)
		}
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return sidebarStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatusLine() string {
	if m.status != "" {
		return errorStyle.Render(m.status)
	}
	if p := m.mgr.Progress(); p.InFlight() {
		return helpStyle.Render(fmt.Sprintf("uploading %d/%d", p.Completed, p.Total))
	}
	if m.focus == focusSidebar {
		return helpStyle.Render("j/k: move | enter: select | tab: back to input | q: quit")
	}
	return helpStyle.Render("enter: ask | tab: sidebar | ctrl+y: copy answer | ctrl+r: refresh | esc: quit")
}

func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
