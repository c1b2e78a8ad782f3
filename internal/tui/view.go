// File: internal/tui/view.go
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/homellm/homechat/internal/client"
	"github.com/homellm/homechat/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#667eea")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f5576c"))

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4facfe"))

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#43e97b"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff5555"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTopBar())
	b.WriteString("\n\n")

	switch m.session.State() {
	case client.StateHome:
		b.WriteString(m.renderHome())
	default:
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderTopBar() string {
	header := titleStyle.Render(" homechat ")
	if id, ok := m.session.ActiveChatID(); ok {
		g := client.AssignGradient(id)
		accent := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(g.From))
		if title := m.activeTitle(id); title != "" {
			header += " " + accent.Render(title)
		}
	}
	if !m.healthy {
		header += "  " + errorStyle.Render("backend unreachable")
	}
	return header
}

func (m *Model) activeTitle(chatID uint) string {
	for _, c := range m.session.Chats() {
		if c.ID == chatID {
			return c.Title
		}
	}
	return ""
}

func (m *Model) renderHome() string {
	chats := m.session.Chats()
	if len(chats) == 0 {
		return dimStyle.Render("  No chats yet. Press ctrl+n to start one.")
	}

	var b strings.Builder
	for i, c := range chats {
		g := client.AssignGradient(c.ID)
		bullet := lipgloss.NewStyle().Foreground(lipgloss.Color(g.From)).Render("●")
		line := fmt.Sprintf("%s %s %s",
			bullet, c.Title,
			dimStyle.Render(fmt.Sprintf("(%d messages)", c.MessageCount)))
		if i == m.cursor {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	var parts []string
	if m.session.State() == client.StateSending {
		parts = append(parts, m.spin.View()+"waiting for model...")
	}
	if m.status != "" {
		parts = append(parts, errorStyle.Render(m.status))
	}
	switch m.session.State() {
	case client.StateHome:
		parts = append(parts, footerStyle.Render("enter: open · ctrl+n: new · ctrl+d: delete · ctrl+c: quit"))
	default:
		parts = append(parts, footerStyle.Render("enter: send · esc: home · ctrl+d: delete · ctrl+c: quit"))
	}
	return strings.Join(parts, "  ")
}

// refreshViewport rebuilds the transcript and pins it to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	var b strings.Builder
	for _, msg := range m.messages {
		label := assistantLabelStyle.Render("assistant")
		if msg.Role == domain.RoleUser {
			label = userLabelStyle.Render("you")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(wrapText(msg.Content, m.viewport.Width))
		b.WriteString("\n\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
