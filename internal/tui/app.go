// File: internal/tui/app.go
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/homellm/homechat/internal/client"
	"github.com/homellm/homechat/internal/domain"
)

// Model is the terminal chat front-end. All lifecycle decisions go
// through the client.Session state machine; the bubbletea event loop
// only translates key presses and async results into session events.
type Model struct {
	api     *client.API
	session *client.Session

	input    textarea.Model
	viewport viewport.Model
	spin     spinner.Model

	messages []domain.Message
	cursor   int // selection index in the home list
	status   string
	healthy  bool

	width  int
	height int
	ready  bool
}

// --- async result messages ---

type chatsLoadedMsg struct {
	chats []domain.Chat
	err   error
}

type chatOpenedMsg struct {
	detail *client.ChatDetail
	err    error
}

type chatCreatedMsg struct {
	chat *domain.Chat
	err  error
}

type turnDoneMsg struct {
	seq    uint64
	result *client.TurnResult
	err    error
}

type chatDeletedMsg struct {
	chatID uint
	err    error
}

type healthMsg struct{ healthy bool }

func New(api *client.API) *Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.Focus()
	ta.CharLimit = 8000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5576c"))

	return &Model{
		api:     api,
		session: client.NewSession(),
		input:   ta,
		spin:    sp,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.loadChats(), m.checkHealth())
}

// --- commands ---

func (m *Model) loadChats() tea.Cmd {
	return func() tea.Msg {
		chats, err := m.api.ListChats(context.Background())
		return chatsLoadedMsg{chats: chats, err: err}
	}
}

func (m *Model) openChat(chatID uint) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.api.GetChat(context.Background(), chatID)
		return chatOpenedMsg{detail: detail, err: err}
	}
}

func (m *Model) createChat() tea.Cmd {
	return func() tea.Msg {
		chat, err := m.api.CreateChat(context.Background(), "", "")
		return chatCreatedMsg{chat: chat, err: err}
	}
}

func (m *Model) sendTurn(seq uint64, chatID uint, message string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.api.SendMessage(context.Background(), chatID, message, "")
		return turnDoneMsg{seq: seq, result: result, err: err}
	}
}

func (m *Model) deleteChat(chatID uint) tea.Cmd {
	return func() tea.Msg {
		err := m.api.DeleteChat(context.Background(), chatID)
		return chatDeletedMsg{chatID: chatID, err: err}
	}
}

func (m *Model) checkHealth() tea.Cmd {
	return func() tea.Msg {
		return healthMsg{healthy: m.api.Healthy(context.Background())}
	}
}

// --- update ---

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 4)
		m.viewport = viewport.New(msg.Width-4, msg.Height-9)
		m.ready = true
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.session.State() == client.StateSending {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case chatsLoadedMsg:
		if msg.err != nil {
			m.status = "could not load chats: " + msg.err.Error()
			return m, nil
		}
		m.session.SetChats(msg.chats)
		if m.cursor >= len(msg.chats) {
			m.cursor = 0
		}
		return m, nil

	case chatOpenedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		if err := m.session.OpenChat(msg.detail.ID); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.messages = msg.detail.Messages
		m.status = ""
		m.refreshViewport()
		return m, nil

	case chatCreatedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		if err := m.session.OpenChat(msg.chat.ID); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.messages = nil
		m.status = ""
		m.refreshViewport()
		return m, m.loadChats()

	case turnDoneMsg:
		m.session.FinishSend(msg.seq, msg.err)
		if msg.err != nil {
			m.status = "turn failed: " + msg.err.Error()
		} else if m.session.State() == client.StateActive {
			m.messages = append(m.messages, domain.Message{
				Role:      domain.RoleAssistant,
				Content:   msg.result.Response,
				CreatedAt: time.Now(),
			})
			m.status = ""
		}
		m.refreshViewport()
		// The list order and titles may have changed server-side.
		return m, tea.Batch(m.loadChats(), m.checkHealth())

	case chatDeletedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.session.RemoveChat(msg.chatID)
		m.status = ""
		return m, m.loadChats()

	case healthMsg:
		m.healthy = msg.healthy
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+n":
		if m.session.State() == client.StateSending {
			m.status = client.ErrBusy.Error()
			return m, nil
		}
		return m, m.createChat()

	case "esc":
		m.session.ReturnHome()
		m.messages = nil
		m.status = ""
		return m, m.loadChats()

	case "ctrl+d":
		if id, ok := m.session.ActiveChatID(); ok && m.session.State() != client.StateSending {
			return m, m.deleteChat(id)
		}
		if m.session.State() == client.StateHome && len(m.session.Chats()) > 0 {
			return m, m.deleteChat(m.session.Chats()[m.cursor].ID)
		}
		return m, nil

	case "up", "ctrl+k":
		if m.session.State() == client.StateHome && m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "ctrl+j":
		if m.session.State() == client.StateHome && m.cursor < len(m.session.Chats())-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		if m.session.State() == client.StateHome {
			if chats := m.session.Chats(); len(chats) > 0 {
				return m, m.openChat(chats[m.cursor].ID)
			}
			return m, nil
		}
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a turn through the session state machine. A send while
// one is in flight is rejected here and never reaches the server.
func (m *Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	seq, err := m.session.StartSend()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	chatID, _ := m.session.ActiveChatID()
	m.messages = append(m.messages, domain.Message{
		Role:      domain.RoleUser,
		Content:   text,
		CreatedAt: time.Now(),
	})
	m.input.Reset()
	m.status = ""
	m.refreshViewport()
	return m, tea.Batch(m.sendTurn(seq, chatID, text), m.spin.Tick)
}
