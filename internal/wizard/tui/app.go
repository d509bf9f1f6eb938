package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/stepdialog/internal/dialog"
	"github.com/muurk/stepdialog/internal/submit"
)

// Host screen texts
const (
	HostTitle    = "ステップフォーム"
	HostHint     = "enter: フォームを開く"
	SuccessToast = "フォームが送信されました！"
)

// hostKeyMap defines key bindings for the host screen
type hostKeyMap struct {
	Open key.Binding
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k hostKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k hostKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Quit},
	}
}

// AppModel is the top-level model: a host screen that opens the form modal
type AppModel struct {
	Form FormModel

	// Toast is shown on the host screen after a successful submission
	Toast string

	// UI state
	Width  int
	Height int

	Help help.Model
	Keys hostKeyMap
}

// NewAppModel creates the application around a fresh dialog
func NewAppModel(s submit.Submitter, opts ...dialog.Option) AppModel {
	return AppModel{
		Form:   NewFormModel(dialog.New(opts...), s),
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Help:   help.New(),
		Keys: hostKeyMap{
			Open: key.NewBinding(
				key.WithKeys("enter", "o"),
				key.WithHelp("enter", "フォームを開く"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q"),
				key.WithHelp("q", "終了"),
			),
		},
	}
}

// WithContext sets the parent context of submissions
func (m AppModel) WithContext(ctx context.Context) AppModel {
	m.Form.Context = ctx
	return m
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update handles all messages and routes them to the host or the modal
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Form.Width = msg.Width
		m.Form.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			m.Form.Dialog.Close()
			return m, tea.Quit
		}
	}

	if m.Form.Dialog.IsOpen() || isFormMsg(msg) {
		var cmd tea.Cmd
		m.Form, cmd = m.Form.Update(msg)
		if m.Form.Submitted {
			m.Toast = SuccessToast
			m.Form.Submitted = false
		}
		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.Keys.Open):
			m.Toast = ""
			var cmd tea.Cmd
			m.Form, cmd = m.Form.Open()
			return m, cmd

		case key.Matches(keyMsg, m.Keys.Quit), keyMsg.String() == "esc":
			return m, tea.Quit
		}
	}

	return m, nil
}

// isFormMsg reports messages the modal must see even when it is closed,
// such as the late result of a canceled submission
func isFormMsg(msg tea.Msg) bool {
	_, ok := msg.(submitResultMsg)
	return ok
}

// View renders the host screen, or the modal on top of it
func (m AppModel) View() string {
	if m.Form.Dialog.IsOpen() {
		return RenderModal(m.Form.View(), m.Width, m.Height)
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(HostTitle))
	b.WriteString("\n\n")
	b.WriteString(SubtitleStyle.Render(HostHint))
	b.WriteString("\n")

	if m.Toast != "" {
		b.WriteString("\n")
		b.WriteString(ToastStyle.Render(m.Toast))
		b.WriteString("\n")
	}

	return RenderApplicationContainer(b.String(), m.Help.View(m.Keys), m.Width, m.Height)
}

// Regions exposes the modal's regions plus the host toast
func (m AppModel) Regions() map[string]string {
	regions := m.Form.Regions()
	if m.Toast != "" {
		regions["toast"] = m.Toast
	}
	return regions
}
