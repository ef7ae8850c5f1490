package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// UnlockScreen prompts for the master password of an existing vault.
type UnlockScreen struct {
	ctx      *Context
	input    textinput.Model
	errorMsg string
}

// NewUnlockScreen creates a new unlock screen.
func NewUnlockScreen(ctx *Context) *UnlockScreen {
	input := textinput.New()
	input.Placeholder = "Master password"
	input.EchoMode = textinput.EchoPassword
	input.Focus()

	return &UnlockScreen{
		ctx:   ctx,
		input: input,
	}
}

func (s *UnlockScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			password := s.input.Value()
			if password == "" {
				s.errorMsg = "Password cannot be empty"
				return s, nil
			}

			if err := s.ctx.Manager.Unlock(password); err != nil {
				s.errorMsg = "Wrong master password or corrupted vault"
				s.input.SetValue("")
				return s, nil
			}

			return NewListScreen(s.ctx), nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *UnlockScreen) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🔐 SecurePass - Unlock Vault"))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("Press Enter to unlock • Ctrl+C to quit"))

	if s.errorMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(ErrorStyle.Render("✗ " + s.errorMsg))
	}

	return b.String()
}
