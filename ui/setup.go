package ui

import (
	"fmt"
	"strings"

	"securepass/generator"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SetupScreen handles initial vault creation.
type SetupScreen struct {
	ctx      *Context
	inputs   []textinput.Model
	cursor   int
	errorMsg string
}

// NewSetupScreen creates a new setup screen.
func NewSetupScreen(ctx *Context) *SetupScreen {
	inputs := make([]textinput.Model, 2)

	inputs[0] = textinput.New()
	inputs[0].Placeholder = "Master password"
	inputs[0].EchoMode = textinput.EchoPassword
	inputs[0].Focus()

	inputs[1] = textinput.New()
	inputs[1].Placeholder = "Confirm password"
	inputs[1].EchoMode = textinput.EchoPassword

	return &SetupScreen{
		ctx:    ctx,
		inputs: inputs,
		cursor: 0,
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		newCursor, submit := NavigateInputs(msg, s.cursor, len(s.inputs))
		if newCursor != s.cursor {
			s.cursor = newCursor
			FocusInput(s.inputs, s.cursor)
			return s, nil
		}

		if submit {
			password := s.inputs[0].Value()
			confirm := s.inputs[1].Value()

			if password != confirm {
				s.errorMsg = "Passwords do not match"
				return s, nil
			}
			if err := s.ctx.Manager.Create(password); err != nil {
				s.errorMsg = fmt.Sprintf("Error: %v", err)
				return s, nil
			}

			return NewListScreen(s.ctx), nil
		}
	}

	var cmd tea.Cmd
	s.inputs[s.cursor], cmd = s.inputs[s.cursor].Update(msg)
	return s, cmd
}

func (s *SetupScreen) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🔐 SecurePass - Initial Setup"))
	b.WriteString("\n\n")

	for i := range s.inputs {
		b.WriteString(s.inputs[i].View())
		b.WriteString("\n")
	}

	// Live strength preview of the master password.
	if password := s.inputs[0].Value(); password != "" {
		strength := generator.Score(password)
		line := fmt.Sprintf("Strength: %s (%d/100)", strength.Level, strength.Score)
		if strength.Score >= 60 {
			b.WriteString("\n" + SuccessStyle.Render(line))
		} else {
			b.WriteString("\n" + WarningStyle.Render(line))
			if len(strength.Feedback) > 0 {
				b.WriteString("\n" + HelpStyle.Render(strength.Feedback[0]))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("Tab/Shift+Tab to navigate • Enter to create • Ctrl+C to quit"))

	if s.errorMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(ErrorStyle.Render("✗ " + s.errorMsg))
	}

	return b.String()
}
