package ui

import (
	"fmt"
	"strings"

	"securepass/generator"

	tea "github.com/charmbracelet/bubbletea"
)

// GeneratorScreen produces random passwords with adjustable options and
// shows the strength score for each result.
type GeneratorScreen struct {
	ctx      *Context
	parent   Screen
	opts     generator.Options
	password string
	errorMsg string
	copied   bool
}

// NewGeneratorScreen creates the generator screen with default options
// and an initial password already generated.
func NewGeneratorScreen(ctx *Context, parent Screen) *GeneratorScreen {
	s := &GeneratorScreen{
		ctx:    ctx,
		parent: parent,
		opts:   generator.DefaultOptions(),
	}
	s.regenerate()
	return s
}

func (s *GeneratorScreen) regenerate() {
	s.copied = false
	password, err := generator.Generate(s.opts)
	if err != nil {
		s.password = ""
		s.errorMsg = fmt.Sprintf("Error: %v", err)
		return
	}
	s.errorMsg = ""
	s.password = password
}

func (s *GeneratorScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch keyMsg.String() {
	case "esc", "q":
		return s.parent, nil

	case "g", "r", "enter":
		s.regenerate()

	case "c":
		if s.password != "" {
			if err := s.ctx.Clipboard.Copy(s.password, s.ctx.Config.ClipboardTimeout); err != nil {
				s.errorMsg = fmt.Sprintf("Error copying: %v", err)
			} else {
				s.copied = true
			}
		}

	case "+", "=":
		s.opts.Length++
		s.regenerate()

	case "-":
		if s.opts.Length > generator.MinLength {
			s.opts.Length--
			s.regenerate()
		}

	case "1":
		s.opts.UseLower = !s.opts.UseLower
		s.regenerate()

	case "2":
		s.opts.UseUpper = !s.opts.UseUpper
		s.regenerate()

	case "3":
		s.opts.UseDigits = !s.opts.UseDigits
		s.regenerate()

	case "4":
		s.opts.UseSpecial = !s.opts.UseSpecial
		s.regenerate()

	case "5":
		s.opts.ExcludeSimilar = !s.opts.ExcludeSimilar
		s.regenerate()
	}

	return s, nil
}

func checkbox(label string, on bool) string {
	if on {
		return "[x] " + label
	}
	return "[ ] " + label
}

func (s *GeneratorScreen) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🔐 SecurePass - Password Generator"))
	b.WriteString("\n\n")

	if s.password != "" {
		b.WriteString(HighlightStyle.Render(s.password))
		b.WriteString("\n")

		strength := generator.Score(s.password)
		line := fmt.Sprintf("Strength: %s (%d/100)", strength.Level, strength.Score)
		if strength.Score >= 60 {
			b.WriteString(SuccessStyle.Render(line))
		} else {
			b.WriteString(WarningStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\nLength: %d  (+/- to adjust)\n\n", s.opts.Length))
	b.WriteString(ItemStyle.Render(checkbox("1: lowercase", s.opts.UseLower)) + "\n")
	b.WriteString(ItemStyle.Render(checkbox("2: uppercase", s.opts.UseUpper)) + "\n")
	b.WriteString(ItemStyle.Render(checkbox("3: digits", s.opts.UseDigits)) + "\n")
	b.WriteString(ItemStyle.Render(checkbox("4: special", s.opts.UseSpecial)) + "\n")
	b.WriteString(ItemStyle.Render(checkbox("5: exclude similar (l/I/O/0/1...)", s.opts.ExcludeSimilar)) + "\n")

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("g:regenerate • c:copy • 1-5:toggle • Esc:back"))

	if s.copied {
		timeout := int(s.ctx.Config.ClipboardTimeout.Seconds())
		b.WriteString("\n\n")
		b.WriteString(SuccessStyle.Render(fmt.Sprintf("✓ Copied (auto-clear in %ds)", timeout)))
	}
	if s.errorMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(ErrorStyle.Render("✗ " + s.errorMsg))
	}

	return b.String()
}
