package ui

import (
	"fmt"
	"strings"

	"securepass/generator"
	"securepass/vault"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// AddScreen collects a new entry.
type AddScreen struct {
	ctx      *Context
	inputs   []textinput.Model
	cursor   int
	errorMsg string
}

// NewAddScreen creates a new add-entry screen.
func NewAddScreen(ctx *Context) *AddScreen {
	return &AddScreen{
		ctx:    ctx,
		inputs: newEntryInputs("", "", "", ""),
	}
}

func newEntryInputs(service, username, password, notes string) []textinput.Model {
	inputs := make([]textinput.Model, 4)

	inputs[0] = textinput.New()
	inputs[0].Placeholder = "Service (e.g. github.com)"
	inputs[0].SetValue(service)
	inputs[0].Focus()

	inputs[1] = textinput.New()
	inputs[1].Placeholder = "Username"
	inputs[1].SetValue(username)

	inputs[2] = textinput.New()
	inputs[2].Placeholder = "Password"
	inputs[2].EchoMode = textinput.EchoPassword
	inputs[2].SetValue(password)

	inputs[3] = textinput.New()
	inputs[3].Placeholder = "Notes (optional)"
	inputs[3].SetValue(notes)

	return inputs
}

func (s *AddScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return NewListScreen(s.ctx), nil
		}
		if msg.String() == "ctrl+g" {
			if password, err := generator.Generate(generator.DefaultOptions()); err == nil {
				s.inputs[2].SetValue(password)
			}
			return s, nil
		}

		newCursor, submit := NavigateInputs(msg, s.cursor, len(s.inputs))
		if newCursor != s.cursor {
			s.cursor = newCursor
			FocusInput(s.inputs, s.cursor)
			return s, nil
		}

		if submit {
			_, err := s.ctx.Manager.Add(
				s.inputs[0].Value(),
				s.inputs[1].Value(),
				s.inputs[2].Value(),
				s.inputs[3].Value(),
			)
			if err != nil {
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

func (s *AddScreen) View() string {
	return renderEntryForm("🔐 SecurePass - Add Entry", s.inputs, s.errorMsg)
}

// EditScreen edits the entry at a fixed vault position. Only fields the
// user actually changed are sent to the manager, so an untouched field
// never overwrites concurrent state.
type EditScreen struct {
	ctx      *Context
	position int
	original vault.Entry
	inputs   []textinput.Model
	cursor   int
	errorMsg string
}

// NewEditScreen creates an edit screen pre-filled with the entry at the
// given position.
func NewEditScreen(ctx *Context, position int) *EditScreen {
	entry, err := ctx.Manager.Entry(position)
	if err != nil {
		entry = vault.Entry{}
	}

	return &EditScreen{
		ctx:      ctx,
		position: position,
		original: entry,
		inputs:   newEntryInputs(entry.Service, entry.Username, entry.Password, entry.Notes),
	}
}

func (s *EditScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return NewListScreen(s.ctx), nil
		}
		if msg.String() == "ctrl+g" {
			if password, err := generator.Generate(generator.DefaultOptions()); err == nil {
				s.inputs[2].SetValue(password)
			}
			return s, nil
		}

		newCursor, submit := NavigateInputs(msg, s.cursor, len(s.inputs))
		if newCursor != s.cursor {
			s.cursor = newCursor
			FocusInput(s.inputs, s.cursor)
			return s, nil
		}

		if submit {
			update := vault.EntryUpdate{}
			if v := s.inputs[0].Value(); v != s.original.Service {
				update.Service = &v
			}
			if v := s.inputs[1].Value(); v != s.original.Username {
				update.Username = &v
			}
			if v := s.inputs[2].Value(); v != s.original.Password {
				update.Password = &v
			}
			if v := s.inputs[3].Value(); v != s.original.Notes {
				update.Notes = &v
			}

			if err := s.ctx.Manager.Update(s.position, update); err != nil {
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

func (s *EditScreen) View() string {
	return renderEntryForm("🔐 SecurePass - Edit Entry", s.inputs, s.errorMsg)
}

func renderEntryForm(title string, inputs []textinput.Model, errorMsg string) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	for i := range inputs {
		b.WriteString(inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("Tab to navigate • Ctrl+G to generate password • Enter to save • Esc to cancel"))

	if errorMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(ErrorStyle.Render("✗ " + errorMsg))
	}

	return b.String()
}

// ExportScreen writes an encrypted backup of the vault to a chosen path.
type ExportScreen struct {
	ctx      *Context
	parent   Screen
	input    textinput.Model
	errorMsg string
}

// NewExportScreen creates an export screen returning to parent on cancel.
func NewExportScreen(ctx *Context, parent Screen) *ExportScreen {
	input := textinput.New()
	input.Placeholder = "Export path (e.g. /tmp/vault-backup.enc)"
	input.Focus()

	return &ExportScreen{
		ctx:    ctx,
		parent: parent,
		input:  input,
	}
}

func (s *ExportScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s.parent, nil
		case "enter":
			path := strings.TrimSpace(s.input.Value())
			if path == "" {
				s.errorMsg = "Path cannot be empty"
				return s, nil
			}
			if err := s.ctx.Manager.Export(path); err != nil {
				s.errorMsg = fmt.Sprintf("Error: %v", err)
				return s, nil
			}
			return NewListScreen(s.ctx), nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ExportScreen) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🔐 SecurePass - Export Vault"))
	b.WriteString("\n\n")
	b.WriteString("The backup is encrypted with your current master password.\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("Enter to export • Esc to cancel"))

	if s.errorMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(ErrorStyle.Render("✗ " + s.errorMsg))
	}

	return b.String()
}

// ImportScreen merges entries from an encrypted backup file. The backup
// must be encrypted with the same master password as the open vault.
type ImportScreen struct {
	ctx      *Context
	parent   Screen
	input    textinput.Model
	errorMsg string
}

// NewImportScreen creates an import screen returning to parent on cancel.
func NewImportScreen(ctx *Context, parent Screen) *ImportScreen {
	input := textinput.New()
	input.Placeholder = "Import path"
	input.Focus()

	return &ImportScreen{
		ctx:    ctx,
		parent: parent,
		input:  input,
	}
}

func (s *ImportScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s.parent, nil
		case "enter":
			path := strings.TrimSpace(s.input.Value())
			if path == "" {
				s.errorMsg = "Path cannot be empty"
				return s, nil
			}
			added, err := s.ctx.Manager.Import(path)
			if err != nil {
				s.errorMsg = fmt.Sprintf("Error: %v", err)
				return s, nil
			}
			list := NewListScreen(s.ctx)
			list.successMsg = fmt.Sprintf("Imported %d new entries", added)
			return list, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ImportScreen) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🔐 SecurePass - Import Vault"))
	b.WriteString("\n\n")
	b.WriteString("Entries matching an existing service/username pair are skipped.\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("Enter to import • Esc to cancel"))

	if s.errorMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(ErrorStyle.Render("✗ " + s.errorMsg))
	}

	return b.String()
}
