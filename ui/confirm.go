package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmScreen asks for confirmation before destructive actions.
type ConfirmScreen struct {
	ctx      *Context
	action   ConfirmAction
	position int
	parent   Screen
	errorMsg string
}

// NewConfirmScreen creates a confirmation screen. For ConfirmDelete the
// position identifies the entry; for ConfirmLock it is ignored.
func NewConfirmScreen(ctx *Context, action ConfirmAction, position int, parent Screen) *ConfirmScreen {
	return &ConfirmScreen{
		ctx:      ctx,
		action:   action,
		position: position,
		parent:   parent,
	}
}

func (s *ConfirmScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch keyMsg.String() {
	case "y", "Y", "enter":
		return s.confirm()
	case "n", "N", "esc":
		return s.parent, nil
	}

	return s, nil
}

func (s *ConfirmScreen) confirm() (Screen, tea.Cmd) {
	switch s.action {
	case ConfirmDelete:
		if err := s.ctx.Manager.Delete(s.position); err != nil {
			s.errorMsg = fmt.Sprintf("Error: %v", err)
			return s, nil
		}
		return NewListScreen(s.ctx), nil

	case ConfirmLock:
		s.ctx.Manager.Lock()
		s.ctx.Clipboard.ClearNow()
		return NewUnlockScreen(s.ctx), nil
	}

	return s.parent, nil
}

func (s *ConfirmScreen) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🔐 SecurePass - Confirm"))
	b.WriteString("\n\n")

	switch s.action {
	case ConfirmDelete:
		if entry, err := s.ctx.Manager.Entry(s.position); err == nil {
			b.WriteString(fmt.Sprintf("Delete entry %s (%s)?\n", entry.Service, entry.Username))
		} else {
			b.WriteString("Delete this entry?\n")
		}
	case ConfirmLock:
		b.WriteString("Lock the vault?\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("y:confirm • n/Esc:cancel"))

	if s.errorMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(ErrorStyle.Render("✗ " + s.errorMsg))
	}

	return b.String()
}
