package ui

import (
	"fmt"
	"strings"

	"securepass/vault"

	tea "github.com/charmbracelet/bubbletea"
)

// ListScreen displays all entries with search functionality. Entries are
// addressed by their position in the vault; the filtered slice holds
// positions so mutations always target the right entry.
type ListScreen struct {
	ctx        *Context
	entries    []vault.Entry
	filtered   []int
	selected   int
	query      string
	searching  bool
	errorMsg   string
	successMsg string
}

// NewListScreen creates a new entry list screen.
func NewListScreen(ctx *Context) *ListScreen {
	s := &ListScreen{ctx: ctx}
	s.reload()
	return s
}

// reload re-fetches entries and re-applies the filter. Must be called
// after every mutation: deletion shifts positions.
func (s *ListScreen) reload() {
	s.entries = s.ctx.Manager.Entries()
	s.filter()
}

func (s *ListScreen) filter() {
	if s.query == "" {
		s.filtered = make([]int, len(s.entries))
		for i := range s.entries {
			s.filtered[i] = i
		}
	} else {
		s.filtered = s.ctx.Manager.Search(s.query)
	}
	if s.selected >= len(s.filtered) {
		s.selected = len(s.filtered) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

// selectedPosition returns the vault position of the highlighted entry.
func (s *ListScreen) selectedPosition() (int, bool) {
	if len(s.filtered) == 0 {
		return 0, false
	}
	return s.filtered[s.selected], true
}

func (s *ListScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	s.errorMsg = ""
	s.successMsg = ""

	if s.searching {
		switch keyMsg.String() {
		case "esc":
			s.searching = false
			s.query = ""
			s.filter()
		case "enter":
			s.searching = false
		case "backspace":
			if len(s.query) > 0 {
				s.query = s.query[:len(s.query)-1]
				s.filter()
			}
		default:
			if keyMsg.Type == tea.KeyRunes {
				s.query += string(keyMsg.Runes)
				s.filter()
			}
		}
		return s, nil
	}

	switch keyMsg.String() {
	case "a":
		return NewAddScreen(s.ctx), nil

	case "e":
		if pos, ok := s.selectedPosition(); ok {
			return NewEditScreen(s.ctx, pos), nil
		}

	case "d":
		if pos, ok := s.selectedPosition(); ok {
			return NewConfirmScreen(s.ctx, ConfirmDelete, pos, s), nil
		}

	case "c":
		if pos, ok := s.selectedPosition(); ok {
			s.copyPassword(pos)
		}

	case "g":
		return NewGeneratorScreen(s.ctx, s), nil

	case "s":
		return NewStatsScreen(s.ctx, s), nil

	case "x":
		return NewExportScreen(s.ctx, s), nil

	case "i":
		return NewImportScreen(s.ctx, s), nil

	case "l":
		return NewConfirmScreen(s.ctx, ConfirmLock, 0, s), nil

	case "/":
		s.searching = true
		s.query = ""
		s.filter()

	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}

	case "down", "j":
		if s.selected < len(s.filtered)-1 {
			s.selected++
		}

	case "esc":
		s.query = ""
		s.filter()
	}

	return s, nil
}

func (s *ListScreen) copyPassword(pos int) {
	entry, err := s.ctx.Manager.Entry(pos)
	if err != nil {
		s.errorMsg = fmt.Sprintf("Error: %v", err)
		return
	}
	if err := s.ctx.Clipboard.Copy(entry.Password, s.ctx.Config.ClipboardTimeout); err != nil {
		s.errorMsg = fmt.Sprintf("Error copying: %v", err)
		return
	}
	timeout := int(s.ctx.Config.ClipboardTimeout.Seconds())
	s.successMsg = fmt.Sprintf("Password copied (auto-clear in %ds)", timeout)
}

func (s *ListScreen) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🔐 SecurePass - Vault"))
	b.WriteString("\n\n")

	if s.searching {
		b.WriteString(HighlightStyle.Render("Search: ") + s.query + "▊\n\n")
	} else if s.query != "" {
		b.WriteString(fmt.Sprintf("Search: %s (press / to modify, Esc to clear)\n\n", s.query))
	}

	if len(s.filtered) == 0 {
		if s.query != "" {
			b.WriteString("No entries match your search.\n")
		} else {
			b.WriteString("No entries stored. Press 'a' to add one.\n")
		}
	} else {
		for i, pos := range s.filtered {
			entry := s.entries[pos]
			line := fmt.Sprintf("%s (%s)", entry.Service, entry.Username)
			if i == s.selected {
				b.WriteString(SelectedItemStyle.Render("► " + line))
			} else {
				b.WriteString(ItemStyle.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if s.searching {
		b.WriteString(HelpStyle.Render("Type to search • Enter/Esc to exit search"))
	} else {
		b.WriteString(HelpStyle.Render("a:add • e:edit • d:delete • c:copy • g:generate • s:stats • x:export • i:import • l:lock • /:search"))
	}

	if s.errorMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(ErrorStyle.Render("✗ " + s.errorMsg))
	}
	if s.successMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(SuccessStyle.Render("✓ " + s.successMsg))
	}

	return b.String()
}
