package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// StatsScreen shows a health summary of the stored credentials.
type StatsScreen struct {
	ctx      *Context
	parent   Screen
	errorMsg string
}

// NewStatsScreen creates the stats screen returning to parent on exit.
func NewStatsScreen(ctx *Context, parent Screen) *StatsScreen {
	return &StatsScreen{ctx: ctx, parent: parent}
}

func (s *StatsScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q", "enter":
			return s.parent, nil
		}
	}
	return s, nil
}

func (s *StatsScreen) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🔐 SecurePass - Vault Stats"))
	b.WriteString("\n\n")

	stats, err := s.ctx.Manager.GetStats()
	if err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("✗ Error: %v", err)))
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("Esc to go back"))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Total entries:   %d\n", stats.TotalEntries))

	weakLine := fmt.Sprintf("Weak passwords:  %d", stats.WeakPasswords)
	if stats.WeakPasswords > 0 {
		b.WriteString(WarningStyle.Render(weakLine))
	} else {
		b.WriteString(SuccessStyle.Render(weakLine))
	}
	b.WriteString("\n")

	reusedLine := fmt.Sprintf("Reused secrets:  %d", stats.ReusedSecrets)
	if stats.ReusedSecrets > 0 {
		b.WriteString(WarningStyle.Render(reusedLine))
	} else {
		b.WriteString(SuccessStyle.Render(reusedLine))
	}
	b.WriteString("\n")

	if stats.TotalEntries > 0 {
		b.WriteString(fmt.Sprintf("Oldest entry:    %s\n", stats.OldestEntry.Local().Format("2006-01-02 15:04")))
		b.WriteString(fmt.Sprintf("Newest entry:    %s\n", stats.NewestEntry.Local().Format("2006-01-02 15:04")))
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("Esc to go back"))

	return b.String()
}
