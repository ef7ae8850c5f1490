package ui

import (
	"time"

	"securepass/clipboard"
	"securepass/vault"

	tea "github.com/charmbracelet/bubbletea"
)

// App is the main TUI application model.
type App struct {
	screen Screen
	ctx    *Context
}

// NewApp creates the TUI application around an injected vault manager.
func NewApp(manager *vault.Manager, config *Config) *App {
	ctx := &Context{
		Manager:      manager,
		Clipboard:    clipboard.NewManager(),
		Config:       config,
		LastActivity: time.Now(),
	}

	app := &App{ctx: ctx}

	// Determine initial screen
	exists, err := manager.VaultExists()
	if err != nil || !exists {
		app.screen = NewSetupScreen(ctx)
	} else {
		app.screen = NewUnlockScreen(ctx)
	}

	return app
}

// Init initializes the application.
func (a *App) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles messages and updates the application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		a.ctx.LastActivity = time.Now()

		// Global quit commands
		switch msg.String() {
		case "ctrl+c", "ctrl+q":
			return a, tea.Quit
		}

	case TickMsg:
		// Lock the vault after a period of inactivity.
		if a.ctx.Manager.State() == vault.StateUnlocked {
			if time.Since(a.ctx.LastActivity) > a.ctx.Config.InactivityTimeout {
				a.ctx.Manager.Lock()
				a.ctx.Clipboard.ClearNow()
				a.screen = NewUnlockScreen(a.ctx)
			}
		}
		return a, tickCmd()
	}

	newScreen, cmd := a.screen.Update(msg)
	a.screen = newScreen
	return a, cmd
}

// View renders the application.
func (a *App) View() string {
	return a.screen.View()
}

// Close locks the vault and wipes the clipboard. Called on program exit.
func (a *App) Close() {
	if a.ctx.Clipboard != nil {
		a.ctx.Clipboard.ClearNow()
		a.ctx.Clipboard.Close()
	}
	a.ctx.Manager.Lock()
}
