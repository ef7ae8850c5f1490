// Package ui implements the terminal interface. It is a thin shell over
// vault.Manager: all vault semantics live in the core, the screens only
// collect input and render results.
package ui

import (
	"time"

	"securepass/clipboard"
	"securepass/vault"

	tea "github.com/charmbracelet/bubbletea"
)

// Screen represents a UI screen that can handle updates and render itself.
type Screen interface {
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
}

// TickMsg is sent every second for inactivity tracking.
type TickMsg time.Time

// ConfirmAction represents an action that needs confirmation.
type ConfirmAction int

const (
	ConfirmDelete ConfirmAction = iota
	ConfirmLock
)

// Config holds UI configuration.
type Config struct {
	InactivityTimeout time.Duration
	ClipboardTimeout  time.Duration
}

// Context holds shared application state and dependencies. The vault
// manager is injected by main; screens never construct their own.
type Context struct {
	Manager      *vault.Manager
	Clipboard    *clipboard.Manager
	Config       *Config
	LastActivity time.Time
}
