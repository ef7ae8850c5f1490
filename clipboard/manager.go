// Package clipboard copies secrets to the system clipboard and clears
// them again after a timeout.
package clipboard

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// Manager schedules automatic clearing of copied secrets. A generation
// counter ensures a stale timer never clears a newer copy.
type Manager struct {
	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
}

// NewManager creates a clipboard manager.
func NewManager() *Manager {
	return &Manager{}
}

// Copy places text on the clipboard and schedules clearing after timeout.
// A new Copy supersedes any pending clear.
func (m *Manager) Copy(text string, timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}

	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w", err)
	}

	m.generation++
	gen := m.generation
	m.timer = time.AfterFunc(timeout, func() {
		m.clearIfCurrent(gen)
	})

	return nil
}

// clearIfCurrent clears the clipboard only when no newer Copy happened
// since the timer was armed.
func (m *Manager) clearIfCurrent(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		return
	}
	m.timer = nil
	if err := clipboard.WriteAll(""); err != nil {
		log.Printf("warning: failed to clear clipboard: %v", err)
	}
}

// ClearNow immediately clears the clipboard and cancels any pending clear.
func (m *Manager) ClearNow() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.generation++

	if err := clipboard.WriteAll(""); err != nil {
		return fmt.Errorf("failed to clear clipboard: %w", err)
	}
	return nil
}

// Close cancels any pending timer. Should be called on program exit.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.generation++
}
