package clipboard

import (
	"testing"
	"time"
)

func TestManagerCopy(t *testing.T) {
	m := NewManager()
	defer m.Close()

	if err := m.Copy("test-secret", 50*time.Millisecond); err != nil {
		t.Skipf("clipboard unavailable in this environment: %v", err)
	}

	// Wait for the auto-clear to fire; the point is that it must not panic
	// or race with Close. Clipboard contents cannot be asserted in CI.
	time.Sleep(100 * time.Millisecond)
}

func TestManagerClearNow(t *testing.T) {
	m := NewManager()
	defer m.Close()

	if err := m.Copy("test", time.Minute); err != nil {
		t.Skipf("clipboard unavailable in this environment: %v", err)
	}

	if err := m.ClearNow(); err != nil {
		t.Fatalf("ClearNow() error = %v", err)
	}
}

func TestManagerRapidCopies(t *testing.T) {
	m := NewManager()
	defer m.Close()

	// Each Copy supersedes the previous timer; none of them may fire
	// against a newer generation.
	for i := 0; i < 10; i++ {
		if err := m.Copy("test", time.Second); err != nil {
			t.Skipf("clipboard unavailable in this environment: %v", err)
		}
	}

	m.ClearNow()
}
