// Package vault provides encrypted credential storage and the vault
// lifecycle: create, unlock, lock, mutate, export and import.
package vault

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrServiceRequired  = errors.New("service is required")
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
)

// Entry represents a stored credential with metadata. Identity is the
// (service, username) pair compared case-insensitively; it must be unique
// within a vault.
type Entry struct {
	ID        string    `json:"id,omitempty"`
	Service   string    `json:"service"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Copy returns a deep copy of the entry.
func (e Entry) Copy() Entry {
	return Entry{
		ID:        e.ID,
		Service:   e.Service,
		Username:  e.Username,
		Password:  e.Password,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// Validate checks that the entry has the required fields.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Service) == "" {
		return ErrServiceRequired
	}
	if strings.TrimSpace(e.Username) == "" {
		return ErrUsernameRequired
	}
	if e.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// SameIdentity reports whether two entries share the case-insensitive
// (service, username) identity.
func (e Entry) SameIdentity(other Entry) bool {
	return strings.EqualFold(e.Service, other.Service) &&
		strings.EqualFold(e.Username, other.Username)
}

// Matches reports whether the entry matches a case-insensitive substring
// query across service, username and notes.
func (e Entry) Matches(query string) bool {
	query = strings.ToLower(query)
	return strings.Contains(strings.ToLower(e.Service), query) ||
		strings.Contains(strings.ToLower(e.Username), query) ||
		strings.Contains(strings.ToLower(e.Notes), query)
}
