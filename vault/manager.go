package vault

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"securepass/crypto"

	"github.com/google/uuid"
)

// MinMasterPasswordLength is enforced when creating a vault. The check
// lives in the core rather than the UI so every caller gets it.
const MinMasterPasswordLength = 8

var (
	ErrVaultLocked    = errors.New("vault is not unlocked")
	ErrVaultExists    = errors.New("vault already exists")
	ErrVaultMissing   = errors.New("vault does not exist")
	ErrDuplicateEntry = errors.New("entry already exists for this service and username")
	ErrEntryNotFound  = errors.New("entry not found")
	ErrMasterTooShort = errors.New("master password must be at least 8 characters")
	ErrUnlockFailed   = errors.New("wrong master password or corrupted vault")
	ErrImportMismatch = errors.New("import file was encrypted with a different master password or is corrupted")
)

// State identifies the vault lifecycle state.
type State int

const (
	// StateUninitialized means no vault file exists yet.
	StateUninitialized State = iota
	// StateLocked means the file exists but no key is in memory.
	StateLocked
	// StateUnlocked means the master password and entries are in memory.
	StateUnlocked
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// EntryUpdate carries partial changes for Update. Nil fields are left
// untouched.
type EntryUpdate struct {
	Service  *string
	Username *string
	Password *string
	Notes    *string
}

// Stats summarizes the unlocked vault for the stats view.
type Stats struct {
	TotalEntries  int
	WeakPasswords int // secrets shorter than 8 characters
	ReusedSecrets int // distinct secrets appearing more than once
	OldestEntry   time.Time
	NewestEntry   time.Time
}

// Manager owns the credential collection while the vault is unlocked and
// orchestrates encryption and persistence. All methods are safe for
// concurrent use; persistence itself is single-writer under the lock.
type Manager struct {
	mu         sync.RWMutex
	path       string
	iterations int
	master     []byte // held only while unlocked, wiped on Lock
	entries    []Entry
	unlocked   bool
}

// NewManager creates a manager for the vault file at path. The iteration
// count must match whatever the file was created with; it is not stored
// in the blob.
func NewManager(path string, iterations int) *Manager {
	return &Manager{
		path:       path,
		iterations: iterations,
	}
}

// Path returns the vault file path.
func (m *Manager) Path() string {
	return m.path
}

// State reports the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.unlocked {
		return StateUnlocked
	}
	exists, err := Exists(m.path)
	if err != nil || !exists {
		return StateUninitialized
	}
	return StateLocked
}

// VaultExists checks whether the vault file is present on disk.
func (m *Manager) VaultExists() (bool, error) {
	return Exists(m.path)
}

// Create initializes a new empty vault protected by masterPassword and
// persists it immediately. It fails if a vault file already exists.
func (m *Manager) Create(masterPassword string) error {
	if len(masterPassword) < MinMasterPasswordLength {
		return ErrMasterTooShort
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	exists, err := Exists(m.path)
	if err != nil {
		return err
	}
	if exists {
		return ErrVaultExists
	}

	m.master = []byte(masterPassword)
	m.entries = []Entry{}
	m.unlocked = true

	if err := m.persistLocked(); err != nil {
		m.wipeLocked()
		return fmt.Errorf("failed to save new vault: %w", err)
	}
	return nil
}

// Unlock reads the vault file, derives the key from the stored salt and
// decrypts the entry collection. On any failure the vault stays locked
// and a single generic error is returned; wrong password and corrupt
// file are deliberately indistinguishable.
func (m *Manager) Unlock(masterPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	exists, err := Exists(m.path)
	if err != nil {
		return err
	}
	if !exists {
		return ErrVaultMissing
	}

	blob, err := readBlob(m.path)
	if err != nil {
		return err
	}

	entries, err := m.decryptBlob(blob, masterPassword)
	if err != nil {
		return ErrUnlockFailed
	}

	m.master = []byte(masterPassword)
	m.entries = entries
	m.unlocked = true
	return nil
}

// Lock discards the in-memory master password and entries unconditionally.
func (m *Manager) Lock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wipeLocked()
}

// Add appends a new entry and persists the vault. The case-insensitive
// (service, username) pair must be unique.
func (m *Manager) Add(service, username, password, notes string) (Entry, error) {
	entry := Entry{
		Service:  service,
		Username: username,
		Password: password,
		Notes:    notes,
	}
	if err := entry.Validate(); err != nil {
		return Entry{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.unlocked {
		return Entry{}, ErrVaultLocked
	}

	for _, existing := range m.entries {
		if existing.SameIdentity(entry) {
			return Entry{}, ErrDuplicateEntry
		}
	}

	now := time.Now().UTC()
	entry.ID = uuid.New().String()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	m.entries = append(m.entries, entry)
	if err := m.persistLocked(); err != nil {
		m.entries = m.entries[:len(m.entries)-1]
		return Entry{}, err
	}
	return entry.Copy(), nil
}

// Update applies partial changes to the entry at index and persists.
// CreatedAt is immutable; UpdatedAt is refreshed. Indices shift after a
// Delete, so callers must re-fetch indices after any mutation.
func (m *Manager) Update(index int, upd EntryUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.unlocked {
		return ErrVaultLocked
	}
	if index < 0 || index >= len(m.entries) {
		return ErrEntryNotFound
	}

	entry := m.entries[index].Copy()
	if upd.Service != nil {
		entry.Service = *upd.Service
	}
	if upd.Username != nil {
		entry.Username = *upd.Username
	}
	if upd.Password != nil {
		entry.Password = *upd.Password
	}
	if upd.Notes != nil {
		entry.Notes = *upd.Notes
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	// The identity may have changed; keep the uniqueness invariant.
	for i, existing := range m.entries {
		if i != index && existing.SameIdentity(entry) {
			return ErrDuplicateEntry
		}
	}

	entry.UpdatedAt = time.Now().UTC()

	previous := m.entries[index]
	m.entries[index] = entry
	if err := m.persistLocked(); err != nil {
		m.entries[index] = previous
		return err
	}
	return nil
}

// Delete removes the entry at index and persists. Later indices shift
// down by one.
func (m *Manager) Delete(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.unlocked {
		return ErrVaultLocked
	}
	if index < 0 || index >= len(m.entries) {
		return ErrEntryNotFound
	}

	removed := m.entries[index]
	m.entries = append(m.entries[:index], m.entries[index+1:]...)
	if err := m.persistLocked(); err != nil {
		m.entries = append(m.entries[:index], append([]Entry{removed}, m.entries[index:]...)...)
		return err
	}
	return nil
}

// Search returns the positions of entries whose service, username or
// notes contain the query, case-insensitively.
func (m *Manager) Search(query string) []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.unlocked {
		return nil
	}

	var results []int
	for i, entry := range m.entries {
		if entry.Matches(query) {
			results = append(results, i)
		}
	}
	return results
}

// Entries returns copies of all entries in insertion order, or nil while
// locked.
func (m *Manager) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.unlocked {
		return nil
	}

	entries := make([]Entry, len(m.entries))
	for i, entry := range m.entries {
		entries[i] = entry.Copy()
	}
	return entries
}

// Entry returns a copy of the entry at index.
func (m *Manager) Entry(index int) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.unlocked {
		return Entry{}, ErrVaultLocked
	}
	if index < 0 || index >= len(m.entries) {
		return Entry{}, ErrEntryNotFound
	}
	return m.entries[index].Copy(), nil
}

// Export re-encrypts the full entry collection with an independent fresh
// salt and IV and writes it to path in the same blob format as the main
// vault file.
func (m *Manager) Export(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.unlocked {
		return ErrVaultLocked
	}

	blob, err := m.encrypt(m.entries, time.Now().UTC())
	if err != nil {
		return err
	}
	return writeBlob(path, blob)
}

// Import decrypts an exported file with the currently unlocked master
// password, merges entries whose (service, username) identity is not
// already present, and persists. Files exported under a different master
// password fail cleanly. Returns the number of entries added.
func (m *Manager) Import(path string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.unlocked {
		return 0, ErrVaultLocked
	}

	blob, err := readBlob(path)
	if err != nil {
		return 0, err
	}

	imported, err := m.decryptBlob(blob, string(m.master))
	if err != nil {
		return 0, ErrImportMismatch
	}

	added := 0
	for _, candidate := range imported {
		duplicate := false
		for _, existing := range m.entries {
			if existing.SameIdentity(candidate) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		if candidate.ID == "" {
			candidate.ID = uuid.New().String()
		}
		m.entries = append(m.entries, candidate)
		added++
	}

	if added > 0 {
		if err := m.persistLocked(); err != nil {
			m.entries = m.entries[:len(m.entries)-added]
			return 0, err
		}
	}
	return added, nil
}

// GetStats computes summary statistics over the unlocked vault.
func (m *Manager) GetStats() (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.unlocked {
		return Stats{}, ErrVaultLocked
	}

	stats := Stats{TotalEntries: len(m.entries)}
	if len(m.entries) == 0 {
		return stats, nil
	}

	secretCounts := make(map[string]int)
	stats.OldestEntry = m.entries[0].CreatedAt
	stats.NewestEntry = m.entries[0].CreatedAt

	for _, entry := range m.entries {
		if len(entry.Password) < 8 {
			stats.WeakPasswords++
		}
		secretCounts[entry.Password]++

		if entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		if entry.CreatedAt.After(stats.NewestEntry) {
			stats.NewestEntry = entry.CreatedAt
		}
	}

	for _, count := range secretCounts {
		if count > 1 {
			stats.ReusedSecrets++
		}
	}
	return stats, nil
}

// persistLocked serializes and encrypts the entries with a fresh salt and
// IV, then atomically replaces the vault file. Caller must hold the lock.
func (m *Manager) persistLocked() error {
	blob, err := m.encrypt(m.entries, time.Time{})
	if err != nil {
		return err
	}
	return writeBlob(m.path, blob)
}

// encrypt serializes entries and seals them under a key derived from the
// current master password with a fresh salt. Each call produces a
// different blob even for identical contents.
func (m *Manager) encrypt(entries []Entry, exportedAt time.Time) (string, error) {
	plaintext, err := Serialize(entries, exportedAt)
	if err != nil {
		return "", err
	}
	defer crypto.SecureWipeBytes(plaintext)

	key, err := crypto.NewKey(string(m.master), m.iterations)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}
	defer key.Destroy()

	iv, sealed, err := key.Encrypt(plaintext)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt vault: %w", err)
	}

	return PackBlob(key.Salt(), iv, sealed), nil
}

// decryptBlob unpacks a blob, derives the key from its salt and returns
// the decoded entries.
func (m *Manager) decryptBlob(blob, masterPassword string) ([]Entry, error) {
	salt, iv, sealed, err := UnpackBlob(blob)
	if err != nil {
		return nil, err
	}

	key, err := crypto.DeriveKey(masterPassword, salt, m.iterations)
	if err != nil {
		return nil, err
	}
	defer key.Destroy()

	plaintext, err := key.Decrypt(sealed, iv)
	if err != nil {
		return nil, err
	}
	defer crypto.SecureWipeBytes(plaintext)

	return Deserialize(plaintext)
}

// wipeLocked clears key material and entries. Caller must hold the lock.
func (m *Manager) wipeLocked() {
	crypto.SecureWipeBytes(m.master)
	m.master = nil
	for i := range m.entries {
		crypto.SecureWipeBytes([]byte(m.entries[i].Password))
	}
	m.entries = nil
	m.unlocked = false
}
