package vault

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"securepass/crypto"
)

const testMaster = "CorrectHorseBattery1!"

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.vault")
	return NewManager(path, crypto.DefaultIterations)
}

func strPtr(s string) *string { return &s }

func TestVaultLifecycleScenario(t *testing.T) {
	m := newTestManager(t)

	if m.State() != StateUninitialized {
		t.Fatalf("initial state = %v, want uninitialized", m.State())
	}

	if err := m.Create(testMaster); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if m.State() != StateUnlocked {
		t.Fatalf("state after create = %v, want unlocked", m.State())
	}

	m.Lock()
	if m.State() != StateLocked {
		t.Fatalf("state after lock = %v, want locked", m.State())
	}

	if err := m.Unlock("wrong"); !errors.Is(err, ErrUnlockFailed) {
		t.Fatalf("Unlock() with wrong password error = %v, want ErrUnlockFailed", err)
	}
	if m.State() != StateLocked {
		t.Fatal("failed unlock must leave the vault locked")
	}

	if err := m.Unlock(testMaster); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	added, err := m.Add("GitHub", "dev@x.com", "p@ss", "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if added.ID == "" || added.CreatedAt.IsZero() {
		t.Fatal("Add() should assign ID and timestamps")
	}

	entries := m.Entries()
	if len(entries) != 1 {
		t.Fatalf("entry count = %d, want 1", len(entries))
	}

	m.Lock()
	if got := m.Entries(); got != nil {
		t.Fatalf("Entries() while locked = %v, want nil", got)
	}

	if err := m.Unlock(testMaster); err != nil {
		t.Fatalf("Unlock() after lock error = %v", err)
	}

	entries = m.Entries()
	if len(entries) != 1 {
		t.Fatalf("entry count after relock = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Service != "GitHub" || e.Username != "dev@x.com" || e.Password != "p@ss" || e.Notes != "" {
		t.Errorf("entry fields changed across lock/unlock: %+v", e)
	}
	if e.ID != added.ID || !e.CreatedAt.Equal(added.CreatedAt) {
		t.Errorf("entry identity changed across lock/unlock: %+v", e)
	}
}

func TestCreateRejectsExistingVault(t *testing.T) {
	m := newTestManager(t)

	if err := m.Create(testMaster); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	other := NewManager(m.Path(), crypto.DefaultIterations)
	if err := other.Create(testMaster); !errors.Is(err, ErrVaultExists) {
		t.Errorf("Create() over existing vault error = %v, want ErrVaultExists", err)
	}
}

func TestCreateRejectsShortMasterPassword(t *testing.T) {
	m := newTestManager(t)

	if err := m.Create("short"); !errors.Is(err, ErrMasterTooShort) {
		t.Errorf("Create() error = %v, want ErrMasterTooShort", err)
	}
	if exists, _ := m.VaultExists(); exists {
		t.Error("failed create must not leave a vault file behind")
	}
}

func TestUnlockMissingVault(t *testing.T) {
	m := newTestManager(t)

	if err := m.Unlock(testMaster); !errors.Is(err, ErrVaultMissing) {
		t.Errorf("Unlock() error = %v, want ErrVaultMissing", err)
	}
}

func TestAddDuplicateIdentity(t *testing.T) {
	m := newTestManager(t)
	if err := m.Create(testMaster); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := m.Add("Gmail", "a@x.com", "pw1", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if _, err := m.Add("Gmail", "a@x.com", "pw2", ""); !errors.Is(err, ErrDuplicateEntry) {
		t.Errorf("Add() duplicate error = %v, want ErrDuplicateEntry", err)
	}

	// Identity match is case-insensitive.
	if _, err := m.Add("GMAIL", "A@X.com", "pw3", ""); !errors.Is(err, ErrDuplicateEntry) {
		t.Errorf("Add() case-variant duplicate error = %v, want ErrDuplicateEntry", err)
	}

	if len(m.Entries()) != 1 {
		t.Errorf("entry count = %d, want 1", len(m.Entries()))
	}
}

func TestUpdateEntry(t *testing.T) {
	m := newTestManager(t)
	if err := m.Create(testMaster); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	added, err := m.Add("GitHub", "dev@x.com", "old-pass", "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := m.Update(0, EntryUpdate{Password: strPtr("new-pass"), Notes: strPtr("rotated")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	updated, err := m.Entry(0)
	if err != nil {
		t.Fatalf("Entry() error = %v", err)
	}
	if updated.Password != "new-pass" || updated.Notes != "rotated" {
		t.Errorf("updated entry = %+v", updated)
	}
	if updated.Service != "GitHub" || updated.Username != "dev@x.com" {
		t.Error("untouched fields must be preserved")
	}
	if !updated.CreatedAt.Equal(added.CreatedAt) {
		t.Error("CreatedAt must be immutable")
	}
	if !updated.UpdatedAt.After(added.UpdatedAt) && !updated.UpdatedAt.Equal(added.UpdatedAt) {
		t.Error("UpdatedAt must be refreshed")
	}

	if err := m.Update(5, EntryUpdate{Notes: strPtr("x")}); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Update() out of range error = %v, want ErrEntryNotFound", err)
	}
	if err := m.Update(-1, EntryUpdate{Notes: strPtr("x")}); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Update() negative index error = %v, want ErrEntryNotFound", err)
	}
}

func TestUpdateKeepsIdentityUnique(t *testing.T) {
	m := newTestManager(t)
	if err := m.Create(testMaster); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := m.Add("Gmail", "a@x.com", "pw", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := m.Add("GitHub", "dev@x.com", "pw", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	err := m.Update(1, EntryUpdate{Service: strPtr("gmail"), Username: strPtr("A@x.com")})
	if !errors.Is(err, ErrDuplicateEntry) {
		t.Errorf("Update() into existing identity error = %v, want ErrDuplicateEntry", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	m := newTestManager(t)
	if err := m.Create(testMaster); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for _, svc := range []string{"first", "second", "third"} {
		if _, err := m.Add(svc, "user", "password", ""); err != nil {
			t.Fatalf("Add(%s) error = %v", svc, err)
		}
	}

	if err := m.Delete(1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	entries := m.Entries()
	if len(entries) != 2 {
		t.Fatalf("entry count = %d, want 2", len(entries))
	}
	if entries[0].Service != "first" || entries[1].Service != "third" {
		t.Errorf("remaining entries = %s, %s", entries[0].Service, entries[1].Service)
	}

	if err := m.Delete(2); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Delete() out of range error = %v, want ErrEntryNotFound", err)
	}
}

func TestSearchEntries(t *testing.T) {
	m := newTestManager(t)
	if err := m.Create(testMaster); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	seed := []struct{ service, username, notes string }{
		{"GitHub", "dev@x.com", "work account"},
		{"Gmail", "personal@x.com", ""},
		{"Bank", "dev@x.com", "github backup codes"},
	}
	for _, s := range seed {
		if _, err := m.Add(s.service, s.username, "password", s.notes); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	tests := []struct {
		query string
		want  []int
	}{
		{"github", []int{0, 2}}, // matches service and notes
		{"DEV@", []int{0, 2}},
		{"personal", []int{1}},
		{"", []int{0, 1, 2}},
		{"nothing", nil},
	}

	for _, tt := range tests {
		got := m.Search(tt.query)
		if len(got) != len(tt.want) {
			t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
				break
			}
		}
	}
}

func TestOperationsRequireUnlock(t *testing.T) {
	m := newTestManager(t)
	if err := m.Create(testMaster); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	m.Lock()

	if _, err := m.Add("svc", "user", "password", ""); !errors.Is(err, ErrVaultLocked) {
		t.Errorf("Add() while locked error = %v, want ErrVaultLocked", err)
	}
	if err := m.Update(0, EntryUpdate{}); !errors.Is(err, ErrVaultLocked) {
		t.Errorf("Update() while locked error = %v, want ErrVaultLocked", err)
	}
	if err := m.Delete(0); !errors.Is(err, ErrVaultLocked) {
		t.Errorf("Delete() while locked error = %v, want ErrVaultLocked", err)
	}
	if got := m.Search("x"); got != nil {
		t.Errorf("Search() while locked = %v, want nil", got)
	}
	if err := m.Export(filepath.Join(t.TempDir(), "out.vault")); !errors.Is(err, ErrVaultLocked) {
		t.Errorf("Export() while locked error = %v, want ErrVaultLocked", err)
	}
	if _, err := m.Import("nope"); !errors.Is(err, ErrVaultLocked) {
		t.Errorf("Import() while locked error = %v, want ErrVaultLocked", err)
	}
	if _, err := m.GetStats(); !errors.Is(err, ErrVaultLocked) {
		t.Errorf("GetStats() while locked error = %v, want ErrVaultLocked", err)
	}
}

func TestFreshSaltPerSave(t *testing.T) {
	m := newTestManager(t)
	if err := m.Create(testMaster); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := m.Add("GitHub", "dev@x.com", "password", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// Two exports of the identical collection must differ byte for byte
	// because salt and IV are regenerated on every encryption.
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.vault")
	pathB := filepath.Join(dir, "b.vault")

	if err := m.Export(pathA); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if err := m.Export(pathB); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	blobA, err := os.ReadFile(pathA)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	blobB, err := os.ReadFile(pathB)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	if string(blobA) == string(blobB) {
		t.Error("consecutive encryptions of identical content produced identical blobs")
	}
}

func TestExportImportMerge(t *testing.T) {
	m := newTestManager(t)
	if err := m.Create(testMaster); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := m.Add("GitHub", "dev@x.com", "pw1", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := m.Add("Gmail", "a@x.com", "pw2", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	exportPath := filepath.Join(t.TempDir(), "backup.vault")
	if err := m.Export(exportPath); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	// Importing into the same vault adds nothing: every identity exists.
	added, err := m.Import(exportPath)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if added != 0 {
		t.Errorf("Import() added = %d, want 0", added)
	}

	// After deleting one entry the import restores exactly that entry.
	if err := m.Delete(0); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	added, err = m.Import(exportPath)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if added != 1 {
		t.Errorf("Import() added = %d, want 1", added)
	}
	if len(m.Entries()) != 2 {
		t.Errorf("entry count = %d, want 2", len(m.Entries()))
	}
}

func TestImportDifferentMasterPasswordFails(t *testing.T) {
	src := newTestManager(t)
	if err := src.Create("source-master-pw"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := src.Add("GitHub", "dev@x.com", "pw", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	exportPath := filepath.Join(t.TempDir(), "backup.vault")
	if err := src.Export(exportPath); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	dst := newTestManager(t)
	if err := dst.Create("different-master-pw"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := dst.Import(exportPath); !errors.Is(err, ErrImportMismatch) {
		t.Errorf("Import() error = %v, want ErrImportMismatch", err)
	}
	if len(dst.Entries()) != 0 {
		t.Error("failed import must not modify the vault")
	}
}

func TestUnlockCorruptedFile(t *testing.T) {
	m := newTestManager(t)
	if err := m.Create(testMaster); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	m.Lock()

	// Garbage that is not even valid base64.
	if err := os.WriteFile(m.Path(), []byte("this is not a vault"), 0600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if err := m.Unlock(testMaster); !errors.Is(err, ErrUnlockFailed) {
		t.Errorf("Unlock() of corrupt file error = %v, want ErrUnlockFailed", err)
	}
}

func TestUnlockDetectsTampering(t *testing.T) {
	m := newTestManager(t)
	if err := m.Create(testMaster); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := m.Add("GitHub", "dev@x.com", "pw", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	m.Lock()

	raw, err := os.ReadFile(m.Path())
	if err != nil {
		t.Fatalf("read vault: %v", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(string(raw[:len(raw)-1]))
	if err != nil {
		t.Fatalf("decode vault: %v", err)
	}

	// Flip one ciphertext byte past the salt and IV.
	decoded[crypto.SaltLength+crypto.IVLength] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(decoded)
	if err := os.WriteFile(m.Path(), []byte(tampered), 0600); err != nil {
		t.Fatalf("write tampered vault: %v", err)
	}

	if err := m.Unlock(testMaster); !errors.Is(err, ErrUnlockFailed) {
		t.Errorf("Unlock() of tampered vault error = %v, want ErrUnlockFailed", err)
	}
}

func TestGetStats(t *testing.T) {
	m := newTestManager(t)
	if err := m.Create(testMaster); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stats, err := m.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalEntries != 0 {
		t.Errorf("empty vault total = %d, want 0", stats.TotalEntries)
	}

	seed := []struct{ service, password string }{
		{"one", "short"},            // weak
		{"two", "shared-password1"}, // reused
		{"three", "shared-password1"},
		{"four", "Unique-And-Long1!"},
	}
	for _, s := range seed {
		if _, err := m.Add(s.service, "user", s.password, ""); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	stats, err = m.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalEntries != 4 {
		t.Errorf("total = %d, want 4", stats.TotalEntries)
	}
	if stats.WeakPasswords != 1 {
		t.Errorf("weak = %d, want 1", stats.WeakPasswords)
	}
	if stats.ReusedSecrets != 1 {
		t.Errorf("reused = %d, want 1", stats.ReusedSecrets)
	}
	if stats.OldestEntry.After(stats.NewestEntry) {
		t.Error("oldest entry is newer than newest entry")
	}
}
