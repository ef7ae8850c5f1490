package vault

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"securepass/crypto"

	"github.com/google/uuid"
)

// minBlobLength is the smallest valid decoded blob: salt, IV, one cipher
// block and the authentication tag.
const minBlobLength = crypto.SaltLength + crypto.IVLength + crypto.BlockSize + crypto.TagLength

var (
	ErrMalformedBlob = errors.New("malformed vault blob")
	ErrBlobTooShort  = errors.New("vault blob too short")
)

// payload is the decrypted vault contents. ExportedAt is stamped on
// export files and absent from the main vault file.
type payload struct {
	ExportedAt string  `json:"exported_at,omitempty"`
	Entries    []Entry `json:"entries"`
}

// PackBlob assembles salt || iv || sealed into a single base64 text blob,
// the on-disk representation of an encrypted vault.
func PackBlob(salt, iv, sealed []byte) string {
	combined := make([]byte, 0, len(salt)+len(iv)+len(sealed))
	combined = append(combined, salt...)
	combined = append(combined, iv...)
	combined = append(combined, sealed...)
	return base64.StdEncoding.EncodeToString(combined)
}

// UnpackBlob splits a base64 blob back into salt, IV and sealed
// ciphertext by fixed byte offsets.
func UnpackBlob(blob string) (salt, iv, sealed []byte, err error) {
	combined, err := base64.StdEncoding.DecodeString(strings.TrimSpace(blob))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrMalformedBlob, err)
	}
	if len(combined) < minBlobLength {
		return nil, nil, nil, ErrBlobTooShort
	}

	salt = combined[:crypto.SaltLength]
	iv = combined[crypto.SaltLength : crypto.SaltLength+crypto.IVLength]
	sealed = combined[crypto.SaltLength+crypto.IVLength:]
	return salt, iv, sealed, nil
}

// Serialize encodes entries as the vault's JSON payload, preserving
// insertion order. When exportedAt is non-zero it is stamped into the
// payload (export files carry it, the main vault file does not).
func Serialize(entries []Entry, exportedAt time.Time) ([]byte, error) {
	p := payload{Entries: entries}
	if p.Entries == nil {
		p.Entries = []Entry{}
	}
	if !exportedAt.IsZero() {
		p.ExportedAt = exportedAt.UTC().Format(time.RFC3339)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize vault payload: %w", err)
	}
	return data, nil
}

// Deserialize decodes a JSON payload back into an ordered entry list.
// Entries written by older tools may lack an ID; one is assigned so the
// rest of the program can rely on it.
func Deserialize(data []byte) ([]Entry, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse vault payload: %w", err)
	}

	entries := p.Entries
	if entries == nil {
		entries = []Entry{}
	}
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.New().String()
		}
	}
	return entries, nil
}
