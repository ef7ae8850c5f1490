// Package crypto provides the vault's cryptographic primitives.
// Keys are derived with PBKDF2-SHA256; payloads are encrypted with
// AES-256-CBC and authenticated with an encrypt-then-MAC HMAC-SHA256 tag.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 work factor used for new vaults.
	// It is not stored in the blob, so changing it breaks existing vaults.
	DefaultIterations = 100000

	// SaltLength is the size of the key-derivation salt.
	SaltLength = 16

	// IVLength is the AES-CBC initialization vector size.
	IVLength = 16

	// TagLength is the size of the HMAC-SHA256 authentication tag.
	TagLength = sha256.Size

	// BlockSize is the AES cipher block size.
	BlockSize = aes.BlockSize

	encKeyLength = 32 // AES-256
	macKeyLength = 32
)

var (
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrInvalidSaltLength  = errors.New("invalid salt length")
	ErrInvalidIVLength    = errors.New("invalid IV length")
	ErrIterationsTooLow   = errors.New("iteration count too low (minimum 100000)")
	ErrCiphertextTooShort = errors.New("ciphertext too short")

	// ErrDecryptFailed covers MAC mismatch, bad padding, and truncated
	// input alike. Callers cannot distinguish a wrong password from
	// corrupted data, which keeps padding failures from becoming an oracle.
	ErrDecryptFailed = errors.New("wrong password or corrupted data")
)

// Key holds the encryption and authentication keys derived from a master
// password, together with the salt they were derived from. Keys must be
// explicitly destroyed after use to clear sensitive material.
type Key struct {
	encKey []byte
	macKey []byte
	salt   []byte
}

// GenerateRandomBytes generates cryptographically secure random bytes.
func GenerateRandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, errors.New("invalid byte count")
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}

// DeriveKey derives a Key from a password and salt using PBKDF2-SHA256.
// Deterministic: the same inputs always yield the same key material.
// A single 64-byte stretch is split into the AES key and the HMAC key.
func DeriveKey(password string, salt []byte, iterations int) (*Key, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if len(salt) != SaltLength {
		return nil, ErrInvalidSaltLength
	}
	if iterations < DefaultIterations {
		return nil, ErrIterationsTooLow
	}

	material := pbkdf2.Key([]byte(password), salt, iterations, encKeyLength+macKeyLength, sha256.New)

	return &Key{
		encKey: material[:encKeyLength],
		macKey: material[encKeyLength:],
		salt:   append([]byte{}, salt...),
	}, nil
}

// NewKey derives a Key from a password using a fresh random salt.
func NewKey(password string, iterations int) (*Key, error) {
	salt, err := GenerateRandomBytes(SaltLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return DeriveKey(password, salt, iterations)
}

// Salt returns a copy of the key's derivation salt.
func (k *Key) Salt() []byte {
	return append([]byte{}, k.salt...)
}

// Encrypt encrypts plaintext with AES-256-CBC under a fresh random IV and
// appends an HMAC-SHA256 tag computed over iv || ciphertext. The returned
// sealed slice is ciphertext || tag.
func (k *Key) Encrypt(plaintext []byte) (iv []byte, sealed []byte, err error) {
	block, err := aes.NewCipher(k.encKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	iv, err = GenerateRandomBytes(IVLength)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	padded := pkcs7Pad(plaintext, BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	mac := hmac.New(sha256.New, k.macKey)
	mac.Write(iv)
	mac.Write(ciphertext)
	sealed = mac.Sum(ciphertext)

	return iv, sealed, nil
}

// Decrypt verifies the trailing HMAC tag of sealed, then decrypts the
// ciphertext and strips PKCS7 padding. Any authentication or padding
// failure is reported as the generic ErrDecryptFailed.
func (k *Key) Decrypt(sealed []byte, iv []byte) ([]byte, error) {
	if len(iv) != IVLength {
		return nil, ErrInvalidIVLength
	}
	if len(sealed) < TagLength+BlockSize {
		return nil, ErrCiphertextTooShort
	}

	ciphertext := sealed[:len(sealed)-TagLength]
	tag := sealed[len(sealed)-TagLength:]

	mac := hmac.New(sha256.New, k.macKey)
	mac.Write(iv)
	mac.Write(ciphertext)
	if !hmac.Equal(mac.Sum(nil), tag) {
		return nil, ErrDecryptFailed
	}

	if len(ciphertext)%BlockSize != 0 {
		return nil, ErrDecryptFailed
	}

	block, err := aes.NewCipher(k.encKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, BlockSize)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return unpadded, nil
}

// Destroy securely wipes the key material from memory.
func (k *Key) Destroy() {
	secureWipe(k.encKey)
	secureWipe(k.macKey)
	secureWipe(k.salt)
}

// pkcs7Pad extends data to a multiple of blockSize. The pad byte encodes
// the pad length; a full block of padding is added when data is already
// aligned.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// pkcs7Unpad validates and strips PKCS7 padding. Every pad byte must
// match the declared pad length.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, errors.New("invalid padding length")
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, errors.New("inconsistent padding")
		}
	}
	return data[:len(data)-padLen], nil
}

// secureWipe overwrites sensitive data with zeros then random data.
func secureWipe(data []byte) {
	if len(data) == 0 {
		return
	}

	for i := range data {
		data[i] = 0
	}

	// Random pass (best effort - ignore errors since memory is already zeroed)
	io.ReadFull(rand.Reader, data)
}

// SecureWipeBytes is a public wrapper for secureWipe.
func SecureWipeBytes(data []byte) {
	secureWipe(data)
}

// ConstantTimeCompare performs constant-time comparison of two byte slices.
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
