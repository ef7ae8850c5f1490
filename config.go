package main

import (
	"time"

	"securepass/crypto"
	"securepass/vault"
)

// Config holds the application settings.
type Config struct {
	VaultPath         string
	PBKDF2Iterations  int
	InactivityTimeout time.Duration
	ClipboardTimeout  time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	path, err := vault.DefaultPath()
	if err != nil {
		path = ".securepass.vault"
	}

	return &Config{
		VaultPath:         path,
		PBKDF2Iterations:  crypto.DefaultIterations,
		InactivityTimeout: 5 * time.Minute,
		ClipboardTimeout:  30 * time.Second,
	}
}
