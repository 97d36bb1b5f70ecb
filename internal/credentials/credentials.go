// Package credentials loads the stats provider account credentials.
//
// The credentials file is JSON with "email" and "password" fields. It may be
// stored encrypted: a file that starts with MagicHeader is decrypted with a
// passphrase before parsing.
package credentials

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// PassphraseEnv is the environment variable holding the passphrase for
// encrypted credentials files.
const PassphraseEnv = "SIEGE_STATS_PASSPHRASE"

// Credentials are the provider account credentials.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both fields are set.
func (c *Credentials) Validate() error {
	if c.Email == "" {
		return fmt.Errorf("credentials: email is required")
	}
	if c.Password == "" {
		return fmt.Errorf("credentials: password is required")
	}
	return nil
}

// Load reads a credentials file. passphrase is only used when the file is
// encrypted.
func Load(path, passphrase string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	return Parse(data, passphrase)
}

// Parse decodes plaintext or encrypted credentials.
func Parse(data []byte, passphrase string) (*Credentials, error) {
	if IsEncrypted(data) {
		if passphrase == "" {
			return nil, fmt.Errorf("credentials are encrypted: set %s", PassphraseEnv)
		}
		plaintext, err := DecryptData(data[len(MagicHeader):], DefaultEncryptionConfig(passphrase))
		if err != nil {
			return nil, err
		}
		data = plaintext
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	return &creds, nil
}

// IsEncrypted reports whether data carries the encryption header.
func IsEncrypted(data []byte) bool {
	return bytes.HasPrefix(data, []byte(MagicHeader))
}
