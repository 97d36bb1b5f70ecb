package credentials

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
)

const (
	// MagicHeader is prepended to encrypted credentials files.
	MagicHeader = "SIEGEENC1"

	// Argon2id parameters (RFC 9106 second recommendation)
	defaultArgon2Time    = 1
	defaultArgon2Memory  = 64 * 1024 // 64 MB
	defaultArgon2Threads = 4
	defaultArgon2KeyLen  = 32 // AES-256

	saltLength = 32
)

// EncryptionConfig holds configuration for encryption operations.
type EncryptionConfig struct {
	Passphrase string

	// Argon2Time is the number of Argon2 iterations.
	Argon2Time uint32

	// Argon2Memory is the memory cost in KB.
	Argon2Memory uint32

	Argon2Threads uint8
}

// DefaultEncryptionConfig returns encryption config with default parameters.
func DefaultEncryptionConfig(passphrase string) *EncryptionConfig {
	return &EncryptionConfig{
		Passphrase:    passphrase,
		Argon2Time:    defaultArgon2Time,
		Argon2Memory:  defaultArgon2Memory,
		Argon2Threads: defaultArgon2Threads,
	}
}

func deriveKey(salt []byte, config *EncryptionConfig) []byte {
	return argon2.IDKey(
		[]byte(config.Passphrase),
		salt,
		config.Argon2Time,
		config.Argon2Memory,
		config.Argon2Threads,
		defaultArgon2KeyLen,
	)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// EncryptData seals plaintext with AES-256-GCM under an Argon2id key.
// Output layout: salt || nonce || ciphertext+tag.
func EncryptData(plaintext []byte, config *EncryptionConfig) ([]byte, error) {
	if config == nil || config.Passphrase == "" {
		return nil, fmt.Errorf("encryption config with passphrase required")
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := newGCM(deriveKey(salt, config))
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	result := make([]byte, 0, len(salt)+len(nonce)+len(ciphertext))
	result = append(result, salt...)
	result = append(result, nonce...)
	result = append(result, ciphertext...)

	return result, nil
}

// DecryptData opens data produced by EncryptData.
func DecryptData(encrypted []byte, config *EncryptionConfig) ([]byte, error) {
	if config == nil || config.Passphrase == "" {
		return nil, fmt.Errorf("encryption config with passphrase required")
	}

	// salt + 12 byte nonce + 16 byte tag
	if len(encrypted) < saltLength+12+16 {
		return nil, fmt.Errorf("encrypted data too short")
	}

	salt := encrypted[:saltLength]
	encrypted = encrypted[saltLength:]

	gcm, err := newGCM(deriveKey(salt, config))
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	nonce := encrypted[:nonceSize]
	ciphertext := encrypted[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed (wrong passphrase or corrupted data): %w", err)
	}

	return plaintext, nil
}

// EncryptFile encrypts a plaintext credentials file into destPath.
// The source must parse as valid credentials.
func EncryptFile(sourcePath, destPath, passphrase string) error {
	plaintext, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}
	if IsEncrypted(plaintext) {
		return fmt.Errorf("%s is already encrypted", sourcePath)
	}
	if _, err := Parse(plaintext, ""); err != nil {
		return err
	}

	encrypted, err := EncryptData(plaintext, DefaultEncryptionConfig(passphrase))
	if err != nil {
		return fmt.Errorf("encryption failed: %w", err)
	}

	out := make([]byte, 0, len(MagicHeader)+len(encrypted))
	out = append(out, MagicHeader...)
	out = append(out, encrypted...)

	if err := os.WriteFile(destPath, out, 0o600); err != nil {
		return fmt.Errorf("failed to write encrypted file: %w", err)
	}

	return nil
}
