package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plainJSON = `{"email": "coach@example.com", "password": "hunter2"}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Plaintext(t *testing.T) {
	path := writeFile(t, "auth.json", plainJSON)

	creds, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "coach@example.com", creds.Email)
	assert.Equal(t, "hunter2", creds.Password)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), "")
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "Not JSON", data: "email=x"},
		{name: "Missing email", data: `{"password": "x"}`},
		{name: "Missing password", data: `{"email": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "")
			assert.Error(t, err)
		})
	}
}

func TestEncryptFile_RoundTrip(t *testing.T) {
	src := writeFile(t, "auth.json", plainJSON)
	dst := filepath.Join(t.TempDir(), "auth.json.enc")

	require.NoError(t, EncryptFile(src, dst, "correct horse"))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.True(t, IsEncrypted(data))
	assert.NotContains(t, string(data), "hunter2")

	creds, err := Load(dst, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "coach@example.com", creds.Email)
}

func TestEncryptedFile_WrongPassphrase(t *testing.T) {
	src := writeFile(t, "auth.json", plainJSON)
	dst := filepath.Join(t.TempDir(), "auth.json.enc")
	require.NoError(t, EncryptFile(src, dst, "correct horse"))

	_, err := Load(dst, "battery staple")
	assert.Error(t, err)

	_, err = Load(dst, "")
	assert.ErrorContains(t, err, PassphraseEnv)
}

func TestEncryptFile_RejectsEncryptedSource(t *testing.T) {
	src := writeFile(t, "auth.json", plainJSON)
	once := filepath.Join(t.TempDir(), "once.enc")
	require.NoError(t, EncryptFile(src, once, "pw"))

	err := EncryptFile(once, filepath.Join(t.TempDir(), "twice.enc"), "pw")
	assert.Error(t, err)
}

func TestDecryptData_TooShort(t *testing.T) {
	_, err := DecryptData([]byte("short"), DefaultEncryptionConfig("pw"))
	assert.Error(t, err)
}
