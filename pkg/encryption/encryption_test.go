package encryption_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmeehan/freebox-agent/pkg/encryption"
	"github.com/benmeehan/freebox-agent/pkg/file"
)

// RFC 2202, HMAC-SHA1 test case 2.
func TestChallengePassword_ReferenceVector(t *testing.T) {
	got := encryption.ChallengePassword("Jefe", "what do ya want for nothing?")
	assert.Equal(t, "effcdf6ae5eb2fa2d27416d5f184df9c259a7c79", got)
}

func TestChallengePassword_DependsOnBothInputs(t *testing.T) {
	base := encryption.ChallengePassword("token", "challenge")
	assert.Len(t, base, 40)
	assert.NotEqual(t, base, encryption.ChallengePassword("token2", "challenge"))
	assert.NotEqual(t, base, encryption.ChallengePassword("token", "challenge2"))
}

func TestEncryptionManager_RoundTrip(t *testing.T) {
	fs := file.NewFileService()
	keyPath := filepath.Join(t.TempDir(), "token.key")
	require.NoError(t, fs.WriteFileRaw(keyPath, bytes.Repeat([]byte{7}, 32)))

	em := encryption.NewEncryptionManager(fs)
	require.NoError(t, em.Initialize(keyPath))

	sealed, err := em.Encrypt([]byte(`{"app_token":"secret"}`))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "secret")

	plain, err := em.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, `{"app_token":"secret"}`, string(plain))
}

func TestEncryptionManager_Errors(t *testing.T) {
	em := encryption.NewEncryptionManager(file.NewFileService())

	_, err := em.Encrypt([]byte("x"))
	assert.Error(t, err)

	assert.Error(t, em.InitializeWithKey([]byte("short")))

	require.NoError(t, em.InitializeWithKey(bytes.Repeat([]byte{1}, 32)))
	_, err = em.Decrypt([]byte("tiny"))
	assert.Error(t, err)

	sealed, err := em.Encrypt([]byte("payload"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff
	_, err = em.Decrypt(sealed)
	assert.Error(t, err)
}
