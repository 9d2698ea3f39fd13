package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAESGCM(t *testing.T) {
	t.Run("valid 32-byte key", func(t *testing.T) {
		key := make([]byte, 32)
		cipher, err := NewAESGCM(key)
		require.NoError(t, err)
		assert.NotNil(t, cipher)
	})

	t.Run("invalid key sizes", func(t *testing.T) {
		for _, size := range []int{0, 16, 31, 33, 64} {
			_, err := NewAESGCM(make([]byte, size))
			assert.Error(t, err, "size %d", size)
		}
	})
}

func TestAESGCM_EncryptDecrypt(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	cipher, err := NewAESGCM(key)
	require.NoError(t, err)

	plaintext := []byte("sensitive field value")

	ciphertext, nonce, err := cipher.Encrypt(plaintext, nil)
	require.NoError(t, err)
	assert.Len(t, nonce, 12)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := cipher.Decrypt(ciphertext, nonce, nil)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestAESGCM_UniqueNonces(t *testing.T) {
	key := make([]byte, 32)
	cipher, err := NewAESGCM(key)
	require.NoError(t, err)

	_, nonce1, err := cipher.Encrypt([]byte("a"), nil)
	require.NoError(t, err)
	_, nonce2, err := cipher.Encrypt([]byte("a"), nil)
	require.NoError(t, err)

	assert.NotEqual(t, nonce1, nonce2)
}

func TestAESGCM_TamperedCiphertextFails(t *testing.T) {
	key := make([]byte, 32)
	cipher, err := NewAESGCM(key)
	require.NoError(t, err)

	ciphertext, nonce, err := cipher.Encrypt([]byte("payload"), nil)
	require.NoError(t, err)

	ciphertext[0] ^= 0xff
	_, err = cipher.Decrypt(ciphertext, nonce, nil)
	assert.Error(t, err)
}

func TestAESGCM_WrongSizeNonceFails(t *testing.T) {
	key := make([]byte, 32)
	cipher, err := NewAESGCM(key)
	require.NoError(t, err)

	ciphertext, _, err := cipher.Encrypt([]byte("payload"), nil)
	require.NoError(t, err)

	// A stored nonce can be tampered to any length; GCM panics on wrong
	// sizes, so Decrypt must reject them as errors instead.
	for _, size := range []int{0, 4, 11, 13, 32} {
		_, err = cipher.Decrypt(ciphertext, make([]byte, size), nil)
		assert.Error(t, err, "nonce size %d", size)
	}
}
