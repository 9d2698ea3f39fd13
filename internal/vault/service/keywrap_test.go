package service

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vaultDomain "github.com/hearthledger/hearthledger/internal/vault/domain"
)

func TestRSAKeyWrapper_WrapUnwrap(t *testing.T) {
	wrapper := NewRSAKeyWrapper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dek, err := GenerateDek()
	require.NoError(t, err)
	assert.Len(t, dek, 32)

	wrapped, err := wrapper.Wrap(&privateKey.PublicKey, dek)
	require.NoError(t, err)
	assert.NotEqual(t, dek, wrapped)

	unwrapped, err := wrapper.Unwrap(privateKey, wrapped)
	require.NoError(t, err)
	assert.Equal(t, dek, unwrapped)
}

func TestRSAKeyWrapper_WrongPrivateKey(t *testing.T) {
	wrapper := NewRSAKeyWrapper()

	ownerKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dek, err := GenerateDek()
	require.NoError(t, err)

	wrapped, err := wrapper.Wrap(&ownerKey.PublicKey, dek)
	require.NoError(t, err)

	_, err = wrapper.Unwrap(otherKey, wrapped)
	assert.ErrorIs(t, err, vaultDomain.ErrDecryptionFailed)
}

func TestGenerateDek_Random(t *testing.T) {
	dek1, err := GenerateDek()
	require.NoError(t, err)
	dek2, err := GenerateDek()
	require.NoError(t, err)

	assert.NotEqual(t, dek1, dek2)
}
