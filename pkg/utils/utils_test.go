package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashContent(t *testing.T) {
	// sha256("hello") is a fixed vector
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		HashContent("hello"))
	assert.Len(t, HashContent(""), 64)
	assert.NotEqual(t, HashContent("a"), HashContent("b"))
}

func TestCredentialRoundTrip(t *testing.T) {
	encrypted, err := EncryptCredential("sk-secret-key", "any passphrase works")
	require.NoError(t, err)
	assert.NotEqual(t, "sk-secret-key", encrypted)

	decrypted, err := DecryptCredential(encrypted, "any passphrase works")
	require.NoError(t, err)
	assert.Equal(t, "sk-secret-key", decrypted)
}

func TestCredentialWrongKeyFails(t *testing.T) {
	encrypted, err := EncryptCredential("sk-secret-key", "right")
	require.NoError(t, err)

	_, err = DecryptCredential(encrypted, "wrong")
	assert.Error(t, err)
}

func TestDecryptCredential_GarbageInput(t *testing.T) {
	_, err := DecryptCredential("not base64 !!!", "key")
	assert.Error(t, err)

	_, err = DecryptCredential("c2hvcnQ=", "key")
	assert.Error(t, err)
}
