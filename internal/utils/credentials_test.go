package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	secret, err := GenerateSecret(32)
	require.NoError(t, err)
	assert.Len(t, secret, 32)
	for _, r := range secret {
		assert.True(t, strings.ContainsRune(credentialAlphabet, r), "unexpected character %q", r)
	}

	other, err := GenerateSecret(32)
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}

func TestGenerateCredentials(t *testing.T) {
	creds, err := GenerateCredentials()
	require.NoError(t, err)

	lengths := map[string]int{}
	for _, c := range creds {
		lengths[c.Name] = len(c.Value)
	}
	assert.Equal(t, map[string]int{
		"POSTGRES_PASSWORD":     20,
		"RABBITMQ_DEFAULT_PASS": 20,
		"JWT_SECRET_KEY":        50,
		"ADMIN_PASSWORD":        20,
	}, lengths)
}
