package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const credentialAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Credential is a generated secret for one environment variable
type Credential struct {
	Name  string
	Value string
}

// GenerateSecret returns a random string of letters and digits
func GenerateSecret(length int) (string, error) {
	result := make([]byte, length)
	n := big.NewInt(int64(len(credentialAlphabet)))
	for i := range result {
		num, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		result[i] = credentialAlphabet[num.Int64()]
	}
	return string(result), nil
}

// GenerateCredentials returns fresh secrets for the deployment's environment
func GenerateCredentials() ([]Credential, error) {
	secrets := []struct {
		name   string
		length int
	}{
		{"POSTGRES_PASSWORD", 20},
		{"RABBITMQ_DEFAULT_PASS", 20},
		{"JWT_SECRET_KEY", 50},
		{"ADMIN_PASSWORD", 20},
	}

	creds := make([]Credential, 0, len(secrets))
	for _, s := range secrets {
		value, err := GenerateSecret(s.length)
		if err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", s.name, err)
		}
		creds = append(creds, Credential{Name: s.name, Value: value})
	}
	return creds, nil
}
