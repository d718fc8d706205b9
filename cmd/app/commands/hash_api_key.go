package commands

import (
	"fmt"
	"io"

	"github.com/allisson/go-pwdhash"
)

// RunHashAPIKey prints the Argon2id hash of an API key for the API_KEY_HASH
// environment variable. The plaintext key is handed to the API consumer; only
// the hash is stored in configuration.
func RunHashAPIKey(apiKey string, w io.Writer) error {
	if apiKey == "" {
		return fmt.Errorf("api key must not be empty")
	}

	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		return fmt.Errorf("failed to create hasher: %w", err)
	}

	hash, err := hasher.Hash([]byte(apiKey))
	if err != nil {
		return fmt.Errorf("failed to hash api key: %w", err)
	}

	fmt.Fprintf(w, "API_KEY_HASH=%q\n", hash)
	return nil
}
