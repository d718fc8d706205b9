package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
)

type sessionKeyGenerator struct{}

// NewSessionKeyGenerator creates a generator producing 32-character
// [A-Za-z0-9] session keys. Character selection uses crypto/rand.Int, which
// samples uniformly over the alphabet; the modulo-bias of naive byte mapping
// does not arise.
func NewSessionKeyGenerator() SessionKeyGenerator {
	return &sessionKeyGenerator{}
}

// Generate creates a fresh session key. The key is single-use: one encrypt
// plus the paired decrypt of the correlated response.
func (g *sessionKeyGenerator) Generate() (envelopeDomain.SessionKey, error) {
	key := make([]byte, envelopeDomain.SessionKeyLength)
	alphabetLen := big.NewInt(int64(len(envelopeDomain.SessionKeyAlphabet)))

	for i := 0; i < envelopeDomain.SessionKeyLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random character: %w", err)
		}
		key[i] = envelopeDomain.SessionKeyAlphabet[n.Int64()]
	}

	return envelopeDomain.SessionKey(key), nil
}
