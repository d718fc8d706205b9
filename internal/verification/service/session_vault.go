package service

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/chacha20poly1305"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
	verificationDomain "github.com/pensionseva/eisgateway/internal/verification/domain"
)

// sessionVault is an in-memory TTL store for session keys awaiting a late
// counterparty callback.
//
// Keys are encrypted at rest with XChaCha20-Poly1305 under a process-local
// random key, so a heap dump of the vault map does not expose usable session
// keys. The vault key itself lives only in this struct for the process
// lifetime; entries are useless once the process exits, which matches the
// single-use nature of session keys.
type sessionVault struct {
	aead      cipher.AEAD
	ttl       time.Duration
	logger    *slog.Logger
	mu        sync.Mutex
	entries   map[string]vaultEntry
	done      chan struct{}
	closeOnce sync.Once
}

type vaultEntry struct {
	nonce     []byte
	sealed    []byte
	expiresAt time.Time
}

// janitorInterval is how often expired entries are swept.
const janitorInterval = time.Minute

// NewSessionVault creates a vault whose entries expire after ttl. It starts a
// janitor goroutine; callers must Close the vault on shutdown.
func NewSessionVault(ttl time.Duration, logger *slog.Logger) (SessionVault, error) {
	vaultKey := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(vaultKey); err != nil {
		return nil, fmt.Errorf("failed to generate vault key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(vaultKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault cipher: %w", err)
	}
	envelopeDomain.Zero(vaultKey)

	v := &sessionVault{
		aead:    aead,
		ttl:     ttl,
		logger:  logger,
		entries: make(map[string]vaultEntry),
		done:    make(chan struct{}),
	}
	go v.janitor()

	return v, nil
}

// Put stores the session key under the reference number. A second Put for the
// same reference number replaces the earlier entry.
func (v *sessionVault) Put(referenceNumber string, key envelopeDomain.SessionKey) error {
	if err := key.Validate(); err != nil {
		return err
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate vault nonce: %w", err)
	}
	sealed := v.aead.Seal(nil, nonce, key.Bytes(), []byte(referenceNumber))

	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries[referenceNumber] = vaultEntry{
		nonce:     nonce,
		sealed:    sealed,
		expiresAt: time.Now().Add(v.ttl),
	}
	return nil
}

// Get returns the session key for the reference number.
func (v *sessionVault) Get(referenceNumber string) (envelopeDomain.SessionKey, error) {
	v.mu.Lock()
	entry, ok := v.entries[referenceNumber]
	v.mu.Unlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return "", verificationDomain.ErrSessionKeyNotFound
	}

	plaintext, err := v.aead.Open(nil, entry.nonce, entry.sealed, []byte(referenceNumber))
	if err != nil {
		return "", fmt.Errorf("failed to unseal vault entry: %w", err)
	}
	defer envelopeDomain.Zero(plaintext)

	return envelopeDomain.SessionKey(plaintext), nil
}

// Delete removes the session key for the reference number.
func (v *sessionVault) Delete(referenceNumber string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.entries, referenceNumber)
}

// Close stops the janitor goroutine and drops all entries.
func (v *sessionVault) Close() {
	v.closeOnce.Do(func() {
		close(v.done)
		v.mu.Lock()
		v.entries = make(map[string]vaultEntry)
		v.mu.Unlock()
	})
}

// janitor sweeps expired entries until Close.
func (v *sessionVault) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-v.done:
			return
		case <-ticker.C:
			v.sweep()
		}
	}
}

func (v *sessionVault) sweep() {
	now := time.Now()

	v.mu.Lock()
	defer v.mu.Unlock()
	removed := 0
	for reference, entry := range v.entries {
		if now.After(entry.expiresAt) {
			delete(v.entries, reference)
			removed++
		}
	}
	if removed > 0 {
		v.logger.Debug("session vault sweep", slog.Int("removed", removed))
	}
}
