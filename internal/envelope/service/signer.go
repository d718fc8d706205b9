package service

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"
)

// rsaSigner implements Signer with SHA-256 digests and RSA PKCS#1v1.5.
type rsaSigner struct {
	logger *slog.Logger
}

// NewSigner creates the protocol signer.
func NewSigner(logger *slog.Logger) Signer {
	return &rsaSigner{logger: logger}
}

// Sign computes the detached signature over the canonical plaintext bytes.
func (s *rsaSigner) Sign(plaintext []byte, own *rsa.PrivateKey) (string, error) {
	hashed := sha256.Sum256(plaintext)
	signature, err := rsa.SignPKCS1v15(rand.Reader, own, crypto.SHA256, hashed[:])
	if err != nil {
		return "", fmt.Errorf("failed to sign payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(signature), nil
}

// Verify checks the signature over the plaintext. Verification failure is
// always soft: the verdict is false and the cause is logged, never an error.
func (s *rsaSigner) Verify(plaintext []byte, signature string, counterparty *rsa.PublicKey) bool {
	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		s.logger.Warn("signature verification failed: malformed base64 signature",
			slog.Any("error", err),
		)
		return false
	}

	hashed := sha256.Sum256(plaintext)
	if err := rsa.VerifyPKCS1v15(counterparty, crypto.SHA256, hashed[:], raw); err != nil {
		s.logger.Warn("signature verification failed",
			slog.Any("error", err),
		)
		return false
	}
	return true
}
