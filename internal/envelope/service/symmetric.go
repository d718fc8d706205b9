package service

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
)

// symmetricCipher implements SymmetricCipher with AES-256-GCM as the primary
// mode and AES-CBC as the legacy fallback.
//
// The GCM nonce is derived deterministically as the first 12 bytes of the
// session key. This is a counterparty protocol requirement, not a local
// choice: the counterparty re-derives the nonce the same way when decrypting
// and when encrypting its response. Nonce reuse cannot occur because every
// session key is freshly random and used for exactly one encrypt.
//
// The cipher is stateless and safe for concurrent use.
type symmetricCipher struct{}

// NewSymmetricCipher creates the protocol symmetric cipher.
func NewSymmetricCipher() SymmetricCipher {
	return &symmetricCipher{}
}

// Encrypt seals plaintext under the session key. The wire form is
// base64(ciphertext || 16-byte tag); the nonce travels implicitly via the key.
func (s *symmetricCipher) Encrypt(plaintext []byte, key envelopeDomain.SessionKey) (string, error) {
	if err := key.Validate(); err != nil {
		return "", err
	}

	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}

	sealed := aead.Seal(nil, key.GCMNonce(), plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens base64(ciphertext || tag) with the key-derived nonce.
func (s *symmetricCipher) Decrypt(ciphertext string, key envelopeDomain.SessionKey) ([]byte, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 ciphertext: %v", envelopeDomain.ErrDecryptionFailed, err)
	}

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext shorter than auth tag", envelopeDomain.ErrDecryptionFailed)
	}

	plaintext, err := aead.Open(nil, key.GCMNonce(), sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", envelopeDomain.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// DecryptCBC attempts plain AES-CBC decryption with IV = first 16 bytes of
// the key and PKCS#7 unpadding. Some legacy counterparty paths emit this
// format; only the opener's final fallback should call it.
func (s *symmetricCipher) DecryptCBC(ciphertext string, key envelopeDomain.SessionKey) ([]byte, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 ciphertext: %v", envelopeDomain.ErrDecryptionFailed, err)
	}

	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d not a positive multiple of the block size", envelopeDomain.ErrDecryptionFailed, len(data))
	}

	plaintext := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, key.CBCIV()).CryptBlocks(plaintext, data)

	return pkcs7Unpad(plaintext)
}

// newGCM builds the AES-256-GCM AEAD for a session key.
func newGCM(key envelopeDomain.SessionKey) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}

// pkcs7Unpad strips and validates PKCS#7 padding.
func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext", envelopeDomain.ErrDecryptionFailed)
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > aes.BlockSize || padLen > len(data) {
		return nil, fmt.Errorf("%w: invalid padding", envelopeDomain.ErrDecryptionFailed)
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, fmt.Errorf("%w: invalid padding", envelopeDomain.ErrDecryptionFailed)
		}
	}

	return data[:len(data)-padLen], nil
}
