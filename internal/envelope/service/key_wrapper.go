package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
)

// rsaKeyWrapper implements KeyWrapper over an ordered list of padding-scheme
// strategies.
//
// The counterparty's exact padding scheme is not reliably documented and has
// changed across their releases, so each operation walks a fixed priority
// list and takes the first scheme that completes without error. This is a
// compatibility measure, not a security negotiation. Each attempt is
// isolated: a scheme's failure moves to the next entry instead of aborting
// the operation.
type rsaKeyWrapper struct {
	wrapSchemes   []envelopeDomain.WrapScheme
	unwrapSchemes []envelopeDomain.WrapScheme
	logger        *slog.Logger
}

// NewKeyWrapper creates a KeyWrapper with the protocol's scheme priority:
// wrap tries OAEP-SHA256, OAEP-SHA1, PKCS#1v1.5; unwrap tries OAEP-SHA256,
// PKCS#1v1.5.
func NewKeyWrapper(logger *slog.Logger) KeyWrapper {
	return &rsaKeyWrapper{
		wrapSchemes: []envelopeDomain.WrapScheme{
			envelopeDomain.WrapOAEPSHA256,
			envelopeDomain.WrapOAEPSHA1,
			envelopeDomain.WrapPKCS1v15,
		},
		unwrapSchemes: []envelopeDomain.WrapScheme{
			envelopeDomain.WrapOAEPSHA256,
			envelopeDomain.WrapPKCS1v15,
		},
		logger: logger,
	}
}

// Wrap encrypts the session key under the recipient's public key using the
// first scheme that succeeds.
func (w *rsaKeyWrapper) Wrap(
	key envelopeDomain.SessionKey,
	recipient *rsa.PublicKey,
) (string, envelopeDomain.WrapScheme, error) {
	if err := key.Validate(); err != nil {
		return "", "", err
	}

	var lastErr error
	for _, scheme := range w.wrapSchemes {
		wrapped, err := wrapWithScheme(scheme, key.Bytes(), recipient)
		if err != nil {
			w.logger.Debug("key wrap scheme failed, trying next",
				slog.String("scheme", string(scheme)),
				slog.Any("error", err),
			)
			lastErr = err
			continue
		}
		return base64.StdEncoding.EncodeToString(wrapped), scheme, nil
	}

	return "", "", fmt.Errorf("%w: %v", envelopeDomain.ErrKeyWrapFailed, lastErr)
}

// Unwrap decrypts a wrapped key, accepting the first plaintext that decodes
// to a syntactically valid 32-character session key.
func (w *rsaKeyWrapper) Unwrap(
	wrapped string,
	own *rsa.PrivateKey,
) (envelopeDomain.SessionKey, envelopeDomain.WrapScheme, error) {
	raw, err := base64.StdEncoding.DecodeString(wrapped)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid base64 wrapped key: %v", envelopeDomain.ErrKeyUnwrapFailed, err)
	}

	var lastErr error
	for _, scheme := range w.unwrapSchemes {
		plaintext, err := unwrapWithScheme(scheme, raw, own)
		if err != nil {
			w.logger.Debug("key unwrap scheme failed, trying next",
				slog.String("scheme", string(scheme)),
				slog.Any("error", err),
			)
			lastErr = err
			continue
		}

		key := envelopeDomain.SessionKey(plaintext)
		if err := key.Validate(); err != nil {
			// Decryption "succeeded" but produced garbage; a wrong padding
			// scheme can do that without raising. Keep trying.
			w.logger.Debug("unwrapped plaintext is not a valid session key, trying next",
				slog.String("scheme", string(scheme)),
			)
			lastErr = err
			continue
		}
		return key, scheme, nil
	}

	return "", "", fmt.Errorf("%w: %v", envelopeDomain.ErrKeyUnwrapFailed, lastErr)
}

// wrapWithScheme runs a single wrap attempt.
func wrapWithScheme(
	scheme envelopeDomain.WrapScheme,
	key []byte,
	recipient *rsa.PublicKey,
) ([]byte, error) {
	switch scheme {
	case envelopeDomain.WrapOAEPSHA256:
		return rsa.EncryptOAEP(sha256.New(), rand.Reader, recipient, key, nil)
	case envelopeDomain.WrapOAEPSHA1:
		return rsa.EncryptOAEP(sha1.New(), rand.Reader, recipient, key, nil)
	case envelopeDomain.WrapPKCS1v15:
		return rsa.EncryptPKCS1v15(rand.Reader, recipient, key)
	default:
		return nil, fmt.Errorf("unknown wrap scheme %q", scheme)
	}
}

// unwrapWithScheme runs a single unwrap attempt.
func unwrapWithScheme(
	scheme envelopeDomain.WrapScheme,
	wrapped []byte,
	own *rsa.PrivateKey,
) ([]byte, error) {
	switch scheme {
	case envelopeDomain.WrapOAEPSHA256:
		return rsa.DecryptOAEP(sha256.New(), rand.Reader, own, wrapped, nil)
	case envelopeDomain.WrapOAEPSHA1:
		return rsa.DecryptOAEP(sha1.New(), rand.Reader, own, wrapped, nil)
	case envelopeDomain.WrapPKCS1v15:
		return rsa.DecryptPKCS1v15(rand.Reader, own, wrapped)
	default:
		return nil, fmt.Errorf("unknown unwrap scheme %q", scheme)
	}
}
