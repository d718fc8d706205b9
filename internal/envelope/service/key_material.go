package service

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gocloud.dev/secrets"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"

	// Register KMS provider drivers for credential-at-rest decryption.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KeyMaterial holds the three long-lived credentials of the envelope
// protocol: this system's RSA key pair, its certificate, and the
// counterparty's certificate.
//
// All fields are immutable after Load, so a single KeyMaterial value is safe
// for concurrent use by every exchange without synchronization. Loading
// failures are startup-time errors: the process must not serve without
// complete credentials.
type KeyMaterial struct {
	privateKey       *rsa.PrivateKey
	certificate      *x509.Certificate
	counterpartyCert *x509.Certificate
}

// KeyMaterialConfig describes where credentials are loaded from.
type KeyMaterialConfig struct {
	// PrivateKeyPath is the PEM file holding this system's RSA private key
	// (PKCS#1 or PKCS#8).
	PrivateKeyPath string
	// CertificatePath is the PEM file holding this system's certificate.
	CertificatePath string
	// CounterpartyCertPath is the PEM file holding the counterparty's certificate.
	CounterpartyCertPath string
	// KMSKeyURI, when set, means the private key file is a KMS-encrypted
	// blob to be decrypted through gocloud.dev/secrets before PEM parsing.
	KMSKeyURI string
}

// Validity describes a certificate's validity window for diagnostics.
// Expired credentials are surfaced, not enforced: the counterparty has run
// on a lapsed certificate before, so blocking here would break integrations.
type Validity struct {
	ValidNow  bool
	NotBefore time.Time
	NotAfter  time.Time
	Subject   string
}

// LoadKeyMaterial reads and parses all credentials. Any missing or
// unparsable file yields ErrCredentialLoad; the caller should treat this as
// fatal.
func LoadKeyMaterial(ctx context.Context, cfg KeyMaterialConfig, logger *slog.Logger) (*KeyMaterial, error) {
	keyPEM, err := readCredential(ctx, cfg.PrivateKeyPath, cfg.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("%w: private key %s: %v", envelopeDomain.ErrCredentialLoad, cfg.PrivateKeyPath, err)
	}
	defer envelopeDomain.Zero(keyPEM)

	privateKey, err := parseRSAPrivateKeyPEM(keyPEM)
	if err != nil {
		return nil, fmt.Errorf("%w: private key %s: %v", envelopeDomain.ErrCredentialLoad, cfg.PrivateKeyPath, err)
	}

	certificate, err := loadCertificate(cfg.CertificatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: certificate %s: %v", envelopeDomain.ErrCredentialLoad, cfg.CertificatePath, err)
	}

	counterpartyCert, err := loadCertificate(cfg.CounterpartyCertPath)
	if err != nil {
		return nil, fmt.Errorf("%w: counterparty certificate %s: %v", envelopeDomain.ErrCredentialLoad, cfg.CounterpartyCertPath, err)
	}

	km := &KeyMaterial{
		privateKey:       privateKey,
		certificate:      certificate,
		counterpartyCert: counterpartyCert,
	}

	if v := km.CounterpartyValidity(); !v.ValidNow {
		logger.Warn("counterparty certificate outside its validity window",
			slog.Time("not_before", v.NotBefore),
			slog.Time("not_after", v.NotAfter),
			slog.String("subject", v.Subject),
		)
	}

	return km, nil
}

// PrivateKey returns this system's RSA private key.
func (k *KeyMaterial) PrivateKey() *rsa.PrivateKey {
	return k.privateKey
}

// PublicKey returns this system's RSA public key.
func (k *KeyMaterial) PublicKey() *rsa.PublicKey {
	return &k.privateKey.PublicKey
}

// CounterpartyPublicKey returns the counterparty's RSA public key used for
// session-key wrapping and signature verification.
func (k *KeyMaterial) CounterpartyPublicKey() (*rsa.PublicKey, error) {
	pub, ok := k.counterpartyCert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("counterparty certificate does not carry an RSA public key")
	}
	return pub, nil
}

// OwnValidity returns the validity window of this system's certificate.
func (k *KeyMaterial) OwnValidity() Validity {
	return certValidity(k.certificate)
}

// CounterpartyValidity returns the validity window of the counterparty's
// certificate.
func (k *KeyMaterial) CounterpartyValidity() Validity {
	return certValidity(k.counterpartyCert)
}

func certValidity(cert *x509.Certificate) Validity {
	now := time.Now()
	return Validity{
		ValidNow:  !now.Before(cert.NotBefore) && !now.After(cert.NotAfter),
		NotBefore: cert.NotBefore,
		NotAfter:  cert.NotAfter,
		Subject:   cert.Subject.String(),
	}
}

// readCredential reads a credential file, decrypting it through the
// configured KMS keeper when a key URI is set.
func readCredential(ctx context.Context, path, kmsKeyURI string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if kmsKeyURI == "" {
		return data, nil
	}

	keeper, err := secrets.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer keeper.Close()

	plaintext, err := keeper.Decrypt(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credential with KMS: %w", err)
	}
	return plaintext, nil
}

// parseRSAPrivateKeyPEM walks the PEM blocks in the file and returns the
// first RSA private key, accepting both PKCS#1 and PKCS#8 encodings.
func parseRSAPrivateKeyPEM(pemBytes []byte) (*rsa.PrivateKey, error) {
	for {
		block, rest := pem.Decode(pemBytes)
		if block == nil {
			return nil, fmt.Errorf("no RSA private key found in PEM data")
		}

		switch block.Type {
		case "RSA PRIVATE KEY":
			return x509.ParsePKCS1PrivateKey(block.Bytes)
		case "PRIVATE KEY":
			key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				return nil, err
			}
			rsaKey, ok := key.(*rsa.PrivateKey)
			if !ok {
				return nil, fmt.Errorf("PKCS#8 key is not an RSA private key")
			}
			return rsaKey, nil
		}
		pemBytes = rest
	}
}

// loadCertificate reads a PEM file and returns its first certificate block.
func loadCertificate(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	for {
		block, rest := pem.Decode(data)
		if block == nil {
			return nil, fmt.Errorf("no certificate found in PEM data")
		}
		if block.Type == "CERTIFICATE" {
			return x509.ParseCertificate(block.Bytes)
		}
		data = rest
	}
}
