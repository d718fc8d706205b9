package usecase

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	envelopeDomain "github.com/pensionseva/eisgateway/internal/envelope/domain"
	envelopeService "github.com/pensionseva/eisgateway/internal/envelope/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestKeyMaterial loads key material where the counterparty certificate is
// this system's own certificate. With both sides sharing one key pair, tests
// can play the counterparty: unwrap the AccessToken with the private key and
// sign responses that the opener will verify.
func newTestKeyMaterial(t *testing.T) (*envelopeService.KeyMaterial, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	keyPath := filepath.Join(dir, "own.key")
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	require.NoError(t, os.WriteFile(keyPath, keyPEM, 0o600))

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "envelope-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	certPath := filepath.Join(dir, "own.crt")
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	require.NoError(t, os.WriteFile(certPath, certPEM, 0o600))

	km, err := envelopeService.LoadKeyMaterial(context.Background(), envelopeService.KeyMaterialConfig{
		PrivateKeyPath:       keyPath,
		CertificatePath:      certPath,
		CounterpartyCertPath: certPath,
	}, discardLogger())
	require.NoError(t, err)

	return km, key
}

func newTestBuilder(t *testing.T) (Builder, *envelopeService.KeyMaterial, *rsa.PrivateKey) {
	t.Helper()

	km, key := newTestKeyMaterial(t)
	references, err := envelopeService.NewReferenceNumberGenerator("PV")
	require.NoError(t, err)

	b := NewBuilder(
		km,
		envelopeService.NewSessionKeyGenerator(),
		envelopeService.NewSymmetricCipher(),
		envelopeService.NewKeyWrapper(discardLogger()),
		envelopeService.NewSigner(discardLogger()),
		references,
		"PV",
		"EIS",
		discardLogger(),
	)
	return b, km, key
}

func newTestOpener(km *envelopeService.KeyMaterial) Opener {
	return NewOpener(
		km,
		envelopeService.NewSymmetricCipher(),
		envelopeService.NewKeyWrapper(discardLogger()),
		envelopeService.NewSigner(discardLogger()),
		discardLogger(),
	)
}

type failingSessionKeys struct{}

func (failingSessionKeys) Generate() (envelopeDomain.SessionKey, error) {
	return "", fmt.Errorf("entropy exhausted")
}

type failingReferences struct{}

func (failingReferences) Generate() (envelopeDomain.ReferenceNumber, error) {
	return "", fmt.Errorf("clock unavailable")
}
