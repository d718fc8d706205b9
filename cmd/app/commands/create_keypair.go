package commands

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"time"
)

// RunCreateKeypair generates an RSA key pair with a self-signed certificate
// and writes both as PEM files into outDir. The private key is written with
// 0600 permissions. The certificate is what gets shared with the
// counterparty for key wrapping and signature verification.
func RunCreateKeypair(outDir, commonName string, bits, validityDays int, w io.Writer) error {
	if bits < 2048 {
		return fmt.Errorf("key size must be at least 2048 bits, got %d", bits)
	}
	if validityDays <= 0 {
		return fmt.Errorf("validity days must be positive, got %d", validityDays)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return fmt.Errorf("failed to generate RSA key: %w", err)
	}

	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return fmt.Errorf("failed to generate certificate serial number: %w", err)
	}

	now := time.Now()
	template := x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			CommonName: commonName,
		},
		NotBefore:             now,
		NotAfter:              now.AddDate(0, 0, validityDays),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		BasicConstraintsValid: true,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &privateKey.PublicKey, privateKey)
	if err != nil {
		return fmt.Errorf("failed to create certificate: %w", err)
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return fmt.Errorf("failed to marshal private key: %w", err)
	}

	keyPath := filepath.Join(outDir, "private_key.pem")
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}

	certPath := filepath.Join(outDir, "certificate.pem")
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	if err := os.WriteFile(certPath, certPEM, 0o644); err != nil {
		return fmt.Errorf("failed to write certificate: %w", err)
	}

	fmt.Fprintf(w, "# RSA key pair generated\n")
	fmt.Fprintf(w, "EIS_PRIVATE_KEY_PATH=%q\n", keyPath)
	fmt.Fprintf(w, "EIS_CERTIFICATE_PATH=%q\n", certPath)
	fmt.Fprintf(w, "# Certificate valid until %s\n", template.NotAfter.Format(time.RFC3339))
	fmt.Fprintf(w, "# Share %s with the counterparty; never share the private key.\n", certPath)

	return nil
}
