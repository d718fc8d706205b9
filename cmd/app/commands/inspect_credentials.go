package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pensionseva/eisgateway/internal/app"
	"github.com/pensionseva/eisgateway/internal/config"
	envelopeService "github.com/pensionseva/eisgateway/internal/envelope/service"
)

// RunInspectCredentials loads the configured RSA credentials and prints the
// validity windows of both certificates. Expired certificates are reported
// but do not fail the command.
func RunInspectCredentials(ctx context.Context, w io.Writer) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)

	keyMaterial, err := container.KeyMaterial()
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}

	fmt.Fprintf(w, "Private key: %s (%d bits)\n", cfg.EISPrivateKeyPath, keyMaterial.PrivateKey().Size()*8)
	printValidity(w, "Own certificate", cfg.EISCertificatePath, keyMaterial.OwnValidity())
	printValidity(w, "Counterparty certificate", cfg.EISCounterpartyCertPath, keyMaterial.CounterpartyValidity())

	return nil
}

func printValidity(w io.Writer, label, path string, v envelopeService.Validity) {
	status := "valid"
	if !v.ValidNow {
		status = "NOT VALID NOW"
	}

	fmt.Fprintf(w, "%s: %s\n", label, path)
	fmt.Fprintf(w, "  subject:    %s\n", v.Subject)
	fmt.Fprintf(w, "  not before: %s\n", v.NotBefore.Format(time.RFC3339))
	fmt.Fprintf(w, "  not after:  %s\n", v.NotAfter.Format(time.RFC3339))
	fmt.Fprintf(w, "  status:     %s\n", status)
}
