package commands

import (
	"fmt"
	"io"

	envelopeService "github.com/pensionseva/eisgateway/internal/envelope/service"
)

// RunGenerateReference prints freshly generated reference numbers for the
// given source id. Useful for smoke-testing counterparty integrations.
func RunGenerateReference(sourceID string, count int, w io.Writer) error {
	if count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", count)
	}

	generator, err := envelopeService.NewReferenceNumberGenerator(sourceID)
	if err != nil {
		return fmt.Errorf("failed to create reference number generator: %w", err)
	}

	for i := 0; i < count; i++ {
		reference, err := generator.Generate()
		if err != nil {
			return fmt.Errorf("failed to generate reference number: %w", err)
		}
		fmt.Fprintln(w, reference.String())
	}

	return nil
}
