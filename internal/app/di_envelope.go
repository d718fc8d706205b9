package app

import (
	"context"
	"fmt"

	envelopeService "github.com/pensionseva/eisgateway/internal/envelope/service"
	envelopeUsecase "github.com/pensionseva/eisgateway/internal/envelope/usecase"
)

// KeyMaterial returns the loaded RSA credentials.
func (c *Container) KeyMaterial() (*envelopeService.KeyMaterial, error) {
	var err error
	c.keyMaterialInit.Do(func() {
		c.keyMaterial, err = c.initKeyMaterial()
		if err != nil {
			c.initErrors["keyMaterial"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyMaterial"]; exists {
		return nil, storedErr
	}
	return c.keyMaterial, nil
}

// EnvelopeBuilder returns the envelope builder.
func (c *Container) EnvelopeBuilder() (envelopeUsecase.Builder, error) {
	var err error
	c.envelopeBuilderInit.Do(func() {
		c.envelopeBuilder, err = c.initEnvelopeBuilder()
		if err != nil {
			c.initErrors["envelopeBuilder"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeBuilder"]; exists {
		return nil, storedErr
	}
	return c.envelopeBuilder, nil
}

// EnvelopeOpener returns the envelope opener.
func (c *Container) EnvelopeOpener() (envelopeUsecase.Opener, error) {
	var err error
	c.envelopeOpenerInit.Do(func() {
		c.envelopeOpener, err = c.initEnvelopeOpener()
		if err != nil {
			c.initErrors["envelopeOpener"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeOpener"]; exists {
		return nil, storedErr
	}
	return c.envelopeOpener, nil
}

// initKeyMaterial loads the RSA credentials from disk, decrypting the private
// key through KMS when a key URI is configured.
func (c *Container) initKeyMaterial() (*envelopeService.KeyMaterial, error) {
	return envelopeService.LoadKeyMaterial(context.Background(), envelopeService.KeyMaterialConfig{
		PrivateKeyPath:       c.config.EISPrivateKeyPath,
		CertificatePath:      c.config.EISCertificatePath,
		CounterpartyCertPath: c.config.EISCounterpartyCertPath,
		KMSKeyURI:            c.config.EISKMSKeyURI,
	}, c.Logger())
}

// initEnvelopeBuilder creates the envelope builder with all its dependencies.
func (c *Container) initEnvelopeBuilder() (envelopeUsecase.Builder, error) {
	keyMaterial, err := c.KeyMaterial()
	if err != nil {
		return nil, fmt.Errorf("failed to get key material for envelope builder: %w", err)
	}

	references, err := envelopeService.NewReferenceNumberGenerator(c.config.EISSourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to create reference number generator: %w", err)
	}

	logger := c.Logger()

	baseBuilder := envelopeUsecase.NewBuilder(
		keyMaterial,
		envelopeService.NewSessionKeyGenerator(),
		envelopeService.NewSymmetricCipher(),
		envelopeService.NewKeyWrapper(logger),
		envelopeService.NewSigner(logger),
		references,
		c.config.EISSourceID,
		c.config.EISDestination,
		logger,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for envelope builder: %w", err)
		}
		return envelopeUsecase.NewBuilderWithMetrics(baseBuilder, businessMetrics), nil
	}

	return baseBuilder, nil
}

// initEnvelopeOpener creates the envelope opener with all its dependencies.
func (c *Container) initEnvelopeOpener() (envelopeUsecase.Opener, error) {
	keyMaterial, err := c.KeyMaterial()
	if err != nil {
		return nil, fmt.Errorf("failed to get key material for envelope opener: %w", err)
	}

	logger := c.Logger()

	baseOpener := envelopeUsecase.NewOpener(
		keyMaterial,
		envelopeService.NewSymmetricCipher(),
		envelopeService.NewKeyWrapper(logger),
		envelopeService.NewSigner(logger),
		logger,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for envelope opener: %w", err)
		}
		return envelopeUsecase.NewOpenerWithMetrics(baseOpener, businessMetrics), nil
	}

	return baseOpener, nil
}
