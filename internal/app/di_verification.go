package app

import (
	"fmt"

	verificationHTTP "github.com/pensionseva/eisgateway/internal/verification/http"
	verificationRepository "github.com/pensionseva/eisgateway/internal/verification/repository"
	verificationService "github.com/pensionseva/eisgateway/internal/verification/service"
	verificationUseCase "github.com/pensionseva/eisgateway/internal/verification/usecase"
)

// ExchangeRepository returns the exchange repository based on database driver.
func (c *Container) ExchangeRepository() (verificationUseCase.ExchangeRepository, error) {
	var err error
	c.exchangeRepositoryInit.Do(func() {
		c.exchangeRepository, err = c.initExchangeRepository()
		if err != nil {
			c.initErrors["exchangeRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["exchangeRepository"]; exists {
		return nil, storedErr
	}
	return c.exchangeRepository, nil
}

// EISClient returns the counterparty HTTP client.
func (c *Container) EISClient() verificationService.EISClient {
	c.eisClientInit.Do(func() {
		c.eisClient = verificationService.NewEISClient(
			c.config.EISBaseURL,
			c.config.EISRequestPath,
			c.config.EISTimeout,
			c.Logger(),
		)
	})
	return c.eisClient
}

// SessionVault returns the in-memory session key vault.
func (c *Container) SessionVault() (verificationService.SessionVault, error) {
	var err error
	c.sessionVaultInit.Do(func() {
		c.sessionVault, err = verificationService.NewSessionVault(c.config.SessionVaultTTL, c.Logger())
		if err != nil {
			c.initErrors["sessionVault"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionVault"]; exists {
		return nil, storedErr
	}
	return c.sessionVault, nil
}

// VerificationUseCase returns the verification use case.
func (c *Container) VerificationUseCase() (verificationUseCase.VerificationUseCase, error) {
	var err error
	c.verificationUseCaseInit.Do(func() {
		c.verificationUseCase, err = c.initVerificationUseCase()
		if err != nil {
			c.initErrors["verificationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["verificationUseCase"]; exists {
		return nil, storedErr
	}
	return c.verificationUseCase, nil
}

// VerificationHandler returns the HTTP handler for verification operations.
func (c *Container) VerificationHandler() (*verificationHTTP.VerificationHandler, error) {
	var err error
	c.verificationHandlerInit.Do(func() {
		c.verificationHandler, err = c.initVerificationHandler()
		if err != nil {
			c.initErrors["verificationHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["verificationHandler"]; exists {
		return nil, storedErr
	}
	return c.verificationHandler, nil
}

// initExchangeRepository creates the exchange repository based on the database driver.
func (c *Container) initExchangeRepository() (verificationUseCase.ExchangeRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for exchange repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return verificationRepository.NewPostgreSQLExchangeRepository(db), nil
	case "mysql":
		return verificationRepository.NewMySQLExchangeRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initVerificationUseCase creates the verification use case with all its dependencies.
func (c *Container) initVerificationUseCase() (verificationUseCase.VerificationUseCase, error) {
	builder, err := c.EnvelopeBuilder()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope builder for verification use case: %w", err)
	}

	opener, err := c.EnvelopeOpener()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope opener for verification use case: %w", err)
	}

	vault, err := c.SessionVault()
	if err != nil {
		return nil, fmt.Errorf("failed to get session vault for verification use case: %w", err)
	}

	exchangeRepository, err := c.ExchangeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange repository for verification use case: %w", err)
	}

	baseUseCase := verificationUseCase.NewVerificationUseCase(
		builder,
		opener,
		c.EISClient(),
		vault,
		exchangeRepository,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for verification use case: %w", err)
		}
		return verificationUseCase.NewVerificationUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initVerificationHandler creates the verification HTTP handler.
func (c *Container) initVerificationHandler() (*verificationHTTP.VerificationHandler, error) {
	useCase, err := c.VerificationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get verification use case for verification handler: %w", err)
	}

	return verificationHTTP.NewVerificationHandler(useCase, c.Logger()), nil
}
