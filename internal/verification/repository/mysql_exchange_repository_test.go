package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verificationDomain "github.com/pensionseva/eisgateway/internal/verification/domain"
)

func TestMySQLExchangeRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	exchange := testExchange(t)
	mock.ExpectExec("INSERT INTO verification_exchanges").
		WithArgs(
			exchange.ID.String(),
			exchange.RequestID,
			exchange.ReferenceNumber,
			exchange.TxnType,
			exchange.TxnSubType,
			string(exchange.Status),
			exchange.WrapScheme,
			exchange.DecryptStrategy,
			exchange.WasDecrypted,
			exchange.SignatureValid,
			exchange.ErrorCode,
			exchange.ErrorDescription,
			exchange.Duration.Milliseconds(),
			exchange.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewMySQLExchangeRepository(db)
	require.NoError(t, repo.Create(context.Background(), exchange))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLExchangeRepositoryList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	exchange := testExchange(t)
	mock.ExpectQuery("SELECT (.+) FROM verification_exchanges").
		WithArgs(25, 5).
		WillReturnRows(exchangeRow(exchange))

	repo := NewMySQLExchangeRepository(db)
	exchanges, err := repo.List(context.Background(), 5, 25)
	require.NoError(t, err)

	require.Len(t, exchanges, 1)
	assert.Equal(t, exchange.ID, exchanges[0].ID)
	assert.Equal(t, 1200*time.Millisecond, exchanges[0].Duration)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLExchangeRepositoryGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	mock.ExpectQuery("SELECT (.+) FROM verification_exchanges WHERE reference_number").
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows(exchangeColumns))

	repo := NewMySQLExchangeRepository(db)
	_, err = repo.GetByReferenceNumber(context.Background(), "unknown")
	require.Error(t, err)
	assert.ErrorIs(t, err, verificationDomain.ErrExchangeNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
