// Package repository implements exchange audit persistence for PostgreSQL
// and MySQL.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pensionseva/eisgateway/internal/database"
	apperrors "github.com/pensionseva/eisgateway/internal/errors"
	verificationDomain "github.com/pensionseva/eisgateway/internal/verification/domain"
)

// PostgreSQLExchangeRepository implements Exchange persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLExchangeRepository struct {
	db *sql.DB
}

// NewPostgreSQLExchangeRepository creates a new PostgreSQL Exchange repository.
func NewPostgreSQLExchangeRepository(db *sql.DB) *PostgreSQLExchangeRepository {
	return &PostgreSQLExchangeRepository{db: db}
}

// Create inserts a new exchange record.
func (p *PostgreSQLExchangeRepository) Create(ctx context.Context, exchange *verificationDomain.Exchange) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO verification_exchanges
			  (id, request_id, reference_number, txn_type, txn_sub_type, status, wrap_scheme,
			   decrypt_strategy, was_decrypted, signature_valid, error_code, error_description,
			   duration_ms, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := querier.ExecContext(
		ctx,
		query,
		exchange.ID,
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
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create exchange")
	}

	return nil
}

// List retrieves exchange records ordered by ID descending (newest first)
// with pagination. Returns an empty slice if no exchanges exist.
func (p *PostgreSQLExchangeRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*verificationDomain.Exchange, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, request_id, reference_number, txn_type, txn_sub_type, status, wrap_scheme,
			  decrypt_strategy, was_decrypted, signature_valid, error_code, error_description,
			  duration_ms, created_at
			  FROM verification_exchanges
			  ORDER BY id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list exchanges")
	}
	defer func() {
		_ = rows.Close()
	}()

	exchanges := make([]*verificationDomain.Exchange, 0)
	for rows.Next() {
		exchange, err := scanExchange(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan exchange")
		}
		exchanges = append(exchanges, exchange)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate exchanges")
	}

	return exchanges, nil
}

// GetByReferenceNumber retrieves the exchange for a reference number. Returns
// ErrExchangeNotFound if none exists.
func (p *PostgreSQLExchangeRepository) GetByReferenceNumber(
	ctx context.Context,
	referenceNumber string,
) (*verificationDomain.Exchange, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, request_id, reference_number, txn_type, txn_sub_type, status, wrap_scheme,
			  decrypt_strategy, was_decrypted, signature_valid, error_code, error_description,
			  duration_ms, created_at
			  FROM verification_exchanges
			  WHERE reference_number = $1
			  ORDER BY id DESC
			  LIMIT 1`

	row := querier.QueryRowContext(ctx, query, referenceNumber)
	exchange, err := scanExchange(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, verificationDomain.ErrExchangeNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get exchange")
	}

	return exchange, nil
}

// scanExchange reads one exchange row through the given scan function.
func scanExchange(scan func(dest ...any) error) (*verificationDomain.Exchange, error) {
	var exchange verificationDomain.Exchange
	var status string
	var durationMS int64

	err := scan(
		&exchange.ID,
		&exchange.RequestID,
		&exchange.ReferenceNumber,
		&exchange.TxnType,
		&exchange.TxnSubType,
		&status,
		&exchange.WrapScheme,
		&exchange.DecryptStrategy,
		&exchange.WasDecrypted,
		&exchange.SignatureValid,
		&exchange.ErrorCode,
		&exchange.ErrorDescription,
		&durationMS,
		&exchange.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	exchange.Status = verificationDomain.ExchangeStatus(status)
	exchange.Duration = time.Duration(durationMS) * time.Millisecond

	return &exchange, nil
}
