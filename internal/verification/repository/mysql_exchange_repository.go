package repository

import (
	"context"
	"database/sql"

	"github.com/pensionseva/eisgateway/internal/database"
	apperrors "github.com/pensionseva/eisgateway/internal/errors"
	verificationDomain "github.com/pensionseva/eisgateway/internal/verification/domain"
)

// MySQLExchangeRepository implements Exchange persistence for MySQL. UUIDs are
// stored as CHAR(36); transaction support via database.GetTx().
type MySQLExchangeRepository struct {
	db *sql.DB
}

// NewMySQLExchangeRepository creates a new MySQL Exchange repository.
func NewMySQLExchangeRepository(db *sql.DB) *MySQLExchangeRepository {
	return &MySQLExchangeRepository{db: db}
}

// Create inserts a new exchange record.
func (m *MySQLExchangeRepository) Create(ctx context.Context, exchange *verificationDomain.Exchange) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO verification_exchanges
			  (id, request_id, reference_number, txn_type, txn_sub_type, status, wrap_scheme,
			   decrypt_strategy, was_decrypted, signature_valid, error_code, error_description,
			   duration_ms, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
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
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create exchange")
	}

	return nil
}

// List retrieves exchange records ordered by ID descending (newest first)
// with pagination. Returns an empty slice if no exchanges exist.
func (m *MySQLExchangeRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*verificationDomain.Exchange, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, request_id, reference_number, txn_type, txn_sub_type, status, wrap_scheme,
			  decrypt_strategy, was_decrypted, signature_valid, error_code, error_description,
			  duration_ms, created_at
			  FROM verification_exchanges
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

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
func (m *MySQLExchangeRepository) GetByReferenceNumber(
	ctx context.Context,
	referenceNumber string,
) (*verificationDomain.Exchange, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, request_id, reference_number, txn_type, txn_sub_type, status, wrap_scheme,
			  decrypt_strategy, was_decrypted, signature_valid, error_code, error_description,
			  duration_ms, created_at
			  FROM verification_exchanges
			  WHERE reference_number = ?
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
