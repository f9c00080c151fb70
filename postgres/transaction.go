package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	constant "github.com/Dhruv-9623/Bank-Hub/constant"
	"github.com/Dhruv-9623/Bank-Hub/transfer"
)

// Assert the postgres store satisfies the transaction store contract.
var _ transfer.Store = (*TransactionStore)(nil)

// TransactionStore is the PostgreSQL implementation of transfer.Store. The
// status column is only ever advanced through guarded UPDATEs whose WHERE
// clause names the expected current status, so illegal transitions and
// concurrent replays lose the race at the database rather than in memory.
type TransactionStore struct {
	conn *Connection
}

// NewTransactionStore creates a transaction store over the connection hub.
func NewTransactionStore(conn *Connection) *TransactionStore {
	return &TransactionStore{conn: conn}
}

const transactionColumns = `id, transaction_id, from_account, to_account, amount::text, type, status,
	description, user_id, reference_number, reason, reconcile_required, created_at, processed_at, version`

// Create persists a new PENDING transaction. A duplicate transaction id is
// reported as a validation error.
func (s *TransactionStore) Create(ctx context.Context, txn *transfer.Transaction) error {
	db, err := s.conn.Writer(ctx)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO transactions (id, transaction_id, from_account, to_account, amount, type, status,
			description, user_id, reference_number, reason, reconcile_required, created_at, processed_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		txn.ID, txn.TransactionID, txn.FromAccount, txn.ToAccount, txn.Amount.String(),
		txn.Type, string(txn.Status), txn.Description, txn.UserID, txn.ReferenceNumber,
		txn.Reason, txn.ReconcileRequired, txn.CreatedAt, txn.ProcessedAt, txn.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction %s already exists: %w", txn.TransactionID, constant.ErrValidation)
		}

		return fmt.Errorf("insert transaction %s: %w", txn.TransactionID, err)
	}

	return nil
}

// GetByTransactionID returns the transaction with the given public id.
func (s *TransactionStore) GetByTransactionID(ctx context.Context, transactionID string) (*transfer.Transaction, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1`, transactionID)

	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", transactionID, constant.ErrTransactionNotFound)
		}

		return nil, fmt.Errorf("select transaction %s: %w", transactionID, err)
	}

	return txn, nil
}

// ExistsByTransactionID reports whether a transaction with the given public
// id exists.
func (s *TransactionStore) ExistsByTransactionID(ctx context.Context, transactionID string) (bool, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE transaction_id = $1)`, transactionID,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("check transaction %s: %w", transactionID, err)
	}

	return exists, nil
}

// Begin claims the transaction for processing. The guarded UPDATE admits
// exactly one caller per transaction; everyone else sees an
// already-processing error regardless of how the race interleaves.
func (s *TransactionStore) Begin(ctx context.Context, transactionID string) (*transfer.Transaction, error) {
	db, err := s.conn.Writer(ctx)
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, `
		UPDATE transactions
		SET status = $1, version = version + 1
		WHERE transaction_id = $2 AND status = $3
		RETURNING `+transactionColumns,
		string(transfer.StatusProcessing), transactionID, string(transfer.StatusPending),
	)

	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.claimFailure(ctx, transactionID)
		}

		return nil, fmt.Errorf("begin transaction %s: %w", transactionID, err)
	}

	return txn, nil
}

// Settle moves a PROCESSING transaction to its terminal outcome.
func (s *TransactionStore) Settle(ctx context.Context, transactionID string, status transfer.Status, reason string, reconcile bool, processedAt time.Time) (*transfer.Transaction, error) {
	if status != transfer.StatusCompleted && status != transfer.StatusFailed {
		return nil, fmt.Errorf("cannot settle to %s: %w", status, constant.ErrValidation)
	}

	db, err := s.conn.Writer(ctx)
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, `
		UPDATE transactions
		SET status = $1, reason = $2, reconcile_required = $3, processed_at = $4, version = version + 1
		WHERE transaction_id = $5 AND status = $6
		RETURNING `+transactionColumns,
		string(status), reason, reconcile, processedAt,
		transactionID, string(transfer.StatusProcessing),
	)

	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.transitionFailure(ctx, transactionID, status)
		}

		return nil, fmt.Errorf("settle transaction %s: %w", transactionID, err)
	}

	return txn, nil
}

// Cancel withdraws a PENDING transaction.
func (s *TransactionStore) Cancel(ctx context.Context, transactionID string) (*transfer.Transaction, error) {
	db, err := s.conn.Writer(ctx)
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, `
		UPDATE transactions
		SET status = $1, version = version + 1
		WHERE transaction_id = $2 AND status = $3
		RETURNING `+transactionColumns,
		string(transfer.StatusCancelled), transactionID, string(transfer.StatusPending),
	)

	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.transitionFailure(ctx, transactionID, transfer.StatusCancelled)
		}

		return nil, fmt.Errorf("cancel transaction %s: %w", transactionID, err)
	}

	return txn, nil
}

// ListByUser returns the user's transactions, newest first.
func (s *TransactionStore) ListByUser(ctx context.Context, userID string) ([]*transfer.Transaction, error) {
	return s.list(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
}

// ListByAccount returns every transaction touching the account as source or
// destination, newest first.
func (s *TransactionStore) ListByAccount(ctx context.Context, accountNumber string) ([]*transfer.Transaction, error) {
	return s.list(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE from_account = $1 OR to_account = $1 ORDER BY created_at DESC`,
		accountNumber)
}

func (s *TransactionStore) list(ctx context.Context, query string, arg any) ([]*transfer.Transaction, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*transfer.Transaction

	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return txns, nil
}

// claimFailure explains why a Begin matched no row. It reads the primary:
// the replica may not have seen the row the caller just lost a race on.
func (s *TransactionStore) claimFailure(ctx context.Context, transactionID string) error {
	db, err := s.conn.Writer(ctx)
	if err != nil {
		return err
	}

	var exists bool
	if err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE transaction_id = $1)`, transactionID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check transaction %s: %w", transactionID, err)
	}

	if !exists {
		return fmt.Errorf("transaction %s: %w", transactionID, constant.ErrTransactionNotFound)
	}

	return fmt.Errorf("transaction %s: %w", transactionID, constant.ErrAlreadyProcessing)
}

// transitionFailure explains why a guarded status UPDATE matched no row.
func (s *TransactionStore) transitionFailure(ctx context.Context, transactionID string, target transfer.Status) error {
	db, err := s.conn.Writer(ctx)
	if err != nil {
		return err
	}

	var status string
	if err := db.QueryRowContext(ctx,
		`SELECT status FROM transactions WHERE transaction_id = $1`, transactionID,
	).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("transaction %s: %w", transactionID, constant.ErrTransactionNotFound)
		}

		return fmt.Errorf("check transaction %s: %w", transactionID, err)
	}

	return fmt.Errorf("transaction %s cannot move from %s to %s: %w",
		transactionID, status, target, constant.ErrValidation)
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*transfer.Transaction, error) {
	var (
		txn         transfer.Transaction
		amount      string
		status      string
		processedAt sql.NullTime
	)

	if err := row.Scan(
		&txn.ID, &txn.TransactionID, &txn.FromAccount, &txn.ToAccount, &amount,
		&txn.Type, &status, &txn.Description, &txn.UserID, &txn.ReferenceNumber,
		&txn.Reason, &txn.ReconcileRequired, &txn.CreatedAt, &processedAt, &txn.Version,
	); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}

	txn.Amount = parsed
	txn.Status = transfer.Status(status)

	if processedAt.Valid {
		processed := processedAt.Time
		txn.ProcessedAt = &processed
	}

	return &txn, nil
}
