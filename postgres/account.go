package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/Dhruv-9623/Bank-Hub/account"
	constant "github.com/Dhruv-9623/Bank-Hub/constant"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

// Assert the postgres store satisfies the account store contract.
var _ account.Store = (*AccountStore)(nil)

// AccountStore is the PostgreSQL implementation of account.Store.
type AccountStore struct {
	conn *Connection
}

// NewAccountStore creates an account store over the connection hub.
func NewAccountStore(conn *Connection) *AccountStore {
	return &AccountStore{conn: conn}
}

const accountColumns = `id, account_number, user_id, account_type, balance::text, active, version, created_at, last_transaction_at`

// Create persists a new account. A duplicate account number is reported as a
// validation error.
func (s *AccountStore) Create(ctx context.Context, acct *account.Account) error {
	db, err := s.conn.Writer(ctx)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO accounts (id, account_number, user_id, account_type, balance, active, version, created_at, last_transaction_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		acct.ID, acct.Number, acct.UserID, acct.Type, acct.Balance.String(),
		acct.Active, acct.Version, acct.CreatedAt, nullableTime(acct.LastTransactionAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account number %s already exists: %w", acct.Number, constant.ErrValidation)
		}

		return fmt.Errorf("insert account %s: %w", acct.Number, err)
	}

	return nil
}

// GetByNumber returns the account with the given number.
func (s *AccountStore) GetByNumber(ctx context.Context, number string) (*account.Account, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_number = $1`, number)

	acct, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", number, constant.ErrAccountNotFound)
		}

		return nil, fmt.Errorf("select account %s: %w", number, err)
	}

	return acct, nil
}

// ExistsByNumber reports whether an account with the given number exists.
func (s *AccountStore) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`, number,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("check account %s: %w", number, err)
	}

	return exists, nil
}

// ListByUser returns the user's accounts in opening order.
func (s *AccountStore) ListByUser(ctx context.Context, userID string) ([]*account.Account, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY created_at, account_number`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts for user %s: %w", userID, err)
	}
	defer rows.Close()

	var accts []*account.Account

	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}

		accts = append(accts, acct)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts for user %s: %w", userID, err)
	}

	return accts, nil
}

// Update writes the account back with compare-and-swap on the version
// column. A stale version is reported as a concurrency conflict; on success
// the incremented version is mirrored into acct.
func (s *AccountStore) Update(ctx context.Context, acct *account.Account) error {
	db, err := s.conn.Writer(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $1, active = $2, last_transaction_at = $3, version = version + 1
		WHERE account_number = $4 AND version = $5`,
		acct.Balance.String(), acct.Active, nullableTime(acct.LastTransactionAt),
		acct.Number, acct.Version,
	)
	if err != nil {
		return fmt.Errorf("update account %s: %w", acct.Number, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account %s: %w", acct.Number, err)
	}

	if affected == 0 {
		// Disambiguate on the primary: the replica may not have seen the
		// row we just lost a race on.
		var exists bool
		if err := db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`, acct.Number,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check account %s: %w", acct.Number, err)
		}

		if !exists {
			return fmt.Errorf("account %s: %w", acct.Number, constant.ErrAccountNotFound)
		}

		return fmt.Errorf("account %s version %d is stale: %w",
			acct.Number, acct.Version, constant.ErrConcurrencyConflict)
	}

	acct.Version++

	return nil
}

// Deactivate soft-deletes the account. Balances and history are retained.
func (s *AccountStore) Deactivate(ctx context.Context, number string) error {
	db, err := s.conn.Writer(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, `
		UPDATE accounts SET active = FALSE, version = version + 1
		WHERE account_number = $1`, number)
	if err != nil {
		return fmt.Errorf("deactivate account %s: %w", number, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate account %s: %w", number, err)
	}

	if affected == 0 {
		return fmt.Errorf("account %s: %w", number, constant.ErrAccountNotFound)
	}

	return nil
}

// scanAccount reads one account row. Balance is transported as text so the
// numeric value round-trips through decimal without float conversion.
func scanAccount(row scanner) (*account.Account, error) {
	var (
		acct              account.Account
		balance           string
		lastTransactionAt sql.NullTime
	)

	if err := row.Scan(
		&acct.ID, &acct.Number, &acct.UserID, &acct.Type, &balance,
		&acct.Active, &acct.Version, &acct.CreatedAt, &lastTransactionAt,
	); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("parse balance %q: %w", balance, err)
	}

	acct.Balance = parsed

	if lastTransactionAt.Valid {
		acct.LastTransactionAt = lastTransactionAt.Time
	}

	return &acct, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}

	return t
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
