//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Dhruv-9623/Bank-Hub/account"
	constant "github.com/Dhruv-9623/Bank-Hub/constant"
	"github.com/Dhruv-9623/Bank-Hub/event"
	"github.com/Dhruv-9623/Bank-Hub/transfer"
)

// setupConnection starts a disposable PostgreSQL container, connects the hub
// and runs the embedded migrations. The container is terminated via
// t.Cleanup.
func setupConnection(t *testing.T) *Connection {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("bankhub"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := New(Config{PrimaryDSN: dsn, DatabaseName: "bankhub"})
	require.NoError(t, err)
	require.NoError(t, conn.Connect(ctx))

	t.Cleanup(func() {
		assert.NoError(t, conn.Close())
	})

	return conn
}

func seedAccount(t *testing.T, store *AccountStore, number string, balance int64) {
	t.Helper()

	require.NoError(t, store.Create(context.Background(), &account.Account{
		ID:        uuid.New(),
		Number:    number,
		UserID:    "user-1",
		Type:      constant.AccountTypeChecking,
		Balance:   decimal.NewFromInt(balance),
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}))
}

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

func TestIntegration_AccountStore_RoundTrip(t *testing.T) {
	conn := setupConnection(t)
	store := NewAccountStore(conn)
	ctx := context.Background()

	seedAccount(t, store, "ACC0000000001", 1000)

	got, err := store.GetByNumber(ctx, "ACC0000000001")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, got.Active)
	assert.EqualValues(t, 0, got.Version)
	assert.True(t, got.LastTransactionAt.IsZero())

	exists, err := store.ExistsByNumber(ctx, "ACC0000000001")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = store.GetByNumber(ctx, "ACC0000000404")
	require.ErrorIs(t, err, constant.ErrAccountNotFound)

	err = store.Create(ctx, &account.Account{
		ID: uuid.New(), Number: "ACC0000000001", UserID: "user-2",
		Type: constant.AccountTypeChecking, CreatedAt: time.Now().UTC(),
	})
	require.ErrorIs(t, err, constant.ErrValidation, "duplicate account number")
}

func TestIntegration_AccountStore_ListByUser(t *testing.T) {
	conn := setupConnection(t)
	store := NewAccountStore(conn)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)

	for i, number := range []string{"ACC0000000002", "ACC0000000001"} {
		require.NoError(t, store.Create(ctx, &account.Account{
			ID:        uuid.New(),
			Number:    number,
			UserID:    "user-1",
			Type:      constant.AccountTypeChecking,
			Balance:   decimal.NewFromInt(int64(100 * (i + 1))),
			Active:    true,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	require.NoError(t, store.Create(ctx, &account.Account{
		ID:        uuid.New(),
		Number:    "ACC0000000003",
		UserID:    "user-2",
		Type:      constant.AccountTypeSavings,
		Active:    true,
		CreatedAt: base,
	}))

	got, err := store.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ACC0000000002", got[0].Number, "opening order, not number order")
	assert.Equal(t, "ACC0000000001", got[1].Number)
	assert.True(t, got[1].Balance.Equal(decimal.NewFromInt(200)))

	empty, err := store.ListByUser(ctx, "user-404")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestIntegration_AccountStore_UpdateCAS(t *testing.T) {
	conn := setupConnection(t)
	store := NewAccountStore(conn)
	ctx := context.Background()

	seedAccount(t, store, "ACC0000000001", 1000)

	acct, err := store.GetByNumber(ctx, "ACC0000000001")
	require.NoError(t, err)

	stale := *acct

	acct.Balance = decimal.NewFromInt(900)
	acct.LastTransactionAt = time.Now().UTC()
	require.NoError(t, store.Update(ctx, acct))
	assert.EqualValues(t, 1, acct.Version, "version mirrors the stored increment")

	// The second writer still holds version 0 and must lose.
	stale.Balance = decimal.NewFromInt(800)
	err = store.Update(ctx, &stale)
	require.ErrorIs(t, err, constant.ErrConcurrencyConflict)

	got, err := store.GetByNumber(ctx, "ACC0000000001")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(900)), "losing write must not land")
	assert.False(t, got.LastTransactionAt.IsZero())
}

func TestIntegration_AccountStore_Deactivate(t *testing.T) {
	conn := setupConnection(t)
	store := NewAccountStore(conn)
	ctx := context.Background()

	seedAccount(t, store, "ACC0000000001", 50)

	require.NoError(t, store.Deactivate(ctx, "ACC0000000001"))

	got, err := store.GetByNumber(ctx, "ACC0000000001")
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(50)), "deactivation keeps the balance")

	require.ErrorIs(t, store.Deactivate(ctx, "ACC0000000404"), constant.ErrAccountNotFound)
}

// ---------------------------------------------------------------------------
// Transactions
// ---------------------------------------------------------------------------

func TestIntegration_TransactionStore_Lifecycle(t *testing.T) {
	conn := setupConnection(t)
	store := NewTransactionStore(conn)
	ctx := context.Background()

	txn := &transfer.Transaction{
		ID:              uuid.New(),
		TransactionID:   "TXN0123456789",
		FromAccount:     "ACC0000000001",
		ToAccount:       "ACC0000000002",
		Amount:          decimal.RequireFromString("250.00"),
		Type:            constant.TRANSFER,
		Status:          transfer.StatusPending,
		UserID:          "user-1",
		ReferenceNumber: "REF000000000001",
		CreatedAt:       time.Now().UTC(),
	}
	require.NoError(t, store.Create(ctx, txn))

	require.ErrorIs(t, store.Create(ctx, txn), constant.ErrValidation, "duplicate transaction id")

	claimed, err := store.Begin(ctx, txn.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusProcessing, claimed.Status)
	assert.True(t, claimed.Amount.Equal(txn.Amount))

	_, err = store.Begin(ctx, txn.TransactionID)
	require.ErrorIs(t, err, constant.ErrAlreadyProcessing, "second claim loses")

	settled, err := store.Settle(ctx, txn.TransactionID, transfer.StatusCompleted, "", false, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusCompleted, settled.Status)
	require.NotNil(t, settled.ProcessedAt)

	_, err = store.Settle(ctx, txn.TransactionID, transfer.StatusFailed, "late", false, time.Now().UTC())
	require.ErrorIs(t, err, constant.ErrValidation, "terminal transactions are immutable")

	_, err = store.Begin(ctx, "TXN0000000404")
	require.ErrorIs(t, err, constant.ErrTransactionNotFound)
}

func TestIntegration_TransactionStore_CancelAndHistory(t *testing.T) {
	conn := setupConnection(t)
	store := NewTransactionStore(conn)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)

	for i, id := range []string{"TXN0000000001", "TXN0000000002"} {
		require.NoError(t, store.Create(ctx, &transfer.Transaction{
			ID:              uuid.New(),
			TransactionID:   id,
			FromAccount:     "ACC0000000001",
			ToAccount:       "ACC0000000002",
			Amount:          decimal.NewFromInt(10),
			Type:            constant.TRANSFER,
			Status:          transfer.StatusPending,
			UserID:          "user-1",
			ReferenceNumber: "REF000000000001",
			CreatedAt:       base.Add(time.Duration(i) * time.Second),
		}))
	}

	cancelled, err := store.Cancel(ctx, "TXN0000000001")
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusCancelled, cancelled.Status)

	_, err = store.Cancel(ctx, "TXN0000000001")
	require.ErrorIs(t, err, constant.ErrValidation, "cancel is PENDING-only")

	byUser, err := store.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	assert.Equal(t, "TXN0000000002", byUser[0].TransactionID, "newest first")

	byAccount, err := store.ListByAccount(ctx, "ACC0000000002")
	require.NoError(t, err)
	assert.Len(t, byAccount, 2)
}

// ---------------------------------------------------------------------------
// Full saga over durable storage
// ---------------------------------------------------------------------------

func TestIntegration_TransferSaga_EndToEnd(t *testing.T) {
	conn := setupConnection(t)
	accounts := NewAccountStore(conn)
	transactions := NewTransactionStore(conn)
	ctx := context.Background()

	seedAccount(t, accounts, "ACC0000000001", 1000)
	seedAccount(t, accounts, "ACC0000000002", 0)

	coordinator := transfer.NewCoordinator(
		transactions,
		account.NewService(accounts),
		event.NewLogEmitter(nil),
	)

	result, err := coordinator.CreateAndExecute(ctx, transfer.CreateRequest{
		FromAccount: "ACC0000000001",
		ToAccount:   "ACC0000000002",
		Amount:      decimal.RequireFromString("250.00"),
		UserID:      "user-1",
		Description: "rent",
	})
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusCompleted, result.Status)

	from, err := accounts.GetByNumber(ctx, "ACC0000000001")
	require.NoError(t, err)
	assert.True(t, from.Balance.Equal(decimal.NewFromInt(750)))

	to, err := accounts.GetByNumber(ctx, "ACC0000000002")
	require.NoError(t, err)
	assert.True(t, to.Balance.Equal(decimal.NewFromInt(250)))

	// Replays are rejected at the idempotency boundary.
	_, err = coordinator.Execute(ctx, result.TransactionID)
	require.ErrorIs(t, err, constant.ErrAlreadyProcessing)
}
