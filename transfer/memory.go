package transfer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	constant "github.com/Dhruv-9623/Bank-Hub/constant"
)

// MemoryStore is a mutex-guarded in-memory Store with the same guarded
// transition semantics as the SQL-backed store.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]*Transaction
}

// Compile-time assertion: *MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory transaction store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]*Transaction)}
}

// Create stores a new transaction. The transaction id must be free.
func (s *MemoryStore) Create(_ context.Context, txn *Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byID[txn.TransactionID]; taken {
		return fmt.Errorf("transaction id %s already exists: %w", txn.TransactionID, constant.ErrValidation)
	}

	s.byID[txn.TransactionID] = txn.Clone()

	return nil
}

// GetByTransactionID returns a copy of the transaction.
func (s *MemoryStore) GetByTransactionID(_ context.Context, transactionID string) (*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.byID[transactionID]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, constant.ErrTransactionNotFound)
	}

	return stored.Clone(), nil
}

// ExistsByTransactionID reports whether a transaction id is in use.
func (s *MemoryStore) ExistsByTransactionID(_ context.Context, transactionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byID[transactionID]

	return ok, nil
}

// Begin transitions PENDING → PROCESSING. Exactly one caller can win this
// transition; everyone else gets constant.ErrAlreadyProcessing.
func (s *MemoryStore) Begin(_ context.Context, transactionID string) (*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[transactionID]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, constant.ErrTransactionNotFound)
	}

	if stored.Status != StatusPending {
		return nil, fmt.Errorf("transaction %s is %s: %w", transactionID, stored.Status, constant.ErrAlreadyProcessing)
	}

	stored.Status = StatusProcessing
	stored.Version++

	return stored.Clone(), nil
}

// Settle transitions PROCESSING → COMPLETED/FAILED and stamps processedAt.
func (s *MemoryStore) Settle(
	_ context.Context,
	transactionID string,
	status Status,
	reason string,
	reconcile bool,
	processedAt time.Time,
) (*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[transactionID]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, constant.ErrTransactionNotFound)
	}

	if !stored.Status.CanTransitionTo(status) || (status != StatusCompleted && status != StatusFailed) {
		return nil, fmt.Errorf(
			"illegal transition %s → %s for transaction %s: %w",
			stored.Status, status, transactionID, constant.ErrValidation,
		)
	}

	stored.Status = status
	stored.Reason = reason
	stored.ReconcileRequired = reconcile
	stored.ProcessedAt = &processedAt
	stored.Version++

	return stored.Clone(), nil
}

// Cancel transitions PENDING → CANCELLED.
func (s *MemoryStore) Cancel(_ context.Context, transactionID string) (*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[transactionID]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, constant.ErrTransactionNotFound)
	}

	if !stored.Status.CanTransitionTo(StatusCancelled) {
		return nil, fmt.Errorf(
			"illegal transition %s → %s for transaction %s: %w",
			stored.Status, StatusCancelled, transactionID, constant.ErrValidation,
		)
	}

	stored.Status = StatusCancelled
	stored.Version++

	return stored.Clone(), nil
}

// ListByUser returns the user's transactions, newest first.
func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(txn *Transaction) bool { return txn.UserID == userID }), nil
}

// ListByAccount returns transactions touching the account, newest first.
func (s *MemoryStore) ListByAccount(_ context.Context, accountNumber string) ([]*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(txn *Transaction) bool {
		return txn.FromAccount == accountNumber || txn.ToAccount == accountNumber
	}), nil
}

func (s *MemoryStore) filter(keep func(*Transaction) bool) []*Transaction {
	var result []*Transaction

	for _, stored := range s.byID {
		if keep(stored) {
			result = append(result, stored.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result
}
