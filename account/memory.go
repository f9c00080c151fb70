package account

import (
	"context"
	"fmt"
	"sort"
	"sync"

	constant "github.com/Dhruv-9623/Bank-Hub/constant"
)

// MemoryStore is a mutex-guarded in-memory Store. It keeps the same
// compare-and-swap contract as the SQL-backed store, so coordinator and
// mutator behavior under contention can be exercised without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	byNumber map[string]*Account
}

// Compile-time assertion: *MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory account store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byNumber: make(map[string]*Account)}
}

// Create stores a new account. The account number must be free.
func (s *MemoryStore) Create(_ context.Context, acct *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byNumber[acct.Number]; taken {
		return fmt.Errorf("account number %s already exists: %w", acct.Number, constant.ErrValidation)
	}

	stored := *acct
	s.byNumber[acct.Number] = &stored

	return nil
}

// GetByNumber returns a copy of the account for the given number.
func (s *MemoryStore) GetByNumber(_ context.Context, number string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.byNumber[number]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", number, constant.ErrAccountNotFound)
	}

	acct := *stored

	return &acct, nil
}

// ExistsByNumber reports whether an account number is in use.
func (s *MemoryStore) ExistsByNumber(_ context.Context, number string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byNumber[number]

	return ok, nil
}

// ListByUser returns copies of the user's accounts in opening order.
func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var accts []*Account

	for _, stored := range s.byNumber {
		if stored.UserID != userID {
			continue
		}

		acct := *stored
		accts = append(accts, &acct)
	}

	sort.Slice(accts, func(i, j int) bool {
		if accts[i].CreatedAt.Equal(accts[j].CreatedAt) {
			return accts[i].Number < accts[j].Number
		}

		return accts[i].CreatedAt.Before(accts[j].CreatedAt)
	})

	return accts, nil
}

// Update applies a read-modify-write conditioned on the version being
// unchanged since the read. On success the stored version is incremented
// and mirrored back into acct.
func (s *MemoryStore) Update(_ context.Context, acct *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byNumber[acct.Number]
	if !ok {
		return fmt.Errorf("account %s: %w", acct.Number, constant.ErrAccountNotFound)
	}

	if stored.Version != acct.Version {
		return fmt.Errorf("account %s version %d: %w", acct.Number, acct.Version, constant.ErrConcurrencyConflict)
	}

	updated := *acct
	updated.Version++
	s.byNumber[acct.Number] = &updated
	acct.Version = updated.Version

	return nil
}

// Deactivate marks the account inactive. Deactivation is idempotent and
// does not participate in version arbitration.
func (s *MemoryStore) Deactivate(_ context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byNumber[number]
	if !ok {
		return fmt.Errorf("account %s: %w", number, constant.ErrAccountNotFound)
	}

	stored.Active = false
	stored.Version++

	return nil
}
