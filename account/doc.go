// Package account holds the account ledger: balances guarded by optimistic
// version compare-and-swap, and the mutator operations (get, withdraw,
// deposit) exposed to the transfer coordinator. The mutator performs no
// retry on conflict; retry policy belongs to the caller.
package account
