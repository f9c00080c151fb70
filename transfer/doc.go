// Package transfer coordinates funds transfers as a saga: create a pending
// transaction, debit the source, credit the destination, and compensate the
// debit when the credit cannot be applied. Each transaction moves through a
// forward-only status machine and is immutable once terminal.
package transfer
