// Package bankhub is the funds-transfer core of Bank-Hub.
//
// It coordinates balance debits and credits across independently owned
// account records as a saga: optimistic concurrency control on each account,
// a forward-only transaction status machine, compensation on partial failure
// and an event emitted once a transfer completes. Subpackages hold the
// moving parts (account, transfer, identifier, event, postgres); this root
// package carries the business-error envelope shared by all of them.
package bankhub
