// Package event publishes the transfer-completed fact once a transfer
// reaches its terminal successful state. Delivery is at-most-once and
// fire-and-forget from the coordinator's perspective: a publish failure is
// logged, never rolled back into the already-committed transaction.
package event
