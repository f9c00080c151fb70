// Package postgres provides the durable storage layer: a primary/replica
// connection hub with automatic schema migrations, and PostgreSQL-backed
// implementations of the account and transaction stores.
//
// Reads are routed to the replica pool and writes to the primary through
// dbresolver; in single-node deployments both DSNs point at the same server.
// All balance and status mutations use compare-and-swap on an integer
// version column, surfacing lost updates as concurrency conflicts instead
// of silently overwriting.
package postgres
