// Package backoff provides retry delay helpers with exponential growth and
// jitter, plus a bounded retry Policy used by the transfer coordinator for
// transient failures.
package backoff
