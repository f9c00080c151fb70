// Package constant defines the sentinel errors and domain constants shared
// across the Bank-Hub transfer core. Callers match errors with errors.Is and
// map them to human-readable responses via bankhub.ValidateBusinessError.
package constant
