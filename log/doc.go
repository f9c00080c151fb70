// Package log defines the logging facade used across the transfer core and
// a zap-backed implementation of it. Components hold a log.Logger and never
// touch the concrete logger; a NopLogger keeps nil-logger call sites safe.
package log
