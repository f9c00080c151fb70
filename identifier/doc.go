// Package identifier generates collision-free identifiers for accounts and
// transactions: draw a random candidate, check it against an existence
// callback, retry within a bounded attempt budget. Reference numbers are the
// deliberate exception and are never collision-checked.
package identifier
