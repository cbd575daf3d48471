// Package store provides durable SQLite persistence for the stanza
// ledger: verse and poem tables, the append-only event log, per-class
// id counters, and the one-time composer binding.
//
// Ownership: the store holds rows, the ledger holds rules. No method
// here checks ownership, authoring state, or lock state - callers in
// internal/ledger do all validation and drive every mutation through
// a single transaction via WithTx, so a failed call leaves no partial
// writes behind.
//
// Ordering: events carry a logical seq assigned by the ledger clock.
// All reads order by seq; wall-clock time is never stored.
package store
