// Package ledger implements the verse and poem state machines on top
// of the store.
//
// ARCHITECTURE:
//
// Two ledgers, one database:
// VerseLedger is the sole authority over verse rows; PoemLedger over
// poem rows. PoemLedger's only path into verse state is LockWithin,
// the capability-checked lock operation, called inside PoemLedger's
// own transaction so composition is a single atomic unit.
//
// Mutation discipline:
// Every mutating operation runs as one store transaction and follows
// the same shape: read, validate completely, then write rows and
// append events. No event is appended before the validation phase
// finishes, and a failed call rolls back every row it touched - a
// createPoem that fails on the third of four verses leaves all four
// unlocked.
//
// Ordering:
// All events carry a seq from a single monotonic logical clock shared
// by both ledgers. The clock resumes from the highest stored seq at
// boot. Wall-clock time is never recorded; it would make replay and
// golden comparison non-deterministic.
//
// Capability restriction:
// Locking is gated on a composer identity bound exactly once by the
// deploying authority. The stored identity is compared at call time;
// there is no ambient trust between the two ledgers.
package ledger
