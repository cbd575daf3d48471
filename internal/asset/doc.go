// Package asset defines the core asset model for the stanza ledger:
// verse and poem identities, their on-ledger records, lifecycle events,
// and the canonical serialization used for content-addressed hashing.
//
// Two asset classes exist, with disjoint id namespaces:
//
//   - Verse: an individually owned, one-time-authorable text asset.
//     Blank at mint, authored exactly once by its current owner,
//     transferable while unlocked, permanently locked when consumed
//     by a poem.
//   - Poem: a composite asset snapshotting an ordered list of verse
//     ids and a title at creation time. Never mutated afterwards
//     except through ownership transfer.
//
// Canonical serialization follows RFC 8785 (JCS): object keys sorted
// by UTF-16 code units, NFC-normalized strings, no HTML escaping, no
// floats, no nulls. Every persisted event payload and every rendered
// document hash goes through this single serialization path so that
// identical ledger state always produces identical bytes.
package asset
