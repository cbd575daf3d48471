// Package harness provides a conformance testing framework for the
// verse and poem ledgers.
//
// Scenarios are YAML files describing a session: a sequence of ledger
// operations performed by named participants, each with an optional
// expectation (allocated ids, the resulting poem id, or a rejection
// code), followed by assertions over the final state.
//
// Every scenario runs against a fresh in-memory database driven
// through the real ledgers, so a passing scenario is evidence about
// ledger behavior, not about the harness. Event ids are the only
// nondeterministic output and are projected away before golden
// comparison, so the same scenario always yields a byte-identical
// trace.
//
// Golden files live in testdata/golden/{name}.golden and are
// regenerated with:
//
//	go test ./internal/harness -update
package harness
