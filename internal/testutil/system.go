// Package testutil provides shared helpers for tests that need a
// booted ledger system or a deterministic event trace.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvid-labs/stanza/internal/asset"
	"github.com/corvid-labs/stanza/internal/ledger"
	"github.com/corvid-labs/stanza/internal/policy"
	"github.com/corvid-labs/stanza/internal/store"
)

// Authority is the deploying identity used by test systems.
const Authority = asset.Account("test-authority")

// OpenStore opens an in-memory store that closes with the test.
func OpenStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// Composer is the fixed composer identity bound by BootSystem. A
// fixed identity keeps the composer_bound event payload, and with it
// the whole event trace, identical across runs.
const Composer = "test-composer"

// BootSystem wires a fresh system over an in-memory store with the
// default policy, a fixed composer identity, and a discarded logger.
func BootSystem(t *testing.T) (*ledger.System, *store.Store) {
	t.Helper()
	return BootSystemWithPolicy(t, policy.Default())
}

// BootSystemWithPolicy is BootSystem with a caller-chosen policy.
func BootSystemWithPolicy(t *testing.T, pol policy.Policy) (*ledger.System, *store.Store) {
	t.Helper()
	st := OpenStore(t)
	sys, err := ledger.Wire(context.Background(), st, pol, Authority, Composer, nil)
	require.NoError(t, err)
	return sys, st
}
