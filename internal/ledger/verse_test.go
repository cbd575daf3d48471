package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-labs/stanza/internal/asset"
	"github.com/corvid-labs/stanza/internal/policy"
	"github.com/corvid-labs/stanza/internal/store"
)

const authority = asset.Account("deployer")

func newTestSystem(t *testing.T) *System {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	sys, err := Boot(context.Background(), st, policy.Default(), authority, nil)
	require.NoError(t, err)
	return sys
}

func TestMintAllocatesSequentialIDs(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	ids, err := sys.Verses.Mint(ctx, "alice", 4, 0)
	require.NoError(t, err)
	assert.Equal(t, []asset.VerseID{1, 2, 3, 4}, ids)

	more, err := sys.Verses.Mint(ctx, "bob", 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []asset.VerseID{5, 6, 7}, more)

	total, err := sys.Verses.TotalVerses(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
}

func TestMintRejectsBadQuantity(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	_, err := sys.Verses.Mint(ctx, "alice", 0, 0)
	assert.Equal(t, CodeInvalidQuantity, CodeOf(err))

	_, err = sys.Verses.Mint(ctx, "alice", policy.Default().MaxPerMint+1, 0)
	assert.Equal(t, CodeInvalidQuantity, CodeOf(err))

	_, err = sys.Verses.Mint(ctx, "", 1, 0)
	assert.Equal(t, CodeInvalidRecipient, CodeOf(err))
}

func TestMintRequiresPayment(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	pol := policy.Default()
	pol.PricePerVerse = 5
	sys, err := Boot(context.Background(), st, pol, authority, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = sys.Verses.Mint(ctx, "alice", 3, 14)
	assert.Equal(t, CodePaymentRequired, CodeOf(err))

	ids, err := sys.Verses.Mint(ctx, "alice", 3, 15)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
}

func TestAddTextOnceOnly(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	ids, err := sys.Verses.Mint(ctx, "alice", 1, 0)
	require.NoError(t, err)
	id := ids[0]

	require.NoError(t, sys.Verses.AddText(ctx, "alice", id, "  first light over the bay  "))

	v, err := sys.Verses.VerseAt(ctx, id)
	require.NoError(t, err)
	assert.True(t, v.Authored)
	assert.Equal(t, "first light over the bay", v.Text)

	err = sys.Verses.AddText(ctx, "alice", id, "second thoughts")
	assert.Equal(t, CodeAlreadyAuthored, CodeOf(err))

	v, err = sys.Verses.VerseAt(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "first light over the bay", v.Text)
}

func TestAddTextValidation(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	ids, err := sys.Verses.Mint(ctx, "alice", 1, 0)
	require.NoError(t, err)
	id := ids[0]

	err = sys.Verses.AddText(ctx, "alice", id, "   \t\n  ")
	assert.Equal(t, CodeEmptyText, CodeOf(err))

	long := make([]byte, policy.Default().MaxVerseLen+1)
	for i := range long {
		long[i] = 'a'
	}
	err = sys.Verses.AddText(ctx, "alice", id, string(long))
	assert.Equal(t, CodeTextTooLong, CodeOf(err))

	err = sys.Verses.AddText(ctx, "mallory", id, "stolen words")
	assert.Equal(t, CodeNotOwner, CodeOf(err))

	err = sys.Verses.AddText(ctx, "alice", 99, "nowhere")
	assert.Equal(t, CodeNotFound, CodeOf(err))

	v, err := sys.Verses.VerseAt(ctx, id)
	require.NoError(t, err)
	assert.False(t, v.Authored)
}

func TestTransferOwnershipAndDelegates(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	ids, err := sys.Verses.Mint(ctx, "alice", 2, 0)
	require.NoError(t, err)

	require.NoError(t, sys.Verses.Transfer(ctx, "alice", "alice", "bob", ids[0]))
	owner, err := sys.Verses.OwnerOf(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, asset.Account("bob"), owner)

	err = sys.Verses.Transfer(ctx, "carol", "alice", "carol", ids[1])
	assert.Equal(t, CodeNotOwner, CodeOf(err))

	require.NoError(t, sys.Verses.Approve(ctx, "alice", "carol", ids[1]))
	require.NoError(t, sys.Verses.Transfer(ctx, "carol", "alice", "dave", ids[1]))

	v, err := sys.Verses.VerseAt(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, asset.Account("dave"), v.Owner)
	assert.Empty(t, v.Approved, "delegate is cleared on transfer")

	err = sys.Verses.Transfer(ctx, "carol", "dave", "carol", ids[1])
	assert.Equal(t, CodeNotOwner, CodeOf(err), "stale delegate cannot move the verse again")
}

func TestTransferValidation(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	ids, err := sys.Verses.Mint(ctx, "alice", 1, 0)
	require.NoError(t, err)

	err = sys.Verses.Transfer(ctx, "alice", "alice", "", ids[0])
	assert.Equal(t, CodeInvalidRecipient, CodeOf(err))

	err = sys.Verses.Transfer(ctx, "alice", "bob", "carol", ids[0])
	assert.Equal(t, CodeNotOwner, CodeOf(err))

	err = sys.Verses.Transfer(ctx, "alice", "alice", "bob", 42)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestLockedVerseIsFrozen(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	ids, err := sys.Verses.Mint(ctx, "alice", 1, 0)
	require.NoError(t, err)
	require.NoError(t, sys.Verses.AddText(ctx, "alice", ids[0], "a line set in amber"))

	_, err = sys.Poems.CreatePoem(ctx, "alice", ids, "Amber")
	require.NoError(t, err)

	err = sys.Verses.Transfer(ctx, "alice", "alice", "bob", ids[0])
	assert.Equal(t, CodeVerseLocked, CodeOf(err))

	err = sys.Verses.Approve(ctx, "alice", "bob", ids[0])
	assert.Equal(t, CodeVerseLocked, CodeOf(err))
}

func TestLockRequiresBoundComposer(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	ids, err := sys.Verses.Mint(ctx, "alice", 1, 0)
	require.NoError(t, err)
	require.NoError(t, sys.Verses.AddText(ctx, "alice", ids[0], "unlockable"))

	err = sys.Verses.Lock(ctx, "not-the-composer", ids[0])
	assert.Equal(t, CodeNotComposer, CodeOf(err))

	err = sys.Verses.Lock(ctx, "", ids[0])
	assert.Equal(t, CodeNotComposer, CodeOf(err))

	v, err := sys.Verses.VerseAt(ctx, ids[0])
	require.NoError(t, err)
	assert.False(t, v.Locked)
}

func TestLockRequiresAuthoredVerse(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	ids, err := sys.Verses.Mint(ctx, "alice", 1, 0)
	require.NoError(t, err)

	_, err = sys.Poems.CreatePoem(ctx, "alice", ids, "Too Soon")
	assert.Equal(t, CodeVerseNotAuthored, CodeOf(err))
}

func TestBindComposerSealsOnce(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	// Boot already bound a composer under the authority.
	err := sys.Verses.BindComposer(ctx, authority, "second-composer")
	assert.Equal(t, CodeWiringSealed, CodeOf(err))

	err = sys.Verses.BindComposer(ctx, "mallory", "evil-composer")
	assert.Equal(t, CodeNotAuthority, CodeOf(err))
}

func TestClockResumesAcrossRestarts(t *testing.T) {
	path := t.TempDir() + "/ledger.db"
	ctx := context.Background()

	st, err := store.Open(path)
	require.NoError(t, err)
	sys, err := Boot(ctx, st, policy.Default(), authority, nil)
	require.NoError(t, err)

	_, err = sys.Verses.Mint(ctx, "alice", 2, 0)
	require.NoError(t, err)
	firstMax, err := st.MaxEventSeq(ctx)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st2, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st2.Close() })
	sys2, err := Boot(ctx, st2, policy.Default(), authority, nil)
	require.NoError(t, err)

	_, err = sys2.Verses.Mint(ctx, "bob", 1, 0)
	require.NoError(t, err)

	events, err := st2.Events(ctx, firstMax)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, firstMax+1, events[0].Seq)
}

func TestVerseDocumentReflectsState(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	ids, err := sys.Verses.Mint(ctx, "alice", 1, 0)
	require.NoError(t, err)

	blank, err := sys.Verses.Document(ctx, ids[0])
	require.NoError(t, err)

	require.NoError(t, sys.Verses.AddText(ctx, "alice", ids[0], "ink at last"))
	authored, err := sys.Verses.Document(ctx, ids[0])
	require.NoError(t, err)

	assert.NotEqual(t, blank.Image, authored.Image)

	again, err := sys.Verses.Document(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, authored, again, "rendering is deterministic")
}
