package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-labs/stanza/internal/asset"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpenAppliesSchema(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	total, err := st.TotalVerses(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	seq, err := st.MaxEventSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)

	_, bound, err := st.Composer(ctx)
	require.NoError(t, err)
	assert.False(t, bound)
}

func TestOpenIdempotentOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	st, err := Open(path)
	require.NoError(t, err)

	err = st.WithTx(context.Background(), func(tx *Tx) error {
		ids, err := tx.AllocateVerseIDs(2)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := tx.InsertVerse(asset.Verse{ID: id, Owner: "alice"}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	// Reopen: schema application must not disturb existing rows or
	// reset the counters.
	st2, err := Open(path)
	require.NoError(t, err)
	defer st2.Close()

	total, err := st2.TotalVerses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	err = st2.WithTx(context.Background(), func(tx *Tx) error {
		ids, err := tx.AllocateVerseIDs(1)
		if err != nil {
			return err
		}
		assert.Equal(t, []asset.VerseID{3}, ids)
		return tx.InsertVerse(asset.Verse{ID: ids[0], Owner: "bob"})
	})
	require.NoError(t, err)
}

func TestAllocateVerseIDsSequential(t *testing.T) {
	st := openTestStore(t)

	var first, second []asset.VerseID
	err := st.WithTx(context.Background(), func(tx *Tx) error {
		var err error
		first, err = tx.AllocateVerseIDs(4)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []asset.VerseID{1, 2, 3, 4}, first)

	err = st.WithTx(context.Background(), func(tx *Tx) error {
		var err error
		second, err = tx.AllocateVerseIDs(3)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []asset.VerseID{5, 6, 7}, second)
}

func TestVerseAndPoemNamespacesDisjoint(t *testing.T) {
	st := openTestStore(t)

	err := st.WithTx(context.Background(), func(tx *Tx) error {
		vids, err := tx.AllocateVerseIDs(2)
		if err != nil {
			return err
		}
		assert.Equal(t, []asset.VerseID{1, 2}, vids)

		pid, err := tx.AllocatePoemID()
		if err != nil {
			return err
		}
		assert.Equal(t, asset.PoemID(1), pid)
		return nil
	})
	require.NoError(t, err)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	sentinel := assert.AnError
	err := st.WithTx(ctx, func(tx *Tx) error {
		ids, err := tx.AllocateVerseIDs(1)
		if err != nil {
			return err
		}
		if err := tx.InsertVerse(asset.Verse{ID: ids[0], Owner: "alice"}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	// Nothing from the failed transaction is visible: no verse row
	// and the counter did not advance.
	total, err := st.TotalVerses(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	err = st.WithTx(ctx, func(tx *Tx) error {
		ids, err := tx.AllocateVerseIDs(1)
		if err != nil {
			return err
		}
		assert.Equal(t, []asset.VerseID{1}, ids)
		return tx.InsertVerse(asset.Verse{ID: ids[0], Owner: "alice"})
	})
	require.NoError(t, err)
}

func TestVerseRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx *Tx) error {
		if err := tx.InsertVerse(asset.Verse{ID: 1, Owner: "alice"}); err != nil {
			return err
		}
		if err := tx.SetVerseText(1, "The Brain is wider than the Sky"); err != nil {
			return err
		}
		if err := tx.SetVerseApproved(1, "delegate"); err != nil {
			return err
		}
		return nil
	})
	require.NoError(t, err)

	v, found, err := st.Verse(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, asset.Account("alice"), v.Owner)
	assert.Equal(t, "The Brain is wider than the Sky", v.Text)
	assert.True(t, v.Authored)
	assert.False(t, v.Locked)
	assert.Equal(t, asset.Account("delegate"), v.Approved)

	// Transfer clears the delegate.
	err = st.WithTx(ctx, func(tx *Tx) error {
		return tx.SetVerseOwner(1, "bob")
	})
	require.NoError(t, err)

	v, found, err = st.Verse(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, asset.Account("bob"), v.Owner)
	assert.Equal(t, asset.Account(""), v.Approved)

	_, found, err = st.Verse(ctx, 99)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPoemRoundTripPreservesOrder(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx *Tx) error {
		for _, id := range []asset.VerseID{1, 2, 3, 4} {
			if err := tx.InsertVerse(asset.Verse{ID: id, Owner: "alice"}); err != nil {
				return err
			}
		}
		// Order deliberately not ascending by id.
		return tx.InsertPoem(asset.Poem{
			ID:       1,
			Owner:    "alice",
			Title:    "A poem of test",
			VerseIDs: []asset.VerseID{3, 1, 4},
		})
	})
	require.NoError(t, err)

	p, found, err := st.Poem(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "A poem of test", p.Title)
	assert.Equal(t, []asset.VerseID{3, 1, 4}, p.VerseIDs)

	_, found, err = st.Poem(ctx, 2)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPoemVersesUniqueAcrossPoems(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx *Tx) error {
		for _, id := range []asset.VerseID{1, 2} {
			if err := tx.InsertVerse(asset.Verse{ID: id, Owner: "alice"}); err != nil {
				return err
			}
		}
		return tx.InsertPoem(asset.Poem{ID: 1, Owner: "alice", Title: "first", VerseIDs: []asset.VerseID{1}})
	})
	require.NoError(t, err)

	// The storage layer itself refuses a second poem referencing the
	// same verse, independent of ledger validation.
	err = st.WithTx(ctx, func(tx *Tx) error {
		return tx.InsertPoem(asset.Poem{ID: 2, Owner: "alice", Title: "second", VerseIDs: []asset.VerseID{1}})
	})
	require.Error(t, err)
}

func TestEventsAppendAndRead(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx *Tx) error {
		if err := tx.AppendEvent(asset.Event{
			Seq: 1, ID: "ev-1", Kind: asset.EventVersesMinted, Actor: "alice",
			Payload: asset.Obj{"ids": asset.Arr{asset.Int(1), asset.Int(2)}},
		}); err != nil {
			return err
		}
		return tx.AppendEvent(asset.Event{
			Seq: 2, ID: "ev-2", Kind: asset.EventTextAdded, Actor: "alice",
			Payload: asset.Obj{"verse": asset.Int(1)},
		})
	})
	require.NoError(t, err)

	events, err := st.Events(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, asset.EventVersesMinted, events[0].Kind)
	assert.Equal(t, asset.Obj{"ids": asset.Arr{asset.Int(1), asset.Int(2)}}, events[0].Payload)
	assert.Equal(t, asset.EventTextAdded, events[1].Kind)

	after, err := st.Events(ctx, 1)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, int64(2), after[0].Seq)

	seq, err := st.MaxEventSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)
}

func TestBindComposerOnce(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx *Tx) error {
		bound, err := tx.BindComposer("composer-token")
		require.NoError(t, err)
		assert.True(t, bound)
		return nil
	})
	require.NoError(t, err)

	err = st.WithTx(ctx, func(tx *Tx) error {
		bound, err := tx.BindComposer("other-token")
		require.NoError(t, err)
		assert.False(t, bound)
		return nil
	})
	require.NoError(t, err)

	id, bound, err := st.Composer(ctx)
	require.NoError(t, err)
	require.True(t, bound)
	assert.Equal(t, "composer-token", id)
}
