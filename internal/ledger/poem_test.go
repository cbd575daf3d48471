package ledger

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-labs/stanza/internal/asset"
	"github.com/corvid-labs/stanza/internal/policy"
)

func authoredVerses(t *testing.T, sys *System, owner asset.Account, lines ...string) []asset.VerseID {
	t.Helper()
	ctx := context.Background()
	ids, err := sys.Verses.Mint(ctx, owner, len(lines), 0)
	require.NoError(t, err)
	for i, id := range ids {
		require.NoError(t, sys.Verses.AddText(ctx, owner, id, lines[i]))
	}
	return ids
}

func TestCreatePoemConsumesVersesInOrder(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	ids := authoredVerses(t, sys, "alice",
		"the tide forgets",
		"a gull repeats its one idea",
		"salt on the window",
	)

	// Caller-chosen order, not mint order.
	order := []asset.VerseID{ids[2], ids[0], ids[1]}
	poemID, err := sys.Poems.CreatePoem(ctx, "alice", order, "Shore Report")
	require.NoError(t, err)
	assert.Equal(t, asset.PoemID(1), poemID)

	p, err := sys.Poems.PoemAt(ctx, poemID)
	require.NoError(t, err)
	assert.Equal(t, asset.Account("alice"), p.Owner)
	assert.Equal(t, "Shore Report", p.Title)
	assert.Equal(t, order, p.VerseIDs)

	for _, id := range ids {
		v, err := sys.Verses.VerseAt(ctx, id)
		require.NoError(t, err)
		assert.True(t, v.Locked)
	}
}

func TestCreatePoemValidation(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	ids := authoredVerses(t, sys, "alice", "one good line")

	_, err := sys.Poems.CreatePoem(ctx, "alice", nil, "Empty")
	assert.Equal(t, CodeEmptyPoem, CodeOf(err))

	_, err = sys.Poems.CreatePoem(ctx, "alice", ids, "   ")
	assert.Equal(t, CodeEmptyTitle, CodeOf(err))

	long := strings.Repeat("t", policy.Default().MaxTitleLen+1)
	_, err = sys.Poems.CreatePoem(ctx, "alice", ids, long)
	assert.Equal(t, CodeTitleTooLong, CodeOf(err))

	_, err = sys.Poems.CreatePoem(ctx, "alice", []asset.VerseID{ids[0], ids[0]}, "Twice")
	assert.Equal(t, CodeDuplicateVerse, CodeOf(err))

	_, err = sys.Poems.CreatePoem(ctx, "bob", ids, "Not Mine")
	assert.Equal(t, CodeVerseNotOwned, CodeOf(err))

	_, err = sys.Poems.CreatePoem(ctx, "alice", []asset.VerseID{99}, "Ghost")
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestCreatePoemFailureLocksNothing(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	ids := authoredVerses(t, sys, "alice", "stays free", "also stays free")
	blank, err := sys.Verses.Mint(ctx, "alice", 1, 0)
	require.NoError(t, err)

	// Last verse in the list fails validation after the first two
	// passed; nothing may be locked.
	_, err = sys.Poems.CreatePoem(ctx, "alice", append(ids, blank[0]), "Aborted")
	require.Equal(t, CodeVerseNotAuthored, CodeOf(err))

	for _, id := range ids {
		v, err := sys.Verses.VerseAt(ctx, id)
		require.NoError(t, err)
		assert.False(t, v.Locked)
	}

	total, err := sys.Poems.TotalPoems(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreatePoemReportsOffendingVerse(t *testing.T) {
	sys := newTestSystem(t)

	ids := authoredVerses(t, sys, "alice", "mine", "mine too")
	require.NoError(t, sys.Verses.Transfer(context.Background(), "alice", "alice", "bob", ids[1]))

	_, err := sys.Poems.CreatePoem(context.Background(), "alice", ids, "Half Mine")
	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, CodeVerseNotOwned, lerr.Code)
	assert.Equal(t, ids[1], lerr.Verse)
}

func TestVerseCannotJoinTwoPoems(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	ids := authoredVerses(t, sys, "alice", "shared line", "spare line")

	_, err := sys.Poems.CreatePoem(ctx, "alice", ids[:1], "First Claim")
	require.NoError(t, err)

	_, err = sys.Poems.CreatePoem(ctx, "alice", ids, "Second Claim")
	assert.Equal(t, CodeVerseAlreadyLocked, CodeOf(err))

	v, err := sys.Verses.VerseAt(ctx, ids[1])
	require.NoError(t, err)
	assert.False(t, v.Locked, "the spare verse stays free after the failed second claim")
}

func TestTransferPoem(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	ids := authoredVerses(t, sys, "alice", "movable feast")
	poemID, err := sys.Poems.CreatePoem(ctx, "alice", ids, "Portable")
	require.NoError(t, err)

	err = sys.Poems.TransferPoem(ctx, "bob", "carol", poemID)
	assert.Equal(t, CodeNotOwner, CodeOf(err))

	err = sys.Poems.TransferPoem(ctx, "alice", "", poemID)
	assert.Equal(t, CodeInvalidRecipient, CodeOf(err))

	require.NoError(t, sys.Poems.TransferPoem(ctx, "alice", "bob", poemID))
	owner, err := sys.Poems.OwnerOf(ctx, poemID)
	require.NoError(t, err)
	assert.Equal(t, asset.Account("bob"), owner)

	// Poems never lock; the new owner can pass it on.
	require.NoError(t, sys.Poems.TransferPoem(ctx, "bob", "carol", poemID))
}

func TestExquisiteCorpseSession(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	a, b, c := asset.Account("a"), asset.Account("b"), asset.Account("c")

	aIDs, err := sys.Verses.Mint(ctx, a, 4, 0)
	require.NoError(t, err)
	require.Equal(t, []asset.VerseID{1, 2, 3, 4}, aIDs)
	for i, id := range aIDs {
		require.NoError(t, sys.Verses.AddText(ctx, a, id, []string{
			"in the beginning",
			"a spare line",
			"the middle wanders",
			"and then it ends",
		}[i]))
	}

	bIDs, err := sys.Verses.Mint(ctx, b, 3, 0)
	require.NoError(t, err)
	require.Equal(t, []asset.VerseID{5, 6, 7}, bIDs)
	for i, id := range bIDs {
		require.NoError(t, sys.Verses.AddText(ctx, b, id, []string{
			"a second voice",
			"interrupts politely",
			"then trails off",
		}[i]))
	}

	require.NoError(t, sys.Verses.Transfer(ctx, a, a, c, 2))

	poemID, err := sys.Poems.CreatePoem(ctx, a, []asset.VerseID{1, 3, 4}, "A poem of test")
	require.NoError(t, err)
	require.Equal(t, asset.PoemID(1), poemID)

	// Verse 1 is spent; a second poem reusing it must fail without
	// touching verse 5, which a does not own anyway.
	_, err = sys.Poems.CreatePoem(ctx, a, []asset.VerseID{1, 5}, "Encore")
	assert.Equal(t, CodeVerseAlreadyLocked, CodeOf(err))

	p, err := sys.Poems.PoemAt(ctx, poemID)
	require.NoError(t, err)
	assert.Equal(t, []asset.VerseID{1, 3, 4}, p.VerseIDs)
	assert.Equal(t, "A poem of test", p.Title)

	doc, err := sys.Poems.Document(ctx, poemID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc.Image, "data:image/svg+xml;base64,"))
}

func TestPoemDocumentPreservesLineOrder(t *testing.T) {
	sys := newTestSystem(t)
	ctx := context.Background()

	ids := authoredVerses(t, sys, "alice", "alpha line", "beta line", "gamma line")
	order := []asset.VerseID{ids[1], ids[2], ids[0]}
	poemID, err := sys.Poems.CreatePoem(ctx, "alice", order, "Rearranged")
	require.NoError(t, err)

	doc, err := sys.Poems.Document(ctx, poemID)
	require.NoError(t, err)
	again, err := sys.Poems.Document(ctx, poemID)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}
