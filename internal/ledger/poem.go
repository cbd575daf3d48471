package ledger

import (
	"context"
	"io"
	"log/slog"

	"github.com/corvid-labs/stanza/internal/asset"
	"github.com/corvid-labs/stanza/internal/policy"
	"github.com/corvid-labs/stanza/internal/render"
	"github.com/corvid-labs/stanza/internal/store"
)

// PoemLedger composes authored verses into poems. It is the only
// holder of the composer credential, so verse locking can happen
// through no other path.
type PoemLedger struct {
	store    *store.Store
	clock    *Clock
	policy   policy.Policy
	renderer *render.Renderer
	verses   *VerseLedger
	composer string
	logger   *slog.Logger
}

// NewPoemLedger creates a poem ledger sharing the verse ledger's
// store and clock. composer must match the identity bound via
// BindComposer or every composition will fail.
func NewPoemLedger(st *store.Store, pol policy.Policy, r *render.Renderer, verses *VerseLedger, composer string, clock *Clock, logger *slog.Logger) *PoemLedger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PoemLedger{
		store:    st,
		clock:    clock,
		policy:   pol,
		renderer: r,
		verses:   verses,
		composer: composer,
		logger:   logger,
	}
}

// CreatePoem consumes the given verses, in the given order, into a
// new poem owned by the caller. Every verse must be owned by the
// caller, authored, unlocked, and listed at most once. Validation
// runs to completion before any verse is locked, and the whole
// composition commits or rolls back as one transaction; a failure on
// the last verse leaves every earlier verse untouched.
func (l *PoemLedger) CreatePoem(ctx context.Context, caller asset.Account, ids []asset.VerseID, title string) (asset.PoemID, error) {
	if len(ids) == 0 {
		return 0, callErr(CodeEmptyPoem, "a poem needs at least one verse")
	}
	title = asset.NormalizeText(title)
	if title == "" {
		return 0, callErr(CodeEmptyTitle, "poem title is empty after trimming")
	}
	if len(title) > l.policy.MaxTitleLen {
		return 0, callErr(CodeTitleTooLong, "poem title is %d bytes, limit %d", len(title), l.policy.MaxTitleLen)
	}

	var poemID asset.PoemID
	err := l.store.WithTx(ctx, func(tx *store.Tx) error {
		seen := make(map[asset.VerseID]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				return verseErr(CodeDuplicateVerse, id, "verse listed more than once")
			}
			seen[id] = true

			v, found, err := tx.Verse(id)
			if err != nil {
				return err
			}
			if !found {
				return verseErr(CodeNotFound, id, "no such verse")
			}
			if v.Owner != caller {
				return verseErr(CodeVerseNotOwned, id, "caller %s does not own this verse", caller)
			}
			if !v.Authored {
				return verseErr(CodeVerseNotAuthored, id, "blank verses cannot join a poem")
			}
			if v.Locked {
				return verseErr(CodeVerseAlreadyLocked, id, "verse already belongs to a poem")
			}
		}

		var err error
		poemID, err = tx.AllocatePoemID()
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := l.verses.LockWithin(tx, l.composer, id, poemID); err != nil {
				return err
			}
		}

		p := asset.Poem{ID: poemID, Owner: caller, Title: title, VerseIDs: ids}
		if err := tx.InsertPoem(p); err != nil {
			return err
		}
		return appendEvent(tx, l.clock, asset.EventPoemCreated, caller, poemCreatedPayload(p))
	})
	if err != nil {
		return 0, err
	}

	l.logger.Info("poem created", "poem", int64(poemID), "owner", string(caller), "verses", len(ids))
	return poemID, nil
}

// TransferPoem moves poem ownership. Poems never lock, so the caller
// only needs to be the current owner.
func (l *PoemLedger) TransferPoem(ctx context.Context, caller, to asset.Account, id asset.PoemID) error {
	if to == "" {
		return poemErr(CodeInvalidRecipient, id, "transfer requires a non-empty recipient")
	}

	err := l.store.WithTx(ctx, func(tx *store.Tx) error {
		p, found, err := tx.Poem(id)
		if err != nil {
			return err
		}
		if !found {
			return poemErr(CodeNotFound, id, "no such poem")
		}
		if p.Owner != caller {
			return poemErr(CodeNotOwner, id, "caller %s is not the owner", caller)
		}
		if err := tx.SetPoemOwner(id, to); err != nil {
			return err
		}
		return appendEvent(tx, l.clock, asset.EventPoemTransferred, caller, poemTransferredPayload(id, caller, to))
	})
	if err != nil {
		return err
	}

	l.logger.Info("poem transferred", "poem", int64(id), "from", string(caller), "to", string(to))
	return nil
}

// Document renders the self-contained document for a poem. Each line
// is read live from its source verse, so the body always reflects the
// verse texts at render time.
func (l *PoemLedger) Document(ctx context.Context, id asset.PoemID) (render.Document, error) {
	p, found, err := l.store.Poem(ctx, id)
	if err != nil {
		return render.Document{}, err
	}
	if !found {
		return render.Document{}, poemErr(CodeNotFound, id, "no such poem")
	}

	lines := make([]render.PoemLine, 0, len(p.VerseIDs))
	for _, vid := range p.VerseIDs {
		v, vfound, err := l.store.Verse(ctx, vid)
		if err != nil {
			return render.Document{}, err
		}
		if !vfound {
			return render.Document{}, verseErr(CodeNotFound, vid, "poem references a missing verse")
		}
		lines = append(lines, render.PoemLine{VerseID: vid, Text: v.Text})
	}
	return l.renderer.Poem(render.PoemInput{ID: p.ID, Title: p.Title, Lines: lines}), nil
}

// PoemAt returns the poem record for id.
func (l *PoemLedger) PoemAt(ctx context.Context, id asset.PoemID) (asset.Poem, error) {
	p, found, err := l.store.Poem(ctx, id)
	if err != nil {
		return asset.Poem{}, err
	}
	if !found {
		return asset.Poem{}, poemErr(CodeNotFound, id, "no such poem")
	}
	return p, nil
}

// OwnerOf returns the current owner of a poem.
func (l *PoemLedger) OwnerOf(ctx context.Context, id asset.PoemID) (asset.Account, error) {
	p, err := l.PoemAt(ctx, id)
	if err != nil {
		return "", err
	}
	return p.Owner, nil
}

// TotalPoems returns the number of poems ever created.
func (l *PoemLedger) TotalPoems(ctx context.Context) (int64, error) {
	return l.store.TotalPoems(ctx)
}
