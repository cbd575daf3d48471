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

// VerseLedger owns the verse lifecycle: minting blank verses,
// one-time authoring, transfer while unlocked, and the
// capability-restricted lock path used by poem composition.
type VerseLedger struct {
	store     *store.Store
	clock     *Clock
	policy    policy.Policy
	renderer  *render.Renderer
	authority asset.Account
	logger    *slog.Logger
}

// NewVerseLedger creates a verse ledger. authority is the deploying
// identity permitted to bind the composer capability. A nil logger
// discards log output.
func NewVerseLedger(st *store.Store, pol policy.Policy, r *render.Renderer, authority asset.Account, clock *Clock, logger *slog.Logger) *VerseLedger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &VerseLedger{
		store:     st,
		clock:     clock,
		policy:    pol,
		renderer:  r,
		authority: authority,
		logger:    logger,
	}
}

// Policy returns the ledger's active policy.
func (l *VerseLedger) Policy() policy.Policy { return l.policy }

// Mint creates count new blank, unlocked verses owned by owner.
// payment is the attached payment in base units; the policy decides
// whether it suffices. Returns the newly allocated ids in order and
// emits one VersesMinted event carrying all of them.
func (l *VerseLedger) Mint(ctx context.Context, owner asset.Account, count int, payment int64) ([]asset.VerseID, error) {
	if owner == "" {
		return nil, callErr(CodeInvalidRecipient, "mint requires a non-empty owner")
	}
	if count < 1 || count > l.policy.MaxPerMint {
		return nil, callErr(CodeInvalidQuantity, "count must be between 1 and %d, got %d", l.policy.MaxPerMint, count)
	}
	if required := l.policy.Price(count); payment < required {
		return nil, callErr(CodePaymentRequired, "minting %d verses requires payment %d, got %d", count, required, payment)
	}

	var ids []asset.VerseID
	err := l.store.WithTx(ctx, func(tx *store.Tx) error {
		var err error
		ids, err = tx.AllocateVerseIDs(count)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := tx.InsertVerse(asset.Verse{ID: id, Owner: owner}); err != nil {
				return err
			}
		}
		return appendEvent(tx, l.clock, asset.EventVersesMinted, owner, mintedPayload(owner, ids))
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("verses minted", "owner", string(owner), "count", count, "first_id", int64(ids[0]))
	return ids, nil
}

// AddText performs the one-time authoring of a blank verse. Only the
// current owner may author, the text must be non-empty after
// normalization, and a verse that has been authored once can never be
// authored again.
func (l *VerseLedger) AddText(ctx context.Context, caller asset.Account, id asset.VerseID, text string) error {
	normalized := asset.NormalizeText(text)
	if normalized == "" {
		return verseErr(CodeEmptyText, id, "verse text is empty after trimming")
	}
	if len(normalized) > l.policy.MaxVerseLen {
		return verseErr(CodeTextTooLong, id, "verse text is %d bytes, limit %d", len(normalized), l.policy.MaxVerseLen)
	}

	err := l.store.WithTx(ctx, func(tx *store.Tx) error {
		v, found, err := tx.Verse(id)
		if err != nil {
			return err
		}
		if !found {
			return verseErr(CodeNotFound, id, "no such verse")
		}
		if v.Owner != caller {
			return verseErr(CodeNotOwner, id, "caller %s is not the owner", caller)
		}
		if v.Authored {
			return verseErr(CodeAlreadyAuthored, id, "verse was already authored")
		}
		if err := tx.SetVerseText(id, normalized); err != nil {
			return err
		}
		return appendEvent(tx, l.clock, asset.EventTextAdded, caller, textAddedPayload(id))
	})
	if err != nil {
		return err
	}

	l.logger.Info("verse authored", "verse", int64(id), "owner", string(caller))
	return nil
}

// Transfer moves verse ownership from from to to. The caller must be
// from or from's approved delegate for this verse, and the verse must
// be unlocked: a verse consumed by a poem is permanently
// non-transferable.
func (l *VerseLedger) Transfer(ctx context.Context, caller, from, to asset.Account, id asset.VerseID) error {
	if to == "" {
		return verseErr(CodeInvalidRecipient, id, "transfer requires a non-empty recipient")
	}

	err := l.store.WithTx(ctx, func(tx *store.Tx) error {
		v, found, err := tx.Verse(id)
		if err != nil {
			return err
		}
		if !found {
			return verseErr(CodeNotFound, id, "no such verse")
		}
		if v.Owner != from {
			return verseErr(CodeNotOwner, id, "%s does not own this verse", from)
		}
		if caller != from && caller != v.Approved {
			return verseErr(CodeNotOwner, id, "caller %s is neither owner nor approved delegate", caller)
		}
		if v.Locked {
			return verseErr(CodeVerseLocked, id, "verse is locked into a poem")
		}
		if err := tx.SetVerseOwner(id, to); err != nil {
			return err
		}
		return appendEvent(tx, l.clock, asset.EventVerseTransferred, caller, transferredPayload(id, from, to))
	})
	if err != nil {
		return err
	}

	l.logger.Info("verse transferred", "verse", int64(id), "from", string(from), "to", string(to))
	return nil
}

// Approve designates a transfer delegate for a verse. Only the owner
// may approve, and approvals on locked verses are pointless and
// rejected. The delegate is cleared automatically on transfer.
func (l *VerseLedger) Approve(ctx context.Context, caller asset.Account, delegate asset.Account, id asset.VerseID) error {
	err := l.store.WithTx(ctx, func(tx *store.Tx) error {
		v, found, err := tx.Verse(id)
		if err != nil {
			return err
		}
		if !found {
			return verseErr(CodeNotFound, id, "no such verse")
		}
		if v.Owner != caller {
			return verseErr(CodeNotOwner, id, "caller %s is not the owner", caller)
		}
		if v.Locked {
			return verseErr(CodeVerseLocked, id, "verse is locked into a poem")
		}
		if err := tx.SetVerseApproved(id, delegate); err != nil {
			return err
		}
		return appendEvent(tx, l.clock, asset.EventVerseApproved, caller, approvedPayload(id, delegate))
	})
	if err != nil {
		return err
	}

	l.logger.Info("verse delegate approved", "verse", int64(id), "delegate", string(delegate))
	return nil
}

// BindComposer registers the single identity permitted to lock
// verses. Callable exactly once, and only by the deploying authority;
// every later attempt fails with WIRING_SEALED regardless of caller.
func (l *VerseLedger) BindComposer(ctx context.Context, caller asset.Account, composer string) error {
	if caller != l.authority {
		return callErr(CodeNotAuthority, "caller %s is not the deploying authority", caller)
	}
	if composer == "" {
		return callErr(CodeInvalidComposer, "composer identity is empty")
	}

	err := l.store.WithTx(ctx, func(tx *store.Tx) error {
		bound, err := tx.BindComposer(composer)
		if err != nil {
			return err
		}
		if !bound {
			return callErr(CodeWiringSealed, "a composer is already bound")
		}
		return appendEvent(tx, l.clock, asset.EventComposerBound, caller, composerBoundPayload(composer))
	})
	if err != nil {
		return err
	}

	l.logger.Info("composer bound", "composer", composer)
	return nil
}

// LockWithin locks a verse inside the caller's transaction. This is
// the sole external mutation path into verse state: the composer
// identity is compared against the stored binding at call time, the
// verse must be authored and unlocked, and ownership checks are the
// caller's responsibility before locking. Runs in the caller's
// transaction so a multi-verse lock sequence commits or rolls back as
// one unit.
func (l *VerseLedger) LockWithin(tx *store.Tx, composer string, id asset.VerseID, poem asset.PoemID) error {
	bound, ok, err := tx.Composer()
	if err != nil {
		return err
	}
	if !ok || composer == "" || composer != bound {
		return verseErr(CodeNotComposer, id, "caller is not the bound composer")
	}

	v, found, err := tx.Verse(id)
	if err != nil {
		return err
	}
	if !found {
		return verseErr(CodeNotFound, id, "no such verse")
	}
	if !v.Authored {
		return verseErr(CodeNotAuthored, id, "blank verses cannot be locked")
	}
	if v.Locked {
		return verseErr(CodeAlreadyLocked, id, "verse is already locked")
	}
	if err := tx.SetVerseLocked(id); err != nil {
		return err
	}
	return appendEvent(tx, l.clock, asset.EventVerseLocked, asset.Account(composer), lockedPayload(id, poem))
}

// Lock is the standalone form of LockWithin, running in its own
// transaction.
func (l *VerseLedger) Lock(ctx context.Context, composer string, id asset.VerseID) error {
	return l.store.WithTx(ctx, func(tx *store.Tx) error {
		return l.LockWithin(tx, composer, id, 0)
	})
}

// Document renders the self-contained document for a verse. Blank
// verses render the placeholder variant. Read-only and safe to call
// any number of times; always reflects the latest authored text.
func (l *VerseLedger) Document(ctx context.Context, id asset.VerseID) (render.Document, error) {
	v, found, err := l.store.Verse(ctx, id)
	if err != nil {
		return render.Document{}, err
	}
	if !found {
		return render.Document{}, verseErr(CodeNotFound, id, "no such verse")
	}
	return l.renderer.Verse(render.VerseInput{ID: v.ID, Text: v.Text, Authored: v.Authored}), nil
}

// VerseAt returns the verse record for id.
func (l *VerseLedger) VerseAt(ctx context.Context, id asset.VerseID) (asset.Verse, error) {
	v, found, err := l.store.Verse(ctx, id)
	if err != nil {
		return asset.Verse{}, err
	}
	if !found {
		return asset.Verse{}, verseErr(CodeNotFound, id, "no such verse")
	}
	return v, nil
}

// OwnerOf returns the current owner of a verse.
func (l *VerseLedger) OwnerOf(ctx context.Context, id asset.VerseID) (asset.Account, error) {
	v, err := l.VerseAt(ctx, id)
	if err != nil {
		return "", err
	}
	return v.Owner, nil
}

// TotalVerses returns the number of verses ever minted.
func (l *VerseLedger) TotalVerses(ctx context.Context) (int64, error) {
	return l.store.TotalVerses(ctx)
}
