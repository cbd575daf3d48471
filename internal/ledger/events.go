package ledger

import (
	"github.com/google/uuid"

	"github.com/corvid-labs/stanza/internal/asset"
	"github.com/corvid-labs/stanza/internal/store"
)

// appendEvent stamps and persists a lifecycle event inside the
// caller's transaction. The seq is taken from the shared clock at
// append time, after all validation has passed, so committed event
// logs stay gap-free under normal operation.
func appendEvent(tx *store.Tx, clock *Clock, kind asset.EventKind, actor asset.Account, payload asset.Obj) error {
	return tx.AppendEvent(asset.Event{
		Seq:     clock.Next(),
		ID:      uuid.NewString(),
		Kind:    kind,
		Actor:   actor,
		Payload: payload,
	})
}

func mintedPayload(owner asset.Account, ids []asset.VerseID) asset.Obj {
	return asset.Obj{
		"owner": asset.Str(string(owner)),
		"ids":   asset.VerseIDs(ids),
	}
}

func textAddedPayload(id asset.VerseID) asset.Obj {
	return asset.Obj{"verse": asset.Int(id)}
}

func transferredPayload(id asset.VerseID, from, to asset.Account) asset.Obj {
	return asset.Obj{
		"verse": asset.Int(id),
		"from":  asset.Str(string(from)),
		"to":    asset.Str(string(to)),
	}
}

func approvedPayload(id asset.VerseID, delegate asset.Account) asset.Obj {
	return asset.Obj{
		"verse":    asset.Int(id),
		"delegate": asset.Str(string(delegate)),
	}
}

func lockedPayload(id asset.VerseID, poem asset.PoemID) asset.Obj {
	p := asset.Obj{"verse": asset.Int(id)}
	if poem != 0 {
		p["poem"] = asset.Int(poem)
	}
	return p
}

func poemCreatedPayload(p asset.Poem) asset.Obj {
	return asset.Obj{
		"poem":  asset.Int(p.ID),
		"owner": asset.Str(string(p.Owner)),
		"title": asset.Str(p.Title),
		"ids":   asset.VerseIDs(p.VerseIDs),
	}
}

func poemTransferredPayload(id asset.PoemID, from, to asset.Account) asset.Obj {
	return asset.Obj{
		"poem": asset.Int(id),
		"from": asset.Str(string(from)),
		"to":   asset.Str(string(to)),
	}
}

func composerBoundPayload(composer string) asset.Obj {
	return asset.Obj{"composer": asset.Str(composer)}
}
