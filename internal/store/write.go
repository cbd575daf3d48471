package store

import (
	"database/sql"
	"fmt"

	"github.com/corvid-labs/stanza/internal/asset"
)

// AllocateVerseIDs reserves count sequential verse ids and advances
// the verse counter. The transaction isolates the read-modify-write;
// two concurrent mints can never receive overlapping ids.
func (t *Tx) AllocateVerseIDs(count int) ([]asset.VerseID, error) {
	next, err := t.bumpCounter("verse", int64(count))
	if err != nil {
		return nil, err
	}
	ids := make([]asset.VerseID, count)
	for i := range ids {
		ids[i] = asset.VerseID(next + int64(i))
	}
	return ids, nil
}

// AllocatePoemID reserves the next poem id and advances the poem counter.
func (t *Tx) AllocatePoemID() (asset.PoemID, error) {
	next, err := t.bumpCounter("poem", 1)
	if err != nil {
		return 0, err
	}
	return asset.PoemID(next), nil
}

func (t *Tx) bumpCounter(name string, by int64) (int64, error) {
	var next int64
	err := t.tx.QueryRowContext(t.ctx,
		`SELECT next FROM counters WHERE name = ?`, name).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("read %s counter: %w", name, err)
	}
	if _, err := t.tx.ExecContext(t.ctx,
		`UPDATE counters SET next = next + ? WHERE name = ?`, by, name); err != nil {
		return 0, fmt.Errorf("advance %s counter: %w", name, err)
	}
	return next, nil
}

// InsertVerse writes a freshly minted verse row.
func (t *Tx) InsertVerse(v asset.Verse) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO verses (id, owner, text, authored, locked, approved)
		VALUES (?, ?, ?, ?, ?, ?)
	`, int64(v.ID), string(v.Owner), v.Text, boolToInt(v.Authored), boolToInt(v.Locked), string(v.Approved))
	if err != nil {
		return fmt.Errorf("insert verse %d: %w", v.ID, err)
	}
	return nil
}

// SetVerseText records the one-time authoring of a verse. The ledger
// has already verified the verse is blank; this just flips the row.
func (t *Tx) SetVerseText(id asset.VerseID, text string) error {
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE verses SET text = ?, authored = 1 WHERE id = ?
	`, text, int64(id))
	if err != nil {
		return fmt.Errorf("set text on verse %d: %w", id, err)
	}
	return requireOneRow(res, "verse", int64(id))
}

// SetVerseOwner transfers ownership and clears any transfer delegate.
func (t *Tx) SetVerseOwner(id asset.VerseID, owner asset.Account) error {
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE verses SET owner = ?, approved = '' WHERE id = ?
	`, string(owner), int64(id))
	if err != nil {
		return fmt.Errorf("set owner on verse %d: %w", id, err)
	}
	return requireOneRow(res, "verse", int64(id))
}

// SetVerseApproved records a transfer delegate for a verse.
func (t *Tx) SetVerseApproved(id asset.VerseID, delegate asset.Account) error {
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE verses SET approved = ? WHERE id = ?
	`, string(delegate), int64(id))
	if err != nil {
		return fmt.Errorf("set delegate on verse %d: %w", id, err)
	}
	return requireOneRow(res, "verse", int64(id))
}

// SetVerseLocked marks a verse as consumed by a poem. Locking is
// monotone; there is deliberately no unlock counterpart.
func (t *Tx) SetVerseLocked(id asset.VerseID) error {
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE verses SET locked = 1 WHERE id = ?
	`, int64(id))
	if err != nil {
		return fmt.Errorf("lock verse %d: %w", id, err)
	}
	return requireOneRow(res, "verse", int64(id))
}

// InsertPoem writes the poem row and its ordered verse memberships.
func (t *Tx) InsertPoem(p asset.Poem) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO poems (id, owner, title) VALUES (?, ?, ?)
	`, int64(p.ID), string(p.Owner), p.Title)
	if err != nil {
		return fmt.Errorf("insert poem %d: %w", p.ID, err)
	}
	for pos, vid := range p.VerseIDs {
		_, err := t.tx.ExecContext(t.ctx, `
			INSERT INTO poem_verses (poem_id, position, verse_id) VALUES (?, ?, ?)
		`, int64(p.ID), pos, int64(vid))
		if err != nil {
			return fmt.Errorf("insert poem %d verse %d at %d: %w", p.ID, vid, pos, err)
		}
	}
	return nil
}

// SetPoemOwner transfers ownership of a poem asset.
func (t *Tx) SetPoemOwner(id asset.PoemID, owner asset.Account) error {
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE poems SET owner = ? WHERE id = ?
	`, string(owner), int64(id))
	if err != nil {
		return fmt.Errorf("set owner on poem %d: %w", id, err)
	}
	return requireOneRow(res, "poem", int64(id))
}

// AppendEvent persists a lifecycle event. The payload is serialized
// to canonical JSON so stored bytes match hashed bytes.
func (t *Tx) AppendEvent(ev asset.Event) error {
	payload, err := asset.MarshalCanonical(ev.Payload)
	if err != nil {
		return fmt.Errorf("append event seq %d: %w", ev.Seq, err)
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO events (seq, id, kind, actor, payload) VALUES (?, ?, ?, ?, ?)
	`, ev.Seq, ev.ID, string(ev.Kind), string(ev.Actor), string(payload))
	if err != nil {
		return fmt.Errorf("append event seq %d: %w", ev.Seq, err)
	}
	return nil
}

// BindComposer records the one-time composer capability. Returns
// false without error when a composer is already bound.
func (t *Tx) BindComposer(composerID string) (bool, error) {
	res, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO composer (singleton, composer_id) VALUES (1, ?)
		ON CONFLICT (singleton) DO NOTHING
	`, composerID)
	if err != nil {
		return false, fmt.Errorf("bind composer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("bind composer: %w", err)
	}
	return n == 1, nil
}

func requireOneRow(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s %d: %w", kind, id, err)
	}
	if n != 1 {
		return fmt.Errorf("update %s %d: no such row", kind, id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
