package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/corvid-labs/stanza/internal/asset"
)

// querier is satisfied by both *sql.DB and *sql.Tx so reads share one
// scan path whether or not they run inside a transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Verse returns the verse record for id. The second return is false
// when no such verse exists.
func (s *Store) Verse(ctx context.Context, id asset.VerseID) (asset.Verse, bool, error) {
	return readVerse(ctx, s.db, id)
}

// Verse is the transaction-scoped variant; validation inside a
// mutating transaction must read through here so the decision and the
// write see the same snapshot.
func (t *Tx) Verse(id asset.VerseID) (asset.Verse, bool, error) {
	return readVerse(t.ctx, t.tx, id)
}

func readVerse(ctx context.Context, q querier, id asset.VerseID) (asset.Verse, bool, error) {
	var (
		owner, approved  string
		authored, locked int
		text             string
	)
	err := q.QueryRowContext(ctx, `
		SELECT owner, text, authored, locked, approved
		FROM verses WHERE id = ?
	`, int64(id)).Scan(&owner, &text, &authored, &locked, &approved)
	if errors.Is(err, sql.ErrNoRows) {
		return asset.Verse{}, false, nil
	}
	if err != nil {
		return asset.Verse{}, false, fmt.Errorf("read verse %d: %w", id, err)
	}
	return asset.Verse{
		ID:       id,
		Owner:    asset.Account(owner),
		Text:     text,
		Authored: authored == 1,
		Locked:   locked == 1,
		Approved: asset.Account(approved),
	}, true, nil
}

// Poem returns the poem record for id with its verse ids in stored
// position order. The second return is false when no such poem exists.
func (s *Store) Poem(ctx context.Context, id asset.PoemID) (asset.Poem, bool, error) {
	return readPoem(ctx, s.db, id)
}

// Poem is the transaction-scoped variant.
func (t *Tx) Poem(id asset.PoemID) (asset.Poem, bool, error) {
	return readPoem(t.ctx, t.tx, id)
}

func readPoem(ctx context.Context, q querier, id asset.PoemID) (asset.Poem, bool, error) {
	var owner, title string
	err := q.QueryRowContext(ctx, `
		SELECT owner, title FROM poems WHERE id = ?
	`, int64(id)).Scan(&owner, &title)
	if errors.Is(err, sql.ErrNoRows) {
		return asset.Poem{}, false, nil
	}
	if err != nil {
		return asset.Poem{}, false, fmt.Errorf("read poem %d: %w", id, err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT verse_id FROM poem_verses
		WHERE poem_id = ?
		ORDER BY position ASC
	`, int64(id))
	if err != nil {
		return asset.Poem{}, false, fmt.Errorf("read poem %d verses: %w", id, err)
	}
	defer rows.Close()

	var verseIDs []asset.VerseID
	for rows.Next() {
		var vid int64
		if err := rows.Scan(&vid); err != nil {
			return asset.Poem{}, false, fmt.Errorf("scan poem %d verse: %w", id, err)
		}
		verseIDs = append(verseIDs, asset.VerseID(vid))
	}
	if err := rows.Err(); err != nil {
		return asset.Poem{}, false, fmt.Errorf("iterate poem %d verses: %w", id, err)
	}

	return asset.Poem{
		ID:       id,
		Owner:    asset.Account(owner),
		Title:    title,
		VerseIDs: verseIDs,
	}, true, nil
}

// TotalVerses returns the number of verses ever minted.
func (s *Store) TotalVerses(ctx context.Context) (int64, error) {
	return count(ctx, s.db, "verses")
}

// TotalPoems returns the number of poems ever created.
func (s *Store) TotalPoems(ctx context.Context) (int64, error) {
	return count(ctx, s.db, "poems")
}

func count(ctx context.Context, q querier, table string) (int64, error) {
	var n int64
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// Events returns all events with seq > afterSeq in seq order.
// Returns an empty slice (not nil) when no events qualify.
func (s *Store) Events(ctx context.Context, afterSeq int64) ([]asset.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, kind, actor, payload
		FROM events
		WHERE seq > ?
		ORDER BY seq ASC
	`, afterSeq)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []asset.Event{}
	for rows.Next() {
		var (
			ev      asset.Event
			kind    string
			actor   string
			payload string
		)
		if err := rows.Scan(&ev.Seq, &ev.ID, &kind, &actor, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = asset.EventKind(kind)
		ev.Actor = asset.Account(actor)

		val, err := asset.UnmarshalValue([]byte(payload))
		if err != nil {
			return nil, fmt.Errorf("decode event %d payload: %w", ev.Seq, err)
		}
		obj, ok := val.(asset.Obj)
		if !ok {
			return nil, fmt.Errorf("event %d payload is not an object", ev.Seq)
		}
		ev.Payload = obj
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// MaxEventSeq returns the highest event seq, or 0 for a fresh ledger.
// The ledger clock resumes from this value at boot.
func (s *Store) MaxEventSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM events`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("read max event seq: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return seq.Int64, nil
}

// Composer returns the bound composer identity. The second return is
// false when no composer has been bound yet.
func (s *Store) Composer(ctx context.Context) (string, bool, error) {
	return readComposer(ctx, s.db)
}

// Composer is the transaction-scoped variant, used by the lock path.
func (t *Tx) Composer() (string, bool, error) {
	return readComposer(t.ctx, t.tx)
}

func readComposer(ctx context.Context, q querier) (string, bool, error) {
	var id string
	err := q.QueryRowContext(ctx, `SELECT composer_id FROM composer WHERE singleton = 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read composer: %w", err)
	}
	return id, true, nil
}
