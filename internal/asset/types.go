package asset

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// VerseID identifies a verse asset. Ids are allocated sequentially
// starting at 1 and are never reused. Zero is "no verse".
type VerseID int64

// PoemID identifies a poem asset. The namespace is disjoint from
// VerseID: poem 1 and verse 1 are unrelated assets.
type PoemID int64

// Account identifies an asset holder. The ledger treats accounts as
// opaque non-empty strings; key management and signing live in the
// wallet layer, outside this module.
type Account string

// Verse is the on-ledger record for a single verse asset.
type Verse struct {
	ID       VerseID `json:"id"`
	Owner    Account `json:"owner"`
	Text     string  `json:"text"`     // empty until authored
	Authored bool    `json:"authored"` // text set exactly once
	Locked   bool    `json:"locked"`   // consumed by a poem, permanent
	Approved Account `json:"approved,omitempty"` // transfer delegate, cleared on transfer
}

// Blank reports whether the verse is still awaiting its author.
func (v Verse) Blank() bool { return !v.Authored }

// Poem is the on-ledger record for a poem asset. VerseIDs preserves
// the exact order supplied at creation; rendering depends on it.
type Poem struct {
	ID       PoemID    `json:"id"`
	Owner    Account   `json:"owner"`
	Title    string    `json:"title"`
	VerseIDs []VerseID `json:"verse_ids"`
}

// EventKind names a ledger lifecycle event.
type EventKind string

const (
	EventVersesMinted     EventKind = "verses_minted"
	EventTextAdded        EventKind = "text_added"
	EventVerseTransferred EventKind = "verse_transferred"
	EventVerseApproved    EventKind = "verse_approved"
	EventVerseLocked      EventKind = "verse_locked"
	EventPoemCreated      EventKind = "poem_created"
	EventPoemTransferred  EventKind = "poem_transferred"
	EventComposerBound    EventKind = "composer_bound"
)

// Event is an append-only audit record for a completed mutation.
//
// Seq is a monotonic logical clock value; it is the sole ordering
// authority. Wall-clock time is deliberately absent: it would make
// replays and golden comparisons non-deterministic.
type Event struct {
	Seq     int64     `json:"seq"`
	ID      string    `json:"id"` // uuid, unique per event
	Kind    EventKind `json:"kind"`
	Actor   Account   `json:"actor"`
	Payload Obj       `json:"payload"`
}

// NormalizeText trims surrounding whitespace and applies NFC
// normalization. All user-supplied text (verse bodies, poem titles)
// passes through here before validation or storage, so that length
// bounds and stored bytes agree with the canonical serialization.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
