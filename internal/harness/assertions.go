package harness

import (
	"context"
	"fmt"

	"github.com/corvid-labs/stanza/internal/asset"
	"github.com/corvid-labs/stanza/internal/ledger"
)

// AssertionError is a final-state assertion that did not hold.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion %s failed: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

func assertionErr(a Assertion, expected, actual string) error {
	return &AssertionError{Type: a.Type, Expected: expected, Actual: actual}
}

func assertFinalState(ctx context.Context, sys *ledger.System, a Assertion) error {
	switch a.Type {
	case "verse_owner", "verse_text", "verse_locked", "verse_authored":
		return assertVerse(ctx, sys, a)
	case "poem_owner", "poem_title", "poem_verses":
		return assertPoem(ctx, sys, a)
	case "total_verses":
		total, err := sys.Verses.TotalVerses(ctx)
		if err != nil {
			return err
		}
		if total != a.Count {
			return assertionErr(a, fmt.Sprintf("%d verses", a.Count), fmt.Sprintf("%d", total))
		}
		return nil
	case "total_poems":
		total, err := sys.Poems.TotalPoems(ctx)
		if err != nil {
			return err
		}
		if total != a.Count {
			return assertionErr(a, fmt.Sprintf("%d poems", a.Count), fmt.Sprintf("%d", total))
		}
		return nil
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func assertVerse(ctx context.Context, sys *ledger.System, a Assertion) error {
	v, err := sys.Verses.VerseAt(ctx, asset.VerseID(a.Verse))
	if err != nil {
		return assertionErr(a, fmt.Sprintf("verse %d to exist", a.Verse), err.Error())
	}

	switch a.Type {
	case "verse_owner":
		if v.Owner != asset.Account(a.Owner) {
			return assertionErr(a, fmt.Sprintf("verse %d owned by %s", a.Verse, a.Owner), string(v.Owner))
		}
	case "verse_text":
		if v.Text != a.Text {
			return assertionErr(a, fmt.Sprintf("verse %d text %q", a.Verse, a.Text), fmt.Sprintf("%q", v.Text))
		}
	case "verse_locked":
		want := a.Locked == nil || *a.Locked
		if v.Locked != want {
			return assertionErr(a, fmt.Sprintf("verse %d locked=%t", a.Verse, want), fmt.Sprintf("locked=%t", v.Locked))
		}
	case "verse_authored":
		if !v.Authored {
			return assertionErr(a, fmt.Sprintf("verse %d authored", a.Verse), "blank")
		}
	}
	return nil
}

func assertPoem(ctx context.Context, sys *ledger.System, a Assertion) error {
	p, err := sys.Poems.PoemAt(ctx, asset.PoemID(a.Poem))
	if err != nil {
		return assertionErr(a, fmt.Sprintf("poem %d to exist", a.Poem), err.Error())
	}

	switch a.Type {
	case "poem_owner":
		if p.Owner != asset.Account(a.Owner) {
			return assertionErr(a, fmt.Sprintf("poem %d owned by %s", a.Poem, a.Owner), string(p.Owner))
		}
	case "poem_title":
		if p.Title != a.Title {
			return assertionErr(a, fmt.Sprintf("poem %d titled %q", a.Poem, a.Title), fmt.Sprintf("%q", p.Title))
		}
	case "poem_verses":
		if !sameIDs(p.VerseIDs, a.Verses) {
			return assertionErr(a, fmt.Sprintf("poem %d verses %v", a.Poem, a.Verses), fmt.Sprintf("%v", p.VerseIDs))
		}
	}
	return nil
}
