package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/corvid-labs/stanza/internal/asset"
	"github.com/corvid-labs/stanza/internal/ledger"
	"github.com/corvid-labs/stanza/internal/policy"
	"github.com/corvid-labs/stanza/internal/store"
)

// Fixed identities for scenario runs. A fixed composer keeps the
// composer_bound event payload identical across runs.
const (
	authority = asset.Account("harness-authority")
	composer  = "harness-composer"
)

// Result is the outcome of one scenario run.
type Result struct {
	Scenario string

	// Failures lists every step expectation and final-state assertion
	// that did not hold. Empty means the scenario passed.
	Failures []string

	// Events is the full event trace the session produced.
	Events []asset.Event
}

// Passed reports whether every expectation and assertion held.
func (r *Result) Passed() bool { return len(r.Failures) == 0 }

// Run executes a scenario against a fresh in-memory database driven
// through the real ledgers. Expectation mismatches and assertion
// failures land in Result.Failures; the returned error is reserved
// for infrastructure problems such as an unreadable policy file.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	pol, err := policy.LoadOrDefault(scenario.policyPath())
	if err != nil {
		return nil, fmt.Errorf("loading policy: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sys, err := ledger.Wire(ctx, st, pol, authority, composer, logger)
	if err != nil {
		return nil, fmt.Errorf("wiring ledgers: %w", err)
	}

	result := &Result{Scenario: scenario.Name}
	for i, step := range scenario.Steps {
		if fail := runStep(ctx, sys, i+1, step); fail != "" {
			result.Failures = append(result.Failures, fail)
		}
	}

	for _, a := range scenario.Assertions {
		if err := assertFinalState(ctx, sys, a); err != nil {
			result.Failures = append(result.Failures, err.Error())
		}
	}

	events, err := st.Events(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	result.Events = events
	return result, nil
}

func runStep(ctx context.Context, sys *ledger.System, n int, step Step) string {
	actor := asset.Account(step.As)

	switch step.Op {
	case "mint":
		ids, err := sys.Verses.Mint(ctx, actor, step.Count, step.Payment)
		if fail := checkOutcome(n, step, err); fail != "" {
			return fail
		}
		if err == nil && step.Expect != nil && len(step.Expect.IDs) > 0 {
			if !sameIDs(ids, step.Expect.IDs) {
				return fmt.Sprintf("step %d (mint): expected ids %v, got %v", n, step.Expect.IDs, ids)
			}
		}
		return ""

	case "author":
		err := sys.Verses.AddText(ctx, actor, asset.VerseID(step.Verse), step.Text)
		return checkOutcome(n, step, err)

	case "transfer":
		from := asset.Account(step.From)
		if from == "" {
			from = actor
		}
		err := sys.Verses.Transfer(ctx, actor, from, asset.Account(step.To), asset.VerseID(step.Verse))
		return checkOutcome(n, step, err)

	case "approve":
		err := sys.Verses.Approve(ctx, actor, asset.Account(step.Delegate), asset.VerseID(step.Verse))
		return checkOutcome(n, step, err)

	case "compose":
		ids := make([]asset.VerseID, len(step.Verses))
		for i, v := range step.Verses {
			ids[i] = asset.VerseID(v)
		}
		poemID, err := sys.Poems.CreatePoem(ctx, actor, ids, step.Title)
		if fail := checkOutcome(n, step, err); fail != "" {
			return fail
		}
		if err == nil && step.Expect != nil && step.Expect.Poem != 0 {
			if int64(poemID) != step.Expect.Poem {
				return fmt.Sprintf("step %d (compose): expected poem %d, got %d", n, step.Expect.Poem, poemID)
			}
		}
		return ""

	case "transfer_poem":
		err := sys.Poems.TransferPoem(ctx, actor, asset.Account(step.To), asset.PoemID(step.Poem))
		return checkOutcome(n, step, err)
	}

	return fmt.Sprintf("step %d: unknown op %q", n, step.Op)
}

// checkOutcome compares a step's actual outcome against its expect
// clause. An expected rejection must fail with exactly that code; an
// unexpected error fails the step with the full error text.
func checkOutcome(n int, step Step, err error) string {
	wantErr := ""
	if step.Expect != nil {
		wantErr = step.Expect.Error
	}

	switch {
	case wantErr == "" && err != nil:
		return fmt.Sprintf("step %d (%s): unexpected error: %v", n, step.Op, err)
	case wantErr != "" && err == nil:
		return fmt.Sprintf("step %d (%s): expected rejection %s, got success", n, step.Op, wantErr)
	case wantErr != "" && string(ledger.CodeOf(err)) != wantErr:
		return fmt.Sprintf("step %d (%s): expected rejection %s, got: %v", n, step.Op, wantErr, err)
	}
	return ""
}

func sameIDs(got []asset.VerseID, want []int64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if int64(got[i]) != want[i] {
			return false
		}
	}
	return true
}
