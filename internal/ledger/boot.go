package ledger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/corvid-labs/stanza/internal/asset"
	"github.com/corvid-labs/stanza/internal/policy"
	"github.com/corvid-labs/stanza/internal/render"
	"github.com/corvid-labs/stanza/internal/store"
)

// System bundles the two ledgers running over one store with one
// shared clock.
type System struct {
	Verses *VerseLedger
	Poems  *PoemLedger
}

// Boot wires a system over an opened store. On first boot a composer
// identity is generated and bound under the given authority; later
// boots reuse the stored one.
func Boot(ctx context.Context, st *store.Store, pol policy.Policy, authority asset.Account, logger *slog.Logger) (*System, error) {
	composer, bound, err := st.Composer(ctx)
	if err != nil {
		return nil, err
	}
	if !bound {
		composer = uuid.NewString()
	}
	return Wire(ctx, st, pol, authority, composer, logger)
}

// Wire assembles a system with an explicit composer identity, binding
// it if the store has none yet. The logical clock resumes from the
// highest stored event sequence, so sequences stay strictly
// increasing across restarts.
func Wire(ctx context.Context, st *store.Store, pol policy.Policy, authority asset.Account, composer string, logger *slog.Logger) (*System, error) {
	maxSeq, err := st.MaxEventSeq(ctx)
	if err != nil {
		return nil, err
	}
	clock := NewClockAt(maxSeq)
	renderer := render.NewDefault()

	verses := NewVerseLedger(st, pol, renderer, authority, clock, logger)

	_, bound, err := st.Composer(ctx)
	if err != nil {
		return nil, err
	}
	if !bound {
		if err := verses.BindComposer(ctx, authority, composer); err != nil {
			return nil, err
		}
	}

	poems := NewPoemLedger(st, pol, renderer, verses, composer, clock, logger)
	return &System{Verses: verses, Poems: poems}, nil
}
