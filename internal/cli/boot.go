package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/stanza/internal/asset"
	"github.com/corvid-labs/stanza/internal/ledger"
	"github.com/corvid-labs/stanza/internal/policy"
	"github.com/corvid-labs/stanza/internal/store"
)

// formatter builds an OutputFormatter wired to the command's streams.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// openSystem opens the database and wires the ledgers. The returned
// cleanup closes the store and must be deferred.
func openSystem(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*ledger.System, *store.Store, func(), error) {
	pol, err := policy.LoadOrDefault(opts.Policy)
	if err != nil {
		return nil, nil, nil, WrapExitError(ExitCommandError, "loading policy", err)
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return nil, nil, nil, WrapExitError(ExitCommandError, "opening database", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.Verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	sys, err := ledger.Boot(ctx, st, pol, asset.Account(opts.Authority), logger)
	if err != nil {
		_ = st.Close()
		return nil, nil, nil, WrapExitError(ExitCommandError, "booting ledgers", err)
	}

	return sys, st, func() { _ = st.Close() }, nil
}

// requireDB fails early with a command error when the database file
// does not exist, so mutation commands on a missing ledger do not
// silently create one. init is the only command that creates files.
func requireDB(opts *RootOptions) error {
	if opts.DB == ":memory:" {
		return nil
	}
	if _, err := os.Stat(opts.DB); err != nil {
		return WrapExitError(ExitCommandError, "database not found (run 'stanza init' first)", err)
	}
	return nil
}
