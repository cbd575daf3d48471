package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/stanza/internal/asset"
)

// TransferOptions holds flags for the transfer command.
type TransferOptions struct {
	*RootOptions
	As   string
	From string
	To   string
	Kind string
}

// NewTransferCommand creates the transfer command.
func NewTransferCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransferOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "transfer <id>",
		Short: "Transfer a verse or poem to a new owner",
		Long: `Transfer ownership of a verse or poem. Verse transfers may be
performed by the owner or an approved delegate, and fail once the
verse is locked into a poem. Poems transfer freely.

Examples:
  stanza transfer 2 --as alice --to carol
  stanza transfer 1 --kind poem --as alice --to bob`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.As == "" {
				return NewExitError(ExitCommandError, "--as is required")
			}
			if opts.Kind != "verse" && opts.Kind != "poem" {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid kind %q: must be verse or poem", opts.Kind))
			}
			if err := requireDB(rootOpts); err != nil {
				return err
			}
			out := formatter(rootOpts, cmd)

			sys, _, cleanup, err := openSystem(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if opts.Kind == "poem" {
				id, err := parsePoemID(args[0])
				if err != nil {
					return err
				}
				if err := sys.Poems.TransferPoem(cmd.Context(), asset.Account(opts.As), asset.Account(opts.To), id); err != nil {
					return out.Reject(err)
				}
				if out.JSON() {
					return out.Success(map[string]any{"poem": int64(id), "owner": opts.To})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "poem %d transferred to %s\n", id, opts.To)
				return nil
			}

			id, err := parseVerseID(args[0])
			if err != nil {
				return err
			}
			from := asset.Account(opts.From)
			if from == "" {
				from = asset.Account(opts.As)
			}
			if err := sys.Verses.Transfer(cmd.Context(), asset.Account(opts.As), from, asset.Account(opts.To), id); err != nil {
				return out.Reject(err)
			}
			if out.JSON() {
				return out.Success(map[string]any{"verse": int64(id), "owner": opts.To})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "verse %d transferred to %s\n", id, opts.To)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "acting participant (required)")
	cmd.Flags().StringVar(&opts.From, "from", "", "current owner (defaults to --as; set when acting as a delegate)")
	cmd.Flags().StringVar(&opts.To, "to", "", "recipient (required)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "verse", "asset kind (verse|poem)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
