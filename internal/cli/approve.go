package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/stanza/internal/asset"
)

// ApproveOptions holds flags for the approve command.
type ApproveOptions struct {
	*RootOptions
	As       string
	Delegate string
}

// NewApproveCommand creates the approve command.
func NewApproveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApproveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "approve <verse-id>",
		Short: "Approve a transfer delegate for a verse",
		Long: `Approve a delegate who may transfer the verse on the owner's
behalf. Pass an empty delegate to clear an approval.

Example:
  stanza approve 2 --as alice --delegate bob`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.As == "" {
				return NewExitError(ExitCommandError, "--as is required")
			}
			id, err := parseVerseID(args[0])
			if err != nil {
				return err
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

			if err := sys.Verses.Approve(cmd.Context(), asset.Account(opts.As), asset.Account(opts.Delegate), id); err != nil {
				return out.Reject(err)
			}

			if out.JSON() {
				return out.Success(map[string]any{"verse": int64(id), "delegate": opts.Delegate})
			}
			if opts.Delegate == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "verse %d approval cleared\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "verse %d delegate: %s\n", id, opts.Delegate)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "acting participant (required)")
	cmd.Flags().StringVar(&opts.Delegate, "delegate", "", "delegate to approve (empty clears)")

	return cmd
}
