package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/stanza/internal/asset"
)

// MintOptions holds flags for the mint command.
type MintOptions struct {
	*RootOptions
	As      string
	Count   int
	Payment int64
}

// NewMintCommand creates the mint command.
func NewMintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint blank verses",
		Long: `Mint one or more blank verses owned by the acting participant.

Example:
  stanza mint --as alice --count 4`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.As == "" {
				return NewExitError(ExitCommandError, "--as is required")
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

			ids, err := sys.Verses.Mint(cmd.Context(), asset.Account(opts.As), opts.Count, opts.Payment)
			if err != nil {
				return out.Reject(err)
			}

			if out.JSON() {
				raw := make([]int64, len(ids))
				for i, id := range ids {
					raw[i] = int64(id)
				}
				return out.Success(map[string]any{"owner": opts.As, "ids": raw})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "minted %d verses for %s:", len(ids), opts.As)
			for _, id := range ids {
				fmt.Fprintf(cmd.OutOrStdout(), " %d", id)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "acting participant (required)")
	cmd.Flags().IntVar(&opts.Count, "count", 1, "number of verses to mint")
	cmd.Flags().Int64Var(&opts.Payment, "payment", 0, "attached payment in base units")

	return cmd
}
