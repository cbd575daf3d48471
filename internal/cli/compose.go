package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/stanza/internal/asset"
)

// ComposeOptions holds flags for the compose command.
type ComposeOptions struct {
	*RootOptions
	As     string
	Title  string
	Verses []int64
}

// NewComposeCommand creates the compose command.
func NewComposeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ComposeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Consume authored verses into a new poem",
		Long: `Compose a poem from authored, unlocked verses owned by the acting
participant. The poem takes the verses in the order given; each verse
locks permanently.

Example:
  stanza compose --as alice --title "A poem of test" --verses 1,3,4`,
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

			ids := make([]asset.VerseID, len(opts.Verses))
			for i, v := range opts.Verses {
				ids[i] = asset.VerseID(v)
			}

			poemID, err := sys.Poems.CreatePoem(cmd.Context(), asset.Account(opts.As), ids, opts.Title)
			if err != nil {
				return out.Reject(err)
			}

			if out.JSON() {
				return out.Success(map[string]any{"poem": int64(poemID), "owner": opts.As, "verses": opts.Verses})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "poem %d composed from %d verses\n", poemID, len(ids))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "acting participant (required)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "poem title (required)")
	cmd.Flags().Int64SliceVar(&opts.Verses, "verses", nil, "verse ids in reading order (required)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("verses")

	return cmd
}
