package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/stanza/internal/asset"
)

// AuthorOptions holds flags for the author command.
type AuthorOptions struct {
	*RootOptions
	As   string
	Text string
}

// NewAuthorCommand creates the author command.
func NewAuthorCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AuthorOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "author <verse-id>",
		Short: "Write the one-time text of a blank verse",
		Long: `Author a blank verse. Only the current owner may author, and a
verse accepts text exactly once.

Example:
  stanza author 3 --as alice --text "the tide forgets"`,
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

			if err := sys.Verses.AddText(cmd.Context(), asset.Account(opts.As), id, opts.Text); err != nil {
				return out.Reject(err)
			}

			if out.JSON() {
				return out.Success(map[string]any{"verse": int64(id), "authored": true})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "verse %d authored\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "acting participant (required)")
	cmd.Flags().StringVar(&opts.Text, "text", "", "verse text (required)")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func parseVerseID(raw string) (asset.VerseID, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid verse id %q", raw))
	}
	return asset.VerseID(n), nil
}

func parsePoemID(raw string) (asset.PoemID, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid poem id %q", raw))
	}
	return asset.PoemID(n), nil
}
