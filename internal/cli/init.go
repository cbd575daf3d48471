package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the ledger database and bind the composer",
		Long: `Create the ledger database, apply the schema, and bind the
one-time composer identity under the deploying authority.

Example:
  stanza init --db poems.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)

			_, st, cleanup, err := openSystem(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			composer, bound, err := st.Composer(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "reading composer binding", err)
			}
			if !bound {
				return NewExitError(ExitCommandError, "composer binding missing after init")
			}

			out.VerboseLog("composer bound: %s", composer)
			if out.JSON() {
				return out.Success(map[string]any{"db": rootOpts.DB, "composer_bound": true})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ledger initialized at %s\n", rootOpts.DB)
			return nil
		},
	}
}
