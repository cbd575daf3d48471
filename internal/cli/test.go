package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/stanza/internal/harness"
)

// NewTestCommand creates the test command for running conformance
// scenarios from YAML files.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <scenario.yaml>...",
		Short: "Run conformance scenarios",
		Long: `Run one or more YAML conformance scenarios against fresh in-memory
ledgers. Exits nonzero when any scenario fails.

Example:
  stanza test scenarios/exquisite_corpse.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)
			w := cmd.OutOrStdout()

			failed := 0
			for _, path := range args {
				scenario, err := harness.LoadScenario(path)
				if err != nil {
					return WrapExitError(ExitCommandError, "loading scenario", err)
				}

				result, err := harness.Run(scenario)
				if err != nil {
					return WrapExitError(ExitCommandError, fmt.Sprintf("running %s", scenario.Name), err)
				}

				if result.Passed() {
					fmt.Fprintf(w, "PASS  %s (%d events)\n", result.Scenario, len(result.Events))
					continue
				}
				failed++
				fmt.Fprintf(w, "FAIL  %s\n", result.Scenario)
				for _, f := range result.Failures {
					fmt.Fprintf(w, "      %s\n", f)
				}
			}

			out.VerboseLog("ran %d scenarios, %d failed", len(args), failed)
			if failed > 0 {
				return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", failed, len(args)))
			}
			return nil
		},
	}

	return cmd
}
