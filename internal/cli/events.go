package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/stanza/internal/asset"
)

// EventsOptions holds flags for the events command.
type EventsOptions struct {
	*RootOptions
	After int64
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the ledger event trace",
		Long: `Print the append-only event trace. In JSON mode each event is one
canonical JSON line, suitable for diffing and replay tooling.

Example:
  stanza events --after 10 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDB(rootOpts); err != nil {
				return err
			}
			out := formatter(rootOpts, cmd)

			_, st, cleanup, err := openSystem(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			events, err := st.Events(cmd.Context(), opts.After)
			if err != nil {
				return WrapExitError(ExitCommandError, "reading events", err)
			}

			w := cmd.OutOrStdout()
			for _, ev := range events {
				if out.JSON() {
					line, err := asset.MarshalCanonical(asset.Obj{
						"seq":     asset.Int(ev.Seq),
						"id":      asset.Str(ev.ID),
						"kind":    asset.Str(string(ev.Kind)),
						"actor":   asset.Str(string(ev.Actor)),
						"payload": ev.Payload,
					})
					if err != nil {
						return WrapExitError(ExitCommandError, "encoding event", err)
					}
					fmt.Fprintln(w, string(line))
					continue
				}
				fmt.Fprintf(w, "%6d  %-18s  %s\n", ev.Seq, ev.Kind, ev.Actor)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&opts.After, "after", 0, "only events with a higher sequence number")

	return cmd
}
