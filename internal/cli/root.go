package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	DB        string
	Policy    string
	Authority string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the stanza CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "stanza",
		Short: "stanza - a collaborative verse ledger",
		Long: `A ledger of blank verses: mint them, author them once, trade them,
and consume them into poems. Every asset renders as a self-contained document.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "stanza.db", "path to the ledger database")
	cmd.PersistentFlags().StringVar(&opts.Policy, "policy", "", "path to a CUE policy file (default: built-in policy)")
	cmd.PersistentFlags().StringVar(&opts.Authority, "authority", "deployer", "deploying authority identity")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewMintCommand(opts))
	cmd.AddCommand(NewAuthorCommand(opts))
	cmd.AddCommand(NewTransferCommand(opts))
	cmd.AddCommand(NewApproveCommand(opts))
	cmd.AddCommand(NewComposeCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewEventsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
