package cli

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/stanza/internal/ledger"
	"github.com/corvid-labs/stanza/internal/render"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Kind string
	Raw  bool
	SVG  bool
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a verse or poem and its rendered document",
		Long: `Show the state of a verse or poem. --raw prints the full
self-contained document URI; --svg prints the decoded SVG markup.

Examples:
  stanza show 3
  stanza show 1 --kind poem --svg`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
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
				return showPoem(opts, args[0], cmd, out, sys)
			}
			return showVerse(opts, args[0], cmd, out, sys)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "verse", "asset kind (verse|poem)")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "print the full document URI")
	cmd.Flags().BoolVar(&opts.SVG, "svg", false, "print the decoded SVG markup")

	return cmd
}

func showVerse(opts *ShowOptions, arg string, cmd *cobra.Command, out *OutputFormatter, sys *ledger.System) error {
	id, err := parseVerseID(arg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	v, err := sys.Verses.VerseAt(ctx, id)
	if err != nil {
		return out.Reject(err)
	}
	doc, err := sys.Verses.Document(ctx, id)
	if err != nil {
		return out.Reject(err)
	}
	if handled, err := emitDocument(opts, cmd, doc); handled {
		return err
	}

	if out.JSON() {
		uri, err := doc.EncodeURI()
		if err != nil {
			return WrapExitError(ExitCommandError, "encoding document", err)
		}
		return out.Success(map[string]any{
			"verse":    int64(v.ID),
			"owner":    string(v.Owner),
			"authored": v.Authored,
			"locked":   v.Locked,
			"text":     v.Text,
			"uri":      uri,
		})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "verse %d\n", v.ID)
	fmt.Fprintf(w, "  owner:    %s\n", v.Owner)
	fmt.Fprintf(w, "  authored: %t\n", v.Authored)
	fmt.Fprintf(w, "  locked:   %t\n", v.Locked)
	if v.Authored {
		fmt.Fprintf(w, "  text:     %s\n", v.Text)
	}
	if v.Approved != "" {
		fmt.Fprintf(w, "  delegate: %s\n", v.Approved)
	}
	return nil
}

func showPoem(opts *ShowOptions, arg string, cmd *cobra.Command, out *OutputFormatter, sys *ledger.System) error {
	id, err := parsePoemID(arg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	p, err := sys.Poems.PoemAt(ctx, id)
	if err != nil {
		return out.Reject(err)
	}
	doc, err := sys.Poems.Document(ctx, id)
	if err != nil {
		return out.Reject(err)
	}
	if handled, err := emitDocument(opts, cmd, doc); handled {
		return err
	}

	if out.JSON() {
		uri, err := doc.EncodeURI()
		if err != nil {
			return WrapExitError(ExitCommandError, "encoding document", err)
		}
		raw := make([]int64, len(p.VerseIDs))
		for i, v := range p.VerseIDs {
			raw[i] = int64(v)
		}
		return out.Success(map[string]any{
			"poem":   int64(p.ID),
			"owner":  string(p.Owner),
			"title":  p.Title,
			"verses": raw,
			"uri":    uri,
		})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "poem %d\n", p.ID)
	fmt.Fprintf(w, "  owner:  %s\n", p.Owner)
	fmt.Fprintf(w, "  title:  %s\n", p.Title)
	fmt.Fprintf(w, "  verses:")
	for _, v := range p.VerseIDs {
		fmt.Fprintf(w, " %d", v)
	}
	fmt.Fprintln(w)
	return nil
}

// emitDocument handles --raw and --svg. Returns handled=false when
// neither flag is set.
func emitDocument(opts *ShowOptions, cmd *cobra.Command, doc render.Document) (bool, error) {
	switch {
	case opts.Raw:
		uri, err := doc.EncodeURI()
		if err != nil {
			return true, WrapExitError(ExitCommandError, "encoding document", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), uri)
		return true, nil
	case opts.SVG:
		svg, err := decodeSVG(doc.Image)
		if err != nil {
			return true, WrapExitError(ExitCommandError, "decoding document image", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), svg)
		return true, nil
	}
	return false, nil
}

func decodeSVG(image string) (string, error) {
	const prefix = "data:image/svg+xml;base64,"
	if !strings.HasPrefix(image, prefix) {
		return "", fmt.Errorf("unexpected image encoding")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(image, prefix))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
