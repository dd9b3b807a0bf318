package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-clonebox"
	"github.com/goliatone/go-clonebox/pkg/markup"
)

type applyFlags struct {
	ops     []string
	box     string
	out     string
	journal bool
}

func newApplyCmd(a *app) *cobra.Command {
	f := &applyFlags{}
	cmd := &cobra.Command{
		Use:   "apply [file]",
		Short: "Run add, del=N and reset operations on the boxes of a document",
		Long: `Apply parses an HTML document (or stdin), initialises every clonebox
container and runs the given operations in order. Without --box every
container receives the operations.

Operations: add, del=N (delete row N), reset.`,
		Example: `  clonebox apply form.html --box phones --op add --op add --op del=0
  cat form.html | clonebox apply --op reset > out.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runApply(firstArg(args), f)
		},
	}
	cmd.Flags().StringArrayVar(&f.ops, "op", nil, "operation to run (repeatable)")
	cmd.Flags().StringVar(&f.box, "box", "", "container id or index to target")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (stdout when empty)")
	cmd.Flags().BoolVar(&f.journal, "journal", false, "print the resulting transitions as JSON to stderr")
	return cmd
}

func newReindexCmd(a *app) *cobra.Command {
	f := &applyFlags{}
	cmd := &cobra.Command{
		Use:   "reindex [file]",
		Short: "Normalise field identifiers and add control state without changing rows",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runApply(firstArg(args), f)
		},
	}
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (stdout when empty)")
	return cmd
}

func (a *app) runApply(input string, f *applyFlags) error {
	raw, err := a.readInput(input)
	if err != nil {
		return err
	}
	if a.v.GetBool("sanitize") {
		raw = markup.Sanitize(raw)
	}

	opts, err := a.discoveryOptions("apply")
	if err != nil {
		return err
	}
	res, err := clonebox.ProcessHTML(raw, f.box, f.ops, opts...)
	if err != nil {
		return err
	}
	a.reportSkipped(res.Skipped)
	if res.Boxes == 0 {
		a.logger.Warn().Msg("no clonebox containers found")
	}

	for _, m := range res.Mutations {
		event := a.logger.Info()
		if !m.Applied {
			event = a.logger.Warn().Str("reason", m.Reason)
		}
		event.Str("op", string(m.Op)).Int("rows", m.After).Msg("transition")
	}

	if f.journal {
		enc := json.NewEncoder(a.stderr)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Mutations); err != nil {
			return err
		}
	}
	return a.writeOutput(f.out, res.HTML)
}

func (a *app) reportSkipped(err error) {
	if err == nil {
		return
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			a.logger.Warn().Err(e).Msg("container skipped")
		}
		return
	}
	a.logger.Warn().Err(err).Msg("container skipped")
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
