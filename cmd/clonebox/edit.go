package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-clonebox"
	"github.com/goliatone/go-clonebox/internal/logging"
	"github.com/goliatone/go-clonebox/pkg/discovery"
	"github.com/goliatone/go-clonebox/pkg/dom"
	"github.com/goliatone/go-clonebox/pkg/markup"
	"github.com/goliatone/go-clonebox/pkg/prompt"
)

func newEditCmd(a *app) *cobra.Command {
	var (
		box string
		out string
	)
	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit the rows of one box interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := a.readInput(args[0])
			if err != nil {
				return err
			}
			if a.v.GetBool("sanitize") {
				raw = markup.Sanitize(raw)
			}
			root, err := dom.ParseString(raw)
			if err != nil {
				return err
			}

			opts, err := a.discoveryOptions("edit")
			if err != nil {
				return err
			}
			boxes, skipped := clonebox.Discover(root, opts...)
			a.reportSkipped(skipped)
			_, ctrl, ok := discovery.Find(boxes, box)
			if !ok {
				return fmt.Errorf("%w: %q (%d box(es) found)", clonebox.ErrBoxNotFound, box, len(boxes))
			}

			session, err := prompt.NewSession(ctrl,
				prompt.WithDriver(prompt.NewSurveyDriver(a.stdout)),
				prompt.WithLogger(logging.Component("prompt")),
			)
			if err != nil {
				return err
			}
			if err := session.Run(cmd.Context()); err != nil {
				if prompt.IsAbort(err) {
					a.logger.Warn().Msg("edit aborted, nothing written")
					return nil
				}
				return err
			}

			html, err := clonebox.Render(root, raw)
			if err != nil {
				return err
			}
			if out == "" {
				out = args[0]
			}
			return a.writeOutput(out, html)
		},
	}
	cmd.Flags().StringVar(&box, "box", "0", "container id or index to edit")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (defaults to editing the input in place, - for stdout)")
	return cmd
}
