package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-clonebox/internal/logging"
	pkgclonebox "github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/scaffold"
)

func newScaffoldCmd(a *app) *cobra.Command {
	var (
		out       string
		templates string
	)
	cmd := &cobra.Command{
		Use:     "scaffold <definition>",
		Short:   "Render a clonebox container from a YAML or JSON field definition",
		Example: `  clonebox scaffold contacts.yaml -o contacts.html`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := scaffold.LoadDefinition(args[0])
			if err != nil {
				return err
			}

			var engineOpts []scaffold.EngineOption
			if templates != "" {
				engineOpts = append(engineOpts, scaffold.WithTemplatesFS(os.DirFS(templates)))
			}
			engine, err := scaffold.NewEngine(engineOpts...)
			if err != nil {
				return err
			}
			s, err := scaffold.New(engine, pkgclonebox.WithLogger(logging.Component("scaffold")))
			if err != nil {
				return err
			}
			html, err := s.Render(def)
			if err != nil {
				return err
			}
			return a.writeOutput(out, html+"\n")
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout when empty)")
	cmd.Flags().StringVar(&templates, "templates", "", "directory holding a container.tmpl to use instead of the built-in one")
	return cmd
}
