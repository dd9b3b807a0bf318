package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-clonebox/internal/logging"
	"github.com/goliatone/go-clonebox/pkg/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the clonebox HTTP API",
		Long: `Serve keeps uploaded documents in memory and exposes:

  POST   /documents                               upload markup
  GET    /documents/{id}                          current markup
  DELETE /documents/{id}                          drop a document
  POST   /documents/{id}/boxes/{box}/{action}     add, del (form value row), reset
  GET    /documents/{id}/boxes/{box}/journal      transition journal
  GET    /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.discoveryOptions("discovery")
			if err != nil {
				return err
			}

			serverOpts := []server.Option{
				server.WithLogger(logging.Component("server")),
				server.WithDiscoveryOptions(opts...),
				server.WithMaxDocuments(a.v.GetInt("max-documents")),
				server.WithMaxBodyBytes(a.v.GetInt64("max-body")),
			}
			if !a.v.GetBool("sanitize-uploads") {
				serverOpts = append(serverOpts, server.WithRawMarkup())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(serverOpts...).ListenAndServe(ctx, a.v.GetString("addr"), a.v.GetDuration("grace"))
		},
	}

	flags := cmd.Flags()
	flags.String("addr", ":8080", "listen address")
	flags.Duration("grace", 5*time.Second, "shutdown grace period")
	flags.Int("max-documents", 256, "documents kept in memory before the oldest is evicted")
	flags.Int64("max-body", 1<<20, "maximum upload size in bytes")
	flags.Bool("sanitize-uploads", true, "sanitise uploaded markup")
	_ = a.v.BindPFlags(flags)
	return cmd
}
