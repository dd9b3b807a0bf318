package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-clonebox/internal/logging"
	"github.com/goliatone/go-clonebox/pkg/config"
	"github.com/goliatone/go-clonebox/pkg/discovery"
)

const envPrefix = "CLONEBOX"

// app carries the state shared by every subcommand.
type app struct {
	v      *viper.Viper
	logger zerolog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), logger: zerolog.Nop(), stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:          "clonebox",
		Short:        "Manage repeatable form rows in HTML documents",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.String("log-level", "warn", "logging level (trace, debug, info, warn, error)")
	flags.String("log-format", "console", "logging format (console, json)")
	flags.String("overrides", "", "per-box configuration file (yaml or json)")
	flags.String("marker", discovery.DefaultMarker, "selector marking clonebox containers")
	flags.Int("limit", 0, "row limit for boxes without their own data-limit")
	flags.Bool("sanitize", false, "strip scripts and non-form markup before processing")
	_ = a.v.BindPFlags(flags)

	root.AddCommand(
		newApplyCmd(a),
		newReindexCmd(a),
		newScaffoldCmd(a),
		newServeCmd(a),
		newEditCmd(a),
	)
	return root
}

// init layers configuration as defaults < config file < environment < flags
// and sets up logging.
func (a *app) init() error {
	v := a.v
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
	}

	logging.Init(logging.Config{
		Level:  v.GetString("log-level"),
		Format: v.GetString("log-format"),
		Output: a.stderr,
	})
	a.logger = logging.Component("cli")
	if used := v.ConfigFileUsed(); used != "" {
		a.logger.Debug().Str("config_file", used).Msg("loaded config file")
	}
	return nil
}

// discoveryOptions turns the shared settings into discovery options.
func (a *app) discoveryOptions(component string) ([]discovery.Option, error) {
	opts := []discovery.Option{
		discovery.WithLogger(logging.Component(component)),
		discovery.WithMarker(a.v.GetString("marker")),
	}
	if path := a.v.GetString("overrides"); path != "" {
		file, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, discovery.WithFile(file))
	}
	if limit := a.v.GetInt("limit"); limit != 0 {
		if limit < 0 {
			return nil, fmt.Errorf("%w: %d", config.ErrInvalidLimit, limit)
		}
		opts = append(opts, discovery.WithOverrides(config.Overrides{Limit: config.Limit(limit)}))
	}
	return opts, nil
}

// readInput reads path, or stdin when path is "-" or empty.
func (a *app) readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// writeOutput writes to path, or stdout when path is "-" or empty.
func (a *app) writeOutput(path, content string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(a.stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.logger.Info().Str("path", path).Msg("output written")
	return nil
}
