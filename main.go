// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"gopkg.microglot.org/chiaro.go/exc"
	"gopkg.microglot.org/chiaro.go/internal/config"
	"gopkg.microglot.org/chiaro.go/internal/logging"
	"gopkg.microglot.org/chiaro.go/internal/runner"
)

type opts struct {
	Config         string
	Format         string
	LogLevel       string
	MaxConcurrency int
	NonFatal       []string
	Methods        []string
}

func bindFlags(flags *pflag.FlagSet, op *opts) {
	flags.StringVar(&op.Config, "config", "", "Path to a TOML configuration file.")
	flags.StringVar(&op.Format, "format", "", "Output format: text or json.")
	flags.StringVar(&op.LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error or off.")
	flags.IntVar(&op.MaxConcurrency, "max-concurrency", 0, "Maximum number of files parsed at once.")
	flags.StringSliceVar(&op.NonFatal, "non-fatal", nil, "Failure codes that are reported but do not fail the run.")
	flags.StringSliceVar(&op.Methods, "method", nil, "Allowed request methods. Empty allows all.")
}

// resolve loads the config file, if any, and applies flags that were set on
// the command line over it.
func (op *opts) resolve(flags *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if op.Config != "" {
		loaded, err := config.Load(op.Config)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if flags.Changed("format") {
		cfg.Format = op.Format
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = op.LogLevel
	}
	if flags.Changed("max-concurrency") {
		cfg.MaxConcurrency = op.MaxConcurrency
	}
	if flags.Changed("non-fatal") {
		cfg.NonFatal = append(cfg.NonFatal, config.Upper(op.NonFatal)...)
	}
	if flags.Changed("method") {
		cfg.Methods = config.Upper(op.Methods)
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer, stderr io.Writer) *cobra.Command {
	op := &opts{}
	cmd := &cobra.Command{
		Use:           "chiaro",
		Short:         "Parse HTTP request lines and requests with the chiaro combinators",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindFlags(cmd.PersistentFlags(), op)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.AddCommand(newParseCmd(op, "request-line", "Parse every non-blank, non-comment line as a request line", runner.ModeRequestLine))
	cmd.AddCommand(newParseCmd(op, "request", "Parse each file as a sequence of HTTP requests", runner.ModeRequest))
	return cmd
}

func newParseCmd(op *opts, use string, short string, mode runner.Mode) *cobra.Command {
	return &cobra.Command{
		Use:           use + " [FILE...]",
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := op.resolve(cmd.Flags())
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
				return err
			}
			if len(args) == 0 {
				args = []string{runner.Stdin}
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, mode, args)
		},
	}
}

func run(ctx context.Context, stdout io.Writer, stderr io.Writer, cfg config.Config, mode runner.Mode, files []string) error {
	log := logging.New(stderr, logging.ProfileRuntime, cfg.LogLevel, os.LookupEnv)
	rep := exc.NewReporter(cfg.NonFatal)

	r, err := runner.New(
		runner.OptionWithConfig(cfg),
		runner.OptionWithReporter(rep),
		runner.OptionWithLogger(log),
	)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return err
	}

	resp, err := r.Run(ctx, &runner.RunRequest{Files: files, Mode: mode})
	if err != nil {
		if _, ok := runner.AsMultiException(err); !ok {
			fmt.Fprintln(stderr, err.Error())
			return err
		}
	}
	for _, e := range rep.Reported() {
		fmt.Fprintln(stderr, e.Error())
	}
	if resp != nil {
		render := runner.RenderText
		if cfg.Format == config.FormatJSON {
			render = runner.RenderJSON
		}
		if errRender := render(stdout, resp); errRender != nil {
			fmt.Fprintln(stderr, errRender.Error())
			return errRender
		}
	}
	log.Debug().Int("files", len(files)).Int("failures", len(rep.Reported())).Msg("done")
	return err
}
