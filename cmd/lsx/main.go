package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/IvanShishkin/lsx/internal/config"
	"github.com/IvanShishkin/lsx/internal/core"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "0.1.0"

func main() {
	prog := filepath.Base(os.Args[0])
	os.Exit(run(prog, os.Args[1:], os.Stdout, os.Stderr))
}

// usageError marks a command-line error that prints the synopsis
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

// optionValue applies a listing option when pflag meets it, so options
// take effect in command-line order
type optionValue struct {
	opt config.Option
	cfg *config.Config
	set bool
}

func (v *optionValue) String() string { return strconv.FormatBool(v.set) }

func (v *optionValue) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if on {
		v.opt.Apply(v.cfg)
		v.set = true
	}
	return nil
}

func (v *optionValue) Type() string { return "bool" }

var _ pflag.Value = (*optionValue)(nil)

// run executes the command and returns the exit status
func run(prog string, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", prog, err)
		return core.ExitFatal
	}

	// -q is the default on a terminal
	if f, ok := stdout.(*os.File); ok {
		cfg.MarkNonprinting = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	code := core.ExitOK
	cmd := newRootCmd(prog, cfg, stdout, stderr, &code)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		var uerr *usageError
		if errors.As(err, &uerr) {
			fmt.Fprintf(stderr, "%s: %v\n", prog, uerr.err)
			fmt.Fprintln(stderr, usageLine(prog))
			return core.ExitFailure
		}
		fmt.Fprintf(stderr, "%s: %v\n", prog, err)
		return core.ExitFatal
	}
	return code
}

func usageLine(prog string) string {
	return fmt.Sprintf("usage: %s [-%s] [file ...]", prog, config.Synopsis())
}

// newRootCmd builds the single-command CLI. The -h shorthand belongs to
// the human-readable option, so help is only reachable as --help.
func newRootCmd(prog string, cfg *config.Config, stdout, stderr io.Writer, code *int) *cobra.Command {
	var (
		format string
		help   bool
	)

	cmd := &cobra.Command{
		Use:           fmt.Sprintf("%s [-%s] [file ...]", prog, config.Synopsis()),
		Short:         "List directory contents",
		Long:          `List files and directory contents, sorted by name, size or time, optionally recursing into subdirectories.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "" {
				cfg.Format = format
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg.Verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			lister := core.NewLister(cfg, logger, prog, stdout, stderr)
			results, err := lister.Run(args)
			if err != nil {
				return err
			}
			*code = core.ExitCode(results, nil)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.SetInterspersed(false)
	flags.SortFlags = false
	for _, opt := range config.Options {
		v := &optionValue{opt: opt, cfg: cfg}
		flags.VarPF(v, opt.Long, opt.Short, opt.Usage).NoOptDefVal = "true"
	}
	flags.StringVar(&format, "format", "", "Output format: text, json, yaml, markdown (env LSX_FORMAT)")
	flags.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable verbose logging")
	flags.BoolVar(&help, "help", false, "Show help")
	flags.Bool("version", false, "Show version")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	return cmd
}

// newLogger builds a development logger when verbose, otherwise a silent
// JSON logger that only reports errors
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	return cfg.Build()
}
