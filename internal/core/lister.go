package core

import (
	"fmt"
	"io"
	"time"

	"github.com/IvanShishkin/lsx/internal/config"
	"github.com/IvanShishkin/lsx/internal/filesystem"
	"github.com/IvanShishkin/lsx/internal/report"
	"github.com/IvanShishkin/lsx/internal/walker"
	"github.com/IvanShishkin/lsx/pkg/models"
	"go.uber.org/zap"
)

// Exit statuses
const (
	ExitOK      = 0
	ExitFailure = 1 // usage error, or no root could be listed
	ExitFatal   = 2 // output or setup failure
)

// Lister is the main listing engine
type Lister struct {
	config  *config.Config
	logger  *zap.Logger
	program string
	out     io.Writer
	errOut  io.Writer
}

// NewLister creates a new lister instance
func NewLister(cfg *config.Config, logger *zap.Logger, program string, out, errOut io.Writer) *Lister {
	return &Lister{
		config:  cfg,
		logger:  logger,
		program: program,
		out:     out,
		errOut:  errOut,
	}
}

// Run lists the given operands, or "." when there are none
func (l *Lister) Run(args []string) (*models.ListResults, error) {
	roots := NormalizeArgs(args)

	l.logger.Info("Starting listing",
		zap.Strings("roots", roots),
		zap.String("sort", l.config.SortKey.String()),
		zap.Bool("reverse", l.config.Reverse),
		zap.Bool("recursive", l.config.Recursive))

	reporter, err := report.NewGenerator(l.config, l.logger, l.program, l.out, l.errOut)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report generator: %w", err)
	}

	start := time.Now()
	w := walker.NewWalker(l.config, l.logger, reporter)
	results, walkErr := w.Walk(roots)

	results.StartTime = start
	results.EndTime = time.Now()
	results.Duration = results.EndTime.Sub(start)
	reporter.SetResults(results)

	closeErr := reporter.Close()
	if walkErr != nil {
		return results, walkErr
	}
	if closeErr != nil {
		return results, fmt.Errorf("failed to write output: %w", closeErr)
	}

	l.logger.Info("Listing completed",
		zap.Int("entries", results.Entries),
		zap.Int("dirs", results.Dirs),
		zap.Int("errors", results.Errors),
		zap.String("duration", report.FormatDuration(results.Duration)))

	return results, nil
}

// NormalizeArgs strips trailing separators from operands and defaults to "."
func NormalizeArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	roots := make([]string, 0, len(args))
	for _, arg := range args {
		roots = append(roots, filesystem.NormalizeArg(arg))
	}
	return roots
}

// ExitCode maps the outcome of Run to a process exit status
func ExitCode(results *models.ListResults, err error) int {
	if err != nil {
		return ExitFatal
	}
	if results != nil && results.AllRootsFailed() {
		return ExitFailure
	}
	return ExitOK
}
