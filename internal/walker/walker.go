// Package walker drives traversal of the root arguments: it enumerates each
// directory, orders and filters the batch, and pushes visible entries to a sink.
package walker

import (
	"fmt"

	"github.com/IvanShishkin/lsx/internal/config"
	"github.com/IvanShishkin/lsx/internal/filesystem"
	"github.com/IvanShishkin/lsx/internal/filter"
	"github.com/IvanShishkin/lsx/internal/order"
	"github.com/IvanShishkin/lsx/pkg/models"
	"go.uber.org/zap"
)

// Sink consumes the ordered, filtered stream of events
type Sink interface {
	Handle(ev *models.Event) error
	Close() error
}

// Walker walks root arguments and reports entries to a sink.
// A Walker is single-use and not safe for concurrent use.
type Walker struct {
	config  *config.Config
	logger  *zap.Logger
	sink    Sink
	filter  *filter.Filter
	results *models.ListResults
	readDir func(dir string, depth int) ([]*models.Entry, error)

	emitted   bool // anything was written to the sink's output
	lastDepth int  // depth of the last emitted entry
}

// NewWalker creates a new walker
func NewWalker(cfg *config.Config, logger *zap.Logger, sink Sink) *Walker {
	return &Walker{
		config:  cfg,
		logger:  logger,
		sink:    sink,
		readDir: filesystem.ReadDir,
	}
}

// Walk lists every root. Roots must already be normalized.
// Only sink failures are returned; filesystem errors are reported through the sink.
func (w *Walker) Walk(roots []string) (*models.ListResults, error) {
	w.results = &models.ListResults{Roots: len(roots)}
	w.filter = filter.New(w.config, len(roots) > 1)

	var leaves, dirs []*models.Entry
	for _, arg := range roots {
		e := filesystem.Stat(arg, arg, 0, true)
		if e.Failed() {
			w.results.FailedRoots++
			if err := w.reportError(arg, e.Err()); err != nil {
				return w.results, err
			}
			continue
		}

		if e.IsDir() && !w.config.PlainDirs {
			dirs = append(dirs, e)
		} else {
			leaves = append(leaves, e)
		}
	}

	w.sort(leaves)
	w.sort(dirs)

	for _, e := range leaves {
		if err := w.visit(e); err != nil {
			return w.results, err
		}
	}

	for _, d := range dirs {
		if err := w.listRoot(d); err != nil {
			return w.results, err
		}
	}

	w.logger.Debug("done",
		zap.Int("entries", w.results.Entries),
		zap.Int("errors", w.results.Errors))

	return w.results, nil
}

// listRoot lists the contents of a directory argument
func (w *Walker) listRoot(d *models.Entry) error {
	w.logger.Debug("descend", zap.String("path", d.Path), zap.Int("depth", 0))

	level, err := w.readLevel(d.Path, 1)
	if err != nil {
		w.results.FailedRoots++
		return w.reportError(d.Path, models.NewStatError(d.Path, err))
	}
	w.results.Dirs++

	header := &models.Event{
		Type:      models.EventHeader,
		Depth:     0,
		Dir:       d.Path,
		Named:     w.filter.Visible(d, models.VisitRoot),
		Separator: w.emitted,
		Blocks:    level.Blocks(),
		Count:     len(level.Entries),
	}
	if err := w.emit(header); err != nil {
		return err
	}
	w.lastDepth = 0

	if err := w.visitLevel(level); err != nil {
		return err
	}
	w.leave(d)
	return nil
}

// descend lists a subdirectory during recursive traversal
func (w *Walker) descend(d *models.Entry) error {
	w.logger.Debug("descend", zap.String("path", d.Path), zap.Int("depth", d.Depth))

	level, err := w.readLevel(d.Path, d.Depth+1)
	if err != nil {
		w.logger.Warn("Cannot open directory", zap.String("path", d.Path), zap.Error(err))
		return w.reportError(d.Path, models.NewStatError(d.Path, err))
	}
	w.results.Dirs++

	// announce only when depth grows relative to the last emitted entry
	if len(level.Entries) > 0 && level.Depth > w.lastDepth {
		announce := &models.Event{
			Type:      models.EventHeader,
			Depth:     d.Depth,
			Dir:       d.Path,
			Named:     true,
			Separator: true,
			Blocks:    level.Blocks(),
			Count:     len(level.Entries),
		}
		if err := w.emit(announce); err != nil {
			return err
		}
	}

	if err := w.visitLevel(level); err != nil {
		return err
	}
	w.leave(d)
	return nil
}

func (w *Walker) visitLevel(level *models.Level) error {
	for _, e := range level.Entries {
		if err := w.visit(e); err != nil {
			return err
		}
	}
	return nil
}

// visit emits one entry and, in recursive mode, descends into it before
// the next sibling is considered
func (w *Walker) visit(e *models.Entry) error {
	if e.Failed() {
		w.logger.Warn("Error accessing path", zap.String("path", e.Path), zap.Error(e.Err()))
		return w.reportError(e.Path, e.Err())
	}

	kind := models.VisitFile
	if e.IsDir() {
		kind = models.VisitDir
	}
	if !w.filter.Visible(e, kind) {
		return nil
	}

	w.logger.Debug("visit", zap.String("path", e.Path), zap.Int("depth", e.Depth))
	if err := w.emit(&models.Event{Type: models.EventEntry, Depth: e.Depth, Entry: e}); err != nil {
		return err
	}
	w.results.Entries++
	w.lastDepth = e.Depth

	if kind != models.VisitDir || e.Depth == 0 {
		return nil
	}
	if !w.config.Recursive || e.IsSelfOrParent() {
		w.logger.Debug("prune", zap.String("path", e.Path))
		return nil
	}
	return w.descend(e)
}

// leave closes a directory. The post-order visit only drives bookkeeping;
// nothing is emitted for it.
func (w *Walker) leave(d *models.Entry) {
	w.logger.Debug("leave", zap.String("path", d.Path), zap.Int("depth", d.Depth))
}

// readLevel enumerates, orders and filters one directory
func (w *Walker) readLevel(dir string, depth int) (*models.Level, error) {
	entries, err := w.readDir(dir, depth)
	if err != nil {
		return nil, err
	}
	if w.config.ShowSelfParent {
		entries = append(filesystem.SelfParent(dir, depth), entries...)
	}

	w.sort(entries)

	return &models.Level{
		Dir:     dir,
		Depth:   depth,
		Entries: w.filter.Apply(entries),
	}, nil
}

func (w *Walker) sort(entries []*models.Entry) {
	if w.config.NoSort {
		return
	}
	order.Sort(entries, w.config.SortKey, w.config.Direction())
}

func (w *Walker) reportError(path string, err error) error {
	w.results.AddError(path)
	return w.emit(&models.Event{Type: models.EventError, Path: path, Err: err})
}

func (w *Walker) emit(ev *models.Event) error {
	if err := w.sink.Handle(ev); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if ev.Type != models.EventError {
		w.emitted = true
	}
	return nil
}
