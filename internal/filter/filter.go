// Package filter decides which visited entries are shown.
package filter

import (
	"github.com/IvanShishkin/lsx/internal/config"
	"github.com/IvanShishkin/lsx/pkg/models"
)

// Filter applies the visibility rules for one run
type Filter struct {
	config    *config.Config
	multiRoot bool
}

// New creates a filter. multiRoot forces directory headers when more than
// one argument is listed.
func New(cfg *config.Config, multiRoot bool) *Filter {
	return &Filter{config: cfg, multiRoot: multiRoot}
}

// Visible reports whether an entry visited as kind is shown.
// Rules in precedence order:
//  1. a depth-0 directory about to be listed is shown (as a header) only with
//     explicit headers, plain-dirs mode or several arguments
//  2. a post-order leave signal is never shown
//  3. dot names are hidden unless -A/-a; "." and ".." need -a
func (f *Filter) Visible(e *models.Entry, kind models.VisitKind) bool {
	switch kind {
	case models.VisitRoot:
		return f.ShowRootHeader()
	case models.VisitPost:
		return false
	}

	// arguments are always listed, whatever their name
	if e.Depth == 0 {
		return true
	}

	if e.IsSelfOrParent() {
		return f.config.ShowSelfParent
	}
	if e.IsHidden() {
		return f.config.ShowHidden
	}
	return true
}

// ShowRootHeader reports whether a root directory gets a "dir:" header line
func (f *Filter) ShowRootHeader() bool {
	return f.config.ShowDirHeader || f.config.PlainDirs || f.multiRoot
}

// Apply removes invisible entries from a sorted batch. Order is preserved.
func (f *Filter) Apply(entries []*models.Entry) []*models.Entry {
	visible := entries[:0:0]
	for _, e := range entries {
		if f.Visible(e, models.VisitFile) {
			visible = append(visible, e)
		}
	}
	return visible
}
