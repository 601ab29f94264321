package report

import (
	"bufio"
	"fmt"
	"io"
	"os/user"
	"strconv"
	"time"

	"github.com/IvanShishkin/lsx/internal/config"
	"github.com/IvanShishkin/lsx/pkg/models"
	"go.uber.org/zap"
)

// Generator renders walker events in the configured format.
// Error lines always go to the error stream as "<program>: <path>: <error>".
type Generator struct {
	config  *config.Config
	logger  *zap.Logger
	program string

	out    *bufio.Writer
	errOut io.Writer

	now    func() time.Time
	users  map[uint32]string
	groups map[uint32]string

	// structured formats collect everything and write on Close.
	// open[d] is the listing that receives entries at depth d+1.
	doc    *Document
	open   []*Listing
	leaves *Listing
}

// NewGenerator creates a new report generator
func NewGenerator(cfg *config.Config, logger *zap.Logger, program string, out, errOut io.Writer) (*Generator, error) {
	switch cfg.Format {
	case "", "text", "json", "yaml", "markdown", "md":
	default:
		return nil, fmt.Errorf("unknown report format: %s", cfg.Format)
	}

	g := &Generator{
		config:  cfg,
		logger:  logger,
		program: program,
		out:     bufio.NewWriter(out),
		errOut:  errOut,
		now:     time.Now,
		users:   make(map[uint32]string),
		groups:  make(map[uint32]string),
	}
	if !g.isText() {
		g.doc = &Document{}
	}
	return g, nil
}

func (g *Generator) isText() bool {
	return g.config.Format == "" || g.config.Format == "text"
}

// Handle renders one event
func (g *Generator) Handle(ev *models.Event) error {
	switch ev.Type {
	case models.EventError:
		return g.writeError(ev.Path, ev.Err)
	case models.EventHeader:
		if g.isText() {
			return g.writeHeader(ev)
		}
		g.startListing(ev)
	case models.EventEntry:
		if g.isText() {
			return g.writeEntry(ev)
		}
		g.addRecord(ev)
	}
	return nil
}

// Close flushes buffered output and writes structured documents
func (g *Generator) Close() error {
	var err error
	switch g.config.Format {
	case "json":
		err = g.generateJSON(g.out)
	case "yaml":
		err = g.generateYAML(g.out)
	case "markdown", "md":
		err = g.generateMarkdown(g.out)
	}
	if err != nil {
		return fmt.Errorf("failed to generate %s report: %w", g.config.Format, err)
	}
	return g.out.Flush()
}

// writeError prints a diagnostic in traversal order: pending output is
// flushed first so that the line lands between the entries around it
func (g *Generator) writeError(path string, err error) error {
	if ferr := g.out.Flush(); ferr != nil {
		return ferr
	}
	if g.doc != nil {
		g.doc.Errors = append(g.doc.Errors, ErrorRecord{Path: path, Error: err.Error()})
	}
	_, werr := fmt.Fprintf(g.errOut, "%s: %s: %v\n", g.program, path, err)
	return werr
}

// ownerName resolves a uid to a user name, falling back to the number
func (g *Generator) ownerName(uid uint32) string {
	if name, ok := g.users[uid]; ok {
		return name
	}
	id := strconv.FormatUint(uint64(uid), 10)
	name := id
	if u, err := user.LookupId(id); err == nil {
		name = u.Username
	} else {
		g.logger.Debug("Unknown user id", zap.Uint32("uid", uid), zap.Error(err))
	}
	g.users[uid] = name
	return name
}

// groupName resolves a gid to a group name, falling back to the number
func (g *Generator) groupName(gid uint32) string {
	if name, ok := g.groups[gid]; ok {
		return name
	}
	id := strconv.FormatUint(uint64(gid), 10)
	name := id
	if grp, err := user.LookupGroupId(id); err == nil {
		name = grp.Name
	} else {
		g.logger.Debug("Unknown group id", zap.Uint32("gid", gid), zap.Error(err))
	}
	g.groups[gid] = name
	return name
}
