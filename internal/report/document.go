package report

import (
	"fmt"
	"time"

	"github.com/IvanShishkin/lsx/internal/filesystem"
	"github.com/IvanShishkin/lsx/pkg/models"
)

// Document is the structured rendering of a whole run
type Document struct {
	Listings []*Listing          `json:"listings" yaml:"listings"`
	Errors   []ErrorRecord       `json:"errors,omitempty" yaml:"errors,omitempty"`
	Results  *models.ListResults `json:"results,omitempty" yaml:"results,omitempty"`
}

// Listing groups the entries of one directory. Operands that are not
// listed as directories go into a listing with an empty path.
type Listing struct {
	Path    string   `json:"path" yaml:"path"`
	Depth   int      `json:"depth" yaml:"depth"`
	Total   int64    `json:"total_blocks" yaml:"total_blocks"`
	Entries []Record `json:"entries" yaml:"entries"`
}

// Record is one entry with its metadata
type Record struct {
	Name   string    `json:"name" yaml:"name"`
	Path   string    `json:"path" yaml:"path"`
	Type   string    `json:"type" yaml:"type"`
	Mode   string    `json:"mode" yaml:"mode"`
	Size   int64     `json:"size" yaml:"size"`
	Blocks int64     `json:"blocks" yaml:"blocks"`
	Nlink  uint64    `json:"nlink" yaml:"nlink"`
	Inode  uint64    `json:"inode" yaml:"inode"`
	UID    uint32    `json:"uid" yaml:"uid"`
	GID    uint32    `json:"gid" yaml:"gid"`
	Owner  string    `json:"owner,omitempty" yaml:"owner,omitempty"`
	Group  string    `json:"group,omitempty" yaml:"group,omitempty"`
	Device string    `json:"device,omitempty" yaml:"device,omitempty"`
	Target string    `json:"target,omitempty" yaml:"target,omitempty"`
	Mtime  time.Time `json:"mtime" yaml:"mtime"`
	Atime  time.Time `json:"atime" yaml:"atime"`
	Ctime  time.Time `json:"ctime" yaml:"ctime"`
}

// ErrorRecord is a path that could not be listed
type ErrorRecord struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// SetResults attaches run statistics to structured output
func (g *Generator) SetResults(results *models.ListResults) {
	if g.doc != nil {
		g.doc.Results = results
	}
}

func (g *Generator) startListing(ev *models.Event) {
	l := &Listing{Path: ev.Dir, Depth: ev.Depth, Total: ev.Blocks, Entries: []Record{}}
	g.doc.Listings = append(g.doc.Listings, l)

	// a header at depth d closes every listing at depth d or deeper
	if ev.Depth < len(g.open) {
		g.open = g.open[:ev.Depth]
	}
	g.open = append(g.open, l)
}

// listingFor returns the listing that owns an entry at depth
func (g *Generator) listingFor(depth int) *Listing {
	if depth > 0 && depth-1 < len(g.open) {
		return g.open[depth-1]
	}
	if g.leaves == nil {
		g.leaves = &Listing{Entries: []Record{}}
		g.doc.Listings = append(g.doc.Listings, g.leaves)
	}
	return g.leaves
}

func (g *Generator) addRecord(ev *models.Event) {
	listing := g.listingFor(ev.Depth)

	e := ev.Entry
	meta := e.Metadata()
	if meta == nil {
		g.doc.Errors = append(g.doc.Errors, ErrorRecord{Path: e.Path, Error: e.Err().Error()})
		return
	}

	rec := Record{
		Name:   e.Name,
		Path:   e.Path,
		Type:   meta.Type.String(),
		Mode:   FormatMode(meta),
		Size:   meta.Size,
		Blocks: meta.Blocks,
		Nlink:  meta.Nlink,
		Inode:  meta.Inode,
		UID:    meta.UID,
		GID:    meta.GID,
		Mtime:  meta.Mtime,
		Atime:  meta.Atime,
		Ctime:  meta.Ctime,
	}
	if !g.config.NumericIDs {
		rec.Owner = g.ownerName(meta.UID)
		rec.Group = g.groupName(meta.GID)
	}
	if meta.IsDevice() {
		rec.Device = fmt.Sprintf("%d,%d", meta.DevMajor, meta.DevMinor)
	}
	if meta.Type == models.TypeSymlink {
		if target, err := filesystem.Readlink(e.Path); err == nil {
			rec.Target = target
		}
	}
	listing.Entries = append(listing.Entries, rec)
}
