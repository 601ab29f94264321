package models

// VisitKind tells the visibility filter and sinks what a walker visit means
type VisitKind int

const (
	VisitFile     VisitKind = iota // non-directory, or a directory listed as a leaf
	VisitDir                       // directory visited before its contents (pre-order)
	VisitRoot                      // depth-0 directory whose contents are about to be listed
	VisitPost                      // directory being left after its contents (post-order)
	VisitError                     // entry that could not be resolved or opened
)

// EventType is what a sink is asked to render
type EventType int

const (
	EventHeader EventType = iota // directory header or boundary announcement
	EventEntry                   // one visible entry
	EventError                   // per-entry or per-argument failure
)

// Event is pushed from the walker to a presentation sink
type Event struct {
	Type  EventType
	Depth int

	// EventEntry
	Entry *Entry

	// EventHeader
	Dir       string // directory path whose contents follow
	Named     bool   // print the "dir:" line
	Separator bool   // print a blank line before the header
	Blocks    int64  // sum of block counts of the batch
	Count     int    // number of entries in the batch

	// EventError
	Path string
	Err  error
}
