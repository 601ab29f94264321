package models

import (
	"errors"
	"io/fs"
	"os"
	"time"
)

// FileType classifies a filesystem object
type FileType int

const (
	TypeUnknown FileType = iota
	TypeRegular
	TypeDir
	TypeSymlink
	TypeSocket
	TypeFIFO
	TypeBlockDevice
	TypeCharDevice
)

// String returns the lowercase type name used in structured output
func (t FileType) String() string {
	switch t {
	case TypeRegular:
		return "file"
	case TypeDir:
		return "dir"
	case TypeSymlink:
		return "symlink"
	case TypeSocket:
		return "socket"
	case TypeFIFO:
		return "fifo"
	case TypeBlockDevice:
		return "block_device"
	case TypeCharDevice:
		return "char_device"
	default:
		return "unknown"
	}
}

// TypeFromMode maps mode type bits to a FileType
func TypeFromMode(mode fs.FileMode) FileType {
	switch {
	case mode.IsRegular():
		return TypeRegular
	case mode&fs.ModeDir != 0:
		return TypeDir
	case mode&fs.ModeSymlink != 0:
		return TypeSymlink
	case mode&fs.ModeSocket != 0:
		return TypeSocket
	case mode&fs.ModeNamedPipe != 0:
		return TypeFIFO
	case mode&fs.ModeDevice != 0 && mode&fs.ModeCharDevice != 0:
		return TypeCharDevice
	case mode&fs.ModeDevice != 0:
		return TypeBlockDevice
	default:
		return TypeUnknown
	}
}

// Metadata is a fully resolved stat record
type Metadata struct {
	Type     FileType
	Mode     os.FileMode
	Size     int64
	Blocks   int64 // 512-byte blocks
	Nlink    uint64
	UID      uint32
	GID      uint32
	Inode    uint64
	Atime    time.Time
	Mtime    time.Time
	Ctime    time.Time
	DevMajor uint32
	DevMinor uint32
}

// IsDevice reports whether the metadata describes a block or character device
func (m *Metadata) IsDevice() bool {
	return m.Type == TypeBlockDevice || m.Type == TypeCharDevice
}

// ErrorKind classifies why an entry could not be resolved
type ErrorKind int

const (
	ErrorOther ErrorKind = iota
	ErrorNotExist
	ErrorPermission
)

// StatError is the failure half of an entry: the path and the OS error
type StatError struct {
	Path string
	Kind ErrorKind
	Err  error
}

// NewStatError classifies err for path
func NewStatError(path string, err error) *StatError {
	kind := ErrorOther
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = ErrorNotExist
	case errors.Is(err, fs.ErrPermission):
		kind = ErrorPermission
	}
	return &StatError{Path: path, Kind: kind, Err: err}
}

// Error returns the system error text without the operation and path prefix
func (e *StatError) Error() string {
	var pathErr *fs.PathError
	if errors.As(e.Err, &pathErr) {
		return pathErr.Err.Error()
	}
	return e.Err.Error()
}

func (e *StatError) Unwrap() error {
	return e.Err
}

// ResolveFunc fetches metadata for an entry on first use
type ResolveFunc func() (*Metadata, error)

// Entry is one filesystem object encountered during a listing.
// Metadata is resolved at most once; afterwards the entry is either
// resolved (Metadata != nil) or failed (Err != nil), never both.
type Entry struct {
	Name  string // final path component, or the argument as given for roots
	Path  string // path used to access the object
	Depth int

	hint     FileType
	resolve  ResolveFunc
	resolved bool
	meta     *Metadata
	err      *StatError
}

// NewEntry creates an entry whose metadata is fetched lazily by resolve.
// hint is the type known without a stat (from the directory entry), or TypeUnknown.
func NewEntry(name, path string, depth int, hint FileType, resolve ResolveFunc) *Entry {
	return &Entry{Name: name, Path: path, Depth: depth, hint: hint, resolve: resolve}
}

// NewResolvedEntry creates an entry with metadata already known
func NewResolvedEntry(name, path string, depth int, meta *Metadata) *Entry {
	return &Entry{Name: name, Path: path, Depth: depth, hint: meta.Type, meta: meta, resolved: true}
}

// NewFailedEntry creates an entry that could not be resolved
func NewFailedEntry(name, path string, depth int, err error) *Entry {
	return &Entry{Name: name, Path: path, Depth: depth, err: NewStatError(path, err), resolved: true}
}

func (e *Entry) load() {
	if e.resolved {
		return
	}
	e.resolved = true
	if e.resolve == nil {
		e.err = NewStatError(e.Path, errors.New("no metadata source"))
		return
	}
	meta, err := e.resolve()
	if err != nil {
		e.err = NewStatError(e.Path, err)
		return
	}
	e.meta = meta
	e.resolve = nil
}

// Metadata returns the resolved stat record, or nil when the entry failed
func (e *Entry) Metadata() *Metadata {
	e.load()
	return e.meta
}

// Err returns the resolution failure, or nil
func (e *Entry) Err() *StatError {
	e.load()
	return e.err
}

// Failed reports whether resolution failed
func (e *Entry) Failed() bool {
	return e.Err() != nil
}

// Type returns the entry type, using the directory hint before falling back to a stat
func (e *Entry) Type() FileType {
	if e.meta != nil {
		return e.meta.Type
	}
	if e.hint != TypeUnknown {
		return e.hint
	}
	if m := e.Metadata(); m != nil {
		return m.Type
	}
	return TypeUnknown
}

// IsDir reports whether the entry is a directory
func (e *Entry) IsDir() bool {
	return e.Type() == TypeDir
}

// IsSelfOrParent reports whether the entry is a synthesized "." or ".." entry
func (e *Entry) IsSelfOrParent() bool {
	return e.Depth > 0 && (e.Name == "." || e.Name == "..")
}

// IsHidden reports whether the name starts with a dot
func (e *Entry) IsHidden() bool {
	return len(e.Name) > 0 && e.Name[0] == '.'
}

// Level is the ordered, filtered batch of entries belonging to one directory
type Level struct {
	Dir     string
	Depth   int
	Entries []*Entry
}

// Blocks sums the block counts of resolved entries
func (l *Level) Blocks() int64 {
	var total int64
	for _, e := range l.Entries {
		if m := e.Metadata(); m != nil {
			total += m.Blocks
		}
	}
	return total
}
