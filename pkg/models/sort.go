package models

import "fmt"

// SortKey selects the attribute entries are ordered by
type SortKey int

const (
	SortName SortKey = iota
	SortSize
	SortCtime
	SortMtime
	SortAtime
)

var sortKeyNames = map[SortKey]string{
	SortName:  "name",
	SortSize:  "size",
	SortCtime: "ctime",
	SortMtime: "mtime",
	SortAtime: "atime",
}

func (k SortKey) String() string {
	if s, ok := sortKeyNames[k]; ok {
		return s
	}
	return fmt.Sprintf("SortKey(%d)", int(k))
}

// ParseSortKey parses a key name such as "mtime"
func ParseSortKey(s string) (SortKey, error) {
	for k, name := range sortKeyNames {
		if name == s {
			return k, nil
		}
	}
	return SortName, fmt.Errorf("unknown sort key: %s", s)
}

// IsTime reports whether the key orders by a timestamp
func (k SortKey) IsTime() bool {
	return k == SortCtime || k == SortMtime || k == SortAtime
}

// Direction of an ordering
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}
