// Package order implements deterministic ordering of directory entries.
package order

import (
	"slices"
	"strings"
	"time"

	"github.com/IvanShishkin/lsx/pkg/models"
)

// CompareFunc returns a negative number when a sorts before b
type CompareFunc func(a, b *models.Entry) int

// Comparator returns the comparator for key in the given direction.
// Reverse negates the whole comparison, tie-break included.
func Comparator(key models.SortKey, dir models.Direction) CompareFunc {
	cmp := natural(key)
	if dir == models.Reverse {
		return func(a, b *models.Entry) int {
			return -cmp(a, b)
		}
	}
	return cmp
}

// Sort orders entries in place. The sort is stable; every comparator breaks
// ties by name, so the result is a total order for distinct names.
func Sort(entries []*models.Entry, key models.SortKey, dir models.Direction) {
	slices.SortStableFunc(entries, Comparator(key, dir))
}

// natural selects the comparator for key in its default direction
func natural(key models.SortKey) CompareFunc {
	switch key {
	case models.SortSize:
		return bySize
	case models.SortCtime:
		return byTime(func(m *models.Metadata) time.Time { return m.Ctime })
	case models.SortMtime:
		return byTime(func(m *models.Metadata) time.Time { return m.Mtime })
	case models.SortAtime:
		return byTime(func(m *models.Metadata) time.Time { return m.Atime })
	default:
		return byName
	}
}

func byName(a, b *models.Entry) int {
	return strings.Compare(a.Name, b.Name)
}

// bySize puts larger entries first. Failed entries count as size zero.
func bySize(a, b *models.Entry) int {
	sa, sb := size(a), size(b)
	switch {
	case sa > sb:
		return -1
	case sa < sb:
		return 1
	}
	return byName(a, b)
}

// byTime puts the most recent entries first. Failed entries count as the zero time.
func byTime(field func(*models.Metadata) time.Time) CompareFunc {
	return func(a, b *models.Entry) int {
		ta, tb := timeOf(a, field), timeOf(b, field)
		if c := tb.Compare(ta); c != 0 {
			return c
		}
		return byName(a, b)
	}
}

func size(e *models.Entry) int64 {
	if m := e.Metadata(); m != nil {
		return m.Size
	}
	return 0
}

func timeOf(e *models.Entry, field func(*models.Metadata) time.Time) time.Time {
	if m := e.Metadata(); m != nil {
		return field(m)
	}
	return time.Time{}
}
