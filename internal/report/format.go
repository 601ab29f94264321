package report

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/IvanShishkin/lsx/pkg/models"
)

const humanSuffixes = "BKMGTPEZY"

// FormatHuman scales a byte count by 1024 while it exceeds 1000
func FormatHuman(n int64) string {
	size := float64(n)
	unit := 0
	for size > 1000 && unit < len(humanSuffixes)-1 {
		size /= 1024
		unit++
	}
	if size > 10 {
		return fmt.Sprintf("%.0f%c", size, humanSuffixes[unit])
	}
	return fmt.Sprintf("%.1f%c", size, humanSuffixes[unit])
}

// FormatMode renders the classic ten-character mode string, e.g. "drwxr-xr-x"
func FormatMode(meta *models.Metadata) string {
	var b [10]byte
	switch meta.Type {
	case models.TypeRegular:
		b[0] = '-'
	case models.TypeDir:
		b[0] = 'd'
	case models.TypeSymlink:
		b[0] = 'l'
	case models.TypeSocket:
		b[0] = 's'
	case models.TypeFIFO:
		b[0] = 'p'
	case models.TypeBlockDevice:
		b[0] = 'b'
	case models.TypeCharDevice:
		b[0] = 'c'
	default:
		b[0] = '?'
	}

	const rwx = "rwxrwxrwx"
	perm := meta.Mode.Perm()
	for i := 0; i < 9; i++ {
		if perm&(1<<uint(8-i)) != 0 {
			b[i+1] = rwx[i]
		} else {
			b[i+1] = '-'
		}
	}

	special := func(pos int, set bool, lower, upper byte) {
		if !set {
			return
		}
		if b[pos] == 'x' {
			b[pos] = lower
		} else {
			b[pos] = upper
		}
	}
	special(3, meta.Mode&os.ModeSetuid != 0, 's', 'S')
	special(6, meta.Mode&os.ModeSetgid != 0, 's', 'S')
	special(9, meta.Mode&os.ModeSticky != 0, 't', 'T')

	return string(b[:])
}

// ReplaceNonprinting substitutes '?' for every rune that is not printable,
// invalid UTF-8 bytes included
func ReplaceNonprinting(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 || !unicode.IsPrint(r) {
			sb.WriteByte('?')
		} else {
			sb.WriteString(s[i : i+size])
		}
		i += size
	}
	return sb.String()
}

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%dm%.2fs", mins, secs)
}
