package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/IvanShishkin/lsx/internal/filesystem"
	"github.com/IvanShishkin/lsx/pkg/models"
	"go.uber.org/zap"
)

const (
	recentLayout = "Jan _2 15:04"
	olderLayout  = "Jan _2  2006"
)

// writeHeader prints the blank separator, the "dir:" line and the total
func (g *Generator) writeHeader(ev *models.Event) error {
	var sb strings.Builder
	if ev.Separator {
		sb.WriteString("\n")
	}
	if ev.Named {
		sb.WriteString(g.displayName(ev.Dir))
		sb.WriteString(":\n")
	}
	if (g.config.LongFormat || g.config.PrintBlockCount) && ev.Count > 0 {
		sb.WriteString("total ")
		sb.WriteString(g.formatBlocks(ev.Blocks))
		sb.WriteString("\n")
	}
	_, err := g.out.WriteString(sb.String())
	return err
}

// writeEntry prints one entry line
func (g *Generator) writeEntry(ev *models.Event) error {
	e := ev.Entry
	meta := e.Metadata()
	if meta == nil {
		return g.writeError(e.Path, e.Err())
	}

	var sb strings.Builder
	if g.config.PrintInode {
		sb.WriteString(fmt.Sprintf("%8d ", meta.Inode))
	}
	if g.config.PrintBlockCount {
		sb.WriteString(fmt.Sprintf("%5s ", g.formatBlocks(meta.Blocks)))
	}
	if g.config.LongFormat {
		g.writeLong(&sb, meta)
	}

	sb.WriteString(g.displayName(e.Name))
	if g.config.PrintFileType {
		sb.WriteString(typeGlyph(meta))
	}

	if g.config.LongFormat && meta.Type == models.TypeSymlink {
		target, err := filesystem.Readlink(e.Path)
		if err != nil {
			g.logger.Warn("Failed to read link", zap.String("path", e.Path), zap.Error(err))
			sb.WriteString("\n")
			if _, werr := g.out.WriteString(sb.String()); werr != nil {
				return werr
			}
			return g.writeError(e.Path, models.NewStatError(e.Path, err))
		}
		sb.WriteString(" -> ")
		sb.WriteString(g.displayName(target))
	}

	sb.WriteString("\n")
	_, err := g.out.WriteString(sb.String())
	return err
}

// writeLong appends "mode nlink owner group size date " to the line
func (g *Generator) writeLong(sb *strings.Builder, meta *models.Metadata) {
	sb.WriteString(FormatMode(meta))
	sb.WriteString(fmt.Sprintf(" %3d ", meta.Nlink))

	if g.config.NumericIDs {
		sb.WriteString(fmt.Sprintf("%-8d %-8d ", meta.UID, meta.GID))
	} else {
		sb.WriteString(fmt.Sprintf("%-8s %-8s ", g.ownerName(meta.UID), g.groupName(meta.GID)))
	}

	switch {
	case meta.IsDevice():
		sb.WriteString(fmt.Sprintf("%3d, %3d ", meta.DevMajor, meta.DevMinor))
	case g.config.HumanReadable:
		sb.WriteString(fmt.Sprintf("%5s ", FormatHuman(meta.Size)))
	default:
		sb.WriteString(fmt.Sprintf("%8d ", meta.Size))
	}

	sb.WriteString(g.formatTime(g.displayTime(meta)))
	sb.WriteString(" ")
}

// displayTime picks the timestamp matching the time sort key
func (g *Generator) displayTime(meta *models.Metadata) time.Time {
	switch g.config.TimeField() {
	case models.SortCtime:
		return meta.Ctime
	case models.SortAtime:
		return meta.Atime
	default:
		return meta.Mtime
	}
}

func (g *Generator) formatTime(t time.Time) string {
	if t.Year() == g.now().Year() {
		return t.Format(recentLayout)
	}
	return t.Format(olderLayout)
}

// formatBlocks converts 512-byte blocks to the configured unit
func (g *Generator) formatBlocks(blocks int64) string {
	if g.config.HumanReadable {
		return FormatHuman(blocks * 512)
	}
	return fmt.Sprintf("%d", blocks*512/g.config.EffectiveBlockSize())
}

func (g *Generator) displayName(name string) string {
	if g.config.MarkNonprinting {
		return ReplaceNonprinting(name)
	}
	return name
}

func typeGlyph(meta *models.Metadata) string {
	switch meta.Type {
	case models.TypeDir:
		return "/"
	case models.TypeSymlink:
		return "@"
	case models.TypeSocket:
		return "="
	case models.TypeFIFO:
		return "|"
	case models.TypeRegular:
		if meta.Mode&0o111 != 0 {
			return "*"
		}
	}
	return ""
}
