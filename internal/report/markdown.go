package report

import (
	"fmt"
	"io"
	"strings"
)

// generateMarkdown writes one table per listing
func (g *Generator) generateMarkdown(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("# Directory Listing\n\n")

	if r := g.doc.Results; r != nil {
		sb.WriteString("| Parameter | Value |\n")
		sb.WriteString("|-----------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Roots | %d |\n", r.Roots))
		sb.WriteString(fmt.Sprintf("| Directories | %d |\n", r.Dirs))
		sb.WriteString(fmt.Sprintf("| Entries | %d |\n", r.Entries))
		sb.WriteString(fmt.Sprintf("| Errors | %d |\n", r.Errors))
		sb.WriteString(fmt.Sprintf("| Duration | %s |\n", FormatDuration(r.Duration)))
		sb.WriteString("\n")
	}

	for _, l := range g.doc.Listings {
		if l.Path == "" {
			sb.WriteString("## Files\n\n")
		} else {
			sb.WriteString(fmt.Sprintf("## `%s`\n\n", escapeMarkdown(l.Path)))
		}
		if len(l.Entries) == 0 {
			sb.WriteString("_empty_\n\n")
			continue
		}

		sb.WriteString("| Mode | Links | Owner | Group | Size | Modified | Name |\n")
		sb.WriteString("|------|-------|-------|-------|------|----------|------|\n")
		for _, rec := range l.Entries {
			owner, group := rec.Owner, rec.Group
			if owner == "" {
				owner = fmt.Sprintf("%d", rec.UID)
			}
			if group == "" {
				group = fmt.Sprintf("%d", rec.GID)
			}
			size := fmt.Sprintf("%d", rec.Size)
			if rec.Device != "" {
				size = rec.Device
			} else if g.config.HumanReadable {
				size = FormatHuman(rec.Size)
			}
			name := "`" + escapeMarkdown(rec.Name) + "`"
			if rec.Target != "" {
				name += " → `" + escapeMarkdown(rec.Target) + "`"
			}
			sb.WriteString(fmt.Sprintf("| `%s` | %d | %s | %s | %s | %s | %s |\n",
				rec.Mode, rec.Nlink, escapeMarkdown(owner), escapeMarkdown(group), size,
				rec.Mtime.Format("2006-01-02 15:04:05"), name))
		}
		sb.WriteString("\n")
	}

	if len(g.doc.Errors) > 0 {
		sb.WriteString("## Errors\n\n")
		sb.WriteString("| Path | Error |\n")
		sb.WriteString("|------|-------|\n")
		for _, e := range g.doc.Errors {
			sb.WriteString(fmt.Sprintf("| `%s` | %s |\n", escapeMarkdown(e.Path), escapeMarkdown(e.Error)))
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", "\\|", "`", "'", "\n", " ").Replace(s)
}
