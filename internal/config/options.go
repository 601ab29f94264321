package config

import (
	"strings"

	"github.com/IvanShishkin/lsx/pkg/models"
)

// Option is a single-letter listing flag.
// Options are applied in command-line order, so a later flag overrides an earlier conflicting one.
type Option struct {
	Short string
	Long  string
	Usage string
	Apply func(*Config)
}

// Options lists every flag the lister accepts
var Options = []Option{
	{"A", "almost-all", "List all entries except . and ..", func(c *Config) {
		c.ShowHidden = true
		c.ShowSelfParent = false
	}},
	{"a", "all", "List all entries including . and ..", func(c *Config) {
		c.ShowHidden = true
		c.ShowSelfParent = true
	}},
	{"c", "ctime", "Sort by and show status change time", func(c *Config) {
		c.SetSortKey(models.SortCtime)
	}},
	{"d", "directory", "List directories as plain entries, not their contents", func(c *Config) {
		c.PlainDirs = true
	}},
	{"F", "classify", "Append a type indicator (/ @ = | *) to names", func(c *Config) {
		c.PrintFileType = true
	}},
	// -f implies -a, as in NetBSD
	{"f", "no-sort", "Do not sort; list in directory order (implies -a)", func(c *Config) {
		c.NoSort = true
		c.ShowHidden = true
		c.ShowSelfParent = true
	}},
	{"h", "human-readable", "Print sizes with unit suffixes", func(c *Config) {
		c.HumanReadable = true
		c.ReportInKb = false
	}},
	{"i", "inode", "Print the inode number", func(c *Config) {
		c.PrintInode = true
	}},
	{"k", "kibibytes", "Report block counts in 1024-byte units", func(c *Config) {
		c.ReportInKb = true
		c.HumanReadable = false
	}},
	{"l", "long", "Use the long listing format", func(c *Config) {
		c.LongFormat = true
	}},
	{"n", "numeric-uid-gid", "Long format with numeric user and group IDs", func(c *Config) {
		c.NumericIDs = true
		c.LongFormat = true
	}},
	{"q", "hide-control-chars", "Print non-printable characters as ?", func(c *Config) {
		c.MarkNonprinting = true
	}},
	{"R", "recursive", "List subdirectories recursively", func(c *Config) {
		c.Recursive = true
	}},
	{"r", "reverse", "Reverse the sort order", func(c *Config) {
		c.Reverse = true
	}},
	{"S", "sort-size", "Sort by size, largest first", func(c *Config) {
		c.SetSortKey(models.SortSize)
	}},
	{"s", "size", "Print the allocated size in blocks", func(c *Config) {
		c.PrintBlockCount = true
	}},
	{"t", "sort-time", "Sort by modification time, newest first", func(c *Config) {
		c.SetSortKey(models.SortMtime)
	}},
	{"u", "atime", "Sort by and show last access time", func(c *Config) {
		c.SetSortKey(models.SortAtime)
	}},
}

// Synopsis returns the flag letters for usage messages, e.g. "AacdFf..."
func Synopsis() string {
	var sb strings.Builder
	for _, o := range Options {
		sb.WriteString(o.Short)
	}
	return sb.String()
}

// LookupOption finds an option by its letter
func LookupOption(short string) (Option, bool) {
	for _, o := range Options {
		if o.Short == short {
			return o, true
		}
	}
	return Option{}, false
}

// ApplyOptions applies letters in order, e.g. ApplyOptions(cfg, "l", "a", "t")
func ApplyOptions(c *Config, letters ...string) bool {
	for _, l := range letters {
		o, ok := LookupOption(l)
		if !ok {
			return false
		}
		o.Apply(c)
	}
	return true
}
