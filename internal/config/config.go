package config

import (
	"fmt"
	"strings"

	"github.com/IvanShishkin/lsx/pkg/models"
	"github.com/alecthomas/units"
	"github.com/spf13/viper"
)

const (
	// DefaultBlockSize is the unit for block counts when BLOCKSIZE is unset
	DefaultBlockSize = 512
	// KilobyteBlockSize is the unit selected by -k
	KilobyteBlockSize = 1024
)

// Config represents the listing configuration.
// It is resolved once before traversal and read-only afterwards.
type Config struct {
	// Visibility
	ShowHidden     bool // -A, -a: show names starting with '.'
	ShowSelfParent bool // -a: synthesize "." and ".."

	// ShowDirHeader prints "dir:" for a single directory argument.
	// No flag sets it; it comes from LSX_SHOW_DIR_HEADER.
	ShowDirHeader bool `mapstructure:"show_dir_header"`

	// Ordering
	SortKey models.SortKey
	NoSort  bool // -f: raw directory order
	Reverse bool // -r

	// Traversal
	Recursive bool // -R
	PlainDirs bool // -d: list directory arguments as plain entries

	// Presentation
	MarkNonprinting bool // -q
	HumanReadable   bool // -h
	ReportInKb      bool // -k
	PrintInode      bool // -i
	PrintBlockCount bool // -s
	PrintFileType   bool // -F
	LongFormat      bool // -l
	NumericIDs      bool // -n

	// Environment-backed settings
	BlockSize string `mapstructure:"block_size"` // BLOCKSIZE, e.g. "512", "1K"
	Format    string `mapstructure:"format"`     // text, json, yaml, markdown
	Verbose   bool   `mapstructure:"verbose"`    // debug logging
}

// LoadConfig loads configuration from environment variables and defaults
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("block_size", "512")
	v.SetDefault("format", "text")
	v.SetDefault("verbose", false)
	v.SetDefault("show_dir_header", false)

	v.SetEnvPrefix("LSX")
	v.AutomaticEnv()
	if err := v.BindEnv("block_size", "BLOCKSIZE"); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Direction returns the ordering direction selected by -r
func (c *Config) Direction() models.Direction {
	if c.Reverse {
		return models.Reverse
	}
	return models.Forward
}

// SetSortKey activates key and clears any previously selected key
func (c *Config) SetSortKey(key models.SortKey) {
	c.SortKey = key
}

// TimeField returns the timestamp shown in long format
func (c *Config) TimeField() models.SortKey {
	if c.SortKey.IsTime() {
		return c.SortKey
	}
	return models.SortMtime
}

// EffectiveBlockSize returns the unit block counts are reported in
func (c *Config) EffectiveBlockSize() int64 {
	if c.ReportInKb {
		return KilobyteBlockSize
	}
	size, err := ParseBlockSize(c.BlockSize)
	if err != nil || size <= 0 {
		return DefaultBlockSize
	}
	return size
}

// Validate checks values that came from the environment
func (c *Config) Validate() error {
	switch c.Format {
	case "", "text", "json", "yaml", "markdown", "md":
	default:
		return fmt.Errorf("format must be one of: text, json, yaml, markdown (got: %s)", c.Format)
	}
	if c.BlockSize != "" {
		if _, err := ParseBlockSize(c.BlockSize); err != nil {
			return err
		}
	}
	return nil
}

// ParseBlockSize parses size strings such as "512", "1K" or "1M" to bytes
func ParseBlockSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultBlockSize, nil
	}

	size := strings.ToUpper(s)
	if !strings.HasSuffix(size, "B") {
		size += "B"
	}

	n, err := units.ParseBase2Bytes(size)
	if err != nil {
		return 0, fmt.Errorf("invalid block size %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid block size %q", s)
	}
	return int64(n), nil
}
