package config

import (
	"github.com/dastanaron/bookmarks-convert/internal/utils"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by NewConfig
const EnvPrefix = "BOOKMARKS"

// Config holds application configuration
type Config struct {
	MaxNameLength int    // bound for sanitized file and directory names
	FallbackName  string // used when a name sanitizes to nothing
	Format        string // single-bookmark file format
	Verbose       bool
	Progress      bool // progress bar while writing files
	CompareLimit  int  // number of files the compare command looks at
	ClearDoubles  bool // drop bookmarks whose URL was already written
}

// NewConfig creates a new configuration with defaults, overridden by
// BOOKMARKS_* environment variables
func NewConfig() *Config {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("max_name_length", utils.DefaultMaxNameLength)
	v.SetDefault("fallback_name", utils.DefaultFallbackName)
	v.SetDefault("format", "org")
	v.SetDefault("verbose", false)
	v.SetDefault("progress", true)
	v.SetDefault("compare_limit", 100)
	v.SetDefault("clear_doubles", false)

	return &Config{
		MaxNameLength: v.GetInt("max_name_length"),
		FallbackName:  v.GetString("fallback_name"),
		Format:        v.GetString("format"),
		Verbose:       v.GetBool("verbose"),
		Progress:      v.GetBool("progress"),
		CompareLimit:  v.GetInt("compare_limit"),
		ClearDoubles:  v.GetBool("clear_doubles"),
	}
}

// WithFormat sets the output format
func (c *Config) WithFormat(format string) *Config {
	c.Format = format
	return c
}

// WithVerbose enables verbose output
func (c *Config) WithVerbose(verbose bool) *Config {
	c.Verbose = verbose
	return c
}

// WithProgress toggles the progress bar
func (c *Config) WithProgress(progress bool) *Config {
	c.Progress = progress
	return c
}

// WithMaxNameLength sets a custom name bound
func (c *Config) WithMaxNameLength(n int) *Config {
	c.MaxNameLength = n
	return c
}

// WithCompareLimit sets how many files compare reads
func (c *Config) WithCompareLimit(n int) *Config {
	c.CompareLimit = n
	return c
}

// WithClearDoubles toggles dropping repeated URLs
func (c *Config) WithClearDoubles(clear bool) *Config {
	c.ClearDoubles = clear
	return c
}

// Sanitizer returns the name sanitizer for this configuration
func (c *Config) Sanitizer() utils.NameSanitizer {
	return utils.NewNameSanitizer(c.MaxNameLength, c.FallbackName)
}
