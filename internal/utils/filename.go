package utils

import (
	"regexp"
	"strings"
)

const (
	// DefaultMaxNameLength keeps a name well below the usual 255 byte limit
	// for a path component, leaving room for the extension.
	DefaultMaxNameLength = 200
	// MaxNameLength is the hard upper bound for a configured length.
	MaxNameLength = 250
	// DefaultFallbackName replaces names that sanitize to nothing.
	DefaultFallbackName = "untitled"
)

// Anything outside of these is dropped, not replaced
var disallowedNameChars = regexp.MustCompile(`[^a-zA-Z0-9_ ]`)

// NameSanitizer maps display strings to filesystem-safe tokens
type NameSanitizer struct {
	MaxLength int
	Fallback  string
}

// NewNameSanitizer creates a sanitizer with the given bound and fallback
func NewNameSanitizer(maxLength int, fallback string) NameSanitizer {
	return NameSanitizer{MaxLength: maxLength, Fallback: fallback}
}

// SanitizeName sanitizes text with the default fallback token.
// A maxLen of zero or less selects DefaultMaxNameLength.
func SanitizeName(text string, maxLen int) string {
	return NameSanitizer{MaxLength: maxLen}.Sanitize(text)
}

// Sanitize keeps ASCII letters, digits and underscores, turns spaces into
// underscores and truncates the result. The result is never empty.
func (s NameSanitizer) Sanitize(text string) string {
	if name := clean(text, s.limit()); name != "" {
		return name
	}
	return s.fallback()
}

func (s NameSanitizer) limit() int {
	switch {
	case s.MaxLength <= 0:
		return DefaultMaxNameLength
	case s.MaxLength > MaxNameLength:
		return MaxNameLength
	}
	return s.MaxLength
}

func (s NameSanitizer) fallback() string {
	if name := clean(s.Fallback, s.limit()); name != "" {
		return name
	}
	return clean(DefaultFallbackName, s.limit())
}

func clean(text string, limit int) string {
	name := disallowedNameChars.ReplaceAllString(text, "")
	name = strings.Trim(name, " ")
	name = strings.ReplaceAll(name, " ", "_")
	if len(name) > limit {
		name = name[:limit]
	}
	return name
}
