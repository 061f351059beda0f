// Package parser turns the supported bookmark sources into a single
// models.Node tree.
package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dastanaron/bookmarks-convert/internal/diagnostics"
	"github.com/dastanaron/bookmarks-convert/internal/models"
)

// Format is a supported source encoding
type Format string

const (
	FormatSQLite Format = "sqlite"
	FormatJSON   Format = "json"
	FormatHTML   Format = "html"
)

// ErrUnsupportedFormat is returned for an input file with an unknown extension
var ErrUnsupportedFormat = errors.New("unsupported input format")

// FormatError means the input could not be read as the claimed format at
// all. It is the only error that aborts a conversion.
type FormatError struct {
	Format Format
	Path   string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("cannot read %s bookmarks: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("cannot read %s as %s bookmarks: %v", e.Path, e.Format, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// DetectFormat picks the source format from the file extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sqlite", ".db":
		return FormatSQLite, nil
	case ".json":
		return FormatJSON, nil
	case ".html", ".htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Parser builds bookmark trees and reports the records it had to skip
type Parser struct {
	diag *diagnostics.Sink
}

// NewParser creates a new parser. A nil sink discards warnings.
func NewParser(diag *diagnostics.Sink) *Parser {
	if diag == nil {
		diag = diagnostics.New(nil)
	}
	return &Parser{diag: diag}
}

// ParseFile reads the bookmark file at path and returns its root folder
func (p *Parser) ParseFile(path string) (models.Node, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return models.Node{}, err
	}

	rootName := RootName(path)
	if format == FormatSQLite {
		return p.ParseSQLite(path, rootName)
	}

	file, err := os.Open(path)
	if err != nil {
		return models.Node{}, &FormatError{Format: format, Path: path, Err: err}
	}
	defer file.Close()

	var root models.Node
	switch format {
	case FormatJSON:
		root, err = p.ParseJSON(file, rootName)
	case FormatHTML:
		root, err = p.ParseHTML(file, rootName)
	}

	var fe *FormatError
	if errors.As(err, &fe) && fe.Path == "" {
		fe.Path = path
	}
	return root, err
}

// RootName is the name given to a root folder when the source has none:
// the input file name without its extension.
func RootName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
