package commands

import (
	"fmt"
	"io"

	"github.com/dastanaron/bookmarks-convert/internal/diagnostics"
	"github.com/dastanaron/bookmarks-convert/internal/parser"
	"github.com/dastanaron/bookmarks-convert/internal/writer"
)

// ExportCommand rewrites any supported bookmark file as a Netscape
// bookmark document
type ExportCommand struct {
	parser *parser.Parser
	stdout io.Writer
}

// NewExportCommand creates a new export command
func NewExportCommand(diag *diagnostics.Sink, stdout io.Writer) *ExportCommand {
	return &ExportCommand{
		parser: parser.NewParser(diag),
		stdout: stdout,
	}
}

// Execute exports inputPath to filePath
func (c *ExportCommand) Execute(inputPath, filePath string) error {
	root, err := c.parser.ParseFile(inputPath)
	if err != nil {
		return err
	}

	if err := writer.ExportNetscapeFile(filePath, root); err != nil {
		return fmt.Errorf("cannot export bookmarks: %w", err)
	}

	_, bookmarks := root.Count()
	fmt.Fprintf(c.stdout, "Exported %d bookmarks to %s\n", bookmarks, filePath)
	return nil
}
