package commands

import (
	"github.com/dastanaron/bookmarks-convert/internal/diagnostics"
	"github.com/dastanaron/bookmarks-convert/internal/parser"
	"github.com/dastanaron/bookmarks-convert/internal/ui"
)

// BrowseCommand opens a parsed bookmark file in the terminal browser
type BrowseCommand struct {
	parser *parser.Parser
}

// NewBrowseCommand creates a new browse command
func NewBrowseCommand(diag *diagnostics.Sink) *BrowseCommand {
	return &BrowseCommand{parser: parser.NewParser(diag)}
}

// Execute parses inputPath and runs the UI until the user quits
func (c *BrowseCommand) Execute(inputPath string) error {
	root, err := c.parser.ParseFile(inputPath)
	if err != nil {
		return err
	}
	return ui.NewApp(root).Run()
}
