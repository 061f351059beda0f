package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/dastanaron/bookmarks-convert/internal/diagnostics"
	"github.com/dastanaron/bookmarks-convert/internal/parser"
	"github.com/dastanaron/bookmarks-convert/internal/service"
)

// DoublesCommand lists bookmarks that repeat an earlier URL
type DoublesCommand struct {
	parser *parser.Parser
	stdout io.Writer
}

// NewDoublesCommand creates a new doubles command
func NewDoublesCommand(diag *diagnostics.Sink, stdout io.Writer) *DoublesCommand {
	return &DoublesCommand{
		parser: parser.NewParser(diag),
		stdout: stdout,
	}
}

// Execute prints every duplicate with the place of the bookmark that is
// kept, and returns how many were found
func (c *DoublesCommand) Execute(inputPath string) (int, error) {
	root, err := c.parser.ParseFile(inputPath)
	if err != nil {
		return 0, err
	}

	doubles := service.FindDoubles(root)
	if len(doubles) == 0 {
		fmt.Fprintln(c.stdout, "No duplicate bookmarks found.")
		return 0, nil
	}

	for _, d := range doubles {
		fmt.Fprintf(c.stdout, "Found duplicate: '%s' in %s (keeping '%s' in %s)\n",
			d.Bookmark.Title, strings.Join(d.Path, "/"),
			d.First.Bookmark.Title, strings.Join(d.First.Path, "/"))
	}
	fmt.Fprintf(c.stdout, "Found %d duplicate bookmark(s).\n", len(doubles))
	return len(doubles), nil
}
