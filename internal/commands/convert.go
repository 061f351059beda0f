package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dastanaron/bookmarks-convert/internal/config"
	"github.com/dastanaron/bookmarks-convert/internal/diagnostics"
	"github.com/dastanaron/bookmarks-convert/internal/models"
	"github.com/dastanaron/bookmarks-convert/internal/parser"
	"github.com/dastanaron/bookmarks-convert/internal/service"
	"github.com/dastanaron/bookmarks-convert/internal/ui"
	"github.com/dastanaron/bookmarks-convert/internal/writer"
)

// ErrConflictingFormats is returned when more than one format flag is set
var ErrConflictingFormats = errors.New("only one of -url, -webloc, -html and -org may be given")

// SelectFormat turns the mutually exclusive format flags into a format
// name. It returns an empty string when no flag is set.
func SelectFormat(url, webloc, html, org bool) (string, error) {
	selected := ""
	for _, f := range []struct {
		set    bool
		format writer.Format
	}{
		{url, writer.FormatURL},
		{webloc, writer.FormatWebloc},
		{html, writer.FormatHTML},
		{org, writer.FormatOrg},
	} {
		if !f.set {
			continue
		}
		if selected != "" {
			return "", ErrConflictingFormats
		}
		selected = string(f.format)
	}
	return selected, nil
}

// ConvertCommand converts a bookmark file into a folder tree with one file
// per bookmark, or into an org report on stdout
type ConvertCommand struct {
	cfg      *config.Config
	diag     *diagnostics.Sink
	parser   *parser.Parser
	stdout   io.Writer
	progress io.Writer
}

// NewConvertCommand creates a new convert command
func NewConvertCommand(cfg *config.Config, diag *diagnostics.Sink, stdout io.Writer) *ConvertCommand {
	return &ConvertCommand{
		cfg:    cfg,
		diag:   diag,
		parser: parser.NewParser(diag),
		stdout: stdout,
	}
}

// WithProgressOutput draws the progress bar on w while files are written.
// The bar also needs cfg.Progress; a nil writer disables it.
func (c *ConvertCommand) WithProgressOutput(w io.Writer) *ConvertCommand {
	c.progress = w
	return c
}

// Execute reads inputPath and writes it below writeFolder. With an empty
// writeFolder the tree is printed as an org report instead.
func (c *ConvertCommand) Execute(inputPath, writeFolder string) (service.Stats, error) {
	root, err := c.parser.ParseFile(inputPath)
	if err != nil {
		return service.Stats{}, err
	}
	root = c.clearDoubles(root)

	if writeFolder == "" {
		report := writer.NewReportOutput(c.stdout, c.cfg.FallbackName)
		return service.NewTraverser(report, c.diag).Traverse(root, ""), nil
	}

	format, err := writer.ParseFormat(c.cfg.Format)
	if err != nil {
		return service.Stats{}, err
	}
	if err := os.MkdirAll(writeFolder, 0755); err != nil {
		return service.Stats{}, fmt.Errorf("cannot create output folder: %w", err)
	}

	_, total := root.Count()
	bar := ui.NewProgressBar(c.progress, total, c.progress != nil && c.cfg.Progress && !c.cfg.Verbose)
	c.diag.BeforeLog(bar.Break)
	defer c.diag.BeforeLog(nil)

	out := writer.NewFileOutput(format, c.cfg.Sanitizer(), c.diag)
	stats := service.NewTraverser(out, c.diag).
		OnProgress(func(s service.Stats) {
			bar.Set(s.Bookmarks+s.Failed, "")
		}).
		Traverse(root, writeFolder)
	bar.Finish(fmt.Sprintf("%d files", stats.Bookmarks))

	fmt.Fprintf(c.stdout, "Converted %d bookmarks in %d folders to %s.\n", stats.Bookmarks, stats.Folders, writeFolder)
	if n := len(c.diag.Warnings()); n > 0 {
		fmt.Fprintf(c.stdout, "%d warning(s), %d bookmark(s) not written.\n", n, stats.Failed)
	}
	return stats, nil
}

func (c *ConvertCommand) clearDoubles(root models.Node) models.Node {
	if !c.cfg.ClearDoubles {
		return root
	}
	pruned, removed := service.WithoutDoubles(root)
	c.diag.Infof("dropped %d duplicate bookmark(s)", removed)
	return pruned
}
