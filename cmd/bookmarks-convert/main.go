package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dastanaron/bookmarks-convert/internal/commands"
	"github.com/dastanaron/bookmarks-convert/internal/config"
	"github.com/dastanaron/bookmarks-convert/internal/diagnostics"
	"github.com/dastanaron/bookmarks-convert/internal/parser"
	"github.com/dastanaron/bookmarks-convert/internal/ui"
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [flags] file [writeFolder]\n\n", os.Args[0])
	fmt.Fprintln(out, "Converts a places.sqlite, bookmarks .json or Netscape .html file into one")
	fmt.Fprintln(out, "file per bookmark below writeFolder. Without writeFolder an org report")
	fmt.Fprintln(out, "is printed to stdout.")
	fmt.Fprintln(out)
	flag.PrintDefaults()
}

func main() {
	asURL := flag.Bool("url", false, "Write .url internet shortcuts")
	asWebloc := flag.Bool("webloc", false, "Write .webloc property lists")
	asHTML := flag.Bool("html", false, "Write .html redirect pages")
	asOrg := flag.Bool("org", false, "Write .org property lists (default)")
	verbose := flag.Bool("v", false, "Print every folder and bookmark as it is processed")
	noProgress := flag.Bool("no-progress", false, "Do not draw the progress bar")
	clearDoubles := flag.Bool("clear-doubles", false, "Skip bookmarks whose URL was already written")
	maxName := flag.Int("max-name", 0, "Maximum length of file and folder names")
	exportPath := flag.String("export", "", "Write the input as a Netscape bookmark file to this path")
	doubles := flag.Bool("doubles", false, "List duplicate bookmarks (same URL) and exit")
	browse := flag.Bool("browse", false, "Browse the input in a terminal UI")
	compareDir := flag.String("compare", "", "Compare the .html files of a folder line by line")
	compareLimit := flag.Int("limit", 0, "Number of files -compare reads")
	flag.Usage = usage
	flag.Parse()

	cfg := config.NewConfig()
	if *verbose {
		cfg.WithVerbose(true)
	}
	if *noProgress {
		cfg.WithProgress(false)
	}
	if *clearDoubles {
		cfg.WithClearDoubles(true)
	}
	if *maxName > 0 {
		cfg.WithMaxNameLength(*maxName)
	}
	if *compareLimit > 0 {
		cfg.WithCompareLimit(*compareLimit)
	}

	// Handle compare command, it needs no input file
	if *compareDir != "" {
		compareCmd := commands.NewCompareCommand(cfg.CompareLimit, os.Stdout)
		if _, err := compareCmd.Execute(*compareDir); err != nil {
			log.Fatalf("Compare failed: %v", err)
		}
		return
	}

	args := flag.Args()
	if len(args) < 1 || len(args) > 2 {
		flag.Usage()
		os.Exit(2)
	}
	inputPath := args[0]
	writeFolder := ""
	if len(args) == 2 {
		writeFolder = args[1]
	}

	format, err := commands.SelectFormat(*asURL, *asWebloc, *asHTML, *asOrg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	if format != "" {
		cfg.WithFormat(format)
	}

	diag := diagnostics.New(os.Stderr).SetVerbose(cfg.Verbose)

	// Handle export command
	if *exportPath != "" {
		exportCmd := commands.NewExportCommand(diag, os.Stdout)
		if err := exportCmd.Execute(inputPath, *exportPath); err != nil {
			fatal("Export failed", err)
		}
		return
	}

	// Handle doubles command
	if *doubles {
		doublesCmd := commands.NewDoublesCommand(diag, os.Stdout)
		if _, err := doublesCmd.Execute(inputPath); err != nil {
			fatal("Doubles failed", err)
		}
		return
	}

	// Run TUI application
	if *browse {
		if err := commands.NewBrowseCommand(diag).Execute(inputPath); err != nil {
			fatal("Browse failed", err)
		}
		return
	}

	convertCmd := commands.NewConvertCommand(cfg, diag, os.Stdout)
	if ui.IsTerminal(os.Stderr) {
		convertCmd.WithProgressOutput(os.Stderr)
	}
	if _, err := convertCmd.Execute(inputPath, writeFolder); err != nil {
		fatal("Convert failed", err)
	}
}

// fatal exits with status 1
func fatal(prefix string, err error) {
	if errors.Is(err, parser.ErrUnsupportedFormat) {
		log.Fatalf("%s: %v (expected .sqlite, .db, .json, .html or .htm)", prefix, err)
	}
	log.Fatalf("%s: %v", prefix, err)
}
