package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CompareCommand measures how much the bookmark files of one folder have in
// common. Files are compared as sets of lines with leading blanks removed,
// so re-indented exports of the same collection still match.
type CompareCommand struct {
	limit  int
	stdout io.Writer
}

// Similarity is the overlap between two files
type Similarity struct {
	A, B   string
	Common int
	LinesA int
	LinesB int
}

// Ratio is the share of common lines in the larger file
func (s Similarity) Ratio() float64 {
	larger := max(s.LinesA, s.LinesB)
	if larger == 0 {
		return 0
	}
	return float64(s.Common) / float64(larger)
}

// NewCompareCommand creates a compare command looking at no more than
// limit files. A limit below one means no limit.
func NewCompareCommand(limit int, stdout io.Writer) *CompareCommand {
	return &CompareCommand{limit: limit, stdout: stdout}
}

// Execute compares every pair of .html files in dir and prints the pairs
// sharing at least one line
func (c *CompareCommand) Execute(dir string) ([]Similarity, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("cannot list %s: %w", dir, err)
	}
	if c.limit > 0 && len(files) > c.limit {
		files = files[:c.limit]
	}

	lines := make([]map[string]struct{}, len(files))
	for i, f := range files {
		if lines[i], err = uniqueLines(f); err != nil {
			return nil, err
		}
	}

	var results []Similarity
	for i := range files {
		for j := i + 1; j < len(files); j++ {
			s := Similarity{
				A:      files[i],
				B:      files[j],
				Common: common(lines[i], lines[j]),
				LinesA: len(lines[i]),
				LinesB: len(lines[j]),
			}
			if s.Common == 0 {
				continue
			}
			results = append(results, s)
			fmt.Fprintf(c.stdout, "%5.4f %5d %5d %5d  %s %s\n", s.Ratio(), s.Common, s.LinesA, s.LinesB, s.A, s.B)
		}
	}
	return results, nil
}

func uniqueLines(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	set := make(map[string]struct{})
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			set[strings.TrimLeft(line, " \t")] = struct{}{}
		}
		if err == io.EOF {
			return set, nil
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
	}
}

func common(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for line := range a {
		if _, ok := b[line]; ok {
			n++
		}
	}
	return n
}
