package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/dastanaron/bookmarks-convert/internal/models"
)

// ReportOutput writes the whole tree as one org outline: folders become
// headings nested by depth, bookmarks become property lists below them.
// Nothing is created on disk.
type ReportOutput struct {
	w        io.Writer
	fallback string
}

// NewReportOutput creates a report writing to w. Folders without a name
// are printed as fallback.
func NewReportOutput(w io.Writer, fallback string) *ReportOutput {
	return &ReportOutput{w: w, fallback: fallback}
}

// EnterFolder prints the folder heading
func (r *ReportOutput) EnterFolder(parentDir, name string, depth int) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = r.fallback
	}
	if _, err := fmt.Fprintf(r.w, "%s %s\n", strings.Repeat("*", depth+1), name); err != nil {
		return "", &WriteError{Op: "write", Path: "report", Err: err}
	}
	return parentDir, nil
}

// WriteBookmark prints the bookmark's fields
func (r *ReportOutput) WriteBookmark(b *models.Bookmark, dir string, depth int) error {
	if err := Render(r.w, b, FormatOrg); err != nil {
		return &WriteError{Op: "write", Path: "report", Err: err}
	}
	return nil
}
