package writer

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dastanaron/bookmarks-convert/internal/models"
)

// NetscapeExporter writes a tree as a Netscape bookmark file, the format
// every browser imports
type NetscapeExporter struct {
	w *bufio.Writer
}

// ExportNetscapeFile writes root to the file at path
func ExportNetscapeFile(path string, root models.Node) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return &WriteError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = &WriteError{Op: "close", Path: path, Err: cerr}
		}
	}()

	if err := NewNetscapeExporter(file).Export(root); err != nil {
		return &WriteError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// NewNetscapeExporter creates an exporter writing to w
func NewNetscapeExporter(w io.Writer) *NetscapeExporter {
	return &NetscapeExporter{w: bufio.NewWriter(w)}
}

// Export writes the document. The root folder becomes the H1 title and its
// children the top-level list.
func (e *NetscapeExporter) Export(root models.Node) error {
	title := "Bookmarks"
	var children []models.Node
	switch {
	case root.IsFolder():
		if root.Folder.Name != "" {
			title = root.Folder.Name
		}
		children = root.Folder.Children
	case root.IsBookmark():
		children = []models.Node{root}
	}

	fmt.Fprintf(e.w, "<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	fmt.Fprintf(e.w, "<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	fmt.Fprintf(e.w, "<TITLE>Bookmarks</TITLE>\n")
	fmt.Fprintf(e.w, "<H1>%s</H1>\n", html.EscapeString(title))
	fmt.Fprintf(e.w, "<DL><p>\n")

	for _, c := range children {
		e.writeNode(c, 1)
	}

	fmt.Fprintf(e.w, "</DL><p>\n")
	return e.w.Flush()
}

func (e *NetscapeExporter) writeNode(n models.Node, depth int) {
	indent := strings.Repeat("    ", depth)

	switch {
	case n.IsFolder():
		fmt.Fprintf(e.w, "%s<DT><H3>%s</H3>\n", indent, html.EscapeString(n.Folder.Name))
		fmt.Fprintf(e.w, "%s<DL><p>\n", indent)
		for _, c := range n.Folder.Children {
			e.writeNode(c, depth+1)
		}
		fmt.Fprintf(e.w, "%s</DL><p>\n", indent)

	case n.IsBookmark():
		e.writeBookmark(n.Bookmark, indent)
	}
}

// writeBookmark writes a single bookmark with the attributes it has
func (e *NetscapeExporter) writeBookmark(b *models.Bookmark, indent string) {
	attrs := []string{
		fmt.Sprintf(`HREF="%s"`, html.EscapeString(b.URL)),
		fmt.Sprintf(`ADD_DATE="%d"`, unixOrZero(b.AddedAt)),
	}
	if b.ModifiedAt != nil {
		attrs = append(attrs, fmt.Sprintf(`LAST_MODIFIED="%d"`, unixOrZero(*b.ModifiedAt)))
	}
	if b.VisitedAt != nil {
		attrs = append(attrs, fmt.Sprintf(`LAST_VISIT="%d"`, unixOrZero(*b.VisitedAt)))
	}
	optional := []struct{ key, value string }{
		{"ICON_URI", b.IconURI},
		{"ICON", b.Icon},
		{"LAST_CHARSET", b.Charset},
	}
	for _, o := range optional {
		if o.value != "" {
			attrs = append(attrs, fmt.Sprintf(`%s="%s"`, o.key, html.EscapeString(o.value)))
		}
	}

	fmt.Fprintf(e.w, "%s<DT><A %s>%s</A>\n", indent, strings.Join(attrs, " "), html.EscapeString(b.Title))
	if b.Description != "" {
		fmt.Fprintf(e.w, "%s<DD>%s\n", indent, html.EscapeString(oneLine(b.Description)))
	}
}

// importers reject negative dates
func unixOrZero(t time.Time) int64 {
	if t.Before(time.Unix(0, 0)) {
		return 0
	}
	return t.Unix()
}
