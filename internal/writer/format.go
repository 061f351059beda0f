// Package writer materializes bookmark trees: one file per bookmark, one
// outline report, or one Netscape bookmark document.
package writer

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/dastanaron/bookmarks-convert/internal/models"
	"github.com/dastanaron/bookmarks-convert/internal/timestamp"
)

// Format is a single-bookmark file format
type Format string

const (
	FormatURL    Format = "url"
	FormatWebloc Format = "webloc"
	FormatHTML   Format = "html"
	FormatOrg    Format = "org"
)

// Formats lists the supported formats in flag order
var Formats = []Format{FormatURL, FormatWebloc, FormatHTML, FormatOrg}

// ParseFormat accepts a format name with or without the leading dot
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

type field struct {
	key   string
	value string
}

// fields returns the bookmark's keys in output order. Title, URL and the
// added date are always present, the rest only when the source had them.
func fields(b *models.Bookmark) []field {
	fs := []field{
		{"TITLE", b.Title},
		{"URL", b.URL},
		{"DATE_ADDED", timestamp.FormatISO(b.AddedAt)},
	}
	if b.ModifiedAt != nil {
		fs = append(fs, field{"DATE_MODIFIED", timestamp.FormatISO(*b.ModifiedAt)})
	}
	if b.VisitedAt != nil {
		fs = append(fs, field{"DATE_VISITED", timestamp.FormatISO(*b.VisitedAt)})
	}
	optional := []field{
		{"ICON_URI", b.IconURI},
		{"ICON", b.Icon},
		{"LAST_CHARSET", b.Charset},
		{"DESCRIPTION", b.Description},
	}
	for _, f := range optional {
		if f.value != "" {
			fs = append(fs, f)
		}
	}
	return fs
}

// line formats cannot carry line breaks
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Render writes b to w in the given format
func Render(w io.Writer, b *models.Bookmark, f Format) error {
	bw := bufio.NewWriter(w)

	switch f {
	case FormatOrg:
		for _, fd := range fields(b) {
			fmt.Fprintf(bw, " - %s ::%s\n", fd.key, oneLine(fd.value))
		}
		fmt.Fprintln(bw)

	case FormatURL:
		fmt.Fprintln(bw, "[InternetShortcut]")
		for _, fd := range fields(b) {
			fmt.Fprintf(bw, "%s=%s\n", fd.key, oneLine(fd.value))
		}
		fmt.Fprintln(bw)

	case FormatWebloc:
		fmt.Fprintln(bw, `<?xml version="1.0" encoding="UTF-8"?>`)
		fmt.Fprintln(bw, `<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">`)
		fmt.Fprintln(bw, `<plist version="1.0">`)
		fmt.Fprintln(bw, `  <dict>`)
		// URL is the key Finder reads, so it goes first
		fmt.Fprintf(bw, "    <key>URL</key> <string>%s</string>\n", html.EscapeString(b.URL))
		for _, fd := range fields(b) {
			if fd.key == "URL" {
				continue
			}
			fmt.Fprintf(bw, "    <key>%s</key> <string>%s</string>\n", fd.key, html.EscapeString(fd.value))
		}
		fmt.Fprintln(bw, `  </dict>`)
		fmt.Fprintln(bw, `</plist>`)
		fmt.Fprintln(bw)

	case FormatHTML:
		fmt.Fprintln(bw, "<html>")
		fmt.Fprintln(bw, "  <head>")
		fmt.Fprintf(bw, "    <title>%s</title>\n", html.EscapeString(b.Title))
		fmt.Fprintf(bw, "    <meta http-equiv=\"refresh\" content=\"0; url=%s\" />\n", html.EscapeString(b.URL))
		for _, fd := range fields(b) {
			if fd.key == "TITLE" || fd.key == "URL" {
				continue
			}
			fmt.Fprintf(bw, "    <meta name=\"%s\" content=\"%s\" />\n", strings.ToLower(fd.key), html.EscapeString(fd.value))
		}
		fmt.Fprintln(bw, "  </head>")
		fmt.Fprintln(bw, "</html>")
		fmt.Fprintln(bw)

	default:
		return fmt.Errorf("unknown output format %q", f)
	}

	return bw.Flush()
}
