package writer

import (
	"bytes"
	"testing"
	"time"

	"github.com/dastanaron/bookmarks-convert/internal/models"
	"github.com/dastanaron/bookmarks-convert/internal/timestamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullBookmark() *models.Bookmark {
	modified := time.Unix(1635097119, 0)
	return &models.Bookmark{
		Title:       "Go & Friends",
		URL:         "https://go.dev/?a=1&b=2",
		AddedAt:     time.Unix(1635097118, 0),
		ModifiedAt:  &modified,
		Charset:     "UTF-8",
		Description: "two\nlines",
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{in: "url", want: FormatURL},
		{in: ".webloc", want: FormatWebloc},
		{in: "HTML", want: FormatHTML},
		{in: " org ", want: FormatOrg},
		{in: "pdf", err: true},
		{in: "", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, ".webloc", FormatWebloc.Extension())
}

func TestRenderOrg(t *testing.T) {
	b := fullBookmark()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, b, FormatOrg))

	want := " - TITLE ::Go & Friends\n" +
		" - URL ::https://go.dev/?a=1&b=2\n" +
		" - DATE_ADDED ::" + timestamp.FormatISO(b.AddedAt) + "\n" +
		" - DATE_MODIFIED ::" + timestamp.FormatISO(*b.ModifiedAt) + "\n" +
		" - LAST_CHARSET ::UTF-8\n" +
		" - DESCRIPTION ::two lines\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderURL(t *testing.T) {
	b := &models.Bookmark{Title: "Go", URL: "https://go.dev/", AddedAt: timestamp.Epoch}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, b, FormatURL))

	want := "[InternetShortcut]\n" +
		"TITLE=Go\n" +
		"URL=https://go.dev/\n" +
		"DATE_ADDED=" + timestamp.FormatISO(timestamp.Epoch) + "\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderWebloc(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, fullBookmark(), FormatWebloc))
	out := buf.String()

	assert.Contains(t, out, `<plist version="1.0">`)
	assert.Contains(t, out, "<key>URL</key> <string>https://go.dev/?a=1&amp;b=2</string>\n")
	assert.Contains(t, out, "<key>TITLE</key> <string>Go &amp; Friends</string>\n")
	assert.Contains(t, out, "<key>DESCRIPTION</key> <string>two\nlines</string>\n")
	assert.NotContains(t, out, "DATE_VISITED")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("<key>URL</key>")))
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, fullBookmark(), FormatHTML))
	out := buf.String()

	assert.Contains(t, out, `<meta http-equiv="refresh" content="0; url=https://go.dev/?a=1&amp;b=2" />`)
	assert.Contains(t, out, "<title>Go &amp; Friends</title>")
	assert.Contains(t, out, `<meta name="last_charset" content="UTF-8" />`)
	assert.NotContains(t, out, "icon_uri")
}

func TestRenderUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, fullBookmark(), Format("pdf")))
}
