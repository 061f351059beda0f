package parser

import (
	"strings"
	"testing"

	"github.com/dastanaron/bookmarks-convert/internal/diagnostics"
	"github.com/dastanaron/bookmarks-convert/internal/timestamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const netscapeExport = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<!-- This is an automatically generated file. -->
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks Menu</H1>

<DL><p>
    <DT><H3 ADD_DATE="1600000000" LAST_MODIFIED="1600000001">Go</H3>
    <DD>Folder notes
    <DL><p>
        <DT><A HREF="https://go.dev/" ADD_DATE="1635097118" LAST_MODIFIED="1635097119" LAST_VISIT="1700000000" ICON_URI="https://go.dev/favicon.ico" ICON="data:image/png;base64,AAAA" LAST_CHARSET="UTF-8">The Go Programming Language</A>
        <DD>Home of Go
        <DT><A HREF="https://pkg.go.dev/" ADD_DATE="1635097120">Packages</A>
        <DT><H3>Empty</H3>
        <DL><p>
        </DL><p>
    </DL><p>
    <DT><A HREF="https://example.com/" ADD_DATE="1000">After the folder</A>
    <HR>
    <DT><A HREF="https://undated.example/">Undated</A>
    <DT><A ADD_DATE="1000">No href</A>
</DL>
`

func TestParseHTMLSimple(t *testing.T) {
	p, sink := newTestParser()

	root, err := p.ParseHTML(strings.NewReader(`<H3>Folder</H3><DT><A HREF="http://x" ADD_DATE="1000">Title</A><DD>desc text`), "bookmarks")
	require.NoError(t, err)
	assert.Empty(t, sink.Warnings())

	assert.Equal(t, "bookmarks", root.Name())
	require.Len(t, root.Folder.Children, 1)

	folder := child(t, root, 0)
	assert.True(t, folder.IsFolder())
	assert.Equal(t, "Folder", folder.Name())
	require.Len(t, folder.Folder.Children, 1)

	bm := child(t, folder, 0)
	require.True(t, bm.IsBookmark())
	assert.Equal(t, "Title", bm.Bookmark.Title)
	assert.Equal(t, "http://x", bm.Bookmark.URL)
	assert.Equal(t, int64(1000), bm.Bookmark.AddedAt.Unix())
	assert.Equal(t, "desc text", bm.Bookmark.Description)
}

func TestParseHTMLExport(t *testing.T) {
	p, sink := newTestParser()

	root, err := p.ParseHTML(strings.NewReader(netscapeExport), "bookmarks")
	require.NoError(t, err)

	require.Len(t, root.Folder.Children, 1)
	menu := child(t, root, 0)
	assert.Equal(t, "Bookmarks Menu", menu.Name())
	require.Len(t, menu.Folder.Children, 3)

	goFolder := child(t, menu, 0)
	assert.Equal(t, "Go", goFolder.Name())
	require.Len(t, goFolder.Folder.Children, 3)

	golang := child(t, goFolder, 0).Bookmark
	require.NotNil(t, golang)
	assert.Equal(t, "The Go Programming Language", golang.Title)
	assert.Equal(t, "https://go.dev/", golang.URL)
	assert.Equal(t, "Home of Go", golang.Description)
	assert.Equal(t, int64(1635097118), golang.AddedAt.Unix())
	require.NotNil(t, golang.ModifiedAt)
	assert.Equal(t, int64(1635097119), golang.ModifiedAt.Unix())
	require.NotNil(t, golang.VisitedAt)
	assert.Equal(t, int64(1700000000), golang.VisitedAt.Unix())
	assert.Equal(t, "https://go.dev/favicon.ico", golang.IconURI)
	assert.Equal(t, "data:image/png;base64,AAAA", golang.Icon)
	assert.Equal(t, "UTF-8", golang.Charset)

	pkgs := child(t, goFolder, 1).Bookmark
	require.NotNil(t, pkgs)
	assert.Empty(t, pkgs.Description)
	assert.Nil(t, pkgs.ModifiedAt)

	empty := child(t, goFolder, 2)
	assert.True(t, empty.IsFolder())
	assert.Empty(t, empty.Folder.Children)

	// the heading's body ended, so this one belongs to the menu again
	assert.Equal(t, "After the folder", child(t, menu, 1).Name())

	undated := child(t, menu, 2).Bookmark
	require.NotNil(t, undated)
	assert.True(t, undated.AddedAt.Equal(timestamp.Epoch))

	folders, bookmarks := root.Count()
	assert.Equal(t, 4, folders)
	assert.Equal(t, 4, bookmarks)

	// meta, title, hr and the anchor without href
	assert.Equal(t, 4, sink.Count(diagnostics.KindStructural))
	assert.Equal(t, 1, sink.Count(diagnostics.KindMissingField))
}

func TestParseHTMLBadAnchors(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{name: "no href", markup: `<DL><DT><A ADD_DATE="1">Title</A></DL>`},
		{name: "empty href", markup: `<DL><DT><A HREF=" " ADD_DATE="1">Title</A></DL>`},
		{name: "malformed href", markup: `<DL><DT><A HREF="http://[::1" ADD_DATE="1">Title</A></DL>`},
		{name: "no text", markup: `<DL><DT><A HREF="https://go.dev/" ADD_DATE="1"></A></DL>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, sink := newTestParser()
			root, err := p.ParseHTML(strings.NewReader(tt.markup), "x")
			require.NoError(t, err)
			assert.Empty(t, root.Folder.Children)
			assert.Equal(t, 1, sink.Count(diagnostics.KindStructural))
		})
	}
}

func TestParseHTMLEmptyDocument(t *testing.T) {
	p, _ := newTestParser()
	_, err := p.ParseHTML(strings.NewReader("  \n\n"), "x")

	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FormatHTML, fe.Format)
}

func TestRepairMarkup(t *testing.T) {
	in := "<DL><p>\n" +
		"<DT><A HREF=\"x\">X</A>\n" +
		"<DD>open description\n" +
		"<dd>closed</dd>\n" +
		"</DL><P>\n" +
		"<p></p>\n"

	got, err := RepairMarkup(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, "<DL><p></p>\n"+
		" <A HREF=\"x\">X</A>\n"+
		"<DD>open description</DD>\n"+
		"<dd>closed</dd>\n"+
		"</DL><p></p>\n"+
		"<p></p>\n", got)
}

func TestParseHTMLVeryLongLine(t *testing.T) {
	icon := "data:image/png;base64," + strings.Repeat("A", 17*1024*1024)
	doc := `<DL><p>` + "\r\n" +
		`<DT><A HREF="https://go.dev/" ADD_DATE="1000" ICON="` + icon + `">Go</A>` + "\r\n" +
		`</DL><p>`

	p, sink := newTestParser()
	root, err := p.ParseHTML(strings.NewReader(doc), "bookmarks")
	require.NoError(t, err)
	assert.Empty(t, sink.Warnings())

	require.Len(t, root.Folder.Children, 1)
	b := child(t, root, 0).Bookmark
	assert.Equal(t, "Go", b.Title)
	assert.Equal(t, len(icon), len(b.Icon))
}
