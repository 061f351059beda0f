package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/dastanaron/bookmarks-convert/internal/diagnostics"
	"github.com/dastanaron/bookmarks-convert/internal/models"
	"github.com/dastanaron/bookmarks-convert/internal/timestamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const firefoxBackup = `{
  "guid": "root________", "title": "", "type": "text/x-moz-place-container", "root": "placesRoot",
  "children": [
    {
      "title": "Bookmarks Menu", "type": "text/x-moz-place-container", "dateAdded": 1600000000000000,
      "children": [
        {"title": "Most Visited", "type": "text/x-moz-place", "dateAdded": 1600000000000000, "uri": "place:sort=8&maxResults=10"},
        {"title": "Go", "type": "text/x-moz-place", "dateAdded": 1635097118000000, "lastModified": 1635097119000000,
         "uri": "https://go.dev/", "iconUri": "https://go.dev/favicon.ico", "charset": "UTF-8",
         "annos": [{"name": "bookmarkProperties/description", "value": "The Go site"}]},
        {"type": "text/x-moz-place-separator", "title": ""},
        {"title": "Nested", "type": "text/x-moz-place-container", "children": [
          {"title": "Most Visited", "type": "text/x-moz-place-container", "children": []},
          {"title": "Recent Tags", "type": "text/x-moz-place", "dateAdded": 1, "uri": "place:type=6"},
          {"title": "Undated", "type": "text/x-moz-place", "uri": "https://example.com/"}
        ]}
      ]
    },
    {"title": "Recently Bookmarked", "type": "text/x-moz-place-container", "children": [
      {"title": "Hidden", "type": "text/x-moz-place", "dateAdded": 1, "uri": "https://hidden/"}
    ]},
    {"title": "Toolbar", "type": "text/x-moz-place-container", "dateAdded": "1600000000000000"}
  ]
}`

// collectNames returns every node name in depth-first order
func collectNames(n models.Node) []string {
	names := []string{n.Name()}
	if n.IsFolder() {
		for _, c := range n.Folder.Children {
			names = append(names, collectNames(c)...)
		}
	}
	return names
}

func TestParseFirefoxJSON(t *testing.T) {
	p, sink := newTestParser()

	root, err := p.ParseJSON(strings.NewReader(firefoxBackup), "bookmarks-2021-10-24")
	require.NoError(t, err)

	assert.Equal(t, "bookmarks-2021-10-24", root.Name())
	assert.Equal(t,
		[]string{"bookmarks-2021-10-24", "Bookmarks Menu", "Go", "Nested", "Toolbar"},
		collectNames(root))

	goNode := child(t, child(t, root, 0), 0)
	require.True(t, goNode.IsBookmark())
	b := goNode.Bookmark
	assert.Equal(t, "https://go.dev/", b.URL)
	assert.Equal(t, int64(1635097118), b.AddedAt.Unix())
	require.NotNil(t, b.ModifiedAt)
	assert.Equal(t, int64(1635097119), b.ModifiedAt.Unix())
	assert.Nil(t, b.VisitedAt)
	assert.Equal(t, "https://go.dev/favicon.ico", b.IconURI)
	assert.Equal(t, "UTF-8", b.Charset)
	assert.Equal(t, "The Go site", b.Description)

	// separator and the undated page
	require.Equal(t, 2, sink.Count(diagnostics.KindStructural))
	msgs := []string{sink.Warnings()[0].Message, sink.Warnings()[1].Message}
	assert.Contains(t, msgs[0], "text/x-moz-place-separator")
	assert.Equal(t, `skipped text/x-moz-place "Undated": no dateAdded`, msgs[1])
}

func TestSyntheticFoldersExcludedAtAnyDepth(t *testing.T) {
	p, _ := newTestParser()

	root, err := p.ParseJSON(strings.NewReader(firefoxBackup), "x")
	require.NoError(t, err)

	for _, name := range collectNames(root) {
		assert.NotEqual(t, "Most Visited", name)
		assert.NotEqual(t, "Recent Tags", name)
		assert.NotEqual(t, "Recently Bookmarked", name)
		assert.NotEqual(t, "Hidden", name)
	}
}

func TestParseFirefoxJSONRootTitle(t *testing.T) {
	p, _ := newTestParser()

	root, err := p.ParseJSON(strings.NewReader(`{"title": "Backup", "type": "text/x-moz-place-container"}`), "stem")
	require.NoError(t, err)
	assert.Equal(t, "Backup", root.Name())
	assert.Empty(t, root.Folder.Children)
}

func TestParseChromiumJSON(t *testing.T) {
	const doc = `{
	  "checksum": "abc",
	  "roots": {
	    "synced": {"name": "Mobile bookmarks", "type": "folder", "children": []},
	    "custom_root": {"name": "", "type": "folder", "children": []},
	    "sync_transaction_version": "12",
	    "other": {"name": "Other bookmarks", "type": "folder", "children": [
	      {"name": "Undated", "type": "url", "url": "https://example.com/"}
	    ]},
	    "bookmark_bar": {"name": "Bookmarks bar", "type": "folder", "children": [
	      {"date_added": "13276128414300148", "date_last_used": "13276128414300148",
	       "name": "Go", "type": "url", "url": "https://go.dev/"},
	      {"name": "no url", "type": "url"}
	    ]}
	  },
	  "version": 1
	}`

	p, sink := newTestParser()
	root, err := p.ParseJSON(strings.NewReader(doc), "Bookmarks")
	require.NoError(t, err)

	require.Len(t, root.Folder.Children, 4)
	assert.Equal(t, "Bookmarks bar", child(t, root, 0).Name())
	assert.Equal(t, "Other bookmarks", child(t, root, 1).Name())
	assert.Equal(t, "Mobile bookmarks", child(t, root, 2).Name())
	assert.Equal(t, "custom_root", child(t, root, 3).Name())

	goNode := child(t, child(t, root, 0), 0)
	require.True(t, goNode.IsBookmark())
	assert.Equal(t, int64(1631654814), goNode.Bookmark.AddedAt.Unix())
	require.NotNil(t, goNode.Bookmark.VisitedAt)
	assert.Nil(t, goNode.Bookmark.ModifiedAt)

	undated := child(t, child(t, root, 1), 0)
	assert.True(t, undated.Bookmark.AddedAt.Equal(timestamp.Epoch))

	assert.Equal(t, 1, sink.Count(diagnostics.KindStructural))
	assert.Equal(t, 1, sink.Count(diagnostics.KindMissingField))
}

func TestParseJSONFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: "<html></html>"},
		{name: "truncated", doc: `{"type": "text/x-moz-place-container", "children": [`},
		{name: "no root container", doc: `{"foo": "bar"}`},
		{name: "root is a page", doc: `{"type": "text/x-moz-place", "uri": "https://go.dev/"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestParser()
			_, err := p.ParseJSON(strings.NewReader(tt.doc), "x")

			var fe *FormatError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, FormatJSON, fe.Format)
		})
	}
}

func TestParseJSONSkipsMalformedNodes(t *testing.T) {
	doc := `{"type": "text/x-moz-place-container", "title": "", "children": [
	  {"type": "text/x-moz-place", "title": "Good", "uri": "https://go.dev/", "dateAdded": 1635097118000000},
	  {"type": "text/x-moz-place", "title": 42, "uri": "https://bad.example/", "dateAdded": 1635097118000000},
	  {"type": "text/x-moz-place-container", "title": "Broken", "children": {}},
	  null,
	  {"type": "text/x-moz-place-container", "title": "Nested", "children": [
	    {"type": "text/x-moz-place", "title": "Bad uri", "uri": 5, "dateAdded": 1000000},
	    {"type": "text/x-moz-place", "title": "Kept", "uri": "https://kept.example/", "dateAdded": 1000000}
	  ]}
	]}`

	p, sink := newTestParser()
	root, err := p.ParseJSON(strings.NewReader(doc), "bookmarks")
	require.NoError(t, err)

	require.Len(t, root.Folder.Children, 2)
	assert.Equal(t, "Good", child(t, root, 0).Name())

	nested := child(t, root, 1)
	assert.Equal(t, "Nested", nested.Name())
	require.Len(t, nested.Folder.Children, 1)
	assert.Equal(t, "https://kept.example/", child(t, nested, 0).Bookmark.URL)

	assert.Equal(t, 3, sink.Count(diagnostics.KindStructural))
	for _, w := range sink.Warnings() {
		assert.Contains(t, w.Message, "skipped malformed node")
	}
}

func TestParseJSONBadlyTypedRoot(t *testing.T) {
	doc := `{"type": "text/x-moz-place-container", "title": 7, "children": [
	  {"type": "text/x-moz-place", "title": "Good", "uri": "https://go.dev/", "dateAdded": 1635097118000000}
	]}`

	p, sink := newTestParser()
	root, err := p.ParseJSON(strings.NewReader(doc), "bookmarks")
	require.NoError(t, err)

	assert.Equal(t, "bookmarks", root.Name())
	require.Len(t, root.Folder.Children, 1)
	assert.Equal(t, 1, sink.Count(diagnostics.KindStructural))
}

func TestParseJSONChromiumMalformedNodes(t *testing.T) {
	doc := `{"roots": {
	  "bookmark_bar": {"name": "Bar", "type": "folder", "children": [
	    {"name": "Go", "type": "url", "url": "https://go.dev/", "date_added": "13280000000000000"},
	    {"name": 5, "type": "url", "url": "https://bad.example/"}
	  ]},
	  "other": {"name": [], "type": "folder"},
	  "sync_transaction_version": "1"
	}}`

	p, sink := newTestParser()
	root, err := p.ParseJSON(strings.NewReader(doc), "bookmarks")
	require.NoError(t, err)

	require.Len(t, root.Folder.Children, 1)
	bar := child(t, root, 0)
	assert.Equal(t, "Bar", bar.Name())
	require.Len(t, bar.Folder.Children, 1)
	assert.Equal(t, "Go", child(t, bar, 0).Name())
	assert.Equal(t, 2, sink.Count(diagnostics.KindStructural))
}

func TestParseJSONNameAndURLPrecedence(t *testing.T) {
	doc := `{"type": "text/x-moz-place-container", "children": [
	  {"type": "text/x-moz-place", "name": "From name", "title": "From title",
	   "url": "https://url.example/", "uri": "https://uri.example/", "dateAdded": 1000000}
	]}`

	p, _ := newTestParser()
	root, err := p.ParseJSON(strings.NewReader(doc), "bookmarks")
	require.NoError(t, err)

	b := child(t, root, 0).Bookmark
	assert.Equal(t, "From name", b.Title)
	assert.Equal(t, "https://url.example/", b.URL)
}
