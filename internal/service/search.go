package service

import (
	"strings"

	"github.com/dastanaron/bookmarks-convert/internal/models"
)

// Match is a bookmark found by Search together with the folder names
// leading to it
type Match struct {
	Path     []string
	Bookmark *models.Bookmark
}

// Search returns the bookmarks below root whose title, URL or description
// contains query, ignoring case, in tree order. An empty query matches
// every bookmark.
func Search(root models.Node, query string) []Match {
	queryLower := strings.ToLower(strings.TrimSpace(query))

	var matches []Match
	var walk func(n models.Node, path []string)
	walk = func(n models.Node, path []string) {
		switch {
		case n.IsFolder():
			inner := append(path[:len(path):len(path)], n.Folder.Name)
			for _, c := range n.Folder.Children {
				walk(c, inner)
			}
		case n.IsBookmark():
			b := n.Bookmark
			if queryLower == "" ||
				strings.Contains(strings.ToLower(b.Title), queryLower) ||
				strings.Contains(strings.ToLower(b.URL), queryLower) ||
				strings.Contains(strings.ToLower(b.Description), queryLower) {
				matches = append(matches, Match{Path: path, Bookmark: b})
			}
		}
	}
	walk(root, nil)
	return matches
}
