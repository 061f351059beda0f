package service

import (
	"github.com/dastanaron/bookmarks-convert/internal/models"
)

// Double is a bookmark whose URL already appeared earlier in the tree
type Double struct {
	Match
	First Match
}

// FindDoubles returns every repeated bookmark in tree order. The first
// bookmark with a given URL is the one kept; bookmarks without a URL are
// never doubles.
func FindDoubles(root models.Node) []Double {
	seenURLs := make(map[string]Match)
	var doubles []Double

	for _, m := range Search(root, "") {
		if m.Bookmark.URL == "" {
			continue
		}
		if first, exists := seenURLs[m.Bookmark.URL]; exists {
			doubles = append(doubles, Double{Match: m, First: first})
			continue
		}
		seenURLs[m.Bookmark.URL] = m
	}
	return doubles
}

// WithoutDoubles returns a copy of the tree without the repeated bookmarks
// and the number removed. Folders are kept even when they end up empty.
func WithoutDoubles(root models.Node) (models.Node, int) {
	seenURLs := make(map[string]struct{})
	removed := 0

	var prune func(n models.Node) (models.Node, bool)
	prune = func(n models.Node) (models.Node, bool) {
		switch {
		case n.IsFolder():
			folder := &models.Folder{Name: n.Folder.Name}
			for _, c := range n.Folder.Children {
				if kept, ok := prune(c); ok {
					folder.Append(kept)
				}
			}
			return models.Node{Type: models.ItemTypeFolder, Folder: folder}, true
		case n.IsBookmark():
			url := n.Bookmark.URL
			if url == "" {
				return n, true
			}
			if _, exists := seenURLs[url]; exists {
				removed++
				return models.Node{}, false
			}
			seenURLs[url] = struct{}{}
			return n, true
		}
		return n, true
	}

	pruned, _ := prune(root)
	return pruned, removed
}
