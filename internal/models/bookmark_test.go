package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeCount(t *testing.T) {
	tree := NewFolderNode("root",
		NewBookmarkNode(&Bookmark{Title: "a"}),
		NewFolderNode("sub",
			NewBookmarkNode(&Bookmark{Title: "b"}),
			NewFolderNode("empty"),
		),
	)

	folders, bookmarks := tree.Count()
	assert.Equal(t, 3, folders)
	assert.Equal(t, 2, bookmarks)
}

func TestNodeName(t *testing.T) {
	assert.Equal(t, "dir", NewFolderNode("dir").Name())
	assert.Equal(t, "title", NewBookmarkNode(&Bookmark{Title: "title"}).Name())
	assert.Equal(t, "", Node{}.Name())
	assert.False(t, Node{Type: ItemTypeFolder}.IsFolder())
}
