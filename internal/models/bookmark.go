package models

import "time"

// ItemType represents the type of node (bookmark or folder)
type ItemType string

const (
	ItemTypeBookmark ItemType = "bookmark"
	ItemTypeFolder   ItemType = "folder"
)

// Folder represents a bookmark folder and its ordered children
type Folder struct {
	Name     string
	Children []Node
}

// Bookmark represents a single bookmark record.
// Optional string fields are empty when the source does not carry them.
type Bookmark struct {
	Title       string
	URL         string
	AddedAt     time.Time
	ModifiedAt  *time.Time
	VisitedAt   *time.Time
	IconURI     string
	Icon        string // usually a data: URI with the base64 image
	Charset     string
	Description string
}

// Node is either a folder or a bookmark. Exactly one of Folder and
// Bookmark is set, matching Type.
type Node struct {
	Type     ItemType
	Folder   *Folder
	Bookmark *Bookmark
}

// NewFolderNode wraps a folder into a node
func NewFolderNode(name string, children ...Node) Node {
	return Node{Type: ItemTypeFolder, Folder: &Folder{Name: name, Children: children}}
}

// NewBookmarkNode wraps a bookmark into a node
func NewBookmarkNode(b *Bookmark) Node {
	return Node{Type: ItemTypeBookmark, Bookmark: b}
}

// IsFolder reports whether the node is a folder
func (n Node) IsFolder() bool {
	return n.Type == ItemTypeFolder && n.Folder != nil
}

// IsBookmark reports whether the node is a bookmark
func (n Node) IsBookmark() bool {
	return n.Type == ItemTypeBookmark && n.Bookmark != nil
}

// Name returns the folder name or the bookmark title
func (n Node) Name() string {
	switch {
	case n.IsFolder():
		return n.Folder.Name
	case n.IsBookmark():
		return n.Bookmark.Title
	}
	return ""
}

// Count returns the number of folders (including n itself when it is a
// folder) and bookmarks in the subtree rooted at n.
func (n Node) Count() (folders, bookmarks int) {
	if n.IsBookmark() {
		return 0, 1
	}
	if !n.IsFolder() {
		return 0, 0
	}
	folders = 1
	for _, c := range n.Folder.Children {
		f, b := c.Count()
		folders += f
		bookmarks += b
	}
	return folders, bookmarks
}

// Append adds a child to a folder node. It is used by the adapters while
// the tree is being built; nothing mutates a tree after parsing.
func (f *Folder) Append(child Node) {
	f.Children = append(f.Children, child)
}
