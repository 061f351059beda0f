package service

import (
	"github.com/dastanaron/bookmarks-convert/internal/diagnostics"
	"github.com/dastanaron/bookmarks-convert/internal/models"
)

// Output materializes the nodes handed to it by the traverser.
// EnterFolder returns the location children of the folder are written
// under; in report mode that location is unused.
type Output interface {
	EnterFolder(parentDir, name string, depth int) (string, error)
	WriteBookmark(b *models.Bookmark, dir string, depth int) error
}

// Stats counts what a traversal produced
type Stats struct {
	Folders   int
	Bookmarks int
	Failed    int
}

// walkContext is passed down the recursion instead of shared state
type walkContext struct {
	dir   string
	depth int
}

// Traverser walks a bookmark tree depth-first and hands every node to an Output
type Traverser struct {
	out        Output
	diag       *diagnostics.Sink
	onProgress func(Stats)
}

// NewTraverser creates a new traverser
func NewTraverser(out Output, diag *diagnostics.Sink) *Traverser {
	if diag == nil {
		diag = diagnostics.New(nil)
	}
	return &Traverser{out: out, diag: diag}
}

// OnProgress registers fn to be called after every bookmark
func (t *Traverser) OnProgress(fn func(Stats)) *Traverser {
	t.onProgress = fn
	return t
}

// Traverse visits root and everything below it exactly once, in source
// order. Write failures are recorded and never stop the walk: a folder
// that cannot be created skips its subtree, a bookmark that cannot be
// written skips only itself.
func (t *Traverser) Traverse(root models.Node, dir string) Stats {
	var stats Stats
	t.visit(root, walkContext{dir: dir}, &stats)
	return stats
}

func (t *Traverser) visit(n models.Node, ctx walkContext, stats *Stats) {
	switch {
	case n.IsFolder():
		dir, err := t.out.EnterFolder(ctx.dir, n.Folder.Name, ctx.depth)
		if err != nil {
			t.diag.WriteFailed(err)
			stats.Failed++
			return
		}
		stats.Folders++

		next := walkContext{dir: dir, depth: ctx.depth + 1}
		for _, child := range n.Folder.Children {
			t.visit(child, next, stats)
		}

	case n.IsBookmark():
		if err := t.out.WriteBookmark(n.Bookmark, ctx.dir, ctx.depth); err != nil {
			t.diag.WriteFailed(err)
			stats.Failed++
		} else {
			stats.Bookmarks++
		}
		if t.onProgress != nil {
			t.onProgress(*stats)
		}

	default:
		t.diag.Structural("empty node at depth %d skipped", ctx.depth)
	}
}
