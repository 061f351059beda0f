package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/dastanaron/bookmarks-convert/internal/models"
	"github.com/dastanaron/bookmarks-convert/internal/service"
	"github.com/dastanaron/bookmarks-convert/internal/timestamp"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	ModeNormal = 1
	ModeSearch = 2
)

// App is a read-only browser for a parsed bookmark tree
type App struct {
	app    *tview.Application
	tree   *tview.TreeView
	detail *tview.TextView
	search *tview.InputField
	status *tview.TextView
	mode   uint8
	root   models.Node
	// open is swapped out in tests
	open func(url string) error
}

// NewApp creates a new application instance
func NewApp(root models.Node) *App {
	return &App{
		app:    tview.NewApplication(),
		tree:   tview.NewTreeView(),
		detail: tview.NewTextView().SetDynamicColors(true).SetWrap(true),
		search: tview.NewInputField().SetLabel("Search: "),
		status: tview.NewTextView().SetDynamicColors(true),
		mode:   ModeNormal,
		root:   root,
		open:   openURL,
	}
}

// Run starts the application
func (a *App) Run() error {
	a.tree.SetBorder(true).SetTitle("Bookmarks")
	a.detail.SetBorder(true).SetTitle("Details")

	cols := tview.NewFlex().
		AddItem(a.tree, 0, 2, true).
		AddItem(a.detail, 0, 1, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.search, 1, 0, false).
		AddItem(cols, 0, 1, true).
		AddItem(a.status, 1, 0, false)

	a.showTree("")
	a.tree.SetChangedFunc(a.onSelect)
	a.search.SetChangedFunc(a.showTree)
	a.search.SetDoneFunc(a.onSearchDone)

	a.app.SetRoot(main, true)
	a.app.SetInputCapture(a.globalInput)
	a.app.SetFocus(a.tree)
	return a.app.Run()
}

// showTree replaces the tree with the full collection, or with the flat
// list of matches when query is not empty
func (a *App) showTree(query string) {
	var root *tview.TreeNode
	if strings.TrimSpace(query) == "" {
		root = buildTree(a.root)
	} else {
		root = buildResults(a.root, query)
	}
	a.tree.SetRoot(root).SetCurrentNode(root)
	a.onSelect(root)
	a.updateStatus()
}

func (a *App) updateStatus() {
	folders, bookmarks := a.root.Count()
	countText := fmt.Sprintf(" [::b]%d[::r] bookmarks in [::b]%d[::r] folders", bookmarks, folders)

	statusText := "[::b]/[::r] search  [::b]Enter[::r] open/expand  [::b]q[::r] quit" + countText
	if a.mode == ModeSearch {
		statusText = "[::b]Enter[::r] done  [::b]Esc[::r] clear" + countText
	}
	a.status.SetText(statusText)
}

func (a *App) onSelect(node *tview.TreeNode) {
	if node == nil {
		a.detail.SetText("")
		return
	}
	ref, _ := node.GetReference().(models.Node)
	a.detail.SetText(detailsText(ref))
}

func (a *App) setMode(m uint8) {
	a.mode = m
	if m == ModeSearch {
		a.app.SetFocus(a.search)
	} else {
		a.app.SetFocus(a.tree)
	}
	a.updateStatus()
}

func (a *App) onSearchDone(key tcell.Key) {
	switch key {
	case tcell.KeyEnter:
		a.setMode(ModeNormal)
	case tcell.KeyEscape:
		a.search.SetText("")
		a.setMode(ModeNormal)
	}
}

func (a *App) globalInput(event *tcell.EventKey) *tcell.EventKey {
	if a.mode != ModeNormal {
		return event
	}

	switch event.Key() {
	case tcell.KeyEnter:
		a.activate(a.tree.GetCurrentNode())
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case '/':
			a.setMode(ModeSearch)
			return nil
		case 'q':
			a.app.Stop()
			return nil
		}
	}
	return event
}

// activate opens a bookmark or expands a folder
func (a *App) activate(node *tview.TreeNode) {
	if node == nil {
		return
	}
	ref, ok := node.GetReference().(models.Node)
	if !ok {
		return
	}
	switch {
	case ref.IsBookmark():
		if ref.Bookmark.URL == "" {
			return
		}
		if err := a.open(ref.Bookmark.URL); err != nil {
			a.detail.SetText(fmt.Sprintf("[red]Error opening URL:[-]\n%v", err))
		}
	case ref.IsFolder():
		node.SetExpanded(!node.IsExpanded())
	}
}

// buildTree mirrors a bookmark tree. Every tree node keeps its models.Node
// as reference.
func buildTree(n models.Node) *tview.TreeNode {
	node := tview.NewTreeNode(displayName(n)).SetReference(n)
	if !n.IsFolder() {
		return node
	}
	node.SetColor(tcell.ColorYellow).SetSelectable(true)
	for _, c := range n.Folder.Children {
		node.AddChild(buildTree(c))
	}
	return node
}

func buildResults(root models.Node, query string) *tview.TreeNode {
	matches := service.Search(root, query)
	results := tview.NewTreeNode(fmt.Sprintf("%d results for %q", len(matches), query)).
		SetColor(tcell.ColorYellow)
	for _, m := range matches {
		label := strings.Join(append(m.Path[:len(m.Path):len(m.Path)], displayName(models.NewBookmarkNode(m.Bookmark))), " / ")
		results.AddChild(tview.NewTreeNode(label).SetReference(models.NewBookmarkNode(m.Bookmark)))
	}
	return results
}

func displayName(n models.Node) string {
	name := strings.TrimSpace(n.Name())
	if name == "" {
		if n.IsBookmark() {
			return n.Bookmark.URL
		}
		return "(untitled)"
	}
	return name
}

func detailsText(n models.Node) string {
	switch {
	case n.IsFolder():
		folders, bookmarks := n.Count()
		return fmt.Sprintf(
			"[::b]Type:[::-]\nFolder\n\n[::b]Name:[::-]\n%s\n\n[::b]Contains:[::-]\n%d bookmarks, %d folders",
			tview.Escape(n.Folder.Name), bookmarks, folders-1)
	case n.IsBookmark():
		b := n.Bookmark
		text := fmt.Sprintf(
			"[::b]Type:[::-]\nBookmark\n\n[::b]Title:[::-]\n%s\n\n[::b]URL:[::-]\n%s\n\n[::b]Added:[::-]\n%s",
			tview.Escape(b.Title), tview.Escape(b.URL), timestamp.FormatISO(b.AddedAt))
		if b.ModifiedAt != nil {
			text += "\n\n[::b]Modified:[::-]\n" + timestamp.FormatISO(*b.ModifiedAt)
		}
		if b.VisitedAt != nil {
			text += "\n\n[::b]Visited:[::-]\n" + timestamp.FormatISO(*b.VisitedAt)
		}
		if b.Description != "" {
			text += "\n\n[::b]Description:[::-]\n" + tview.Escape(b.Description)
		}
		return text
	}
	return ""
}

// openCommand returns the platform's command for opening url
func openCommand(goos, url string) (string, []string) {
	switch goos {
	case "windows":
		// cmd's start would split the url at & and take a quoted one for a title
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		return "open", []string{url}
	default:
		return "xdg-open", []string{url}
	}
}

func openURL(url string) error {
	cmd, args := openCommand(runtime.GOOS, url)
	return exec.Command(cmd, args...).Start()
}
