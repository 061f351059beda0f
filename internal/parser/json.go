package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dastanaron/bookmarks-convert/internal/models"
	"github.com/dastanaron/bookmarks-convert/internal/timestamp"
)

// Firefox node types
const (
	mozContainer = "text/x-moz-place-container"
	mozPlace     = "text/x-moz-place"
)

// Chromium node types
const (
	chromiumFolder = "folder"
	chromiumURL    = "url"
)

const descriptionAnno = "bookmarkProperties/description"

// Computed views exported next to the real folders
var syntheticFolders = map[string]struct{}{
	"Recently Bookmarked": {},
	"Recent Tags":         {},
	"Most Visited":        {},
}

// Chromium roots written first, in this order
var chromiumRootOrder = []string{"bookmark_bar", "other", "synced"}

// epochValue accepts numbers and numeric strings. Anything else is left
// unset instead of failing the whole document.
type epochValue struct {
	Value int64
	Set   bool
}

func (e *epochValue) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return nil
		}
		v = int64(f)
	}
	if v != 0 {
		e.Value, e.Set = v, true
	}
	return nil
}

type jsonAnno struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// jsonNode covers both the Firefox backup and the Chromium Bookmarks file.
// encoding/json matches keys case-insensitively, so iconuri also reads the
// newer iconUri spelling. Children stay raw until their parent is handled,
// so a badly typed field only costs the node it is in.
type jsonNode struct {
	Type     string      `json:"type"`
	Title    string      `json:"title"`
	Name     string      `json:"name"`
	URI      string      `json:"uri"`
	URL      string      `json:"url"`
	IconURI  string      `json:"iconuri"`
	Charset  string      `json:"charset"`
	Annos    []jsonAnno  `json:"annos"`
	Children []json.RawMessage `json:"children"`

	DateAdded    epochValue `json:"dateAdded"`
	LastModified epochValue `json:"lastModified"`

	ChromiumAdded    epochValue `json:"date_added"`
	ChromiumModified epochValue `json:"date_modified"`
	ChromiumLastUsed epochValue `json:"date_last_used"`

	// Chromium keeps a few scalar entries next to the root folders,
	// so roots are decoded one by one
	Roots map[string]json.RawMessage `json:"roots"`
}

// displayName prefers the Chromium name over the Firefox title
func (n *jsonNode) displayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.Title
}

// location prefers the Chromium url over the Firefox uri
func (n *jsonNode) location() string {
	if n.URL != "" {
		return n.URL
	}
	return n.URI
}

func (n *jsonNode) description() string {
	for _, a := range n.Annos {
		if a.Name != descriptionAnno {
			continue
		}
		var s string
		if err := json.Unmarshal(a.Value, &s); err == nil {
			return s
		}
	}
	return ""
}

// ParseJSON reads a Firefox bookmark backup or a Chromium Bookmarks file
func (p *Parser) ParseJSON(r io.Reader, rootName string) (models.Node, error) {
	var doc jsonNode
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		// a wrong type still leaves every other field decoded
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return models.Node{}, &FormatError{Format: FormatJSON, Err: err}
		}
		p.diag.Structural("root node: %v", err)
	}

	if len(doc.Roots) > 0 {
		return p.chromiumTree(doc.Roots, rootName), nil
	}

	if doc.Type != mozContainer {
		if doc.Type == "" {
			return models.Node{}, &FormatError{Format: FormatJSON, Err: errors.New("document has no root container")}
		}
		return models.Node{}, &FormatError{Format: FormatJSON, Err: fmt.Errorf("root node has type %q, want a container", doc.Type)}
	}

	name := doc.displayName()
	if name == "" {
		name = rootName
	}
	root := &models.Folder{Name: name}
	p.appendMozChildren(root, doc.Children)
	return models.Node{Type: models.ItemTypeFolder, Folder: root}, nil
}

// decodeChildren unmarshals every child on its own. A child that does not
// decode is reported and skipped, its siblings are kept.
func (p *Parser) decodeChildren(children []json.RawMessage) []*jsonNode {
	nodes := make([]*jsonNode, 0, len(children))
	for _, raw := range children {
		if isNull(raw) {
			continue
		}
		var n jsonNode
		if err := json.Unmarshal(raw, &n); err != nil {
			p.diag.Structural("skipped malformed node: %v", err)
			continue
		}
		nodes = append(nodes, &n)
	}
	return nodes
}

func (p *Parser) appendMozChildren(folder *models.Folder, children []json.RawMessage) {
	for _, c := range p.decodeChildren(children) {
		if node, ok := p.mozNode(c); ok {
			folder.Append(node)
		}
	}
}

func (p *Parser) mozNode(n *jsonNode) (models.Node, bool) {
	name := n.displayName()
	if _, skip := syntheticFolders[name]; skip {
		p.diag.Infof("- %s (computed view)", name)
		return models.Node{}, false
	}

	switch n.Type {
	case mozContainer:
		folder := &models.Folder{Name: name}
		p.appendMozChildren(folder, n.Children)
		return models.Node{Type: models.ItemTypeFolder, Folder: folder}, true

	case mozPlace:
		if !n.DateAdded.Set {
			p.diag.Structural("skipped %s %q: no dateAdded", n.Type, name)
			return models.Node{}, false
		}
		url := n.location()
		if url == "" {
			p.diag.Structural("skipped %s %q: no uri", n.Type, name)
			return models.Node{}, false
		}
		return models.NewBookmarkNode(&models.Bookmark{
			Title:       name,
			URL:         url,
			AddedAt:     timestamp.Normalize(n.DateAdded.Value, timestamp.Microseconds),
			ModifiedAt:  optionalEpoch(n.LastModified, timestamp.Microseconds),
			IconURI:     n.IconURI,
			Charset:     n.Charset,
			Description: n.description(),
		}), true
	}

	p.diag.Structural("skipped %s %q", typeLabel(n.Type), name)
	return models.Node{}, false
}

func (p *Parser) chromiumTree(roots map[string]json.RawMessage, rootName string) models.Node {
	keys := make([]string, 0, len(roots))
	seen := make(map[string]bool, len(chromiumRootOrder))
	for _, k := range chromiumRootOrder {
		if _, ok := roots[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range roots {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	root := &models.Folder{Name: rootName}
	for _, k := range keys {
		var n jsonNode
		err := json.Unmarshal(roots[k], &n)
		switch {
		case err != nil && isObject(roots[k]):
			p.diag.Structural("skipped malformed node roots.%s: %v", k, err)
			continue
		case err != nil || n.Type == "":
			p.diag.Infof("- roots.%s (not a folder)", k)
			continue
		}
		if n.displayName() == "" {
			n.Name = k
		}
		if node, ok := p.chromiumNode(&n); ok {
			root.Append(node)
		}
	}
	return models.Node{Type: models.ItemTypeFolder, Folder: root}
}

func (p *Parser) chromiumNode(n *jsonNode) (models.Node, bool) {
	name := n.displayName()
	if _, skip := syntheticFolders[name]; skip {
		p.diag.Infof("- %s (computed view)", name)
		return models.Node{}, false
	}

	switch n.Type {
	case chromiumFolder:
		folder := &models.Folder{Name: name}
		for _, c := range p.decodeChildren(n.Children) {
			if node, ok := p.chromiumNode(c); ok {
				folder.Append(node)
			}
		}
		return models.Node{Type: models.ItemTypeFolder, Folder: folder}, true

	case chromiumURL:
		url := n.location()
		if url == "" {
			p.diag.Structural("skipped %s %q: no url", n.Type, name)
			return models.Node{}, false
		}
		b := &models.Bookmark{
			Title:      name,
			URL:        url,
			ModifiedAt: optionalWebKit(n.ChromiumModified),
			VisitedAt:  optionalWebKit(n.ChromiumLastUsed),
		}
		if n.ChromiumAdded.Set {
			b.AddedAt = timestamp.FromWebKit(n.ChromiumAdded.Value)
		} else {
			b.AddedAt = timestamp.Epoch
			p.diag.MissingField("bookmark %q has no date_added, using %s", name, timestamp.FormatISO(timestamp.Epoch))
		}
		return models.NewBookmarkNode(b), true
	}

	p.diag.Structural("skipped %s %q", typeLabel(n.Type), name)
	return models.Node{}, false
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isObject(raw json.RawMessage) bool {
	return bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{"))
}

func typeLabel(t string) string {
	if t == "" {
		return "untyped node"
	}
	return t
}

func optionalEpoch(v epochValue, scale timestamp.Scale) *time.Time {
	if !v.Set {
		return nil
	}
	t := timestamp.Normalize(v.Value, scale)
	return &t
}

func optionalWebKit(v epochValue) *time.Time {
	if !v.Set {
		return nil
	}
	t := timestamp.FromWebKit(v.Value)
	return &t
}
