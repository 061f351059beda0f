package parser

import (
	"bufio"
	"errors"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/dastanaron/bookmarks-convert/internal/models"
	"github.com/dastanaron/bookmarks-convert/internal/timestamp"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	dtOpenTag = regexp.MustCompile(`(?i)<dt>`)
	ddOpenTag = regexp.MustCompile(`(?i)<dd>`)
	ddEndTag  = regexp.MustCompile(`(?i)</dd>`)
	// an existing close is folded into the replacement
	pOpenTag = regexp.MustCompile(`(?i)<p>(\s*</p>)?`)
)

// RepairMarkup rewrites a Netscape bookmark file line by line so that an
// HTML5 parser keeps headings, lists, anchors and descriptions as
// siblings: <DT> is dropped, a <DD> left open is closed at the end of its
// line and <p> becomes an empty paragraph. Lines have no length limit,
// inline icon data URIs can run to megabytes.
func RepairMarkup(r io.Reader) (string, error) {
	reader := bufio.NewReader(r)

	var sb strings.Builder
	for {
		raw, err := reader.ReadString('\n')
		if raw != "" {
			line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
			line = dtOpenTag.ReplaceAllString(line, " ")
			if ddOpenTag.MatchString(line) && !ddEndTag.MatchString(line) {
				line += "</DD>"
			}
			line = pOpenTag.ReplaceAllString(line, "<p></p>")
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
	}
}

// ParseHTML reads a Netscape bookmark file. The file has no root title of
// its own, so the root folder is named rootName.
func (p *Parser) ParseHTML(r io.Reader, rootName string) (models.Node, error) {
	repaired, err := RepairMarkup(r)
	if err != nil {
		return models.Node{}, &FormatError{Format: FormatHTML, Err: err}
	}
	if strings.TrimSpace(repaired) == "" {
		return models.Node{}, &FormatError{Format: FormatHTML, Err: errors.New("empty document")}
	}

	doc, err := html.Parse(strings.NewReader(repaired))
	if err != nil {
		return models.Node{}, &FormatError{Format: FormatHTML, Err: err}
	}

	htmlNode := findElement(doc, atom.Html)
	if htmlNode == nil {
		return models.Node{}, &FormatError{Format: FormatHTML, Err: errors.New("no html element")}
	}

	root := &models.Folder{Name: rootName}
	p.walkMarkup(htmlNode, root)
	return models.Node{Type: models.ItemTypeFolder, Folder: root}, nil
}

// walkMarkup appends what it finds among the element children of n to
// into. A heading opens a folder that receives the following siblings
// until its <DL> body has been walked.
func (p *Parser) walkMarkup(n *html.Node, into *models.Folder) {
	children := elementChildren(n)
	current := into

	for i := 0; i < len(children); i++ {
		el := children[i]

		switch el.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			folder := &models.Folder{Name: strings.TrimSpace(textContent(el))}
			into.Append(models.Node{Type: models.ItemTypeFolder, Folder: folder})
			current = folder

		case atom.A:
			b, ok := p.markupBookmark(el)
			if !ok {
				continue
			}
			// the description belongs to the anchor right before it
			if i+1 < len(children) && children[i+1].DataAtom == atom.Dd {
				b.Description = strings.TrimSpace(textContent(children[i+1]))
				i++
			}
			current.Append(models.NewBookmarkNode(b))

		case atom.Dl:
			p.walkMarkup(el, current)
			current = into

		case atom.Dt, atom.P, atom.Head, atom.Body:
			p.walkMarkup(el, current)

		case atom.Dd:
			if i > 0 && isHeading(children[i-1]) {
				// folder descriptions have nowhere to go
				p.diag.Infof("- description of %q", current.Name)
				continue
			}
			p.diag.Structural("description %q has no bookmark before it", strings.TrimSpace(textContent(el)))

		default:
			p.diag.Structural("unexpected <%s> element", el.Data)
		}
	}
}

func (p *Parser) markupBookmark(el *html.Node) (*models.Bookmark, bool) {
	title := strings.TrimSpace(textContent(el))
	href := strings.TrimSpace(attr(el, "href"))

	if title == "" {
		p.diag.Structural("anchor %q has no text, skipped", href)
		return nil, false
	}
	if href == "" {
		p.diag.Structural("bookmark %q has no href, skipped", title)
		return nil, false
	}
	if _, err := url.Parse(href); err != nil {
		p.diag.Structural("bookmark %q has a malformed href: %v", title, err)
		return nil, false
	}

	b := &models.Bookmark{
		Title:      title,
		URL:        href,
		ModifiedAt: optionalSeconds(attr(el, "last_modified")),
		VisitedAt:  optionalSeconds(attr(el, "last_visit")),
		IconURI:    attr(el, "icon_uri"),
		Icon:       attr(el, "icon"),
		Charset:    attr(el, "last_charset"),
	}
	if added, ok := timestamp.Parse(attr(el, "add_date"), timestamp.Seconds); ok {
		b.AddedAt = added
	} else {
		b.AddedAt = timestamp.Epoch
		p.diag.MissingField("bookmark %q has no add_date, using %s", title, timestamp.FormatISO(timestamp.Epoch))
	}
	return b, true
}

func isHeading(n *html.Node) bool {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func optionalSeconds(raw string) *time.Time {
	t, ok := timestamp.Parse(raw, timestamp.Seconds)
	if !ok {
		return nil
	}
	return &t
}

func elementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// attr returns the attribute value; the tokenizer lowercases keys
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
