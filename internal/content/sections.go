// Package content prepares fetched document HTML for rendering.
package content

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/leapstack-labs/docsite/pkg/core"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// headingLevels maps the heading tags that become sections to their level.
var headingLevels = map[atom.Atom]int{
	atom.H1: 1,
	atom.H2: 2,
	atom.H3: 3,
}

// Processed is document HTML reduced to its body, with section anchors.
type Processed struct {
	HTML     string
	Sections []core.Section
}

// Process parses a document, gives every h1-h3 heading a stable id and
// returns the body markup together with the list of sections.
func Process(raw string) (*Processed, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	body := findElement(doc, atom.Body)
	if body == nil {
		body = doc
	}

	sections := []core.Section{}
	seen := make(map[string]int)

	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level, ok := headingLevels[n.DataAtom]; ok {
				title := strings.TrimSpace(textContent(n))
				if title != "" {
					id := getAttr(n, "id")
					if id == "" {
						id = uniqueID(Anchor(title), seen)
						setAttr(n, "id", id)
					} else {
						seen[id]++
					}
					sections = append(sections, core.Section{ID: id, Title: title, Level: level})
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(body)

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return nil, fmt.Errorf("failed to render document: %w", err)
		}
	}

	return &Processed{HTML: buf.String(), Sections: sections}, nil
}

// Anchor turns a heading title into a URL fragment.
// e.g., "Getting Started!" -> "getting-started"
func Anchor(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	if b.Len() == 0 {
		return "section"
	}
	return b.String()
}

func uniqueID(base string, seen map[string]int) string {
	n := seen[base]
	seen[base]++
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
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
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
