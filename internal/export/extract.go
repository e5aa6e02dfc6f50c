package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrPreviewMissing means the markup holds no element with the expected id.
var ErrPreviewMissing = errors.New("preview element not found")

// Preview is the printable element cut out of a rendered page, together with
// the page's style blocks.
type Preview struct {
	Styles  string
	Element string
}

// ExtractPreview parses markup and returns the element whose id is id.
func ExtractPreview(markup, id string) (Preview, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return Preview{}, fmt.Errorf("parse markup: %w", err)
	}

	var target *html.Node
	var styles []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.DataAtom == atom.Style {
				styles = append(styles, n)
			}
			if target == nil && attr(n, "id") == id {
				target = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if target == nil {
		return Preview{}, fmt.Errorf("%w: #%s", ErrPreviewMissing, id)
	}

	var out Preview
	var buf bytes.Buffer
	for _, s := range styles {
		if err := html.Render(&buf, s); err != nil {
			return Preview{}, err
		}
	}
	out.Styles = buf.String()
	buf.Reset()
	if err := html.Render(&buf, target); err != nil {
		return Preview{}, err
	}
	out.Element = buf.String()
	return out, nil
}

// Page returns a standalone HTML page holding only the preview element.
func (p Preview) Page() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\">")
	b.WriteString(p.Styles)
	b.WriteString("<style>html,body{margin:0;padding:0;background:#fff;}</style></head><body>")
	b.WriteString(p.Element)
	b.WriteString("</body></html>")
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}
