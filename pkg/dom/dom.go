// Package dom holds the small set of tree helpers the clonebox packages need on
// top of golang.org/x/net/html: parsing, rendering, deep cloning and structural
// edits. Nodes are always mutated in place.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrNilNode is returned by helpers that cannot operate on a nil node.
var ErrNilNode = errors.New("dom: node is nil")

// Parse reads a full HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	return doc, nil
}

// ParseString parses markup held in memory.
func ParseString(markup string) (*html.Node, error) {
	return Parse(strings.NewReader(markup))
}

// Render serialises n and its subtree.
func Render(n *html.Node) (string, error) {
	if n == nil {
		return "", ErrNilNode
	}
	var buf bytes.Buffer
	if err := RenderTo(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderTo streams n into w.
func RenderTo(w io.Writer, n *html.Node) error {
	if n == nil {
		return ErrNilNode
	}
	if err := html.Render(w, n); err != nil {
		return fmt.Errorf("dom: render: %w", err)
	}
	return nil
}

// RenderInner serialises the children of n without n itself.
func RenderInner(n *html.Node) (string, error) {
	if n == nil {
		return "", ErrNilNode
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("dom: render: %w", err)
		}
	}
	return buf.String(), nil
}

// Clone returns a deep copy of n. The copy is detached from any parent.
func Clone(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	out := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		out.Attr = make([]html.Attribute, len(n.Attr))
		copy(out.Attr, n.Attr)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		out.AppendChild(Clone(child))
	}
	return out
}

// InsertAfter places n directly after ref under ref's parent.
func InsertAfter(ref, n *html.Node) error {
	if ref == nil || n == nil {
		return ErrNilNode
	}
	if ref.Parent == nil {
		return errors.New("dom: reference node is detached")
	}
	Detach(n)
	ref.Parent.InsertBefore(n, ref.NextSibling)
	return nil
}

// Detach removes n from its parent. Detached nodes are left untouched.
func Detach(n *html.Node) {
	if n == nil || n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Contains reports whether n sits inside ancestor's subtree (or is ancestor).
func Contains(ancestor, n *html.Node) bool {
	if ancestor == nil {
		return false
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// Elements returns every element node below root in document order, root
// excluded.
func Elements(root *html.Node) []*html.Node {
	if root == nil {
		return nil
	}
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(root)
	return out
}

// ElementsWithin is Elements without the subtrees rooted at descendants
// matching fence.
func ElementsWithin(root *html.Node, fence Selector) []*html.Node {
	if root == nil {
		return nil
	}
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			if fence.Match(child) {
				continue
			}
			out = append(out, child)
			walk(child)
		}
	}
	walk(root)
	return out
}

// Text concatenates the text nodes below n.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for child := cur.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}

// SetText replaces n's children with a single text node. An empty string
// leaves n without children.
func SetText(n *html.Node, text string) {
	if n == nil {
		return
	}
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		n.RemoveChild(child)
		child = next
	}
	if text == "" {
		return
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// IsElement reports whether n is an element with one of the given tag names.
// With no names it only checks the node type.
func IsElement(n *html.Node, names ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(names) == 0 {
		return true
	}
	for _, name := range names {
		if strings.EqualFold(n.Data, name) {
			return true
		}
	}
	return false
}
