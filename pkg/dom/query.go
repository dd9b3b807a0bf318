package dom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// ErrEmptySelector is returned when compiling a blank selector.
var ErrEmptySelector = errors.New("dom: selector is empty")

// Selector is a compiled CSS selector group.
type Selector struct {
	raw   string
	group cascadia.SelectorGroup
}

// Compile parses a CSS selector group such as `[data-clone="row"]` or
// `input, select, textarea`.
func Compile(selector string) (Selector, error) {
	trimmed := strings.TrimSpace(selector)
	if trimmed == "" {
		return Selector{}, ErrEmptySelector
	}
	group, err := cascadia.ParseGroup(trimmed)
	if err != nil {
		return Selector{}, fmt.Errorf("dom: parse selector %q: %w", trimmed, err)
	}
	return Selector{raw: trimmed, group: group}, nil
}

// MustCompile panics when the selector does not parse. Intended for package
// level selectors known at compile time.
func MustCompile(selector string) Selector {
	sel, err := Compile(selector)
	if err != nil {
		panic(err)
	}
	return sel
}

// String returns the selector source.
func (s Selector) String() string {
	return s.raw
}

// Match reports whether n is an element matching the selector.
func (s Selector) Match(n *html.Node) bool {
	if s.group == nil || n == nil || n.Type != html.ElementNode {
		return false
	}
	return s.group.Match(n)
}

// All returns the descendants of root matching the selector, in document
// order. root itself is never included.
func (s Selector) All(root *html.Node) []*html.Node {
	if s.group == nil || root == nil {
		return nil
	}
	return cascadia.QueryAll(root, s.group)
}

// AllWithin is All restricted to the part of root outside any descendant
// matching fence. Fenced subtrees are skipped whole, fence nodes included. A
// zero fence behaves like All.
func (s Selector) AllWithin(root *html.Node, fence Selector) []*html.Node {
	if s.group == nil {
		return nil
	}
	var out []*html.Node
	for _, n := range ElementsWithin(root, fence) {
		if s.group.Match(n) {
			out = append(out, n)
		}
	}
	return out
}

// First returns the first matching descendant of root, or nil.
func (s Selector) First(root *html.Node) *html.Node {
	if s.group == nil || root == nil {
		return nil
	}
	return cascadia.Query(root, s.group)
}

// Closest walks from n up to (and including) stop and returns the first node
// matching the selector. A nil stop walks to the document root.
func (s Selector) Closest(n, stop *html.Node) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if s.Match(cur) {
			return cur
		}
		if cur == stop {
			break
		}
	}
	return nil
}
