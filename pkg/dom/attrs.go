package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Attr returns the value of key and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}

// AttrOr returns the value of key or fallback when it is absent.
func AttrOr(n *html.Node, key, fallback string) string {
	if value, ok := Attr(n, key); ok {
		return value
	}
	return fallback
}

// HasAttr reports whether key is present on n.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// SetAttr writes key=value, replacing an existing value in place so attribute
// order stays stable across renders.
func SetAttr(n *html.Node, key, value string) {
	if n == nil {
		return
	}
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && strings.EqualFold(n.Attr[i].Key, key) {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr drops every occurrence of key.
func RemoveAttr(n *html.Node, key string) {
	if n == nil || len(n.Attr) == 0 {
		return
	}
	kept := n.Attr[:0]
	for _, attr := range n.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			continue
		}
		kept = append(kept, attr)
	}
	n.Attr = kept
}

// ToggleAttr sets a boolean attribute (value "") when on, removes it otherwise.
func ToggleAttr(n *html.Node, key string, on bool) {
	if on {
		if !HasAttr(n, key) {
			SetAttr(n, key, "")
		}
		return
	}
	RemoveAttr(n, key)
}

// Classes splits the class attribute into tokens.
func Classes(n *html.Node) []string {
	value, _ := Attr(n, "class")
	return strings.Fields(value)
}

// HasClass reports whether name is one of n's classes.
func HasClass(n *html.Node, name string) bool {
	for _, class := range Classes(n) {
		if class == name {
			return true
		}
	}
	return false
}

// AddClass appends name when missing.
func AddClass(n *html.Node, name string) {
	name = strings.TrimSpace(name)
	if n == nil || name == "" || HasClass(n, name) {
		return
	}
	SetAttr(n, "class", strings.Join(append(Classes(n), name), " "))
}

// RemoveClass drops the given class names. The class attribute is removed
// once it has no tokens left.
func RemoveClass(n *html.Node, names ...string) {
	if n == nil || len(names) == 0 || !HasAttr(n, "class") {
		return
	}
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			drop[name] = struct{}{}
		}
	}
	current := Classes(n)
	kept := make([]string, 0, len(current))
	for _, class := range current {
		if _, ok := drop[class]; ok {
			continue
		}
		kept = append(kept, class)
	}
	if len(kept) == len(current) {
		return
	}
	if len(kept) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// ToggleClass adds or removes name depending on on.
func ToggleClass(n *html.Node, name string, on bool) {
	if on {
		AddClass(n, name)
		return
	}
	RemoveClass(n, name)
}
