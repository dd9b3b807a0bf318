package clonebox

import (
	"regexp"
	"strconv"

	"golang.org/x/net/html"

	"github.com/goliatone/go-clonebox/pkg/dom"
)

// The base is matched lazily so a bare index dash ("email-") stays out of it.
var (
	namePattern  = regexp.MustCompile(`^([-_a-zA-Z]+?)-?(?:\[\d*\])?$`)
	labelPattern = regexp.MustCompile(`^([-_a-zA-Z]+?)(?:-\d*)?$`)

	labelSelector = dom.MustCompile(labelSelectorSource)
)

// FieldKind tags how a field takes part in reindexing.
type FieldKind int

const (
	// Unindexed fields carry no recognisable template and are left alone.
	Unindexed FieldKind = iota
	// IndexedName fields get id="base-i" and name="base[i]".
	IndexedName
	// IndexedLabel labels get for="base-i".
	IndexedLabel
)

func (k FieldKind) String() string {
	switch k {
	case IndexedName:
		return "indexed-name"
	case IndexedLabel:
		return "indexed-label"
	default:
		return "unindexed"
	}
}

// FieldClass is the classification of a single node.
type FieldClass struct {
	Kind FieldKind
	Base string
}

// Classify inspects n's current name (form controls) or for (labels) and
// extracts the base identifier when it matches the index template.
func Classify(n *html.Node) FieldClass {
	switch {
	case dom.IsElement(n, "label"):
		if ref, ok := dom.Attr(n, "for"); ok {
			if m := labelPattern.FindStringSubmatch(ref); m != nil {
				return FieldClass{Kind: IndexedLabel, Base: m[1]}
			}
		}
	case fieldSelector.Match(n):
		if name, ok := dom.Attr(n, "name"); ok {
			if m := namePattern.FindStringSubmatch(name); m != nil {
				return FieldClass{Kind: IndexedName, Base: m[1]}
			}
		}
	}
	return FieldClass{Kind: Unindexed}
}

// Reindexer rewrites field identifiers so they encode their row position.
// Fields below a node matching Fence are left to their own container.
type Reindexer struct {
	Fence dom.Selector
}

// Reindex walks every row and rewrites indexed fields for position i. It
// returns the number of attribute values that actually changed, so a pass
// over an already indexed set returns 0.
func (r Reindexer) Reindex(rows RowSet) int {
	changed := 0
	for i, row := range rows.rows {
		suffix := strconv.Itoa(i)
		for _, n := range rowFields(row, r.Fence) {
			class := Classify(n)
			switch class.Kind {
			case IndexedLabel:
				changed += setIfChanged(n, "for", class.Base+"-"+suffix)
			case IndexedName:
				changed += setIfChanged(n, "id", class.Base+"-"+suffix)
				changed += setIfChanged(n, "name", class.Base+"["+suffix+"]")
			}
		}
	}
	return changed
}

// rowFields collects named form controls and labels with a for reference in
// document order.
func rowFields(row *html.Node, fence dom.Selector) []*html.Node {
	var out []*html.Node
	for _, n := range dom.ElementsWithin(row, fence) {
		if labelSelector.Match(n) || (fieldSelector.Match(n) && dom.HasAttr(n, "name")) {
			out = append(out, n)
		}
	}
	return out
}

func setIfChanged(n *html.Node, key, value string) int {
	if current, ok := dom.Attr(n, key); ok && current == value {
		return 0
	}
	dom.SetAttr(n, key, value)
	return 1
}
