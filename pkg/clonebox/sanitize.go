package clonebox

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-clonebox/pkg/dom"
)

var fieldSelector = dom.MustCompile(fieldSelectorSource)

// Sanitizer blanks a row: values cleared, toggles unchecked, validity markers
// removed.
type Sanitizer struct {
	Valid   string
	Invalid string
}

// NewSanitizer builds a sanitizer for the marker classes in cfg.
func NewSanitizer(cfg Config) Sanitizer {
	return Sanitizer{Valid: cfg.Valid, Invalid: cfg.Invalid}
}

// Sanitize clears every field below row. Only row's subtree is touched and
// running it twice has the same effect as running it once.
func (s Sanitizer) Sanitize(row *html.Node) {
	if row == nil {
		return
	}
	fields := fieldSelector.All(row)
	if fieldSelector.Match(row) {
		fields = append([]*html.Node{row}, fields...)
	}
	for _, field := range fields {
		switch {
		case isToggle(field):
			dom.RemoveAttr(field, "checked")
		case isButton(field):
			// buttons keep their caption value
		case dom.IsElement(field, "textarea"):
			dom.SetText(field, "")
		case dom.IsElement(field, "select"):
			for _, option := range dom.Elements(field) {
				if dom.IsElement(option, "option") {
					dom.RemoveAttr(option, "selected")
				}
			}
		default:
			dom.SetAttr(field, "value", "")
		}
		dom.RemoveClass(field, s.Invalid, s.Valid)
	}
}

func inputType(n *html.Node) string {
	return strings.ToLower(strings.TrimSpace(dom.AttrOr(n, "type", "text")))
}

func isToggle(n *html.Node) bool {
	if !dom.IsElement(n, "input") {
		return false
	}
	switch inputType(n) {
	case "checkbox", "radio":
		return true
	}
	return false
}

func isButton(n *html.Node) bool {
	if dom.IsElement(n, "button") {
		return true
	}
	if !dom.IsElement(n, "input") {
		return false
	}
	switch inputType(n) {
	case "button", "submit", "reset", "image":
		return true
	}
	return false
}
