// Package markup cleans untrusted container markup before it is parsed into a
// tree, keeping form elements, their identifiers and data-* attributes.
package markup

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	formPolicyOnce sync.Once
	formPolicy     *bluemonday.Policy
)

// Sanitize strips scripts, event handlers and anything outside the form
// policy from raw.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(Policy().Sanitize(trimmed))
}

// SanitizeBytes is Sanitize for byte payloads.
func SanitizeBytes(raw []byte) []byte {
	return []byte(Sanitize(string(raw)))
}

// Policy returns the shared form policy.
func Policy() *bluemonday.Policy {
	formPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()

		policy.AllowElements(
			"form", "fieldset", "legend", "div", "span", "p", "section",
			"ul", "ol", "li", "table", "thead", "tbody", "tr", "th", "td",
			"label", "input", "select", "option", "optgroup", "textarea", "button",
			"small", "strong", "em", "b", "i",
		)

		policy.AllowAttrs("id", "class", "title", "role", "aria-label", "aria-hidden").Globally()
		policy.AllowDataAttributes()

		policy.AllowAttrs("for").OnElements("label")
		policy.AllowAttrs(
			"name", "type", "value", "checked", "disabled", "placeholder",
			"required", "readonly", "min", "max", "step", "maxlength", "pattern",
			"autocomplete",
		).OnElements("input")
		policy.AllowAttrs("name", "disabled", "multiple", "required").OnElements("select")
		policy.AllowAttrs("value", "selected", "disabled", "label").OnElements("option")
		policy.AllowAttrs("label", "disabled").OnElements("optgroup")
		policy.AllowAttrs("name", "rows", "cols", "disabled", "placeholder", "required", "readonly").OnElements("textarea")
		policy.AllowAttrs("name", "type", "value", "disabled").OnElements("button")
		policy.AllowAttrs("method", "novalidate").OnElements("form")

		formPolicy = policy
	})
	return formPolicy
}
