// Package testsupport holds fixture and golden-file helpers shared by the
// clonebox test suites.
package testsupport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-clonebox/pkg/dom"
)

// LoadFixture parses an HTML fixture. Testing helpers fail the test on error
// to keep scenario tests concise.
func LoadFixture(t *testing.T, path string) *html.Node {
	t.Helper()

	doc, err := LoadFixtureFromPath(path)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return doc
}

// LoadFixtureFromPath parses an HTML fixture without requiring testing.T.
func LoadFixtureFromPath(path string) (*html.Node, error) {
	if path == "" {
		return nil, errors.New("testsupport: fixture path is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: open fixture: %w", err)
	}
	defer f.Close()
	return dom.Parse(f)
}

// MustFind returns the first node matching selector below root.
func MustFind(t *testing.T, root *html.Node, selector string) *html.Node {
	t.Helper()

	sel, err := dom.Compile(selector)
	if err != nil {
		t.Fatalf("compile %q: %v", selector, err)
	}
	n := sel.First(root)
	if n == nil {
		t.Fatalf("no node matches %q", selector)
	}
	return n
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
// Returns true if the golden was written.
func WriteGolden(t *testing.T, path string, value any) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGoldenJSON decodes a JSON golden file into out.
func MustReadGoldenJSON(t *testing.T, path string, out any) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal golden %s: %v", path, err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}
