package config_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/config"
	"github.com/goliatone/go-clonebox/pkg/dom"
)

func TestFromAttributes(t *testing.T) {
	doc, err := dom.ParseString(`<div id="box" data-plugin="clonebox" data-limit=" 4 " data-row=".line" data-valid="ok" data-unknown="x"></div>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	box := dom.MustCompile("#box").First(doc)

	got, err := config.FromAttributes(box)
	if err != nil {
		t.Fatalf("from attributes: %v", err)
	}
	want := config.Overrides{Limit: config.Limit(4), Row: ".line", Valid: "ok"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("overrides mismatch (-want +got):\n%s", diff)
	}
}

func TestFromAttributes_InvalidLimit(t *testing.T) {
	for _, raw := range []string{"0", "-2", "many", ""} {
		doc, err := dom.ParseString(`<div id="box" data-limit="` + raw + `"></div>`)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		_, err = config.FromAttributes(dom.MustCompile("#box").First(doc))
		if !errors.Is(err, config.ErrInvalidLimit) {
			t.Errorf("limit %q: expected ErrInvalidLimit, got %v", raw, err)
		}
	}
}

func TestResolve_Precedence(t *testing.T) {
	file, err := config.Parse([]byte(`
defaults:
  limit: 10
  invalid: has-error
boxes:
  contacts:
    limit: 5
    row: .contact
`), "inline.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	layers := append(file.For("contacts"), config.Overrides{Limit: config.Limit(2)})
	cfg, err := config.Resolve(layers...)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	want := clonebox.DefaultConfig()
	want.Limit = 2
	want.Invalid = "has-error"
	want.Row = ".contact"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	other, err := config.Resolve(file.For("unknown")...)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if other.Limit != 10 || other.Row != clonebox.DefaultRowSelector {
		t.Fatalf("defaults layer not applied: %+v", other)
	}
}

func TestParse_JSONAndErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"clonebox.json": {Data: []byte(`{"defaults": {"disabled": "is-disabled"}, "boxes": {"a": {"limit": 3}}}`)},
		"empty.yaml":    {Data: []byte("  \n")},
		"bad.yaml":      {Data: []byte("boxes:\n  a:\n    limit: 0\n")},
	}

	file, err := config.LoadFS(fsys, "clonebox.json")
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if file.Defaults.Disabled != "is-disabled" || *file.Boxes["a"].Limit != 3 {
		t.Fatalf("json not decoded: %+v", file)
	}

	if _, err := config.LoadFS(fsys, "empty.yaml"); err == nil {
		t.Fatalf("expected error for empty file")
	}
	if _, err := config.LoadFS(fsys, "bad.yaml"); !errors.Is(err, config.ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := config.LoadFS(fsys, "missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestOverridesEmpty(t *testing.T) {
	if !(config.Overrides{}).Empty() {
		t.Fatalf("zero overrides should be empty")
	}
	if (config.Overrides{Row: ".x"}).Empty() {
		t.Fatalf("row override should not be empty")
	}
}
