package discovery_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/config"
	"github.com/goliatone/go-clonebox/pkg/discovery"
	"github.com/goliatone/go-clonebox/pkg/dom"
)

const page = `<html><body>
<form>
  <div id="phones" data-plugin="clonebox" data-limit="2">
    <div data-clone="row"><input name="phone"><button data-clone-btn="add">+</button></div>
  </div>
  <div id="emails" data-plugin="clonebox">
    <p class="line"><input name="email[7]"></p>
    <p class="line"><input name="email[3]"></p>
  </div>
  <div id="broken" data-plugin="clonebox" data-limit="zero">
    <div data-clone="row"><input name="x"></div>
  </div>
  <div id="empty" data-plugin="clonebox"></div>
  <div id="ignored"><div data-clone="row"><input name="y"></div></div>
</form>
</body></html>`

func TestDiscover(t *testing.T) {
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	file := &config.File{Boxes: map[string]config.Overrides{"emails": {Row: ".line", Limit: config.Limit(9)}}}
	controllers, err := discovery.Discover(doc,
		discovery.WithFile(file),
		discovery.WithOverrides(config.Overrides{Limit: config.Limit(50)}),
	)

	if err == nil {
		t.Fatalf("expected joined error for broken containers")
	}
	if !errors.Is(err, config.ErrInvalidLimit) || !errors.Is(err, clonebox.ErrNoRows) {
		t.Fatalf("joined error should carry both failures: %v", err)
	}

	var ids []string
	var limits []int
	for _, ctrl := range controllers {
		ids = append(ids, dom.AttrOr(ctrl.Container(), "id", ""))
		limits = append(limits, ctrl.Config().Limit)
	}
	if diff := cmp.Diff([]string{"phones", "emails"}, ids); diff != "" {
		t.Fatalf("containers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2, 9}, limits); diff != "" {
		t.Fatalf("limits mismatch (-want +got):\n%s", diff)
	}

	var names []string
	for _, input := range dom.MustCompile("#emails input").All(doc) {
		names = append(names, dom.AttrOr(input, "name", ""))
	}
	if diff := cmp.Diff([]string{"email[0]", "email[1]"}, names); diff != "" {
		t.Fatalf("discovery should reindex on construction (-want +got):\n%s", diff)
	}

	if got := dom.AttrOr(dom.MustCompile("#ignored input").First(doc), "name", ""); got != "y" {
		t.Fatalf("unmarked containers must be left alone, got %q", got)
	}
}

func TestDiscover_CustomMarker(t *testing.T) {
	doc, err := dom.ParseString(`<section class="repeat"><div data-clone="row"><input name="a"></div></section>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	controllers, err := discovery.Discover(doc, discovery.WithMarker(".repeat"))
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(controllers) != 1 {
		t.Fatalf("expected 1 controller, got %d", len(controllers))
	}

	if _, err := discovery.Discover(doc, discovery.WithMarker("[")); err == nil {
		t.Fatalf("expected invalid marker error")
	}
}

func TestFind(t *testing.T) {
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	file := &config.File{Boxes: map[string]config.Overrides{"emails": {Row: ".line"}}}
	controllers, _ := discovery.Discover(doc, discovery.WithFile(file))
	if len(controllers) != 2 {
		t.Fatalf("expected 2 controllers, got %d", len(controllers))
	}

	cases := []struct {
		ref  string
		want int
		ok   bool
	}{
		{"emails", 1, true},
		{"0", 0, true},
		{"1", 1, true},
		{"2", -1, false},
		{"-1", -1, false},
		{"broken", -1, false},
	}
	for _, tc := range cases {
		idx, ctrl, ok := discovery.Find(controllers, tc.ref)
		if idx != tc.want || ok != tc.ok || (ok && ctrl != controllers[idx]) {
			t.Errorf("Find(%q) = %d, %v; want %d, %v", tc.ref, idx, ok, tc.want, tc.ok)
		}
	}
}
