package scaffold_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/discovery"
	"github.com/goliatone/go-clonebox/pkg/dom"
	"github.com/goliatone/go-clonebox/pkg/scaffold"
)

const definition = `
id: contacts
legend: Contacts
limit: 3
rows: 2
fields:
  - name: email
    label: Email
    type: email
    placeholder: you@example.com
  - name: primary
    type: checkbox
  - name: kind
    type: select
    options:
      - {value: work, label: Work}
      - {value: home, label: Home}
  - name: notes
    type: textarea
`

func render(t *testing.T, def scaffold.Definition) string {
	t.Helper()
	s, err := scaffold.New(nil)
	if err != nil {
		t.Fatalf("new scaffolder: %v", err)
	}
	out, err := s.Render(def)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func TestRender_ProducesIndexedContainer(t *testing.T) {
	def, err := scaffold.ParseDefinition([]byte(definition), "inline.yaml")
	if err != nil {
		t.Fatalf("parse definition: %v", err)
	}
	out := render(t, def)

	doc, err := dom.ParseString(out)
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	box := dom.MustCompile("#contacts").First(doc)
	if box == nil {
		t.Fatalf("container missing:\n%s", out)
	}
	if got := dom.AttrOr(box, "data-limit", ""); got != "3" {
		t.Fatalf("data-limit mismatch: %q", got)
	}

	var names []string
	for _, field := range dom.MustCompile("input, select, textarea").All(box) {
		names = append(names, dom.AttrOr(field, "id", "")+"|"+dom.AttrOr(field, "name", ""))
	}
	want := []string{
		"email-0|email[0]", "primary-0|primary[0]", "kind-0|kind[0]", "notes-0|notes[0]",
		"email-1|email[1]", "primary-1|primary[1]", "kind-1|kind[1]", "notes-1|notes[1]",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	adds := dom.MustCompile(`[data-clone-btn="add"]`).All(box)
	if len(adds) != 2 || !dom.HasAttr(adds[0], "disabled") || dom.HasAttr(adds[1], "disabled") {
		t.Fatalf("add controls not initialised:\n%s", out)
	}
	if !strings.Contains(out, `placeholder="you@example.com"`) {
		t.Fatalf("placeholder missing:\n%s", out)
	}
}

func TestRender_RoundTripsThroughDiscovery(t *testing.T) {
	out := render(t, scaffold.Definition{
		ID:     "tags",
		Limit:  2,
		Fields: []scaffold.Field{{Name: "tag"}},
	})
	doc, err := dom.ParseString(out)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	controllers, err := discovery.Discover(doc)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(controllers) != 1 {
		t.Fatalf("expected 1 controller, got %d", len(controllers))
	}

	ctrl := controllers[0]
	ctrl.Add()
	if m := ctrl.Add(); m.Reason != clonebox.ReasonLimitReached {
		t.Fatalf("limit from scaffold not honoured: %+v", m)
	}
}

func TestDefinitionValidation(t *testing.T) {
	cases := []struct {
		name string
		def  scaffold.Definition
		want error
	}{
		{"no fields", scaffold.Definition{}, scaffold.ErrNoFields},
		{"rows over limit", scaffold.Definition{Limit: 1, Rows: 2, Fields: []scaffold.Field{{Name: "a"}}}, scaffold.ErrRowsOverLimit},
		{"negative limit", scaffold.Definition{Limit: -1, Fields: []scaffold.Field{{Name: "a"}}}, clonebox.ErrInvalidLimit},
	}
	for _, tc := range cases {
		if err := tc.def.Validate(); !errors.Is(err, tc.want) {
			t.Errorf("%s: want %v, got %v", tc.name, tc.want, err)
		}
	}

	bad := []scaffold.Definition{
		{Fields: []scaffold.Field{{Name: "line2"}}},
		{Fields: []scaffold.Field{{Name: "a"}, {Name: "a"}}},
		{Fields: []scaffold.Field{{Name: "a", Type: "select"}}},
	}
	for i, def := range bad {
		if err := def.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestEngine_CustomTemplates(t *testing.T) {
	engine, err := scaffold.NewEngine(scaffold.WithTemplatesFS(fstest.MapFS{
		"hello.html": {Data: []byte(`hi {{ name }}`)},
	}), scaffold.WithExtension("html"))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	out, err := engine.RenderTemplate("hello", map[string]any{"name": "box"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "hi box" {
		t.Fatalf("unexpected output %q", out)
	}

	inline, err := engine.RenderString(`{{ n }} rows`, struct {
		N string `json:"n"`
	}{N: "two"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if inline != "two rows" {
		t.Fatalf("unexpected inline output %q", inline)
	}
}
