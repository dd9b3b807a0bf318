package clonebox

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgclonebox "github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/wiring"
)

const fragment = `<div id="a" data-plugin="clonebox" data-limit="3"><div data-clone="row"><input name="x[4]" value="v"></div></div>` +
	`<div id="b" data-plugin="clonebox"><div data-clone="row"><input name="y"></div></div>`

func TestProcessHTML_Fragment(t *testing.T) {
	res, err := ProcessHTML(fragment, "a", []string{"add", "add", "add", "del=0"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Boxes != 2 || res.Skipped != nil {
		t.Fatalf("unexpected discovery result: %+v", res)
	}
	if strings.Contains(res.HTML, "<body") {
		t.Fatalf("fragment should not be wrapped:\n%s", res.HTML)
	}

	var reasons []string
	for _, m := range res.Mutations {
		reasons = append(reasons, string(m.Op)+":"+m.Reason)
	}
	want := []string{"add:", "add:", "add:" + pkgclonebox.ReasonLimitReached, "delete:"}
	if diff := cmp.Diff(want, reasons); diff != "" {
		t.Fatalf("mutations mismatch (-want +got):\n%s", diff)
	}
	for _, name := range []string{`name="x[0]"`, `name="x[1]"`, `id="y-0"`} {
		if !strings.Contains(res.HTML, name) {
			t.Errorf("expected %s in output:\n%s", name, res.HTML)
		}
	}
	if strings.Contains(res.HTML, `value="v"`) {
		t.Errorf("deleted row value survived:\n%s", res.HTML)
	}
}

func TestProcessHTML_AllBoxesAndDocuments(t *testing.T) {
	doc := "<!DOCTYPE html><html><body>" + fragment + "</body></html>"
	res, err := ProcessHTML(doc, "", []string{"reset"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(res.Mutations) != 2 {
		t.Fatalf("expected one reset per box, got %d", len(res.Mutations))
	}
	if !strings.HasPrefix(res.HTML, "<!DOCTYPE html>") {
		t.Fatalf("full document should be rendered whole:\n%s", res.HTML)
	}
}

func TestProcessHTML_Errors(t *testing.T) {
	if _, err := ProcessHTML(fragment, "missing", nil); !errors.Is(err, ErrBoxNotFound) {
		t.Fatalf("expected ErrBoxNotFound, got %v", err)
	}
	if _, err := ProcessHTML(fragment, "", []string{"jump"}); !errors.Is(err, wiring.ErrInvalidCommand) {
		t.Fatalf("expected ErrInvalidCommand, got %v", err)
	}

	res, err := ProcessHTML(`<div data-plugin="clonebox"></div>`, "", nil)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !errors.Is(res.Skipped, pkgclonebox.ErrNoRows) {
		t.Fatalf("expected skipped container error, got %v", res.Skipped)
	}
}
