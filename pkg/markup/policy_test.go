package markup_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-clonebox/pkg/markup"
)

func TestSanitize_KeepsFormMarkup(t *testing.T) {
	raw := `<div id="box" data-plugin="clonebox" data-limit="3">
  <div data-clone="row" class="row">
    <label for="item-0">Item</label>
    <input type="text" id="item-0" name="item[0]" value="x" onclick="steal()">
    <button type="button" data-clone-btn="add">+</button>
  </div>
  <script>alert(1)</script>
</div>`

	out := markup.Sanitize(raw)

	for _, want := range []string{
		`data-plugin="clonebox"`,
		`data-limit="3"`,
		`data-clone="row"`,
		`for="item-0"`,
		`name="item[0]"`,
		`data-clone-btn="add"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s to survive sanitising:\n%s", want, out)
		}
	}
	for _, banned := range []string{"<script", "onclick", "alert(1)"} {
		if strings.Contains(out, banned) {
			t.Errorf("expected %s to be stripped:\n%s", banned, out)
		}
	}
}

func TestSanitize_Empty(t *testing.T) {
	if got := markup.Sanitize("   "); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if markup.Policy() != markup.Policy() {
		t.Fatalf("policy should be shared")
	}
}
