package clonebox

import (
	"fmt"
	"math"
	"strings"

	"github.com/goliatone/go-clonebox/pkg/dom"
)

// DefaultLimit is effectively unbounded: 2^53-1, the largest integer browsers
// represent exactly, capped to math.MaxInt on 32-bit platforms.
const DefaultLimit = min(1<<53-1, math.MaxInt)

// DefaultMarker selects containers that opt into clonebox. A controller never
// reaches into a nested container carrying the marker.
const DefaultMarker = `[data-plugin="clonebox"]`

const (
	DefaultRowSelector    = `[data-clone="row"]`
	DefaultAddSelector    = `[data-clone-btn="add"]`
	DefaultDelSelector    = `[data-clone-btn="del"]`
	DefaultResetSelector  = `[data-clone-btn="reset"]`
	DefaultInvalidClass   = "is-invalid"
	DefaultValidClass     = "is-valid"
	DefaultDisabledClass  = "disabled"
	fieldSelectorSource   = "input, select, textarea, button"
	labelSelectorSource   = "label[for]"
	defaultJournalEntries = 64
)

// Config describes a single clonebox container. It is copied into the
// controller at construction and never mutated afterwards.
type Config struct {
	// Limit caps the number of rows Add may grow the container to.
	Limit int `json:"limit" yaml:"limit"`

	// Row identifies row boundaries below the container.
	Row string `json:"row" yaml:"row"`
	// Add, Del and Reset identify the three control roles.
	Add   string `json:"add" yaml:"add"`
	Del   string `json:"del" yaml:"del"`
	Reset string `json:"reset" yaml:"reset"`

	// Invalid and Valid are the state-marker classes cleared by Sanitize.
	Invalid string `json:"invalid" yaml:"invalid"`
	Valid   string `json:"valid" yaml:"valid"`
	// Disabled is the class toggled on add controls together with the
	// disabled attribute.
	Disabled string `json:"disabled" yaml:"disabled"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Limit:    DefaultLimit,
		Row:      DefaultRowSelector,
		Add:      DefaultAddSelector,
		Del:      DefaultDelSelector,
		Reset:    DefaultResetSelector,
		Invalid:  DefaultInvalidClass,
		Valid:    DefaultValidClass,
		Disabled: DefaultDisabledClass,
	}
}

// Validate checks the limit and that every role selector is present.
func (c Config) Validate() error {
	if c.Limit < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, c.Limit)
	}
	roles := [...]struct{ name, sel string }{
		{"row", c.Row}, {"add", c.Add}, {"del", c.Del}, {"reset", c.Reset},
	}
	for _, role := range roles {
		if strings.TrimSpace(role.sel) == "" {
			return fmt.Errorf("%w: %s", ErrEmptySelector, role.name)
		}
	}
	return nil
}

type selectors struct {
	row   dom.Selector
	add   dom.Selector
	del   dom.Selector
	reset dom.Selector
}

func compileSelectors(cfg Config) (selectors, error) {
	var out selectors
	for _, entry := range []struct {
		role string
		src  string
		dst  *dom.Selector
	}{
		{"row", cfg.Row, &out.row},
		{"add", cfg.Add, &out.add},
		{"del", cfg.Del, &out.del},
		{"reset", cfg.Reset, &out.reset},
	} {
		sel, err := dom.Compile(entry.src)
		if err != nil {
			return selectors{}, fmt.Errorf("clonebox: compile %s selector %q: %w", entry.role, entry.src, err)
		}
		*entry.dst = sel
	}
	return out, nil
}
