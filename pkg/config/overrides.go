// Package config resolves clonebox configuration from built-in defaults,
// override documents (JSON or YAML) and data-* attributes on the container.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/dom"
)

// ErrInvalidLimit is returned when a limit override is not a positive integer.
var ErrInvalidLimit = errors.New("config: limit must be a positive integer")

// Overrides is a partial configuration. Empty strings and a nil Limit leave
// the underlying value untouched.
type Overrides struct {
	Limit    *int   `json:"limit,omitempty" yaml:"limit,omitempty"`
	Row      string `json:"row,omitempty" yaml:"row,omitempty"`
	Add      string `json:"add,omitempty" yaml:"add,omitempty"`
	Del      string `json:"del,omitempty" yaml:"del,omitempty"`
	Reset    string `json:"reset,omitempty" yaml:"reset,omitempty"`
	Invalid  string `json:"invalid,omitempty" yaml:"invalid,omitempty"`
	Valid    string `json:"valid,omitempty" yaml:"valid,omitempty"`
	Disabled string `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Limit is a convenience constructor for Overrides.Limit.
func Limit(n int) *int {
	return &n
}

// Empty reports whether o overrides nothing.
func (o Overrides) Empty() bool {
	return o == Overrides{}
}

// Apply returns base with o layered on top.
func (o Overrides) Apply(base clonebox.Config) clonebox.Config {
	if o.Limit != nil {
		base.Limit = *o.Limit
	}
	setString(&base.Row, o.Row)
	setString(&base.Add, o.Add)
	setString(&base.Del, o.Del)
	setString(&base.Reset, o.Reset)
	setString(&base.Invalid, o.Invalid)
	setString(&base.Valid, o.Valid)
	setString(&base.Disabled, o.Disabled)
	return base
}

// Resolve applies overrides left to right over clonebox.DefaultConfig and
// validates the result.
func Resolve(overrides ...Overrides) (clonebox.Config, error) {
	cfg := clonebox.DefaultConfig()
	for _, o := range overrides {
		cfg = o.Apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return clonebox.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

var attributeKeys = map[string]func(*Overrides, string){
	"data-row":      func(o *Overrides, v string) { o.Row = v },
	"data-add":      func(o *Overrides, v string) { o.Add = v },
	"data-del":      func(o *Overrides, v string) { o.Del = v },
	"data-reset":    func(o *Overrides, v string) { o.Reset = v },
	"data-invalid":  func(o *Overrides, v string) { o.Invalid = v },
	"data-valid":    func(o *Overrides, v string) { o.Valid = v },
	"data-disabled": func(o *Overrides, v string) { o.Disabled = v },
}

// FromAttributes reads the recognised data-* attributes of a container.
// Unknown data attributes are ignored.
func FromAttributes(n *html.Node) (Overrides, error) {
	var o Overrides
	if n == nil {
		return o, nil
	}
	if raw, ok := dom.Attr(n, "data-limit"); ok {
		limit, err := ParseLimit(raw)
		if err != nil {
			return Overrides{}, err
		}
		o.Limit = &limit
	}
	for key, set := range attributeKeys {
		if value, ok := dom.Attr(n, key); ok {
			set(&o, strings.TrimSpace(value))
		}
	}
	return o, nil
}

// ParseLimit parses a positive integer limit.
func ParseLimit(raw string) (int, error) {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || limit < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLimit, raw)
	}
	return limit, nil
}

func setString(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}
