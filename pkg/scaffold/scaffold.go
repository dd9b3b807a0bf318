// Package scaffold renders a ready-to-use clonebox container from a small
// field definition, indexed and with its add controls in the right state.
package scaffold

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/dom"
)

var (
	// ErrNoFields is returned for a definition without fields.
	ErrNoFields = errors.New("scaffold: definition has no fields")
	// ErrRowsOverLimit is returned when the initial row count exceeds the limit.
	ErrRowsOverLimit = errors.New("scaffold: rows exceed limit")

	baseNamePattern = regexp.MustCompile(`^[-_a-zA-Z]+$`)
	containerMarker = dom.MustCompile(`[data-plugin="clonebox"]`)
)

// Definition describes a container to scaffold.
type Definition struct {
	ID     string  `json:"id" yaml:"id"`
	Legend string  `json:"legend" yaml:"legend"`
	Limit  int     `json:"limit" yaml:"limit"`
	Rows   int     `json:"rows" yaml:"rows"`
	Fields []Field `json:"fields" yaml:"fields"`

	AddLabel   string `json:"addLabel" yaml:"addLabel"`
	DelLabel   string `json:"delLabel" yaml:"delLabel"`
	ResetLabel string `json:"resetLabel" yaml:"resetLabel"`
}

// Field is one repeated field. Name is the base identifier; the index suffix
// is added per row.
type Field struct {
	Name        string   `json:"name" yaml:"name"`
	Label       string   `json:"label" yaml:"label"`
	Type        string   `json:"type" yaml:"type"`
	Placeholder string   `json:"placeholder" yaml:"placeholder"`
	Value       string   `json:"value" yaml:"value"`
	Options     []Option `json:"options" yaml:"options"`
}

// Option is a select option.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// LoadDefinition reads a JSON or YAML definition file.
func LoadDefinition(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("scaffold: read %s: %w", path, err)
	}
	return ParseDefinition(data, path)
}

// ParseDefinition decodes a JSON or YAML definition.
func ParseDefinition(data []byte, source string) (Definition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Definition{}, fmt.Errorf("scaffold: file %s is empty", source)
	}
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		def = Definition{}
		if yamlErr := yaml.Unmarshal(data, &def); yamlErr != nil {
			return Definition{}, fmt.Errorf("scaffold: parse %s: %w", source, yamlErr)
		}
	}
	return def, nil
}

// Validate checks the definition and fills in defaults.
func (d *Definition) Validate() error {
	if len(d.Fields) == 0 {
		return ErrNoFields
	}
	if d.Rows < 1 {
		d.Rows = 1
	}
	if d.Limit < 0 {
		return fmt.Errorf("scaffold: %w: %d", clonebox.ErrInvalidLimit, d.Limit)
	}
	if d.Limit > 0 && d.Rows > d.Limit {
		return fmt.Errorf("%w: %d rows, limit %d", ErrRowsOverLimit, d.Rows, d.Limit)
	}
	seen := make(map[string]struct{}, len(d.Fields))
	for i := range d.Fields {
		f := &d.Fields[i]
		f.Name = strings.TrimSpace(f.Name)
		if !baseNamePattern.MatchString(f.Name) {
			return fmt.Errorf("scaffold: field %d: name %q must only contain letters, '-' or '_'", i, f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("scaffold: duplicate field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Type == "" {
			f.Type = "text"
		}
		f.Type = strings.ToLower(f.Type)
		if f.Label == "" {
			f.Label = f.Name
		}
		if f.Type == "select" && len(f.Options) == 0 {
			return fmt.Errorf("scaffold: select field %q has no options", f.Name)
		}
	}
	if d.AddLabel == "" {
		d.AddLabel = "+"
	}
	if d.DelLabel == "" {
		d.DelLabel = "-"
	}
	if d.ResetLabel == "" {
		d.ResetLabel = "Reset"
	}
	return nil
}

// Scaffolder renders definitions.
type Scaffolder struct {
	engine *Engine
	opts   []clonebox.Option
}

// New builds a Scaffolder. A nil engine uses the embedded templates.
func New(engine *Engine, opts ...clonebox.Option) (*Scaffolder, error) {
	if engine == nil {
		var err error
		engine, err = NewEngine()
		if err != nil {
			return nil, err
		}
	}
	return &Scaffolder{engine: engine, opts: opts}, nil
}

// Render produces the container markup. The rendered container is run
// through a controller so identifiers and add control state are final.
func (s *Scaffolder) Render(def Definition) (string, error) {
	if err := def.Validate(); err != nil {
		return "", err
	}

	raw, err := s.engine.RenderTemplate("container", buildView(def))
	if err != nil {
		return "", err
	}

	doc, err := dom.ParseString(raw)
	if err != nil {
		return "", fmt.Errorf("scaffold: parse rendered markup: %w", err)
	}
	container := containerMarker.First(doc)
	if container == nil {
		return "", errors.New("scaffold: template did not produce a clonebox container")
	}

	cfg := clonebox.DefaultConfig()
	if def.Limit > 0 {
		cfg.Limit = def.Limit
	}
	if _, err := clonebox.New(container, cfg, s.opts...); err != nil {
		return "", fmt.Errorf("scaffold: initialise container: %w", err)
	}
	return dom.Render(container)
}

type boxView struct {
	ID         string `json:"id"`
	Legend     string `json:"legend"`
	Limit      string `json:"limit"`
	AddLabel   string `json:"add_label"`
	DelLabel   string `json:"del_label"`
	ResetLabel string `json:"reset_label"`
}

type fieldView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Kind        string   `json:"kind"`
	Placeholder string   `json:"placeholder"`
	Value       string   `json:"value"`
	Options     []Option `json:"options"`
}

type rowView struct {
	Fields []fieldView `json:"fields"`
}

func buildView(def Definition) map[string]any {
	box := boxView{
		ID:         def.ID,
		Legend:     def.Legend,
		AddLabel:   def.AddLabel,
		DelLabel:   def.DelLabel,
		ResetLabel: def.ResetLabel,
	}
	if def.Limit > 0 {
		box.Limit = strconv.Itoa(def.Limit)
	}

	rows := make([]rowView, 0, def.Rows)
	for i := 0; i < def.Rows; i++ {
		suffix := strconv.Itoa(i)
		row := rowView{Fields: make([]fieldView, 0, len(def.Fields))}
		for _, f := range def.Fields {
			view := fieldView{
				ID:          f.Name + "-" + suffix,
				Name:        f.Name + "[" + suffix + "]",
				Label:       f.Label,
				Type:        f.Type,
				Kind:        fieldKind(f.Type),
				Placeholder: f.Placeholder,
				Value:       f.Value,
				Options:     f.Options,
			}
			if view.Kind == "toggle" && view.Value == "" {
				view.Value = "1"
			}
			row.Fields = append(row.Fields, view)
		}
		rows = append(rows, row)
	}
	return map[string]any{"box": box, "rows": rows}
}

func fieldKind(fieldType string) string {
	switch fieldType {
	case "textarea", "select":
		return fieldType
	case "checkbox", "radio":
		return "toggle"
	default:
		return "input"
	}
}
