package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is an override document. Defaults apply to every container; Boxes
// entries apply to the container whose id attribute matches the key.
type File struct {
	Defaults Overrides            `json:"defaults" yaml:"defaults"`
	Boxes    map[string]Overrides `json:"boxes" yaml:"boxes"`
}

// For returns the overrides for a container id: defaults first, then the box
// entry.
func (f *File) For(id string) []Overrides {
	if f == nil {
		return nil
	}
	out := []Overrides{f.Defaults}
	if box, ok := f.Boxes[strings.TrimSpace(id)]; ok {
		out = append(out, box)
	}
	return out
}

// LoadFile reads an override document from disk.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads an override document from fsys.
func LoadFS(fsys fs.FS, path string) (*File, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes JSON or YAML. source is only used in error messages.
func Parse(data []byte, source string) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("config: file %s is empty", source)
	}

	var doc File
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = File{}
		if yamlErr := yaml.Unmarshal(data, &doc); yamlErr != nil {
			return nil, fmt.Errorf("config: parse %s: %w", source, yamlErr)
		}
	}

	if err := validateOverrides(doc.Defaults, source, "defaults"); err != nil {
		return nil, err
	}
	for id, box := range doc.Boxes {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("config: file %s defines a box with an empty id", source)
		}
		if err := validateOverrides(box, source, "boxes."+id); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

func validateOverrides(o Overrides, source, path string) error {
	if o.Limit != nil && *o.Limit < 1 {
		return fmt.Errorf("config: %s %s: %w: %d", source, path, ErrInvalidLimit, *o.Limit)
	}
	return nil
}
