// Package checklist holds the per-policy-category requirements used to
// evaluate claim readiness. The built-in registry mirrors the product
// checklists; deployments can override it with a YAML file.
package checklist

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed checklists.yaml
var defaultChecklists []byte

// Checklist lists what a complete claim of one policy category must carry.
// Both sequences are ordered; missing-item notifications enumerate them in
// this order.
type Checklist struct {
	Documents []string `yaml:"documents"`
	Fields    []string `yaml:"fields"`
}

// Registry maps policy categories to their checklists.
type Registry struct {
	categories map[string]Checklist
}

// Load builds the registry from the embedded defaults.
func Load() (*Registry, error) {
	return parse(defaultChecklists)
}

// LoadFile builds the registry from a YAML override file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checklist file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Registry, error) {
	var categories map[string]Checklist
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("parse checklists: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("checklist registry is empty")
	}
	return &Registry{categories: categories}, nil
}

// Known reports whether the category has a checklist. Category matching is
// case-insensitive; checklist names are stored lowercase.
func (r *Registry) Known(category string) bool {
	_, ok := r.categories[normalize(category)]
	return ok
}

// RequiredDocuments returns the ordered document tags required for the
// category. Unknown categories return an empty sequence.
func (r *Registry) RequiredDocuments(category string) []string {
	return append([]string(nil), r.categories[normalize(category)].Documents...)
}

// RequiredFields returns the ordered field names required for the category.
// Unknown categories return an empty sequence.
func (r *Registry) RequiredFields(category string) []string {
	return append([]string(nil), r.categories[normalize(category)].Fields...)
}

// Categories returns the known category names.
func (r *Registry) Categories() []string {
	names := make([]string, 0, len(r.categories))
	for name := range r.categories {
		names = append(names, name)
	}
	return names
}

// Get returns the checklist for the category.
func (r *Registry) Get(category string) (Checklist, bool) {
	list, ok := r.categories[normalize(category)]
	return list, ok
}

func normalize(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
