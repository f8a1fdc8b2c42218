package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var ErrEmptyTaxonomy = errors.New("taxonomy has no top-level domains")

// Taxonomy is the immutable two-level context hierarchy questions are
// drawn from. Top-level keys are knowledge domains; each domain may
// carry a set of secondary domains. Keys are kept sorted so sampling
// with a seeded RNG is reproducible.
type Taxonomy struct {
	domains  []string
	children map[string][]string
}

// ParseTaxonomy decodes a JSON taxonomy document. Only two levels are
// consumed; anything nested deeper is ignored.
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyTaxonomy
	}

	t := &Taxonomy{children: make(map[string][]string, len(raw))}
	for domain, subs := range raw {
		t.domains = append(t.domains, domain)
		for sub := range subs {
			t.children[domain] = append(t.children[domain], sub)
		}
		sort.Strings(t.children[domain])
	}
	sort.Strings(t.domains)
	return t, nil
}

// NewTaxonomy builds a taxonomy from an in-memory two-level mapping.
func NewTaxonomy(raw map[string][]string) (*Taxonomy, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyTaxonomy
	}
	t := &Taxonomy{children: make(map[string][]string, len(raw))}
	for domain, subs := range raw {
		t.domains = append(t.domains, domain)
		sorted := append([]string(nil), subs...)
		sort.Strings(sorted)
		t.children[domain] = sorted
	}
	sort.Strings(t.domains)
	return t, nil
}

// Domains returns the sorted top-level domain names.
func (t *Taxonomy) Domains() []string {
	return t.domains
}

// Children returns the sorted secondary domains under a top-level
// domain, or nil when there are none.
func (t *Taxonomy) Children(domain string) []string {
	return t.children[domain]
}

func (t *Taxonomy) Len() int {
	return len(t.domains)
}

// DefaultTaxonomy is the built-in context set, derived from
// https://en.wikipedia.org/wiki/Category:Main_topic_classifications.
func DefaultTaxonomy() *Taxonomy {
	names := []string{
		"Academic disciplines",
		"Business",
		"Communication",
		"Concepts",
		"Culture",
		"Economy",
		"Education",
		"Energy",
		"Engineering",
		"Entertainment",
		"Entities",
		"Ethics",
		"Food and drink",
		"Geography",
		"Government",
		"Health",
		"History",
		"Human behavior",
		"Humanities",
		"Information",
		"Internet",
		"Knowledge",
		"Language",
		"Law",
		"Life",
		"Mass media",
		"Mathematics",
		"Military",
		"Nature",
		"People",
		"Philosophy",
		"Politics",
		"Religion",
		"Science",
		"Society",
		"Sports",
		"Technology",
		"Time",
		"Universe",
	}
	raw := make(map[string][]string, len(names))
	for _, n := range names {
		raw[n] = nil
	}
	t, _ := NewTaxonomy(raw)
	return t
}
