package domain

import (
	"errors"
	"testing"
)

func TestParseTaxonomy(t *testing.T) {
	data := []byte(`{
		"Science": {"Physics": {"Quantum mechanics": {}}, "Biology": {}},
		"Sports": {}
	}`)

	tax, err := ParseTaxonomy(data)
	if err != nil {
		t.Fatalf("ParseTaxonomy: %v", err)
	}

	domains := tax.Domains()
	if len(domains) != 2 || domains[0] != "Science" || domains[1] != "Sports" {
		t.Fatalf("unexpected domains: %v", domains)
	}

	children := tax.Children("Science")
	if len(children) != 2 || children[0] != "Biology" || children[1] != "Physics" {
		t.Fatalf("unexpected children: %v", children)
	}
	// Third-level nesting is consumed as raw JSON and ignored.
	if got := tax.Children("Sports"); len(got) != 0 {
		t.Fatalf("expected no children for Sports, got %v", got)
	}
}

func TestParseTaxonomyEmpty(t *testing.T) {
	_, err := ParseTaxonomy([]byte(`{}`))
	if !errors.Is(err, ErrEmptyTaxonomy) {
		t.Fatalf("expected ErrEmptyTaxonomy, got %v", err)
	}
}

func TestParseTaxonomyMalformed(t *testing.T) {
	if _, err := ParseTaxonomy([]byte(`["not", "a", "mapping"]`)); err == nil {
		t.Fatal("expected error for malformed taxonomy")
	}
}

func TestDefaultTaxonomySorted(t *testing.T) {
	tax := DefaultTaxonomy()
	domains := tax.Domains()
	if len(domains) == 0 {
		t.Fatal("default taxonomy is empty")
	}
	for i := 1; i < len(domains); i++ {
		if domains[i-1] >= domains[i] {
			t.Fatalf("domains not sorted at %d: %q >= %q", i, domains[i-1], domains[i])
		}
	}
}
