// Package taxonomy maps XBRL concept QNames onto the canonical metric vocabulary
// and checks that a fact's period and unit agree with what the concept declares.
package taxonomy

import (
	"strings"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// Taxonomy is an immutable concept registry keyed by QName.
type Taxonomy struct {
	name     string
	concepts map[string]ConceptMetadata
}

// NewTaxonomy builds a registry from curated concepts. Later duplicates win.
func NewTaxonomy(name string, concepts []ConceptMetadata) *Taxonomy {
	t := &Taxonomy{name: name, concepts: make(map[string]ConceptMetadata, len(concepts))}
	for _, c := range concepts {
		t.concepts[c.QName] = c
	}
	return t
}

// NewGAAPTaxonomy returns the curated US GAAP Tier-1 registry.
func NewGAAPTaxonomy() *Taxonomy {
	return NewTaxonomy("US_GAAP", gaapConcepts)
}

func (t *Taxonomy) Name() string { return t.name }

func (t *Taxonomy) Lookup(qname string) (ConceptMetadata, bool) {
	c, ok := t.concepts[qname]
	return c, ok
}

// ResolveMetric returns the canonical metric for qname, if curated.
func (t *Taxonomy) ResolveMetric(qname string) (statement.Metric, bool) {
	c, ok := t.concepts[qname]
	if !ok {
		return "", false
	}
	return c.Metric, true
}

// ValidateFact checks period-type and unit consistency for curated concepts.
// Unknown concepts are not validated.
func (t *Taxonomy) ValidateFact(fact Fact, ctx Context, unit *Unit) error {
	c, ok := t.concepts[fact.Concept]
	if !ok {
		return nil
	}

	switch c.PeriodType {
	case PeriodInstant:
		if !ctx.IsInstant() {
			return periodMismatch(fact, c, "duration")
		}
	case PeriodDuration:
		if ctx.IsInstant() {
			return periodMismatch(fact, c, "instant")
		}
	}

	if c.UnitSuffix != "" && unit != nil {
		if !strings.HasSuffix(strings.ToLower(unit.Measure), strings.ToLower(c.UnitSuffix)) {
			return statement.NewMappingError(map[string]interface{}{
				"concept":       fact.Concept,
				"fact_id":       fact.ID,
				"unit":          unit.Measure,
				"expected_unit": c.UnitSuffix,
			}, "unit %q does not match concept %s", unit.Measure, fact.Concept)
		}
	}
	return nil
}

func periodMismatch(fact Fact, c ConceptMetadata, got string) error {
	return statement.NewMappingError(map[string]interface{}{
		"concept":         fact.Concept,
		"fact_id":         fact.ID,
		"context_ref":     fact.ContextRef,
		"expected_period": string(c.PeriodType),
		"reported_period": got,
	}, "period type mismatch for concept %s", fact.Concept)
}
