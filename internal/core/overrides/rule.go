// Package overrides resolves scoped mapping override rules into a final
// remap-or-suppress decision for one XBRL concept.
package overrides

import (
	"strings"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// Scope is the applicability level of an override rule.
type Scope string

const (
	ScopeGlobal   Scope = "GLOBAL"
	ScopeIndustry Scope = "INDUSTRY"
	ScopeCompany  Scope = "COMPANY"
	ScopeAnalyst  Scope = "ANALYST"
)

// Specificity ranks scopes: ANALYST > COMPANY > INDUSTRY > GLOBAL.
func (s Scope) Specificity() int {
	switch s {
	case ScopeAnalyst:
		return 4
	case ScopeCompany:
		return 3
	case ScopeIndustry:
		return 2
	case ScopeGlobal:
		return 1
	}
	return 0
}

func (s Scope) Valid() bool { return s.Specificity() > 0 }

func ParseScope(raw string) (Scope, error) {
	s := Scope(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", statement.NewMappingError(map[string]interface{}{"scope": raw}, "unknown override scope %q", raw)
	}
	return s, nil
}

// Rule is one mapping override rule.
type Rule struct {
	RuleID            string            `json:"rule_id" yaml:"rule_id" validate:"required"`
	Scope             Scope             `json:"scope" yaml:"scope" validate:"required,oneof=GLOBAL INDUSTRY COMPANY ANALYST"`
	SourceConcept     string            `json:"source_concept" yaml:"source_concept" validate:"required"`
	SourceTaxonomy    *string           `json:"source_taxonomy,omitempty" yaml:"source_taxonomy,omitempty" validate:"omitnil,min=1"`
	MatchCIK          *string           `json:"match_cik,omitempty" yaml:"match_cik,omitempty" validate:"omitnil,min=1"`
	MatchIndustryCode *string           `json:"match_industry_code,omitempty" yaml:"match_industry_code,omitempty" validate:"omitnil,min=1"`
	MatchAnalystID    *string           `json:"match_analyst_id,omitempty" yaml:"match_analyst_id,omitempty" validate:"omitnil,min=1"`
	MatchDimensions   map[string]string `json:"match_dimensions,omitempty" yaml:"match_dimensions,omitempty" validate:"omitempty,dive,keys,required,endkeys,required"`
	TargetMetric      *string           `json:"target_metric,omitempty" yaml:"target_metric,omitempty" validate:"omitnil,min=1"`
	IsSuppression     bool              `json:"is_suppression" yaml:"is_suppression"`
	Priority          int               `json:"priority" yaml:"priority" validate:"gte=0"`
}

// Request is the input to one override evaluation.
type Request struct {
	Concept        string
	Taxonomy       *string
	FactDimensions map[string]string
	CIK            *string
	IndustryCode   *string
	AnalystID      *string
	BaseMetric     *statement.Metric
	Rules          []Rule
	Debug          bool
}

// Decision is the effective outcome for one concept.
// FinalMetric is nil when the concept is suppressed or unmapped. A target that
// is not a canonical metric is carried in FinalTarget only.
type Decision struct {
	BaseMetric    *statement.Metric `json:"base_metric,omitempty"`
	FinalMetric   *statement.Metric `json:"final_metric,omitempty"`
	FinalTarget   *string           `json:"final_target,omitempty"`
	AppliedScope  *Scope            `json:"applied_scope,omitempty"`
	AppliedRuleID *string           `json:"applied_rule_id,omitempty"`
	WasOverridden bool              `json:"was_overridden"`
	Suppressed    bool              `json:"suppressed"`
}

// Trace reasons.
const (
	ReasonConceptMismatch   = "concept_mismatch"
	ReasonTaxonomyMismatch  = "taxonomy_mismatch"
	ReasonGlobalQualified   = "global_rule_has_entity_qualifiers"
	ReasonIndustryMismatch  = "industry_mismatch"
	ReasonCIKMismatch       = "cik_mismatch"
	ReasonAnalystMismatch   = "analyst_mismatch"
	ReasonDimensionMismatch = "dimension_mismatch"
	ReasonUnknownScope      = "unknown_scope"
	ReasonWinner            = "winner"
	ReasonOutranked         = "outranked"
)

// TraceEntry records why one rule did or did not apply.
type TraceEntry struct {
	RuleID   string `json:"rule_id"`
	Scope    Scope  `json:"scope"`
	Priority int    `json:"priority"`
	Matched  bool   `json:"matched"`
	Reason   string `json:"reason"`
}

// Trace is the debug record of an evaluation.
type Trace struct {
	Concept        string            `json:"concept"`
	Taxonomy       *string           `json:"taxonomy,omitempty"`
	FactDimensions map[string]string `json:"fact_dimensions,omitempty"`
	CIK            *string           `json:"cik,omitempty"`
	IndustryCode   *string           `json:"industry_code,omitempty"`
	AnalystID      *string           `json:"analyst_id,omitempty"`
	BaseMetric     *statement.Metric `json:"base_metric,omitempty"`
	Decision       Decision          `json:"decision"`
	Considered     []TraceEntry      `json:"considered_rules"`
}

func strPtr(s string) *string { return &s }
