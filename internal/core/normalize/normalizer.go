// Package normalize turns a raw XBRL fact stream into a canonical statement payload.
package normalize

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aevon-lab/ledgerline/internal/core/overrides"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
	"github.com/aevon-lab/ledgerline/internal/core/taxonomy"
)

// PayloadVersion is stamped onto every result.
const PayloadVersion = "v1"

// Request is everything one normalization run consumes.
type Request struct {
	CIK                 string
	StatementType       statement.StatementType
	AccountingStandard  statement.AccountingStandard
	StatementDate       time.Time
	FiscalYear          int
	FiscalPeriod        statement.FiscalPeriod
	Currency            string
	AccessionID         string
	Taxonomy            string
	VersionSequence     int
	Facts               []taxonomy.Fact
	Contexts            map[string]taxonomy.Context
	Units               map[string]taxonomy.Unit
	IndustryCode        *string
	AnalystProfileID    *string
	OverrideRules       []overrides.Rule
	EnableOverrideTrace bool
}

// Confidence grades how a metric was resolved.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
)

// MetricRecord is the resolved value of one canonical metric plus provenance.
type MetricRecord struct {
	Metric        statement.Metric `json:"metric"`
	Value         decimal.Decimal  `json:"value"`
	Unit          string           `json:"unit"`
	Confidence    Confidence       `json:"confidence"`
	SourceFactIDs []string         `json:"source_fact_ids"`
}

// ConceptDecision is the override outcome for one processed fact.
type ConceptDecision struct {
	FactID   string             `json:"fact_id"`
	Concept  string             `json:"concept"`
	Decision overrides.Decision `json:"decision"`
}

// OverrideSummary aggregates override activity for one run.
type OverrideSummary struct {
	SuppressionCount int                `json:"suppression_count"`
	RemapCount       int                `json:"remap_count"`
	Decisions        []ConceptDecision  `json:"decisions,omitempty"`
	Traces           []*overrides.Trace `json:"traces,omitempty"`
}

// Result is the outcome of one normalization run.
type Result struct {
	Payload        *statement.Payload                `json:"payload"`
	PayloadVersion string                            `json:"payload_version"`
	MetricRecords  map[statement.Metric]MetricRecord `json:"metric_records"`
	Warnings       []string                          `json:"warnings"`
	Overrides      OverrideSummary                   `json:"overrides"`
}

// Normalizer is stateless apart from its taxonomy and override engine.
type Normalizer struct {
	taxonomy *taxonomy.Taxonomy
	engine   *overrides.Engine
}

func NewNormalizer(tax *taxonomy.Taxonomy, engine *overrides.Engine) *Normalizer {
	if tax == nil {
		panic("taxonomy must not be nil")
	}
	if engine == nil {
		engine = overrides.NewEngine()
	}
	return &Normalizer{taxonomy: tax, engine: engine}
}

// Normalize maps req's facts onto a payload. Facts are processed in
// (concept, context ref, fact id) order and the last fact resolving to a
// metric wins. Unusable facts are skipped with a warning.
func (n *Normalizer) Normalize(req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	facts := make([]taxonomy.Fact, len(req.Facts))
	copy(facts, req.Facts)
	sort.SliceStable(facts, func(i, j int) bool {
		if facts[i].Concept != facts[j].Concept {
			return facts[i].Concept < facts[j].Concept
		}
		if facts[i].ContextRef != facts[j].ContextRef {
			return facts[i].ContextRef < facts[j].ContextRef
		}
		return facts[i].ID < facts[j].ID
	})

	var (
		core     = make(map[statement.Metric]decimal.Decimal)
		extra    = make(map[string]decimal.Decimal)
		records  = make(map[statement.Metric]MetricRecord)
		warnings []string
		summary  OverrideSummary
	)
	taxName := req.Taxonomy

	for _, fact := range facts {
		xctx, ok := req.Contexts[fact.ContextRef]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("fact %s (%s) skipped: unknown context %q", fact.ID, fact.Concept, fact.ContextRef))
			continue
		}

		var unit *taxonomy.Unit
		if fact.UnitRef != nil {
			u, ok := req.Units[*fact.UnitRef]
			if !ok {
				warnings = append(warnings, fmt.Sprintf("fact %s (%s) skipped: unknown unit %q", fact.ID, fact.Concept, *fact.UnitRef))
				continue
			}
			unit = &u
		}

		if err := n.taxonomy.ValidateFact(fact, xctx, unit); err != nil {
			warnings = append(warnings, fmt.Sprintf("fact %s skipped: %v", fact.ID, err))
			continue
		}

		value, err := parseValue(fact.Value, fact.Decimals)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("fact %s (%s) skipped: %v", fact.ID, fact.Concept, err))
			continue
		}

		var base *statement.Metric
		if m, ok := n.taxonomy.ResolveMetric(fact.Concept); ok {
			base = &m
		}

		decision := overrides.Decision{BaseMetric: base, FinalMetric: base}
		if len(req.OverrideRules) > 0 {
			var trace *overrides.Trace
			decision, trace = n.engine.Apply(overrides.Request{
				Concept:        fact.Concept,
				Taxonomy:       &taxName,
				FactDimensions: xctx.Dimensions,
				CIK:            &req.CIK,
				IndustryCode:   req.IndustryCode,
				AnalystID:      req.AnalystProfileID,
				BaseMetric:     base,
				Rules:          req.OverrideRules,
				Debug:          req.EnableOverrideTrace,
			})
			if trace != nil {
				summary.Traces = append(summary.Traces, trace)
			}
			if decision.AppliedRuleID != nil {
				summary.Decisions = append(summary.Decisions, ConceptDecision{FactID: fact.ID, Concept: fact.Concept, Decision: decision})
				if decision.Suppressed {
					summary.SuppressionCount++
				} else if decision.WasOverridden {
					summary.RemapCount++
				}
			}
		}

		if decision.Suppressed {
			continue
		}

		if decision.FinalMetric != nil {
			metric := *decision.FinalMetric
			if prev, dup := records[metric]; dup {
				warnings = append(warnings, fmt.Sprintf("metric %s from fact %s replaced by fact %s", metric, strings.Join(prev.SourceFactIDs, ","), fact.ID))
			}
			core[metric] = value
			records[metric] = MetricRecord{
				Metric:        metric,
				Value:         value,
				Unit:          recordUnit(unit, req.Currency),
				Confidence:    confidenceOf(decision),
				SourceFactIDs: []string{fact.ID},
			}
			continue
		}

		key := fact.Concept
		if decision.FinalTarget != nil && *decision.FinalTarget != "" {
			key = *decision.FinalTarget
		}
		extra[key] = value
	}

	payload, err := statement.NewPayload(statement.PayloadParams{
		CIK:                   req.CIK,
		StatementType:         req.StatementType,
		AccountingStandard:    req.AccountingStandard,
		StatementDate:         req.StatementDate,
		FiscalYear:            req.FiscalYear,
		FiscalPeriod:          req.FiscalPeriod,
		Currency:              req.Currency,
		UnitMultiplier:        0,
		CoreMetrics:           core,
		ExtraMetrics:          extra,
		Dimensions:            map[string]string{"consolidation": "CONSOLIDATED"},
		SourceAccessionID:     req.AccessionID,
		SourceTaxonomy:        req.Taxonomy,
		SourceVersionSequence: req.VersionSequence,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Payload:        payload,
		PayloadVersion: PayloadVersion,
		MetricRecords:  records,
		Warnings:       warnings,
		Overrides:      summary,
	}, nil
}

func validateRequest(req Request) error {
	fail := func(field string, value interface{}, msg string) error {
		return statement.NewMappingError(map[string]interface{}{"field": field, "value": value}, "invalid normalization request: %s", msg)
	}
	switch {
	case strings.TrimSpace(req.CIK) == "":
		return fail("cik", req.CIK, "cik must be non-empty")
	case strings.TrimSpace(req.Currency) == "":
		return fail("currency", req.Currency, "currency must be a non-empty ISO code")
	case req.FiscalYear <= 0:
		return fail("fiscal_year", req.FiscalYear, fmt.Sprintf("fiscal_year must be positive; got %d", req.FiscalYear))
	case strings.TrimSpace(req.Taxonomy) == "":
		return fail("taxonomy", req.Taxonomy, "taxonomy must be non-empty")
	case req.VersionSequence <= 0:
		return fail("version_sequence", req.VersionSequence, fmt.Sprintf("version_sequence must be positive; got %d", req.VersionSequence))
	case !req.StatementType.Valid():
		return fail("statement_type", string(req.StatementType), "unknown statement_type")
	case !req.AccountingStandard.Valid():
		return fail("accounting_standard", string(req.AccountingStandard), "unknown accounting_standard")
	case !req.FiscalPeriod.Valid():
		return fail("fiscal_period", string(req.FiscalPeriod), "unknown fiscal_period")
	}
	return nil
}

func recordUnit(unit *taxonomy.Unit, currency string) string {
	if unit == nil {
		return canonicalUnitPart(currency)
	}
	return CanonicalUnit(unit.Measure)
}

func confidenceOf(d overrides.Decision) Confidence {
	if d.WasOverridden {
		return ConfidenceMedium
	}
	return ConfidenceHigh
}
