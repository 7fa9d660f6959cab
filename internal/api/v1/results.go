package v1

import (
	"github.com/shopspring/decimal"

	"github.com/aevon-lab/ledgerline/internal/core/reconciliation"
)

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

// NewResultItems converts engine results to their wire form. Decimals are
// rendered as strings so no precision is lost in JSON.
func NewResultItems(results []reconciliation.Result) []ReconciliationResultItem {
	out := make([]ReconciliationResultItem, 0, len(results))
	for _, r := range results {
		out = append(out, ReconciliationResultItem{
			Identity:        r.Identity,
			RuleID:          r.RuleID,
			Category:        string(r.Category),
			Status:          string(r.Status),
			Severity:        r.Severity,
			ExpectedValue:   decimalString(r.ExpectedValue),
			ActualValue:     decimalString(r.ActualValue),
			Delta:           decimalString(r.Delta),
			DimensionKey:    r.DimensionKey,
			DimensionLabels: r.DimensionLabels,
			Notes:           r.Notes,
		})
	}
	return out
}

// NewRunResponse converts a reconciliation run to its wire form.
func NewRunResponse(ruleSetID string, statementCount int, run reconciliation.Run) ReconciliationRunResponse {
	counts := make(map[string]int, 3)
	for status, n := range run.Counts() {
		counts[string(status)] = n
	}
	return ReconciliationRunResponse{
		RunID:          run.RunID,
		RuleSetID:      ruleSetID,
		RuleSetVersion: run.RuleSetVersion,
		ExecutedAt:     run.ExecutedAt,
		StatementCount: statementCount,
		Counts:         counts,
		Results:        NewResultItems(run.Results),
	}
}

// RuleSetSummary describes one reconciliation rule set without its rules.
type RuleSetSummary struct {
	ID           string         `json:"rule_set_id"`
	Version      string         `json:"version"`
	Fingerprint  string         `json:"fingerprint,omitempty"`
	Default      bool           `json:"default"`
	RuleCount    int            `json:"rule_count"`
	EnabledCount int            `json:"enabled_count"`
	Categories   map[string]int `json:"categories"`
}

func NewRuleSetSummary(rs reconciliation.RuleSet, isDefault bool) RuleSetSummary {
	out := RuleSetSummary{
		ID:          rs.ID,
		Version:     rs.Version,
		Fingerprint: rs.Fingerprint,
		Default:     isDefault,
		RuleCount:   len(rs.Rules),
		Categories:  make(map[string]int),
	}
	for _, r := range rs.Rules {
		if r.Enabled {
			out.EnabledCount++
		}
		out.Categories[string(r.Category)]++
	}
	return out
}

// RuleSetsResponse is returned by GET /v1/reconciliation/rule-sets.
type RuleSetsResponse struct {
	Count    int              `json:"count"`
	RuleSets []RuleSetSummary `json:"rule_sets"`
}
