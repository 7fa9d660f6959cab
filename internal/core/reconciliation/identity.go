package reconciliation

import (
	"github.com/shopspring/decimal"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// lookup resolves a metric for one evaluation unit.
type lookup func(m statement.Metric) (decimal.Decimal, bool)

type unit struct {
	primary *statement.Payload
	types   []statement.StatementType
	get     lookup
}

// identityUnits pairs each statement with a metric lookup. Rules spanning
// several statement types evaluate once per aligned (cik, fiscal year, fiscal
// period) group, reading each metric from the first listed type that has it.
func identityUnits(r Rule, stmts []*statement.Payload) []unit {
	if len(r.ApplicableStatementTypes) <= 1 {
		out := make([]unit, 0, len(stmts))
		for _, p := range stmts {
			out = append(out, unit{primary: p, types: []statement.StatementType{p.StatementType()}, get: p.CoreMetric})
		}
		return out
	}

	var out []unit
	for _, bucket := range AlignAcrossTypes(stmts) {
		var ordered []*statement.Payload
		var types []statement.StatementType
		for _, t := range r.ApplicableStatementTypes {
			if p, ok := bucket[t]; ok {
				ordered = append(ordered, p)
				types = append(types, t)
			}
		}
		if len(ordered) == 0 {
			continue
		}
		out = append(out, unit{
			primary: ordered[0],
			types:   types,
			get: func(m statement.Metric) (decimal.Decimal, bool) {
				for _, p := range ordered {
					if v, ok := p.CoreMetric(m); ok {
						return v, true
					}
				}
				return decimal.Zero, false
			},
		})
	}
	return out
}

func sum(get lookup, ms []statement.Metric) (decimal.Decimal, []string) {
	total := decimal.Zero
	var missing []string
	for _, m := range ms {
		v, ok := get(m)
		if !ok {
			missing = append(missing, string(m))
			continue
		}
		total = total.Add(v)
	}
	return total, missing
}

func evaluateIdentity(e *Engine, r Rule, stmts []*statement.Payload, _ Input) []Result {
	spec := r.Identity
	var out []Result
	for _, u := range identityUnits(r, stmts) {
		notes := map[string]interface{}{
			"lhs_metrics":     metricNames(spec.LHS),
			"rhs_metrics":     metricNames(spec.RHS),
			"statement_types": typeNames(u.types),
		}
		expected, missingL := sum(u.get, spec.LHS)
		actual, missingR := sum(u.get, spec.RHS)
		if missing := append(missingL, missingR...); len(missing) > 0 {
			notes["reason"] = ReasonMissingMetrics
			notes["missing_metrics"] = missing
			out = append(out, warn(r, u.primary.Identity(), statement.MaterialityLow, notes))
			continue
		}
		out = append(out, e.compare(r, u.primary.Identity(), expected, actual, notes))
	}
	return out
}

func evaluateRollforward(e *Engine, r Rule, stmts []*statement.Payload, _ Input) []Result {
	spec := r.Rollforward
	var out []Result
	for _, p := range stmts {
		if spec.PeriodGranularity != nil && p.FiscalPeriod() != *spec.PeriodGranularity {
			continue
		}
		notes := map[string]interface{}{
			"opening_metric": string(spec.Opening),
			"flow_metrics":   metricNames(spec.Flows),
			"closing_metric": string(spec.Closing),
		}
		opening, hasOpening := p.CoreMetric(spec.Opening)
		closing, hasClosing := p.CoreMetric(spec.Closing)
		flows, missing := sum(p.CoreMetric, spec.Flows)
		if !hasOpening || !hasClosing || len(missing) > 0 {
			notes["reason"] = ReasonMissingRollforward
			notes["has_opening"] = hasOpening
			notes["has_closing"] = hasClosing
			notes["has_flow"] = len(missing) == 0
			if len(missing) > 0 {
				notes["missing_metrics"] = missing
			}
			out = append(out, warn(r, p.Identity(), statement.MaterialityLow, notes))
			continue
		}
		out = append(out, e.compare(r, p.Identity(), closing, opening.Add(flows), notes))
	}
	return out
}
