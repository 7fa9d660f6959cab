package reconciliation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

func evaluateSegment(e *Engine, r Rule, stmts []*statement.Payload, in Input) []Result {
	spec := r.Segment
	var out []Result
	for _, p := range stmts {
		id := p.Identity()
		var parents, children []statement.NormalizedFact
		for _, f := range in.Facts[id] {
			_, hasKey := f.Dimensions[spec.RollupDimension]
			switch {
			case f.MetricCode == string(spec.ParentMetric) && !hasKey:
				parents = append(parents, f)
			case f.MetricCode == string(spec.ChildMetric) && hasKey:
				children = append(children, f)
			}
		}

		notes := map[string]interface{}{
			"rollup_dimension_key": spec.RollupDimension,
			"parent_metric":        string(spec.ParentMetric),
			"child_metric":         string(spec.ChildMetric),
		}
		if len(parents) == 0 || len(children) == 0 {
			notes["reason"] = ReasonSegmentMissing
			notes["parent_count"] = len(parents)
			notes["child_count"] = len(children)
			out = append(out, warn(r, id, statement.MaterialityLow, notes))
			continue
		}

		sort.SliceStable(parents, func(i, j int) bool { return parents[i].DimensionKey < parents[j].DimensionKey })
		parent := parents[len(parents)-1]
		childSum := decimal.Zero
		for _, c := range children {
			childSum = childSum.Add(c.Value)
		}
		notes["parent_fact_dimension_key"] = parent.DimensionKey
		notes["child_fact_count"] = len(children)

		// Statement-level result: the rollup dimension is carried in notes.
		out = append(out, e.compare(r, id, parent.Value, childSum, notes))
	}
	return out
}

func evaluateFX(e *Engine, r Rule, stmts []*statement.Payload, _ Input) []Result {
	spec := r.FX
	out := make([]Result, 0, len(stmts))
	for _, p := range stmts {
		notes := map[string]interface{}{
			"reason":             ReasonFXStub,
			"base_metric":        string(spec.BaseMetric),
			"local_currency":     spec.LocalCurrency,
			"reporting_currency": spec.ReportingCurrency,
			"tolerance_bps":      e.cfg.FXToleranceBps,
		}
		if spec.FXRateMetric != nil {
			notes["fx_rate_metric"] = string(*spec.FXRateMetric)
		}
		out = append(out, warn(r, p.Identity(), statement.MaterialityLow, notes))
	}
	return out
}
