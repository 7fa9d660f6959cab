// Package restatement quantifies how a statement's reported figures changed
// across filing versions.
package restatement

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// MetricDelta is one changed metric. Diff is always New minus Old.
type MetricDelta struct {
	Metric statement.Metric `json:"metric"`
	Old    decimal.Decimal  `json:"old_value"`
	New    decimal.Decimal  `json:"new_value"`
	Diff   decimal.Decimal  `json:"diff"`
}

func newMetricDelta(m statement.Metric, before, after decimal.Decimal) MetricDelta {
	return MetricDelta{Metric: m, Old: before, New: after, Diff: after.Sub(before)}
}

// Delta is a point-in-time comparison of two versions of one statement.
type Delta struct {
	CIK                 string                       `json:"cik"`
	StatementType       statement.StatementType      `json:"statement_type"`
	AccountingStandard  statement.AccountingStandard `json:"accounting_standard"`
	StatementDate       time.Time                    `json:"statement_date"`
	FiscalYear          int                          `json:"fiscal_year"`
	FiscalPeriod        statement.FiscalPeriod       `json:"fiscal_period"`
	Currency            string                       `json:"currency"`
	FromVersionSequence int                          `json:"from_version_sequence"`
	ToVersionSequence   int                          `json:"to_version_sequence"`
	Metrics             []MetricDelta                `json:"metrics"`
}

type fieldDiffs map[string]interface{}

func (d fieldDiffs) add(field string, a, b interface{}) {
	if a != b {
		d[field] = map[string]interface{}{"from": a, "to": b}
	}
}

// periodMismatches lists the statement identity fields, version aside, that
// differ between from and to.
func periodMismatches(from, to *statement.Payload) fieldDiffs {
	out := fieldDiffs{}
	out.add("cik", from.CIK(), to.CIK())
	out.add("statement_type", string(from.StatementType()), string(to.StatementType()))
	out.add("fiscal_year", from.FiscalYear(), to.FiscalYear())
	out.add("fiscal_period", string(from.FiscalPeriod()), string(to.FiscalPeriod()))
	return out
}

// mismatches extends periodMismatches with accounting standard, statement
// date and currency.
func mismatches(from, to *statement.Payload) fieldDiffs {
	out := periodMismatches(from, to)
	out.add("accounting_standard", string(from.AccountingStandard()), string(to.AccountingStandard()))
	out.add("statement_date", from.StatementDate().Format(statement.DateLayout), to.StatementDate().Format(statement.DateLayout))
	out.add("currency", from.Currency(), to.Currency())
	return out
}

// ComputeDelta compares metrics present on both payloads. With metrics nil
// every shared core metric is compared; otherwise only the listed ones that
// both sides carry. Unchanged metrics are left out.
func ComputeDelta(from, to *statement.Payload, metrics []statement.Metric) (*Delta, error) {
	if from == nil || to == nil {
		return nil, statement.NewMappingError(map[string]interface{}{"from": from != nil, "to": to != nil}, "restatement delta requires two payloads")
	}
	if mm := mismatches(from, to); len(mm) > 0 {
		return nil, statement.NewMappingError(map[string]interface{}{"mismatches": map[string]interface{}(mm)}, "restatement delta payloads do not share an identity")
	}

	fromCore, toCore := from.CoreMetrics(), to.CoreMetrics()
	var universe []statement.Metric
	if metrics == nil {
		for m := range fromCore {
			if _, ok := toCore[m]; ok {
				universe = append(universe, m)
			}
		}
	} else {
		seen := make(map[statement.Metric]bool, len(metrics))
		for _, m := range metrics {
			_, inFrom := fromCore[m]
			_, inTo := toCore[m]
			if inFrom && inTo && !seen[m] {
				seen[m] = true
				universe = append(universe, m)
			}
		}
	}
	sort.Slice(universe, func(i, j int) bool { return universe[i] < universe[j] })

	d := &Delta{
		CIK:                 from.CIK(),
		StatementType:       from.StatementType(),
		AccountingStandard:  from.AccountingStandard(),
		StatementDate:       from.StatementDate(),
		FiscalYear:          from.FiscalYear(),
		FiscalPeriod:        from.FiscalPeriod(),
		Currency:            from.Currency(),
		FromVersionSequence: from.SourceVersionSequence(),
		ToVersionSequence:   to.SourceVersionSequence(),
		Metrics:             []MetricDelta{},
	}
	for _, m := range universe {
		if !fromCore[m].Equal(toCore[m]) {
			d.Metrics = append(d.Metrics, newMetricDelta(m, fromCore[m], toCore[m]))
		}
	}
	return d, nil
}
