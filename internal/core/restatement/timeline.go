package restatement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// MaterialityProfile maps an absolute delta to a materiality class.
type MaterialityProfile struct {
	LowUpperBound    decimal.Decimal `koanf:"-"`
	MediumUpperBound decimal.Decimal `koanf:"-"`
}

func DefaultMaterialityProfile() MaterialityProfile {
	return MaterialityProfile{
		LowUpperBound:    decimal.NewFromInt(1_000_000),
		MediumUpperBound: decimal.NewFromInt(10_000_000),
	}
}

// Validate requires 0 < low <= medium.
func (p MaterialityProfile) Validate() error {
	if !p.LowUpperBound.IsPositive() || p.MediumUpperBound.LessThan(p.LowUpperBound) {
		return fmt.Errorf("invalid materiality profile low=%s medium=%s (need 0 < low <= medium)", p.LowUpperBound, p.MediumUpperBound)
	}
	return nil
}

// Classify returns NONE for zero, LOW below the low bound, MEDIUM below the
// medium bound and HIGH otherwise.
func (p MaterialityProfile) Classify(abs decimal.Decimal) statement.MaterialityClass {
	switch {
	case !abs.IsPositive():
		return statement.MaterialityNone
	case abs.LessThan(p.LowUpperBound):
		return statement.MaterialityLow
	case abs.LessThan(p.MediumUpperBound):
		return statement.MaterialityMedium
	default:
		return statement.MaterialityHigh
	}
}

// HopDelta is the absolute change of one metric on one hop.
type HopDelta struct {
	HopIndex int             `json:"hop_index"`
	AbsDelta decimal.Decimal `json:"abs_delta"`
}

// Timeline is the per-metric history of a restatement ledger.
type Timeline struct {
	CIK                  string                     `json:"cik"`
	StatementType        statement.StatementType    `json:"statement_type"`
	FiscalYear           int                        `json:"fiscal_year"`
	FiscalPeriod         statement.FiscalPeriod     `json:"fiscal_period"`
	TotalHops            int                        `json:"total_hops"`
	ByMetric             map[string][]HopDelta      `json:"by_metric"`
	RestatementFrequency map[string]int             `json:"restatement_frequency"`
	PerMetricMaxDelta    map[string]decimal.Decimal `json:"per_metric_max_delta"`
	Severity             statement.MaterialityClass `json:"timeline_severity"`
}

// BuildTimeline walks hops in order. Hop indexes start at 1.
func BuildTimeline(ledger []LedgerHop, profile MaterialityProfile) (*Timeline, error) {
	if len(ledger) == 0 {
		return nil, statement.NewIngestionError(map[string]interface{}{"hops": 0}, "restatement timeline requires a non-empty ledger")
	}
	first := ledger[0]
	tl := &Timeline{
		CIK:                  first.CIK,
		StatementType:        first.StatementType,
		FiscalYear:           first.FiscalYear,
		FiscalPeriod:         first.FiscalPeriod,
		TotalHops:            len(ledger),
		ByMetric:             make(map[string][]HopDelta),
		RestatementFrequency: make(map[string]int),
		PerMetricMaxDelta:    make(map[string]decimal.Decimal),
	}

	globalMax := decimal.Zero
	for i, hop := range ledger {
		for _, md := range hop.Metrics {
			code := string(md.Metric)
			abs := md.Diff.Abs()
			tl.ByMetric[code] = append(tl.ByMetric[code], HopDelta{HopIndex: i + 1, AbsDelta: abs})
			if !abs.IsZero() {
				tl.RestatementFrequency[code]++
			}
			if cur, ok := tl.PerMetricMaxDelta[code]; !ok || abs.GreaterThan(cur) {
				tl.PerMetricMaxDelta[code] = abs
			}
			if abs.GreaterThan(globalMax) {
				globalMax = abs
			}
		}
	}
	tl.Severity = profile.Classify(globalMax)
	return tl, nil
}

// Validate checks the structural invariants of a timeline.
func (t *Timeline) Validate() error {
	if t.TotalHops <= 0 {
		return statement.NewMappingError(map[string]interface{}{"total_hops": t.TotalHops}, "timeline must have at least one hop")
	}
	for code, deltas := range t.ByMetric {
		if _, ok := t.PerMetricMaxDelta[code]; !ok {
			return statement.NewMappingError(map[string]interface{}{"metric": code}, "metric %s has hops but no maximum delta", code)
		}
		for _, hd := range deltas {
			if hd.HopIndex < 1 || hd.HopIndex > t.TotalHops {
				return statement.NewMappingError(map[string]interface{}{"metric": code, "hop_index": hd.HopIndex}, "hop_index %d outside [1, %d]", hd.HopIndex, t.TotalHops)
			}
			if hd.AbsDelta.IsNegative() {
				return statement.NewMappingError(map[string]interface{}{"metric": code, "abs_delta": hd.AbsDelta.String()}, "abs_delta must be >= 0")
			}
		}
	}
	for code, n := range t.RestatementFrequency {
		if _, ok := t.ByMetric[code]; !ok {
			return statement.NewMappingError(map[string]interface{}{"metric": code}, "metric %s has a frequency but no hops", code)
		}
		if n < 0 || n > t.TotalHops {
			return statement.NewMappingError(map[string]interface{}{"metric": code, "frequency": n}, "restatement frequency %d outside [0, %d]", n, t.TotalHops)
		}
	}
	for code := range t.PerMetricMaxDelta {
		if _, ok := t.ByMetric[code]; !ok {
			return statement.NewMappingError(map[string]interface{}{"metric": code}, "metric %s has a maximum delta but no hops", code)
		}
	}
	return nil
}
