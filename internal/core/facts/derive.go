// Package facts explodes canonical payloads into dimension-keyed fact rows and
// evaluates fact-level data-quality rules over them.
package facts

import (
	"sort"
	"strings"
	"time"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// DefaultDimensionKey is used when a fact carries no dimensions.
const DefaultDimensionKey = "default"

// BuildDimensionKey joins sorted "k=v" pairs with "|".
func BuildDimensionKey(dims map[string]string) string {
	if len(dims) == 0 {
		return DefaultDimensionKey
	}
	keys := make([]string, 0, len(dims))
	for k := range dims {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + dims[k]
	}
	return strings.Join(pairs, "|")
}

// Period start strategies.
const (
	PeriodStartNone            = "none"
	PeriodStartFiscalYearStart = "fiscal_year_start"
)

// DerivationConfig controls PayloadToFacts.
type DerivationConfig struct {
	PeriodStartStrategy string `koanf:"period_start_strategy"`
	IncludeExtraMetrics bool   `koanf:"include_extra_metrics"`
}

func DefaultDerivationConfig() DerivationConfig {
	return DerivationConfig{PeriodStartStrategy: PeriodStartNone, IncludeExtraMetrics: true}
}

// PayloadToFacts derives one fact per core metric, then one per extra metric
// when enabled, each class sorted by metric code.
func PayloadToFacts(p *statement.Payload, versionSequence int, cfg DerivationConfig) ([]statement.NormalizedFact, error) {
	if p.FiscalYear() <= 0 {
		return nil, statement.NewMappingError(map[string]interface{}{"fiscal_year": p.FiscalYear()}, "fiscal_year must be > 0")
	}

	dims := p.Dimensions()
	dimKey := BuildDimensionKey(dims)
	start := inferPeriodStart(p, cfg.PeriodStartStrategy)

	build := func(code string) statement.NormalizedFact {
		src := code
		return statement.NormalizedFact{
			CIK:                p.CIK(),
			StatementType:      p.StatementType(),
			AccountingStandard: p.AccountingStandard(),
			StatementDate:      p.StatementDate(),
			FiscalYear:         p.FiscalYear(),
			FiscalPeriod:       p.FiscalPeriod(),
			VersionSequence:    versionSequence,
			MetricCode:         code,
			Unit:               p.Currency(),
			PeriodStart:        start,
			PeriodEnd:          p.StatementDate(),
			DimensionKey:       dimKey,
			Dimensions:         copyDims(dims),
			SourceLineItem:     &src,
		}
	}

	var out []statement.NormalizedFact
	core := p.CoreMetrics()
	for _, m := range p.CoreMetricKeys() {
		f := build(string(m))
		f.Value = core[m]
		out = append(out, f)
	}

	if cfg.IncludeExtraMetrics {
		extra := p.ExtraMetrics()
		keys := make([]string, 0, len(extra))
		for k := range extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			f := build(k)
			f.Value = extra[k]
			out = append(out, f)
		}
	}
	return out, nil
}

func inferPeriodStart(p *statement.Payload, strategy string) *time.Time {
	if strategy != PeriodStartFiscalYearStart {
		return nil
	}
	var month time.Month
	switch p.FiscalPeriod() {
	case statement.FY, statement.Q1:
		month = time.January
	case statement.Q2:
		month = time.April
	case statement.Q3:
		month = time.July
	case statement.Q4:
		month = time.October
	default:
		return nil
	}
	start := time.Date(p.FiscalYear(), month, 1, 0, 0, 0, 0, time.UTC)
	return &start
}

func copyDims(dims map[string]string) map[string]string {
	out := make(map[string]string, len(dims))
	for k, v := range dims {
		out[k] = v
	}
	return out
}
