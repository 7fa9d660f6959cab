package restatement

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// Summary describes one ledger hop.
type Summary struct {
	TotalMetricsCompared int  `json:"total_metrics_compared"`
	TotalMetricsChanged  int  `json:"total_metrics_changed"`
	HasMaterialChange    bool `json:"has_material_change"`
}

// LedgerHop is the transition between two consecutive versions.
type LedgerHop struct {
	CIK                 string                  `json:"cik"`
	StatementType       statement.StatementType `json:"statement_type"`
	FiscalYear          int                     `json:"fiscal_year"`
	FiscalPeriod        statement.FiscalPeriod  `json:"fiscal_period"`
	FromVersionSequence int                     `json:"from_version_sequence"`
	ToVersionSequence   int                     `json:"to_version_sequence"`
	Metrics             []MetricDelta           `json:"metrics"`
	Summary             Summary                 `json:"summary"`
}

// BuildLedgerHop compares the union of both payloads' core metrics, treating
// a metric absent on one side as zero. metrics, when non-nil, replaces the
// union. Both payloads must describe the same (cik, statement type, fiscal
// year, fiscal period); a restated version may move its statement date or
// currency.
func BuildLedgerHop(from, to *statement.Payload, metrics []statement.Metric) (LedgerHop, error) {
	if from == nil || to == nil {
		return LedgerHop{}, statement.NewMappingError(map[string]interface{}{"from": from != nil, "to": to != nil}, "ledger hop requires two payloads")
	}
	if mm := periodMismatches(from, to); len(mm) > 0 {
		return LedgerHop{}, statement.NewMappingError(map[string]interface{}{
			"from":       from.Identity().String(),
			"to":         to.Identity().String(),
			"mismatches": map[string]interface{}(mm),
		}, "ledger hop payloads do not share an identity")
	}

	fromCore, toCore := from.CoreMetrics(), to.CoreMetrics()
	set := make(map[statement.Metric]bool)
	if metrics == nil {
		for m := range fromCore {
			set[m] = true
		}
		for m := range toCore {
			set[m] = true
		}
	} else {
		for _, m := range metrics {
			set[m] = true
		}
	}
	universe := make([]statement.Metric, 0, len(set))
	for m := range set {
		universe = append(universe, m)
	}
	sort.Slice(universe, func(i, j int) bool { return universe[i] < universe[j] })

	hop := LedgerHop{
		CIK:                 from.CIK(),
		StatementType:       from.StatementType(),
		FiscalYear:          from.FiscalYear(),
		FiscalPeriod:        from.FiscalPeriod(),
		FromVersionSequence: from.SourceVersionSequence(),
		ToVersionSequence:   to.SourceVersionSequence(),
		Metrics:             []MetricDelta{},
	}
	for _, m := range universe {
		before, ok := fromCore[m]
		if !ok {
			before = decimal.Zero
		}
		after, ok := toCore[m]
		if !ok {
			after = decimal.Zero
		}
		if !before.Equal(after) {
			hop.Metrics = append(hop.Metrics, newMetricDelta(m, before, after))
		}
	}
	hop.Summary = Summary{
		TotalMetricsCompared: len(universe),
		TotalMetricsChanged:  len(hop.Metrics),
		HasMaterialChange:    len(hop.Metrics) > 0,
	}
	return hop, nil
}

// normalizedVersions keeps versions carrying a payload, ordered by version
// sequence.
func normalizedVersions(versions []statement.StatementVersion) []statement.StatementVersion {
	out := make([]statement.StatementVersion, 0, len(versions))
	for _, v := range versions {
		if v.NormalizedPayload != nil {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].VersionSequence < out[j].VersionSequence })
	return out
}

func insufficient(versions []statement.StatementVersion, normalized int) error {
	return statement.NewIngestionError(map[string]interface{}{
		"versions_scanned":    len(versions),
		"normalized_versions": normalized,
	}, "at least two normalized statement versions are required")
}

// BuildLedger chains consecutive normalized versions into hops.
func BuildLedger(versions []statement.StatementVersion, metrics []statement.Metric) ([]LedgerHop, error) {
	sorted := normalizedVersions(versions)
	if len(sorted) < 2 {
		return nil, insufficient(versions, len(sorted))
	}
	hops := make([]LedgerHop, 0, len(sorted)-1)
	for i := 0; i+1 < len(sorted); i++ {
		hop, err := BuildLedgerHop(sorted[i].NormalizedPayload, sorted[i+1].NormalizedPayload, metrics)
		if err != nil {
			return nil, err
		}
		hops = append(hops, hop)
	}
	return hops, nil
}

// SelectVersionPair picks the two versions a delta compares:
// both bounds given selects them exactly, only to selects its nearest earlier
// version, only from selects its nearest later version, and neither selects
// the latest two.
func SelectVersionPair(versions []statement.StatementVersion, from, to *int) (statement.StatementVersion, statement.StatementVersion, error) {
	var none statement.StatementVersion
	if from != nil && *from <= 0 {
		return none, none, statement.NewMappingError(map[string]interface{}{"from_version_sequence": *from}, "from_version_sequence must be a positive integer")
	}
	if to != nil && *to <= 0 {
		return none, none, statement.NewMappingError(map[string]interface{}{"to_version_sequence": *to}, "to_version_sequence must be a positive integer")
	}

	sorted := normalizedVersions(versions)
	if len(sorted) < 2 {
		return none, none, insufficient(versions, len(sorted))
	}
	index := func(seq int) (int, error) {
		for i, v := range sorted {
			if v.VersionSequence == seq {
				return i, nil
			}
		}
		available := make([]int, len(sorted))
		for i, v := range sorted {
			available[i] = v.VersionSequence
		}
		return 0, statement.NewNotFoundError(map[string]interface{}{"version_sequence": seq, "available": available}, "version_sequence %d not found", seq)
	}

	var fi, ti int
	var err error
	switch {
	case from != nil && to != nil:
		if fi, err = index(*from); err != nil {
			return none, none, err
		}
		if ti, err = index(*to); err != nil {
			return none, none, err
		}
		if fi >= ti {
			return none, none, statement.NewMappingError(map[string]interface{}{"from_version_sequence": *from, "to_version_sequence": *to}, "from_version_sequence must precede to_version_sequence")
		}
	case to != nil:
		if ti, err = index(*to); err != nil {
			return none, none, err
		}
		if ti == 0 {
			return none, none, statement.NewMappingError(map[string]interface{}{"to_version_sequence": *to}, "no earlier normalized version before %d", *to)
		}
		fi = ti - 1
	case from != nil:
		if fi, err = index(*from); err != nil {
			return none, none, err
		}
		if fi == len(sorted)-1 {
			return none, none, statement.NewMappingError(map[string]interface{}{"from_version_sequence": *from}, "no later normalized version after %d", *from)
		}
		ti = fi + 1
	default:
		ti = len(sorted) - 1
		fi = ti - 1
	}
	return sorted[fi], sorted[ti], nil
}
