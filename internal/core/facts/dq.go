package facts

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// DQ rule codes.
const (
	RuleMissingKeyMetric   = "MISSING_KEY_METRIC"
	RuleNegativeValue      = "NEGATIVE_VALUE"
	RuleHistoryOutlierHigh = "HISTORY_OUTLIER_HIGH"
	RuleHistoryOutlierLow  = "HISTORY_OUTLIER_LOW"
)

// DQConfig configures the fact-level rule set.
type DQConfig struct {
	RuleSetVersion           string          `koanf:"rule_set_version"`
	KeyMetrics               []string        `koanf:"key_metrics"`
	NonNegativeMetrics       []string        `koanf:"non_negative_metrics"`
	HistoryOutlierMultiplier decimal.Decimal `koanf:"-"`
	HistoryMinObservations   int             `koanf:"history_min_observations"`
}

func DefaultDQConfig() DQConfig {
	return DQConfig{
		RuleSetVersion:           "v1",
		KeyMetrics:               []string{string(statement.Revenue), string(statement.NetIncome)},
		NonNegativeMetrics:       []string{string(statement.Revenue)},
		HistoryOutlierMultiplier: decimal.NewFromInt(10),
		HistoryMinObservations:   2,
	}
}

// DQRun groups every evaluation of one statement.
type DQRun struct {
	RunID          string             `json:"dq_run_id"`
	Identity       statement.Identity `json:"statement_identity"`
	RuleSetVersion string             `json:"rule_set_version"`
	ScopeType      string             `json:"scope_type"`
	ExecutedAt     time.Time          `json:"executed_at"`
}

// FactQuality is the quality record of one fact.
type FactQuality struct {
	RunID                   string                     `json:"dq_run_id"`
	Identity                statement.Identity         `json:"statement_identity"`
	MetricCode              string                     `json:"metric_code"`
	DimensionKey            string                     `json:"dimension_key"`
	Severity                statement.MaterialityClass `json:"severity"`
	IsPresent               bool                       `json:"is_present"`
	IsNonNegative           *bool                      `json:"is_non_negative"`
	IsConsistentWithHistory *bool                      `json:"is_consistent_with_history"`
	HasKnownIssue           bool                       `json:"has_known_issue"`
	Details                 map[string]interface{}     `json:"details,omitempty"`
}

// Anomaly is one rule violation.
type Anomaly struct {
	RunID        string                     `json:"dq_run_id"`
	Identity     statement.Identity         `json:"statement_identity"`
	MetricCode   string                     `json:"metric_code"`
	DimensionKey *string                    `json:"dimension_key,omitempty"`
	RuleCode     string                     `json:"rule_code"`
	Severity     statement.MaterialityClass `json:"severity"`
	Message      string                     `json:"message"`
	Details      map[string]interface{}     `json:"details,omitempty"`
}

// DQResult is the output of one evaluation.
type DQResult struct {
	Run         DQRun         `json:"run"`
	FactQuality []FactQuality `json:"fact_quality"`
	Anomalies   []Anomaly     `json:"anomalies"`
}

// MaxSeverity returns the highest anomaly severity of the run.
func (r DQResult) MaxSeverity() statement.MaterialityClass {
	worst := statement.MaterialityNone
	for _, a := range r.Anomalies {
		worst = worst.Max(a.Severity)
	}
	return worst
}

// DQEngine evaluates the fact-level rule set.
type DQEngine struct {
	cfg   DQConfig
	now   func() time.Time
	newID func() string
}

// DQOption customizes a DQEngine.
type DQOption func(*DQEngine)

func WithClock(now func() time.Time) DQOption { return func(e *DQEngine) { e.now = now } }

func WithIDFunc(fn func() string) DQOption { return func(e *DQEngine) { e.newID = fn } }

func NewDQEngine(cfg DQConfig, opts ...DQOption) *DQEngine {
	if cfg.HistoryOutlierMultiplier.IsZero() {
		cfg.HistoryOutlierMultiplier = decimal.NewFromInt(10)
	}
	e := &DQEngine{
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type historyCheck struct {
	evaluated bool
	anomaly   *Anomaly
}

// Evaluate runs every rule over facts. history holds earlier facts for the
// same company and statement type. A nil executedAt uses the engine clock.
func (e *DQEngine) Evaluate(identity statement.Identity, facts []statement.NormalizedFact, history []statement.NormalizedFact, executedAt *time.Time) DQResult {
	runID := e.newID()
	at := e.now()
	if executedAt != nil {
		at = *executedAt
	}
	result := DQResult{
		Run: DQRun{
			RunID:          runID,
			Identity:       identity,
			RuleSetVersion: e.cfg.RuleSetVersion,
			ScopeType:      "STATEMENT",
			ExecutedAt:     at,
		},
		FactQuality: []FactQuality{},
		Anomalies:   []Anomaly{},
	}

	present := make(map[string]bool, len(facts))
	for _, f := range facts {
		present[f.MetricCode] = true
	}
	for _, required := range e.cfg.KeyMetrics {
		if present[required] {
			continue
		}
		result.Anomalies = append(result.Anomalies, Anomaly{
			RunID:      runID,
			Identity:   identity,
			MetricCode: required,
			RuleCode:   RuleMissingKeyMetric,
			Severity:   statement.MaterialityHigh,
			Message:    fmt.Sprintf("Required metric %s is missing from normalized facts.", required),
			Details: map[string]interface{}{
				"metric_code": required,
				"statement_identity": map[string]interface{}{
					"cik":              identity.CIK,
					"statement_type":   string(identity.StatementType),
					"fiscal_year":      identity.FiscalYear,
					"fiscal_period":    string(identity.FiscalPeriod),
					"version_sequence": identity.VersionSequence,
				},
			},
		})
	}

	nonNegative := make(map[string]bool, len(e.cfg.NonNegativeMetrics))
	for _, m := range e.cfg.NonNegativeMetrics {
		nonNegative[m] = true
	}
	historyIndex := buildHistoryIndex(history)

	for _, f := range facts {
		dimKey := f.DimensionKey
		fq := FactQuality{
			RunID:        runID,
			Identity:     identity,
			MetricCode:   f.MetricCode,
			DimensionKey: dimKey,
			IsPresent:    true,
		}
		var factAnomalies []Anomaly

		if nonNegative[f.MetricCode] {
			ok := !f.Value.IsNegative()
			fq.IsNonNegative = &ok
			if !ok {
				factAnomalies = append(factAnomalies, Anomaly{
					RunID:        runID,
					Identity:     identity,
					MetricCode:   f.MetricCode,
					DimensionKey: &dimKey,
					RuleCode:     RuleNegativeValue,
					Severity:     statement.MaterialityHigh,
					Message:      fmt.Sprintf("Metric %s is expected to be non-negative but has value %s.", f.MetricCode, f.Value),
					Details:      map[string]interface{}{"metric_code": f.MetricCode, "value": f.Value.String()},
				})
			}
		}

		check := e.checkHistory(runID, identity, f, historyIndex[f.MetricCode])
		if check.evaluated {
			consistent := check.anomaly == nil
			fq.IsConsistentWithHistory = &consistent
			if check.anomaly != nil {
				factAnomalies = append(factAnomalies, *check.anomaly)
			}
		}

		ruleCodes := make([]string, 0, len(factAnomalies))
		for _, a := range factAnomalies {
			fq.Severity = fq.Severity.Max(a.Severity)
			ruleCodes = append(ruleCodes, a.RuleCode)
		}
		fq.HasKnownIssue = len(factAnomalies) > 0
		fq.Details = map[string]interface{}{"anomaly_count": len(factAnomalies), "rule_codes": ruleCodes}

		result.FactQuality = append(result.FactQuality, fq)
		result.Anomalies = append(result.Anomalies, factAnomalies...)
	}
	return result
}

// checkHistory compares f with the most recent historical value. The check is
// not evaluated with too few observations or a zero previous value.
func (e *DQEngine) checkHistory(runID string, identity statement.Identity, f statement.NormalizedFact, hist []statement.NormalizedFact) historyCheck {
	if len(hist) == 0 || len(hist) < e.cfg.HistoryMinObservations {
		return historyCheck{}
	}
	last := hist[len(hist)-1]
	if last.Value.IsZero() {
		return historyCheck{}
	}

	ratio := f.Value.DivRound(last.Value, 16)
	multiplier := e.cfg.HistoryOutlierMultiplier
	inverse := decimal.NewFromInt(1).DivRound(multiplier, 16)

	var rule, direction string
	switch {
	case ratio.GreaterThan(multiplier):
		rule, direction = RuleHistoryOutlierHigh, "increased"
	case ratio.LessThan(inverse):
		rule, direction = RuleHistoryOutlierLow, "decreased"
	default:
		return historyCheck{evaluated: true}
	}

	dimKey := f.DimensionKey
	return historyCheck{evaluated: true, anomaly: &Anomaly{
		RunID:        runID,
		Identity:     identity,
		MetricCode:   f.MetricCode,
		DimensionKey: &dimKey,
		RuleCode:     rule,
		Severity:     statement.MaterialityMedium,
		Message:      fmt.Sprintf("Metric %s %s by a factor of %s compared to the most recent historical value.", f.MetricCode, direction, ratio),
		Details: map[string]interface{}{
			"metric_code":    f.MetricCode,
			"current_value":  f.Value.String(),
			"previous_value": last.Value.String(),
			"ratio":          ratio.String(),
		},
	}}
}

func buildHistoryIndex(history []statement.NormalizedFact) map[string][]statement.NormalizedFact {
	byMetric := make(map[string][]statement.NormalizedFact)
	for _, f := range history {
		byMetric[f.MetricCode] = append(byMetric[f.MetricCode], f)
	}
	for code := range byMetric {
		SortFacts(byMetric[code])
	}
	return byMetric
}

// SortFacts orders facts by statement date, version, dimension key, metric code.
func SortFacts(fs []statement.NormalizedFact) {
	sort.SliceStable(fs, func(i, j int) bool {
		a, b := fs[i], fs[j]
		if !a.StatementDate.Equal(b.StatementDate) {
			return a.StatementDate.Before(b.StatementDate)
		}
		if a.VersionSequence != b.VersionSequence {
			return a.VersionSequence < b.VersionSequence
		}
		if a.DimensionKey != b.DimensionKey {
			return a.DimensionKey < b.DimensionKey
		}
		return a.MetricCode < b.MetricCode
	})
}
