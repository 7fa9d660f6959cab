// Package reconciliation evaluates accounting identity, rollforward, segment,
// calendar and FX rules against canonical statements.
package reconciliation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// Category is the family of a reconciliation rule.
type Category string

const (
	CategoryIdentity    Category = "IDENTITY"
	CategoryRollforward Category = "ROLLFORWARD"
	CategorySegment     Category = "SEGMENT"
	CategoryCalendar    Category = "CALENDAR"
	CategoryFX          Category = "FX"
)

// Status is the outcome of one rule evaluation.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusWarning Status = "WARNING"
	StatusFail    Status = "FAIL"
)

// Note reasons attached to WARNING results.
const (
	ReasonMissingMetrics     = "MISSING_METRICS"
	ReasonMissingRollforward = "MISSING_ROLLFORWARD_COMPONENTS"
	ReasonSegmentMissing     = "SEGMENT_PARENT_OR_CHILD_MISSING"
	ReasonFXStub             = "FX_RULE_STUB"
)

type IdentitySpec struct {
	LHS []statement.Metric `json:"lhs_metrics"`
	RHS []statement.Metric `json:"rhs_metrics"`
}

type RollforwardSpec struct {
	Opening           statement.Metric        `json:"opening_metric"`
	Flows             []statement.Metric      `json:"flow_metrics"`
	Closing           statement.Metric        `json:"closing_metric"`
	PeriodGranularity *statement.FiscalPeriod `json:"period_granularity,omitempty"`
}

type SegmentSpec struct {
	ParentMetric    statement.Metric `json:"parent_metric"`
	ChildMetric     statement.Metric `json:"child_metric"`
	RollupDimension string           `json:"rollup_dimension_key"`
}

type CalendarSpec struct {
	AllowedFYEMonths []int `json:"allowed_fye_months"`
	Allow53Week      bool  `json:"allow_53_week"`
	MaxGapDays       int   `json:"max_gap_days"`
	// ExpectedGapDays of zero uses the inferred period length.
	ExpectedGapDays int `json:"expected_gap_days,omitempty"`
}

type FXSpec struct {
	BaseMetric        statement.Metric  `json:"base_metric"`
	FXRateMetric      *statement.Metric `json:"fx_rate_metric,omitempty"`
	LocalCurrency     string            `json:"local_currency"`
	ReportingCurrency string            `json:"reporting_currency"`
}

// Rule is one reconciliation rule. Exactly the *Spec field matching Category is set.
type Rule struct {
	RuleID                   string                     `json:"rule_id"`
	Name                     string                     `json:"name"`
	Category                 Category                   `json:"category"`
	Severity                 statement.MaterialityClass `json:"severity"`
	Tolerance                *decimal.Decimal           `json:"tolerance,omitempty"`
	Enabled                  bool                       `json:"enabled"`
	ApplicableStatementTypes []statement.StatementType  `json:"applicable_statement_types,omitempty"`
	Description              string                     `json:"description,omitempty"`

	Identity    *IdentitySpec    `json:"identity,omitempty"`
	Rollforward *RollforwardSpec `json:"rollforward,omitempty"`
	Segment     *SegmentSpec     `json:"segment,omitempty"`
	Calendar    *CalendarSpec    `json:"calendar,omitempty"`
	FX          *FXSpec          `json:"fx,omitempty"`
}

// Validate checks that the rule carries the *Spec field for its category.
func (r Rule) Validate() error {
	fail := func(msg string) error {
		return statement.NewMappingError(map[string]interface{}{"rule_id": r.RuleID, "category": string(r.Category)}, "invalid reconciliation rule %q: %s", r.RuleID, msg)
	}
	if r.RuleID == "" {
		return fail("rule_id is required")
	}
	if r.Tolerance != nil && r.Tolerance.IsNegative() {
		return fail("tolerance must be >= 0")
	}
	for _, st := range r.ApplicableStatementTypes {
		if !st.Valid() {
			return fail(fmt.Sprintf("unknown statement type %q", st))
		}
	}
	switch r.Category {
	case CategoryIdentity:
		if r.Identity == nil || len(r.Identity.LHS) == 0 || len(r.Identity.RHS) == 0 {
			return fail("identity rules require lhs_metrics and rhs_metrics")
		}
	case CategoryRollforward:
		if r.Rollforward == nil || r.Rollforward.Opening == "" || r.Rollforward.Closing == "" || len(r.Rollforward.Flows) == 0 {
			return fail("rollforward rules require opening, flow and closing metrics")
		}
	case CategorySegment:
		if r.Segment == nil || r.Segment.ParentMetric == "" || r.Segment.ChildMetric == "" || r.Segment.RollupDimension == "" {
			return fail("segment rules require parent_metric, child_metric and rollup_dimension_key")
		}
	case CategoryCalendar:
		if r.Calendar == nil || len(r.Calendar.AllowedFYEMonths) == 0 {
			return fail("calendar rules require allowed_fye_months")
		}
		for _, m := range r.Calendar.AllowedFYEMonths {
			if m < 1 || m > 12 {
				return fail(fmt.Sprintf("allowed_fye_months entry %d out of range", m))
			}
		}
	case CategoryFX:
		if r.FX == nil || r.FX.BaseMetric == "" {
			return fail("fx rules require base_metric")
		}
	default:
		return fail("unknown category")
	}
	return nil
}

func (r Rule) appliesTo(st statement.StatementType) bool {
	if len(r.ApplicableStatementTypes) == 0 {
		return true
	}
	for _, t := range r.ApplicableStatementTypes {
		if t == st {
			return true
		}
	}
	return false
}

// Result is one rule evaluation outcome. Rows are append-only and keyed by
// the run that produced them.
type Result struct {
	Identity        statement.Identity         `json:"statement_identity"`
	RuleID          string                     `json:"rule_id"`
	Category        Category                   `json:"rule_category"`
	Status          Status                     `json:"status"`
	Severity        statement.MaterialityClass `json:"severity"`
	ExpectedValue   *decimal.Decimal           `json:"expected_value,omitempty"`
	ActualValue     *decimal.Decimal           `json:"actual_value,omitempty"`
	Delta           *decimal.Decimal           `json:"delta,omitempty"`
	DimensionKey    *string                    `json:"dimension_key,omitempty"`
	DimensionLabels map[string]string          `json:"dimension_labels,omitempty"`
	Notes           map[string]interface{}     `json:"notes,omitempty"`
}

// Run groups the results of one engine invocation.
type Run struct {
	RunID          string    `json:"reconciliation_run_id"`
	ExecutedAt     time.Time `json:"executed_at"`
	RuleSetVersion string    `json:"rule_set_version"`
	Results        []Result  `json:"results"`
}

// Counts tallies results by status.
func (r Run) Counts() map[Status]int {
	out := map[Status]int{StatusPass: 0, StatusWarning: 0, StatusFail: 0}
	for _, res := range r.Results {
		out[res.Status]++
	}
	return out
}
