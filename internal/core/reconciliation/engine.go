package reconciliation

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// Config tunes rule evaluation.
type Config struct {
	RuleSetVersion   string          `koanf:"rule_set_version"`
	DefaultTolerance decimal.Decimal `koanf:"-"`
	FXToleranceBps   int             `koanf:"fx_tolerance_bps"`
}

func DefaultConfig() Config {
	return Config{
		RuleSetVersion:   DefaultRuleSetVersion,
		DefaultTolerance: decimal.RequireFromString("0.01"),
		FXToleranceBps:   100,
	}
}

// Input is what one run evaluates. Facts carries fact-level detail keyed by
// statement identity and is only consulted by segment rules.
type Input struct {
	Statements []*statement.Payload
	Facts      map[statement.Identity][]statement.NormalizedFact
}

// evaluator produces the results of one rule over the applicable statements,
// which arrive ordered by identity.
type evaluator func(e *Engine, r Rule, stmts []*statement.Payload, in Input) []Result

var evaluators = map[Category]evaluator{
	CategoryIdentity:    evaluateIdentity,
	CategoryRollforward: evaluateRollforward,
	CategorySegment:     evaluateSegment,
	CategoryCalendar:    evaluateCalendar,
	CategoryFX:          evaluateFX,
}

// Engine evaluates reconciliation rules. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	cfg   Config
	now   func() time.Time
	newID func() string
}

// Option customizes an Engine.
type Option func(*Engine)

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func WithIDFunc(fn func() string) Option { return func(e *Engine) { e.newID = fn } }

func NewEngine(cfg Config, opts ...Option) *Engine {
	if cfg.RuleSetVersion == "" {
		cfg.RuleSetVersion = DefaultRuleSetVersion
	}
	e := &Engine{
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Config() Config { return e.cfg }

// Run evaluates every enabled rule in order. Results follow rule order, and
// within a rule the statements are ordered by identity. An invalid rule fails
// the whole run before anything is evaluated. A nil executedAt uses the
// engine clock.
func (e *Engine) Run(rules []Rule, in Input, executedAt *time.Time) (Run, error) {
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return Run{}, err
		}
	}

	at := e.now()
	if executedAt != nil {
		at = *executedAt
	}
	run := Run{
		RunID:          e.newID(),
		ExecutedAt:     at,
		RuleSetVersion: e.cfg.RuleSetVersion,
		Results:        []Result{},
	}

	stmts := make([]*statement.Payload, 0, len(in.Statements))
	for _, p := range in.Statements {
		if p != nil {
			stmts = append(stmts, p)
		}
	}
	sort.SliceStable(stmts, func(i, j int) bool {
		return stmts[i].Identity().Less(stmts[j].Identity())
	})

	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		var applicable []*statement.Payload
		for _, p := range stmts {
			if r.appliesTo(p.StatementType()) {
				applicable = append(applicable, p)
			}
		}
		if len(applicable) == 0 {
			continue
		}
		run.Results = append(run.Results, evaluators[r.Category](e, r, applicable, in)...)
	}
	return run, nil
}

func (e *Engine) tolerance(r Rule) decimal.Decimal {
	if r.Tolerance != nil {
		return *r.Tolerance
	}
	return e.cfg.DefaultTolerance
}

// compare applies the tolerance check shared by numeric rules. delta is
// actual minus expected.
func (e *Engine) compare(r Rule, id statement.Identity, expected, actual decimal.Decimal, notes map[string]interface{}) Result {
	delta := actual.Sub(expected)
	res := Result{
		Identity:      id,
		RuleID:        r.RuleID,
		Category:      r.Category,
		Status:        StatusPass,
		Severity:      statement.MaterialityNone,
		ExpectedValue: &expected,
		ActualValue:   &actual,
		Delta:         &delta,
		Notes:         notes,
	}
	if delta.Abs().GreaterThan(e.tolerance(r)) {
		res.Status = StatusFail
		res.Severity = r.Severity
	}
	return res
}

// warn builds a WARNING result carrying no numeric values.
func warn(r Rule, id statement.Identity, severity statement.MaterialityClass, notes map[string]interface{}) Result {
	return Result{
		Identity: id,
		RuleID:   r.RuleID,
		Category: r.Category,
		Status:   StatusWarning,
		Severity: severity,
		Notes:    notes,
	}
}

func metricNames(ms []statement.Metric) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = string(m)
	}
	return out
}

func typeNames(ts []statement.StatementType) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}
