package reconciliation

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

const (
	DefaultRuleSetID      = "E11_RULESET_V1"
	DefaultRuleSetVersion = "e11_v1"
)

// RuleSet is an ordered, versioned group of rules.
type RuleSet struct {
	ID          string `json:"rule_set_id"`
	Version     string `json:"version"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Rules       []Rule `json:"rules"`
}

// RuleSetStore resolves rule sets by id.
type RuleSetStore interface {
	GetRuleSet(ctx context.Context, id string) (RuleSet, error)
	ListRuleSets(ctx context.Context) ([]RuleSet, error)
}

// DefaultRules is the built-in rule set: the cash-flow and balance-sheet
// identities plus the December fiscal-year-end calendar check.
func DefaultRules() RuleSet {
	cashTol := decimal.RequireFromString("0.01")
	return RuleSet{
		ID:      DefaultRuleSetID,
		Version: DefaultRuleSetVersion,
		Rules: []Rule{
			{
				RuleID:                   "E11_IDENTITY_NET_CHANGE_CASH",
				Name:                     "Net change in cash equals the sum of activity cash flows",
				Category:                 CategoryIdentity,
				Severity:                 statement.MaterialityMedium,
				Tolerance:                &cashTol,
				Enabled:                  true,
				ApplicableStatementTypes: []statement.StatementType{statement.CashFlowStatement},
				Identity: &IdentitySpec{
					LHS: []statement.Metric{statement.NetIncreaseDecreaseInCash},
					RHS: []statement.Metric{statement.NetCashFromOperating, statement.NetCashFromInvesting, statement.NetCashFromFinancing},
				},
			},
			{
				RuleID:                   "E11_IDENTITY_BALANCE_SHEET",
				Name:                     "Assets equal liabilities plus equity",
				Category:                 CategoryIdentity,
				Severity:                 statement.MaterialityHigh,
				Enabled:                  true,
				ApplicableStatementTypes: []statement.StatementType{statement.BalanceSheet},
				Identity: &IdentitySpec{
					LHS: []statement.Metric{statement.TotalAssets},
					RHS: []statement.Metric{statement.TotalLiabilities, statement.TotalEquity},
				},
			},
			{
				RuleID:   "E11_CALENDAR_FYE_MONTH",
				Name:     "Fiscal year end falls in an expected month",
				Category: CategoryCalendar,
				Severity: statement.MaterialityLow,
				Enabled:  true,
				Calendar: &CalendarSpec{
					AllowedFYEMonths: []int{12},
					Allow53Week:      true,
					MaxGapDays:       730,
				},
			},
		},
	}
}

// On-disk YAML shapes. Decimals and enums are read as strings and parsed so
// that errors name the offending rule.
type ruleSetFile struct {
	ID      string    `yaml:"rule_set_id"`
	Version string    `yaml:"version"`
	Rules   []rawRule `yaml:"rules"`
}

type rawRule struct {
	RuleID                   string   `yaml:"rule_id"`
	Name                     string   `yaml:"name"`
	Category                 string   `yaml:"category"`
	Severity                 string   `yaml:"severity"`
	Tolerance                string   `yaml:"tolerance"`
	Enabled                  *bool    `yaml:"enabled"`
	ApplicableStatementTypes []string `yaml:"applicable_statement_types"`
	Description              string   `yaml:"description"`

	LHSMetrics []string `yaml:"lhs_metrics"`
	RHSMetrics []string `yaml:"rhs_metrics"`

	OpeningMetric     string   `yaml:"opening_metric"`
	FlowMetrics       []string `yaml:"flow_metrics"`
	ClosingMetric     string   `yaml:"closing_metric"`
	PeriodGranularity string   `yaml:"period_granularity"`

	ParentMetric    string `yaml:"parent_metric"`
	ChildMetric     string `yaml:"child_metric"`
	RollupDimension string `yaml:"rollup_dimension_key"`

	AllowedFYEMonths []int `yaml:"allowed_fye_months"`
	Allow53Week      bool  `yaml:"allow_53_week"`
	MaxGapDays       int   `yaml:"max_gap_days"`
	ExpectedGapDays  int   `yaml:"expected_gap_days"`

	BaseMetric        string `yaml:"base_metric"`
	FXRateMetric      string `yaml:"fx_rate_metric"`
	LocalCurrency     string `yaml:"local_currency"`
	ReportingCurrency string `yaml:"reporting_currency"`
}

func parseMetrics(ruleID string, raw []string) ([]statement.Metric, error) {
	out := make([]statement.Metric, 0, len(raw))
	for _, s := range raw {
		m, ok := statement.ParseMetric(s)
		if !ok {
			return nil, statement.NewMappingError(map[string]interface{}{"rule_id": ruleID, "metric": s}, "rule %q references unknown metric %q", ruleID, s)
		}
		out = append(out, m)
	}
	return out, nil
}

func parseMetric(ruleID, raw string) (statement.Metric, error) {
	if raw == "" {
		return "", nil
	}
	ms, err := parseMetrics(ruleID, []string{raw})
	if err != nil {
		return "", err
	}
	return ms[0], nil
}

func (raw rawRule) toRule() (Rule, error) {
	r := Rule{
		RuleID:      raw.RuleID,
		Name:        raw.Name,
		Category:    Category(strings.ToUpper(raw.Category)),
		Enabled:     raw.Enabled == nil || *raw.Enabled,
		Description: raw.Description,
	}
	var err error
	if raw.Severity != "" {
		if r.Severity, err = statement.ParseMaterialityClass(raw.Severity); err != nil {
			return Rule{}, err
		}
	}
	if raw.Tolerance != "" {
		tol, err := decimal.NewFromString(raw.Tolerance)
		if err != nil {
			return Rule{}, statement.NewMappingError(map[string]interface{}{"rule_id": raw.RuleID, "tolerance": raw.Tolerance}, "rule %q has invalid tolerance", raw.RuleID)
		}
		r.Tolerance = &tol
	}
	for _, s := range raw.ApplicableStatementTypes {
		st, err := statement.ParseStatementType(s)
		if err != nil {
			return Rule{}, err
		}
		r.ApplicableStatementTypes = append(r.ApplicableStatementTypes, st)
	}

	switch r.Category {
	case CategoryIdentity:
		spec := &IdentitySpec{}
		if spec.LHS, err = parseMetrics(raw.RuleID, raw.LHSMetrics); err != nil {
			return Rule{}, err
		}
		if spec.RHS, err = parseMetrics(raw.RuleID, raw.RHSMetrics); err != nil {
			return Rule{}, err
		}
		r.Identity = spec
	case CategoryRollforward:
		spec := &RollforwardSpec{}
		if spec.Opening, err = parseMetric(raw.RuleID, raw.OpeningMetric); err != nil {
			return Rule{}, err
		}
		if spec.Closing, err = parseMetric(raw.RuleID, raw.ClosingMetric); err != nil {
			return Rule{}, err
		}
		if spec.Flows, err = parseMetrics(raw.RuleID, raw.FlowMetrics); err != nil {
			return Rule{}, err
		}
		if raw.PeriodGranularity != "" {
			fp, err := statement.ParseFiscalPeriod(raw.PeriodGranularity)
			if err != nil {
				return Rule{}, err
			}
			spec.PeriodGranularity = &fp
		}
		r.Rollforward = spec
	case CategorySegment:
		spec := &SegmentSpec{RollupDimension: raw.RollupDimension}
		if spec.ParentMetric, err = parseMetric(raw.RuleID, raw.ParentMetric); err != nil {
			return Rule{}, err
		}
		if spec.ChildMetric, err = parseMetric(raw.RuleID, raw.ChildMetric); err != nil {
			return Rule{}, err
		}
		r.Segment = spec
	case CategoryCalendar:
		r.Calendar = &CalendarSpec{
			AllowedFYEMonths: raw.AllowedFYEMonths,
			Allow53Week:      raw.Allow53Week,
			MaxGapDays:       raw.MaxGapDays,
			ExpectedGapDays:  raw.ExpectedGapDays,
		}
	case CategoryFX:
		spec := &FXSpec{LocalCurrency: raw.LocalCurrency, ReportingCurrency: raw.ReportingCurrency}
		if spec.BaseMetric, err = parseMetric(raw.RuleID, raw.BaseMetric); err != nil {
			return Rule{}, err
		}
		if raw.FXRateMetric != "" {
			m, err := parseMetric(raw.RuleID, raw.FXRateMetric)
			if err != nil {
				return Rule{}, err
			}
			spec.FXRateMetric = &m
		}
		r.FX = spec
	}
	return r, r.Validate()
}

// FileSystemRuleSetRepository serves the built-in rule set plus any rule sets
// defined in *.yaml files of a directory.
type FileSystemRuleSetRepository struct {
	sets map[string]RuleSet
}

// NewFileSystemRuleSetRepository loads every rule set file in dir. An empty or
// missing dir yields only the built-in set. A file may not redefine an id.
func NewFileSystemRuleSetRepository(dir string) (*FileSystemRuleSetRepository, error) {
	def := DefaultRules()
	repo := &FileSystemRuleSetRepository{sets: map[string]RuleSet{def.ID: def}}
	if dir == "" {
		return repo, nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return repo, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading rule set dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		set, err := loadRuleSetFile(path)
		if err != nil {
			return nil, err
		}
		if _, dup := repo.sets[set.ID]; dup {
			return nil, fmt.Errorf("rule set %q in %s is already defined", set.ID, path)
		}
		repo.sets[set.ID] = set
	}
	return repo, nil
}

func loadRuleSetFile(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("reading rule set file %s: %w", path, err)
	}
	var f ruleSetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return RuleSet{}, fmt.Errorf("parsing rule set file %s: %w", path, err)
	}
	if f.ID == "" {
		return RuleSet{}, fmt.Errorf("rule set file %s: rule_set_id is required", path)
	}
	set := RuleSet{
		ID:          f.ID,
		Version:     f.Version,
		Fingerprint: fmt.Sprintf("%x", sha256.Sum256(data)),
	}
	if set.Version == "" {
		set.Version = f.ID
	}
	seen := make(map[string]bool, len(f.Rules))
	for _, raw := range f.Rules {
		r, err := raw.toRule()
		if err != nil {
			return RuleSet{}, fmt.Errorf("rule set file %s: %w", path, err)
		}
		if seen[r.RuleID] {
			return RuleSet{}, fmt.Errorf("rule set file %s: duplicate rule_id %q", path, r.RuleID)
		}
		seen[r.RuleID] = true
		set.Rules = append(set.Rules, r)
	}
	return set, nil
}

// GetRuleSet implements RuleSetStore.
func (r *FileSystemRuleSetRepository) GetRuleSet(_ context.Context, id string) (RuleSet, error) {
	set, ok := r.sets[id]
	if !ok {
		return RuleSet{}, statement.NewNotFoundError(map[string]interface{}{"rule_set_id": id}, "rule set %q not found", id)
	}
	return set, nil
}

// ListRuleSets implements RuleSetStore, ordered by id.
func (r *FileSystemRuleSetRepository) ListRuleSets(_ context.Context) ([]RuleSet, error) {
	out := make([]RuleSet, 0, len(r.sets))
	for _, s := range r.sets {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
