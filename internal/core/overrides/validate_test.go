package overrides

import (
	"testing"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
	"github.com/stretchr/testify/require"
)

func TestValidateRule(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr string
	}{
		{
			name: "valid company suppression",
			rule: Rule{RuleID: "r1", Scope: ScopeCompany, SourceConcept: revenues, MatchCIK: strPtr("1"), IsSuppression: true},
		},
		{
			name: "valid global remap",
			rule: Rule{RuleID: "r2", Scope: ScopeGlobal, SourceConcept: revenues, TargetMetric: target(statement.NetIncome), Priority: 3},
		},
		{
			name:    "missing rule id",
			rule:    Rule{Scope: ScopeGlobal, SourceConcept: revenues, TargetMetric: target(statement.NetIncome)},
			wantErr: "rule_id failed required",
		},
		{
			name:    "unknown scope",
			rule:    Rule{RuleID: "r", Scope: "TEAM", SourceConcept: revenues, TargetMetric: target(statement.NetIncome)},
			wantErr: "scope failed oneof",
		},
		{
			name:    "negative priority",
			rule:    Rule{RuleID: "r", Scope: ScopeGlobal, SourceConcept: revenues, TargetMetric: target(statement.NetIncome), Priority: -1},
			wantErr: "priority failed gte",
		},
		{
			name:    "suppression with target",
			rule:    Rule{RuleID: "r", Scope: ScopeGlobal, SourceConcept: revenues, TargetMetric: target(statement.NetIncome), IsSuppression: true},
			wantErr: "must not declare target_metric",
		},
		{
			name:    "remap without target",
			rule:    Rule{RuleID: "r", Scope: ScopeGlobal, SourceConcept: revenues},
			wantErr: "must declare target_metric",
		},
		{
			name:    "company without cik",
			rule:    Rule{RuleID: "r", Scope: ScopeCompany, SourceConcept: revenues, IsSuppression: true},
			wantErr: "COMPANY rules require match_cik",
		},
		{
			name:    "global with qualifiers",
			rule:    Rule{RuleID: "r", Scope: ScopeGlobal, SourceConcept: revenues, MatchAnalystID: strPtr("a"), IsSuppression: true},
			wantErr: "GLOBAL rules must not declare",
		},
		{
			name:    "blank dimension value",
			rule:    Rule{RuleID: "r", Scope: ScopeGlobal, SourceConcept: revenues, MatchDimensions: map[string]string{"segment": ""}, IsSuppression: true},
			wantErr: "failed required",
		},
		{
			name:    "whitespace dimension value",
			rule:    Rule{RuleID: "r", Scope: ScopeGlobal, SourceConcept: revenues, MatchDimensions: map[string]string{"segment": " "}, IsSuppression: true},
			wantErr: "match_dimensions[segment] must not be blank",
		},
		{
			name:    "whitespace dimension key",
			rule:    Rule{RuleID: "r", Scope: ScopeGlobal, SourceConcept: revenues, MatchDimensions: map[string]string{"  ": "x"}, IsSuppression: true},
			wantErr: "match_dimensions keys must not be blank",
		},
		{
			name:    "company with industry code",
			rule:    Rule{RuleID: "r", Scope: ScopeCompany, SourceConcept: revenues, MatchCIK: strPtr("1"), MatchIndustryCode: strPtr("10"), IsSuppression: true},
			wantErr: "COMPANY rules must not declare",
		},
		{
			name:    "analyst with cik",
			rule:    Rule{RuleID: "r", Scope: ScopeAnalyst, SourceConcept: revenues, MatchAnalystID: strPtr("x"), MatchCIK: strPtr("1"), IsSuppression: true},
			wantErr: "ANALYST rules must not declare",
		},
		{
			name:    "analyst with industry code",
			rule:    Rule{RuleID: "r", Scope: ScopeAnalyst, SourceConcept: revenues, MatchAnalystID: strPtr("x"), MatchIndustryCode: strPtr("10"), IsSuppression: true},
			wantErr: "ANALYST rules must not declare",
		},
		{
			name: "valid analyst remap",
			rule: Rule{RuleID: "r", Scope: ScopeAnalyst, SourceConcept: revenues, MatchAnalystID: strPtr("x"), TargetMetric: target(statement.Revenue)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRule(tt.rule)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, statement.ErrMapping)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateRules_RejectsDuplicates(t *testing.T) {
	r := Rule{RuleID: "dup", Scope: ScopeGlobal, SourceConcept: revenues, IsSuppression: true}
	err := ValidateRules([]Rule{r, r})
	require.ErrorIs(t, err, statement.ErrMapping)
	require.Contains(t, err.Error(), "dup")
}
