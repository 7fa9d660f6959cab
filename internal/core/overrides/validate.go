package overrides

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

var ruleValidator = newRuleValidator()

func newRuleValidator() *validator.Validate {
	v := validator.New()
	// Report violations by YAML/JSON field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateRule checks one rule for authoring errors and returns a
// MappingError listing every violation.
func ValidateRule(r Rule) error {
	violations := ruleViolations(r)
	if len(violations) == 0 {
		return nil
	}
	return statement.NewMappingError(map[string]interface{}{
		"rule_id":    r.RuleID,
		"violations": violations,
	}, "invalid override rule %q: %s", r.RuleID, strings.Join(violations, "; "))
}

// ValidateRules validates each rule and rejects duplicate rule IDs.
func ValidateRules(rules []Rule) error {
	seen := make(map[string]struct{}, len(rules))
	var dupes []string
	for _, r := range rules {
		if err := ValidateRule(r); err != nil {
			return err
		}
		if _, ok := seen[r.RuleID]; ok {
			dupes = append(dupes, r.RuleID)
		}
		seen[r.RuleID] = struct{}{}
	}
	if len(dupes) > 0 {
		sort.Strings(dupes)
		return statement.NewMappingError(map[string]interface{}{"duplicate_rule_ids": dupes},
			"duplicate override rule ids: %s", strings.Join(dupes, ", "))
	}
	return nil
}

func ruleViolations(r Rule) []string {
	var out []string
	if err := ruleValidator.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				out = append(out, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
		} else {
			out = append(out, err.Error())
		}
	}

	if r.IsSuppression && r.TargetMetric != nil {
		out = append(out, "suppression rules must not declare target_metric")
	}
	if !r.IsSuppression && r.TargetMetric == nil {
		out = append(out, "non-suppression rules must declare target_metric")
	}

	switch r.Scope {
	case ScopeGlobal:
		if r.MatchCIK != nil || r.MatchIndustryCode != nil || r.MatchAnalystID != nil {
			out = append(out, "GLOBAL rules must not declare match_cik, match_industry_code or match_analyst_id")
		}
	case ScopeIndustry:
		if r.MatchIndustryCode == nil {
			out = append(out, "INDUSTRY rules require match_industry_code")
		}
		if r.MatchCIK != nil || r.MatchAnalystID != nil {
			out = append(out, "INDUSTRY rules must not declare match_cik or match_analyst_id")
		}
	case ScopeCompany:
		if r.MatchCIK == nil {
			out = append(out, "COMPANY rules require match_cik")
		}
		if r.MatchIndustryCode != nil || r.MatchAnalystID != nil {
			out = append(out, "COMPANY rules must not declare match_industry_code or match_analyst_id")
		}
	case ScopeAnalyst:
		if r.MatchAnalystID == nil {
			out = append(out, "ANALYST rules require match_analyst_id")
		}
		if r.MatchCIK != nil || r.MatchIndustryCode != nil {
			out = append(out, "ANALYST rules must not declare match_cik or match_industry_code")
		}
	}

	keys := make([]string, 0, len(r.MatchDimensions))
	for k := range r.MatchDimensions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			out = append(out, "match_dimensions keys must not be blank")
			continue
		}
		if strings.TrimSpace(r.MatchDimensions[k]) == "" {
			out = append(out, fmt.Sprintf("match_dimensions[%s] must not be blank", k))
		}
	}
	return out
}
