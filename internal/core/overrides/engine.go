package overrides

import (
	"sort"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// Engine evaluates override rules. It is stateless and safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Apply resolves the effective decision for req. A trace is returned only
// when req.Debug is set.
//
// Precedence among matching rules: priority descending, then scope
// specificity descending, then rule_id ascending. The outcome does not depend
// on the order of req.Rules.
func (e *Engine) Apply(req Request) (Decision, *Trace) {
	rules := make([]Rule, len(req.Rules))
	copy(rules, req.Rules)
	sort.Slice(rules, func(i, j int) bool { return rules[i].RuleID < rules[j].RuleID })

	var (
		matched []Rule
		entries []TraceEntry
	)
	for _, r := range rules {
		reason, ok := match(r, req)
		if ok {
			matched = append(matched, r)
		}
		if req.Debug {
			entries = append(entries, TraceEntry{RuleID: r.RuleID, Scope: r.Scope, Priority: r.Priority, Matched: ok, Reason: reason})
		}
	}

	decision := Decision{BaseMetric: req.BaseMetric, FinalMetric: req.BaseMetric}
	if req.BaseMetric != nil {
		decision.FinalTarget = strPtr(string(*req.BaseMetric))
	}

	if len(matched) > 0 {
		sort.SliceStable(matched, func(i, j int) bool { return outranks(matched[i], matched[j]) })
		winner := matched[0]
		decision = decide(winner, req.BaseMetric)

		for i := range entries {
			if !entries[i].Matched {
				continue
			}
			if entries[i].RuleID == winner.RuleID {
				entries[i].Reason = ReasonWinner
			} else {
				entries[i].Reason = ReasonOutranked
			}
		}
	}

	if !req.Debug {
		return decision, nil
	}
	return decision, &Trace{
		Concept:        req.Concept,
		Taxonomy:       req.Taxonomy,
		FactDimensions: req.FactDimensions,
		CIK:            req.CIK,
		IndustryCode:   req.IndustryCode,
		AnalystID:      req.AnalystID,
		BaseMetric:     req.BaseMetric,
		Decision:       decision,
		Considered:     entries,
	}
}

// outranks reports whether a beats b.
func outranks(a, b Rule) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if sa, sb := a.Scope.Specificity(), b.Scope.Specificity(); sa != sb {
		return sa > sb
	}
	return a.RuleID < b.RuleID
}

func decide(winner Rule, base *statement.Metric) Decision {
	scope := winner.Scope
	d := Decision{
		BaseMetric:    base,
		AppliedScope:  &scope,
		AppliedRuleID: strPtr(winner.RuleID),
	}

	switch {
	case winner.IsSuppression:
		d.Suppressed = true
		d.WasOverridden = true
	case winner.TargetMetric != nil:
		target := *winner.TargetMetric
		d.FinalTarget = strPtr(target)
		if m, ok := statement.ParseMetric(target); ok {
			d.FinalMetric = &m
			d.FinalTarget = strPtr(string(m))
		}
		d.WasOverridden = base == nil || string(*base) != *d.FinalTarget
	default:
		d.FinalMetric = base
		if base != nil {
			d.FinalTarget = strPtr(string(*base))
		}
	}
	return d
}

// match returns ("", true) when r applies to req, else the first failing reason.
func match(r Rule, req Request) (string, bool) {
	if r.SourceConcept != req.Concept {
		return ReasonConceptMismatch, false
	}
	if r.SourceTaxonomy != nil && (req.Taxonomy == nil || *r.SourceTaxonomy != *req.Taxonomy) {
		return ReasonTaxonomyMismatch, false
	}

	switch r.Scope {
	case ScopeGlobal:
		if r.MatchCIK != nil || r.MatchIndustryCode != nil || r.MatchAnalystID != nil {
			return ReasonGlobalQualified, false
		}
	case ScopeIndustry:
		if r.MatchCIK != nil || !equalPtr(r.MatchIndustryCode, req.IndustryCode) {
			return ReasonIndustryMismatch, false
		}
	case ScopeCompany:
		if !equalPtr(r.MatchCIK, req.CIK) {
			return ReasonCIKMismatch, false
		}
	case ScopeAnalyst:
		if !equalPtr(r.MatchAnalystID, req.AnalystID) {
			return ReasonAnalystMismatch, false
		}
	default:
		return ReasonUnknownScope, false
	}

	for k, v := range r.MatchDimensions {
		if got, ok := req.FactDimensions[k]; !ok || got != v {
			return ReasonDimensionMismatch, false
		}
	}
	return "", true
}

// equalPtr requires the rule-side value to be set and equal to the request's.
func equalPtr(rule, req *string) bool {
	return rule != nil && req != nil && *rule == *req
}
