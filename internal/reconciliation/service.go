package reconciliation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	v1 "github.com/aevon-lab/ledgerline/internal/api/v1"
	corerec "github.com/aevon-lab/ledgerline/internal/core/reconciliation"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
	"github.com/aevon-lab/ledgerline/internal/core/storage"
	"github.com/aevon-lab/ledgerline/internal/metrics"
)

// Stores groups the persistence ports used by reconciliation runs.
type Stores struct {
	Versions storage.StatementVersionStore
	Facts    storage.FactStore
	Ledger   storage.ReconciliationLedger
}

// Options configures every engine the service builds.
type Options struct {
	DefaultRuleSetID string
	Engine           corerec.Config
	EngineOptions    []corerec.Option
}

// Service reconciles stored statements and appends the results to the ledger.
type Service struct {
	ruleSets         corerec.RuleSetStore
	versions         storage.StatementVersionStore
	facts            storage.FactStore
	ledger           storage.ReconciliationLedger
	base             corerec.Config
	engineOpts       []corerec.Option
	defaultRuleSetID string
	metrics          *metrics.Metrics
}

func NewService(ruleSets corerec.RuleSetStore, stores Stores, opts Options, m *metrics.Metrics) *Service {
	if ruleSets == nil {
		panic("reconciliation: rule set store must not be nil")
	}
	if stores.Versions == nil || stores.Facts == nil || stores.Ledger == nil {
		panic("reconciliation: stores must not be nil")
	}
	if m == nil {
		m = metrics.Discard()
	}
	if opts.DefaultRuleSetID == "" {
		opts.DefaultRuleSetID = corerec.DefaultRuleSetID
	}
	if opts.Engine.DefaultTolerance.IsZero() && opts.Engine.FXToleranceBps == 0 {
		opts.Engine = corerec.DefaultConfig()
	}
	return &Service{
		ruleSets:         ruleSets,
		versions:         stores.Versions,
		facts:            stores.Facts,
		ledger:           stores.Ledger,
		base:             opts.Engine,
		engineOpts:       opts.EngineOptions,
		defaultRuleSetID: opts.DefaultRuleSetID,
		metrics:          m,
	}
}

// RegisterRoutes registers the reconciliation run routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/reconciliation/runs", s.HandleRun)
	r.GET("/v1/reconciliation/rule-sets", s.HandleRuleSets)
}

// engineFor builds an engine stamping results with the version of rs.
func (s *Service) engineFor(rs corerec.RuleSet, extra ...corerec.Option) *corerec.Engine {
	cfg := s.base
	cfg.RuleSetVersion = rs.Version
	opts := append(append([]corerec.Option{}, s.engineOpts...), extra...)
	return corerec.NewEngine(cfg, opts...)
}

func (s *Service) resolveRuleSet(ctx context.Context, id string) (corerec.RuleSet, error) {
	if strings.TrimSpace(id) == "" {
		id = s.defaultRuleSetID
	}
	return s.ruleSets.GetRuleSet(ctx, id)
}

// Run reconciles the latest normalized version of every matching statement
// of one company and fiscal year and appends the results as one run.
func (s *Service) Run(ctx context.Context, req *v1.ReconciliationRunRequest) (*v1.ReconciliationRunResponse, error) {
	cik, err := normalizeCIK(req.CIK)
	if err != nil {
		return nil, err
	}
	types, period, err := req.Scope()
	if err != nil {
		return nil, err
	}
	rs, err := s.resolveRuleSet(ctx, req.RuleSetID)
	if err != nil {
		return nil, err
	}

	in, err := s.collect(ctx, cik, []target{{fiscalYear: req.FiscalYear, fiscalPeriod: period}}, types, needsFacts(rs))
	if err != nil {
		return nil, err
	}
	if len(in.Statements) == 0 {
		details := map[string]interface{}{"cik": cik, "fiscal_year": req.FiscalYear}
		if period != nil {
			details["fiscal_period"] = string(*period)
		}
		return nil, statement.NewIngestionError(details, "no normalized statements found for reconciliation run")
	}

	run, err := s.engineFor(rs).Run(rs.Rules, in, nil)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.AppendResults(ctx, run); err != nil {
		return nil, fmt.Errorf("append reconciliation results: %w", err)
	}
	s.record(run)

	counts := run.Counts()
	slog.Info("[Reconciliation] Run complete",
		"run_id", run.RunID,
		"cik", cik,
		"fiscal_year", req.FiscalYear,
		"rule_set_id", rs.ID,
		"statements", len(in.Statements),
		"pass", counts[corerec.StatusPass],
		"warning", counts[corerec.StatusWarning],
		"fail", counts[corerec.StatusFail],
	)

	resp := v1.NewRunResponse(rs.ID, len(in.Statements), run)
	return &resp, nil
}

// RuleSets lists every available rule set.
func (s *Service) RuleSets(ctx context.Context) (*v1.RuleSetsResponse, error) {
	sets, err := s.ruleSets.ListRuleSets(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]v1.RuleSetSummary, 0, len(sets))
	for _, rs := range sets {
		items = append(items, v1.NewRuleSetSummary(rs, rs.ID == s.defaultRuleSetID))
	}
	return &v1.RuleSetsResponse{Count: len(items), RuleSets: items}, nil
}

func (s *Service) record(run corerec.Run) {
	for _, r := range run.Results {
		s.metrics.ReconciliationResults.WithLabelValues(string(r.Category), string(r.Status)).Inc()
	}
}

// target is one (fiscal year, fiscal period) slice of a company. A nil period
// covers every period of the year.
type target struct {
	fiscalYear   int
	fiscalPeriod *statement.FiscalPeriod
}

// collect loads the latest normalized version per statement type and fiscal
// period for each target. Facts are only loaded when withFacts is set.
func (s *Service) collect(ctx context.Context, cik string, targets []target, types []statement.StatementType, withFacts bool) (corerec.Input, error) {
	in := corerec.Input{}
	if withFacts {
		in.Facts = make(map[statement.Identity][]statement.NormalizedFact)
	}
	for _, t := range targets {
		for _, st := range types {
			versions, err := s.versions.ListStatementVersionsForCompany(ctx, cik, st, t.fiscalYear, t.fiscalPeriod)
			if err != nil {
				return corerec.Input{}, fmt.Errorf("list %s versions for %s: %w", st, cik, err)
			}
			for _, p := range latestNormalized(versions) {
				in.Statements = append(in.Statements, p)
				if !withFacts {
					continue
				}
				id := p.Identity()
				fs, err := s.facts.ListFactsForStatement(ctx, id)
				if err != nil {
					return corerec.Input{}, fmt.Errorf("list facts for %s: %w", id, err)
				}
				in.Facts[id] = fs
			}
		}
	}
	return in, nil
}

// latestNormalized keeps the highest normalized version of each fiscal
// period, ordered by period.
func latestNormalized(versions []statement.StatementVersion) []*statement.Payload {
	byPeriod := make(map[statement.FiscalPeriod]statement.StatementVersion)
	for _, v := range versions {
		if v.NormalizedPayload == nil {
			continue
		}
		if cur, ok := byPeriod[v.FiscalPeriod]; !ok || v.VersionSequence > cur.VersionSequence {
			byPeriod[v.FiscalPeriod] = v
		}
	}
	periods := make([]statement.FiscalPeriod, 0, len(byPeriod))
	for fp := range byPeriod {
		periods = append(periods, fp)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i] < periods[j] })

	out := make([]*statement.Payload, 0, len(periods))
	for _, fp := range periods {
		out = append(out, byPeriod[fp].NormalizedPayload)
	}
	return out
}

func needsFacts(rs corerec.RuleSet) bool {
	for _, r := range rs.Rules {
		if r.Enabled && r.Category == corerec.CategorySegment {
			return true
		}
	}
	return false
}

func normalizeCIK(raw string) (string, error) {
	cik := strings.TrimSpace(raw)
	if cik == "" {
		return "", statement.NewMappingError(nil, "cik must not be empty for reconciliation run")
	}
	for _, r := range cik {
		if r < '0' || r > '9' {
			return "", statement.NewMappingError(map[string]interface{}{"cik": raw}, "cik must contain only digits for reconciliation run")
		}
	}
	return cik, nil
}
