package projection

import (
	"context"
	"fmt"

	v1 "github.com/aevon-lab/ledgerline/internal/api/v1"
	"github.com/aevon-lab/ledgerline/internal/core/facts"
	"github.com/aevon-lab/ledgerline/internal/core/overrides"
	"github.com/aevon-lab/ledgerline/internal/core/quality"
	"github.com/aevon-lab/ledgerline/internal/core/restatement"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
	"github.com/aevon-lab/ledgerline/internal/core/storage"
)

// Service implements the read side: restatement analytics, statement quality,
// stored facts and DQ anomalies, reconciliation ledger rows and override rules.
type Service struct {
	versions    storage.StatementVersionStore
	facts       storage.FactStore
	dq          storage.DQStore
	ledger      storage.ReconciliationLedger
	rules       overrides.RuleStore
	profile     restatement.MaterialityProfile
	resultLimit int
}

// Stores groups the persistence ports read by the projection layer.
type Stores struct {
	Versions storage.StatementVersionStore
	Facts    storage.FactStore
	DQ       storage.DQStore
	Ledger   storage.ReconciliationLedger
}

// NewService creates a new projection service. resultLimit caps ledger rows
// per response.
func NewService(stores Stores, rules overrides.RuleStore, profile restatement.MaterialityProfile, resultLimit int) *Service {
	if stores.Versions == nil || stores.Facts == nil || stores.DQ == nil || stores.Ledger == nil {
		panic("projection: stores must not be nil")
	}
	if rules == nil {
		panic("projection: rule store must not be nil")
	}
	if resultLimit <= 0 {
		resultLimit = 1000
	}
	return &Service{
		versions:    stores.Versions,
		facts:       stores.Facts,
		dq:          stores.DQ,
		ledger:      stores.Ledger,
		rules:       rules,
		profile:     profile,
		resultLimit: resultLimit,
	}
}

func (s *Service) listVersions(ctx context.Context, p StatementPeriod) ([]statement.StatementVersion, error) {
	fp := p.FiscalPeriod
	versions, err := s.versions.ListStatementVersionsForCompany(ctx, p.CIK, p.StatementType, p.FiscalYear, &fp)
	if err != nil {
		return nil, fmt.Errorf("list statement versions: %w", err)
	}
	return versions, nil
}

// Delta compares two versions of a statement period. See
// restatement.SelectVersionPair for how from and to pick the pair.
func (s *Service) Delta(ctx context.Context, p StatementPeriod, from, to *int, metrics []statement.Metric) (*restatement.Delta, error) {
	versions, err := s.listVersions(ctx, p)
	if err != nil {
		return nil, err
	}
	a, b, err := restatement.SelectVersionPair(versions, from, to)
	if err != nil {
		return nil, err
	}
	return restatement.ComputeDelta(a.NormalizedPayload, b.NormalizedPayload, metrics)
}

// Ledger chains every consecutive pair of normalized versions.
func (s *Service) Ledger(ctx context.Context, p StatementPeriod, metrics []statement.Metric) (*LedgerResponse, error) {
	versions, err := s.listVersions(ctx, p)
	if err != nil {
		return nil, err
	}
	hops, err := restatement.BuildLedger(versions, metrics)
	if err != nil {
		return nil, err
	}
	return &LedgerResponse{
		CIK:           p.CIK,
		StatementType: p.StatementType,
		FiscalYear:    p.FiscalYear,
		FiscalPeriod:  p.FiscalPeriod,
		HopCount:      len(hops),
		Hops:          hops,
	}, nil
}

// Timeline summarizes the ledger per metric and grades it with the
// configured materiality profile.
func (s *Service) Timeline(ctx context.Context, p StatementPeriod, metrics []statement.Metric) (*restatement.Timeline, error) {
	ledger, err := s.Ledger(ctx, p, metrics)
	if err != nil {
		return nil, err
	}
	return restatement.BuildTimeline(ledger.Hops, s.profile)
}

// Quality scores the latest normalized version of a period against the
// latest normalized version of the previous period.
func (s *Service) Quality(ctx context.Context, p StatementPeriod) (*QualityResponse, error) {
	versions, err := s.listVersions(ctx, p)
	if err != nil {
		return nil, err
	}
	current := latestNormalized(versions)
	if current == nil {
		return nil, statement.NewNotFoundError(map[string]interface{}{
			"cik":            p.CIK,
			"statement_type": string(p.StatementType),
			"fiscal_year":    p.FiscalYear,
			"fiscal_period":  string(p.FiscalPeriod),
		}, "no normalized statement version found")
	}

	resp := &QualityResponse{Identity: current.Identity()}
	var previous *statement.Payload
	if fy, fp, ok := quality.PreviousPeriod(p.FiscalYear, p.FiscalPeriod); ok {
		prior, err := s.versions.ListStatementVersionsForCompany(ctx, p.CIK, p.StatementType, fy, &fp)
		if err != nil {
			return nil, fmt.Errorf("list previous period versions: %w", err)
		}
		if v := latestNormalized(prior); v != nil {
			id := v.Identity()
			resp.PreviousIdentity = &id
			previous = v.NormalizedPayload
		}
	}
	resp.Report = quality.Evaluate(current.NormalizedPayload, previous)
	return resp, nil
}

func latestNormalized(versions []statement.StatementVersion) *statement.StatementVersion {
	var latest *statement.StatementVersion
	for i := range versions {
		v := &versions[i]
		if v.NormalizedPayload == nil {
			continue
		}
		if latest == nil || v.VersionSequence > latest.VersionSequence {
			latest = v
		}
	}
	return latest
}

func (s *Service) Facts(ctx context.Context, id statement.Identity) (*FactsResponse, error) {
	fs, err := s.facts.ListFactsForStatement(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list facts: %w", err)
	}
	if fs == nil {
		fs = []statement.NormalizedFact{}
	}
	return &FactsResponse{Identity: id, Count: len(fs), Facts: fs}, nil
}

func (s *Service) Anomalies(ctx context.Context, id statement.Identity) (*AnomaliesResponse, error) {
	as, err := s.dq.ListAnomaliesForStatement(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list anomalies: %w", err)
	}
	resp := &AnomaliesResponse{Identity: id, Count: len(as), Anomalies: as}
	if resp.Anomalies == nil {
		resp.Anomalies = []facts.Anomaly{}
	}
	return resp, nil
}

// clampLimit returns the configured cap for zero or oversized limits.
func (s *Service) clampLimit(limit int) int {
	if limit <= 0 || limit > s.resultLimit {
		return s.resultLimit
	}
	return limit
}

// StatementResults lists ledger rows of one statement version, optionally of
// a single run.
func (s *Service) StatementResults(ctx context.Context, id statement.Identity, runID *string, limit int) (*v1.ReconciliationResultsResponse, error) {
	rows, err := s.ledger.ListForStatement(ctx, id, runID, s.clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list reconciliation results: %w", err)
	}
	items := v1.NewResultItems(rows)
	return &v1.ReconciliationResultsResponse{Count: len(items), Results: items}, nil
}

// WindowResults lists ledger rows of a company across a fiscal year range.
func (s *Service) WindowResults(ctx context.Context, cik string, st statement.StatementType, fromYear, toYear, limit int) (*v1.ReconciliationResultsResponse, error) {
	if fromYear > toYear {
		return nil, statement.NewMappingError(map[string]interface{}{"from_year": fromYear, "to_year": toYear}, "from_year must not be after to_year")
	}
	rows, err := s.ledger.ListForWindow(ctx, cik, st, fromYear, toYear, s.clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list reconciliation window: %w", err)
	}
	items := v1.NewResultItems(rows)
	return &v1.ReconciliationResultsResponse{Count: len(items), Results: items}, nil
}

// Rules lists the override rules that apply to concept.
func (s *Service) Rules(ctx context.Context, concept string, taxonomy *string) (*RulesResponse, error) {
	rules, err := s.rules.ListRulesForConcept(ctx, concept, taxonomy)
	if err != nil {
		return nil, fmt.Errorf("list override rules: %w", err)
	}
	if rules == nil {
		rules = []overrides.Rule{}
	}
	return &RulesResponse{Concept: concept, Taxonomy: taxonomy, Count: len(rules), Rules: rules}, nil
}
