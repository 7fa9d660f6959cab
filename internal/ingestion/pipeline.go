package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	v1 "github.com/aevon-lab/ledgerline/internal/api/v1"
	"github.com/aevon-lab/ledgerline/internal/core/facts"
	"github.com/aevon-lab/ledgerline/internal/core/normalize"
	"github.com/aevon-lab/ledgerline/internal/core/overrides"
	"github.com/aevon-lab/ledgerline/internal/core/quality"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// Normalize maps the raw facts of req onto a canonical payload, derives its
// facts, runs DQ against the company's history and commits version, facts
// and DQ run in one transaction. The statement-quality report compares with
// the latest normalized version of the previous fiscal period.
func (s *Service) Normalize(ctx context.Context, req *v1.NormalizeStatementRequest) (*v1.NormalizeStatementResponse, error) {
	nreq, err := req.ToRequest()
	if err != nil {
		return nil, err
	}

	rules, err := s.resolveRules(ctx, nreq)
	if err != nil {
		return nil, err
	}
	nreq.OverrideRules = rules

	result, err := s.normalizer.Normalize(nreq)
	if err != nil {
		return nil, err
	}

	version := statement.VersionFromPayload(result.Payload, result.PayloadVersion)
	derived, err := facts.PayloadToFacts(result.Payload, version.VersionSequence, s.derivation)
	if err != nil {
		return nil, err
	}

	history, err := s.facts.ListFactHistory(ctx, version.CIK, version.StatementType, version.StatementDate, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("load fact history: %w", err)
	}
	dq := s.dq.Evaluate(version.Identity(), derived, history, nil)

	if err := s.writer.SaveNormalizedStatement(ctx, &version, derived, dq); err != nil {
		return nil, fmt.Errorf("save normalized statement: %w", err)
	}

	slog.Info("[Ingestion] Statement normalized",
		"cik", version.CIK,
		"statement_type", version.StatementType,
		"fiscal_year", version.FiscalYear,
		"fiscal_period", version.FiscalPeriod,
		"version_sequence", version.VersionSequence,
		"ingest_seq", version.IngestSeq,
		"facts", len(derived),
		"warnings", len(result.Warnings),
		"anomalies", len(dq.Anomalies))

	s.record(version.StatementType, result.Overrides, dq)

	previous := s.previousPayload(ctx, result.Payload)
	report := quality.Evaluate(result.Payload, previous)

	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return &v1.NormalizeStatementResponse{
		Identity:       version.Identity(),
		IngestSeq:      version.IngestSeq,
		Payload:        result.Payload,
		PayloadVersion: result.PayloadVersion,
		MetricRecords:  result.MetricRecords,
		Warnings:       warnings,
		Overrides:      result.Overrides,
		DQ:             v1.NewDQSummary(dq),
		Quality:        report,
	}, nil
}

// resolveRules collects the override rules of every distinct concept in the
// request, in concept order.
func (s *Service) resolveRules(ctx context.Context, req normalize.Request) ([]overrides.Rule, error) {
	seen := make(map[string]bool, len(req.Facts))
	concepts := make([]string, 0, len(req.Facts))
	for _, f := range req.Facts {
		if !seen[f.Concept] {
			seen[f.Concept] = true
			concepts = append(concepts, f.Concept)
		}
	}
	sort.Strings(concepts)

	taxonomy := req.Taxonomy
	var rules []overrides.Rule
	for _, concept := range concepts {
		found, err := s.rules.ListRulesForConcept(ctx, concept, &taxonomy)
		if err != nil {
			return nil, fmt.Errorf("list override rules for %s: %w", concept, err)
		}
		rules = append(rules, found...)
	}
	return rules, nil
}

// previousPayload returns the latest normalized version of the period before
// p, or nil when there is none. Lookup failures only degrade the quality
// report.
func (s *Service) previousPayload(ctx context.Context, p *statement.Payload) *statement.Payload {
	fy, fp, ok := quality.PreviousPeriod(p.FiscalYear(), p.FiscalPeriod())
	if !ok {
		return nil
	}
	versions, err := s.versions.ListStatementVersionsForCompany(ctx, p.CIK(), p.StatementType(), fy, &fp)
	if err != nil {
		slog.Warn("[Ingestion] Previous period lookup failed", "cik", p.CIK(), "fiscal_year", fy, "fiscal_period", fp, "error", err)
		return nil
	}
	var latest *statement.Payload
	best := 0
	for _, v := range versions {
		if v.NormalizedPayload != nil && v.VersionSequence > best {
			latest, best = v.NormalizedPayload, v.VersionSequence
		}
	}
	return latest
}

func (s *Service) record(st statement.StatementType, summary normalize.OverrideSummary, dq facts.DQResult) {
	s.metrics.StatementsNormalized.WithLabelValues(string(st)).Inc()
	if summary.SuppressionCount > 0 {
		s.metrics.OverrideDecisions.WithLabelValues("suppress").Add(float64(summary.SuppressionCount))
	}
	if summary.RemapCount > 0 {
		s.metrics.OverrideDecisions.WithLabelValues("remap").Add(float64(summary.RemapCount))
	}
	for _, a := range dq.Anomalies {
		s.metrics.DQAnomalies.WithLabelValues(a.RuleCode).Inc()
	}
}
