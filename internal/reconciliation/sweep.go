package reconciliation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	corerec "github.com/aevon-lab/ledgerline/internal/core/reconciliation"
	"github.com/aevon-lab/ledgerline/internal/core/partition"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// SweepCheckpoint names the ledger checkpoint advanced by the sweep.
const SweepCheckpoint = "reconciliation_sweep"

const (
	defaultSweepBatchSize   = 500
	defaultSweepWorkerCount = 4
	maxConsecutiveBatches   = 100
)

// SweepOptions controls throughput of the background sweep.
type SweepOptions struct {
	Interval    time.Duration
	BatchSize   int
	WorkerCount int
	RuleSetID   string
}

func (o SweepOptions) normalized() SweepOptions {
	n := o
	if n.Interval <= 0 {
		n.Interval = 2 * time.Minute
	}
	if n.BatchSize <= 0 {
		n.BatchSize = defaultSweepBatchSize
	}
	if n.WorkerCount <= 0 {
		n.WorkerCount = defaultSweepWorkerCount
	}
	return n
}

// Sweep reconciles newly ingested statement versions on a periodic interval.
// It is stateless: each tick resumes from the durable ledger checkpoint.
type Sweep struct {
	svc   *Service
	opts  SweepOptions
	newID func() string
	now   func() time.Time
}

func NewSweep(svc *Service, opts SweepOptions) *Sweep {
	if svc == nil {
		panic("reconciliation: sweep service must not be nil")
	}
	return &Sweep{
		svc:   svc,
		opts:  opts.normalized(),
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Start drains the backlog on every tick until ctx is cancelled, then runs a
// final bounded drain.
func (s *Sweep) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	slog.Info("[Sweep] Starting reconciliation sweep",
		"interval", s.opts.Interval,
		"batch_size", s.opts.BatchSize,
		"workers", s.opts.WorkerCount,
	)

	s.drainBacklog(ctx)

	for {
		select {
		case <-ticker.C:
			s.drainBacklog(ctx)
		case <-ctx.Done():
			slog.Info("[Sweep] Stopping (context cancelled)")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			slog.Info("[Sweep] Running final drain before shutdown...")
			s.drainBacklog(shutdownCtx)
			slog.Info("[Sweep] Final drain complete")
			return nil
		}
	}
}

// drainBacklog runs batches until one comes back short of the batch size.
func (s *Sweep) drainBacklog(ctx context.Context) {
	batchCount := 0
	for batchCount < maxConsecutiveBatches {
		select {
		case <-ctx.Done():
			slog.Info("[Sweep] Drain interrupted by context cancellation", "batches_processed", batchCount)
			return
		default:
		}

		processed, err := s.RunOnce(ctx)
		if err != nil {
			slog.Error("[Sweep] Batch failed", "error", err, "batch_number", batchCount+1)
			return
		}
		batchCount++

		if processed < s.opts.BatchSize {
			if batchCount > 1 {
				slog.Info("[Sweep] Backlog drained", "total_batches", batchCount)
			}
			return
		}
		slog.Info("[Sweep] Backlog detected, continuing to drain", "batches_so_far", batchCount)
	}

	slog.Warn("[Sweep] Max consecutive batches reached, pausing drain",
		"max_batches", maxConsecutiveBatches,
		"note", "Will resume on next tick",
	)
}

// RunOnce reconciles one batch of versions after the checkpoint and returns
// how many versions it consumed. Results and the new cursor are committed
// together, so a failed batch is retried from the same cursor.
func (s *Sweep) RunOnce(ctx context.Context) (int, error) {
	started := time.Now()

	cursor, err := s.svc.ledger.ReadCheckpoint(ctx, SweepCheckpoint)
	if err != nil {
		return 0, fmt.Errorf("read checkpoint: %w", err)
	}
	versions, err := s.svc.versions.ListStatementVersionsAfterCursor(ctx, cursor, s.opts.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("query statement versions: %w", err)
	}
	if len(versions) == 0 {
		slog.Debug("[Sweep] No new statement versions", "cursor", cursor)
		return 0, nil
	}

	rs, err := s.svc.resolveRuleSet(ctx, s.opts.RuleSetID)
	if err != nil {
		return 0, fmt.Errorf("resolve rule set: %w", err)
	}

	runID := s.newID()
	executedAt := s.now()
	engine := s.svc.engineFor(rs, corerec.WithIDFunc(func() string { return runID }))

	byCIK, err := s.reconcileLanes(ctx, engine, rs, groupTargets(versions), executedAt)
	if err != nil {
		return 0, err
	}

	run := corerec.Run{
		RunID:          runID,
		ExecutedAt:     executedAt,
		RuleSetVersion: rs.Version,
		Results:        []corerec.Result{},
	}
	ciks := make([]string, 0, len(byCIK))
	for cik := range byCIK {
		ciks = append(ciks, cik)
	}
	sort.Strings(ciks)
	for _, cik := range ciks {
		run.Results = append(run.Results, byCIK[cik]...)
	}

	newCursor := versions[len(versions)-1].IngestSeq
	if err := s.svc.ledger.AppendResultsWithCheckpoint(ctx, run, SweepCheckpoint, newCursor); err != nil {
		return 0, fmt.Errorf("append results: %w", err)
	}
	s.svc.record(run)
	s.svc.metrics.SweepCursor.Set(float64(newCursor))
	s.svc.metrics.SweepDuration.Observe(time.Since(started).Seconds())

	slog.Info("[Sweep] Batch complete",
		"run_id", runID,
		"versions_processed", len(versions),
		"companies", len(ciks),
		"results", len(run.Results),
		"cursor_advanced", fmt.Sprintf("%d -> %d", cursor, newCursor),
	)
	return len(versions), nil
}

// reconcileLanes assigns every company to a lane by partition so one company
// is never reconciled concurrently with itself, and runs lanes in parallel.
func (s *Sweep) reconcileLanes(
	ctx context.Context,
	engine *corerec.Engine,
	rs corerec.RuleSet,
	targets map[string][]target,
	executedAt time.Time,
) (map[string][]corerec.Result, error) {
	workers := s.opts.WorkerCount
	if len(targets) < workers {
		workers = len(targets)
	}
	lanes := make([][]string, workers)
	for cik := range targets {
		l := partition.Lane(cik, workers)
		lanes[l] = append(lanes[l], cik)
	}

	withFacts := needsFacts(rs)
	laneResults := make([]map[string][]corerec.Result, workers)

	g, gctx := errgroup.WithContext(ctx)
	for i, lane := range lanes {
		sort.Strings(lane)
		g.Go(func() error {
			local := make(map[string][]corerec.Result, len(lane))
			for _, cik := range lane {
				in, err := s.svc.collect(gctx, cik, targets[cik], allStatementTypes, withFacts)
				if err != nil {
					return err
				}
				if len(in.Statements) == 0 {
					continue
				}
				run, err := engine.Run(rs.Rules, in, &executedAt)
				if err != nil {
					return fmt.Errorf("reconcile %s: %w", cik, err)
				}
				local[cik] = run.Results
			}
			laneResults[i] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string][]corerec.Result, len(targets))
	for _, local := range laneResults {
		for cik, results := range local {
			merged[cik] = results
		}
	}
	return merged, nil
}

var allStatementTypes = []statement.StatementType{
	statement.IncomeStatement,
	statement.BalanceSheet,
	statement.CashFlowStatement,
}

// groupTargets collects the distinct fiscal periods touched per company.
func groupTargets(versions []statement.StatementVersion) map[string][]target {
	type key struct {
		fy int
		fp statement.FiscalPeriod
	}
	seen := make(map[string]map[key]bool)
	out := make(map[string][]target)
	for _, v := range versions {
		if seen[v.CIK] == nil {
			seen[v.CIK] = make(map[key]bool)
		}
		k := key{fy: v.FiscalYear, fp: v.FiscalPeriod}
		if seen[v.CIK][k] {
			continue
		}
		seen[v.CIK][k] = true
		fp := v.FiscalPeriod
		out[v.CIK] = append(out[v.CIK], target{fiscalYear: v.FiscalYear, fiscalPeriod: &fp})
	}
	return out
}
