package ingestion

import (
	"github.com/gin-gonic/gin"

	"github.com/aevon-lab/ledgerline/internal/core/facts"
	"github.com/aevon-lab/ledgerline/internal/core/normalize"
	"github.com/aevon-lab/ledgerline/internal/core/overrides"
	"github.com/aevon-lab/ledgerline/internal/core/storage"
	"github.com/aevon-lab/ledgerline/internal/metrics"
)

// Stores groups the persistence ports used by ingestion.
type Stores struct {
	Versions storage.StatementVersionStore
	Facts    storage.FactStore
	Writer   storage.NormalizedStatementWriter
}

// Options tunes fact derivation and request handling.
type Options struct {
	Derivation    facts.DerivationConfig
	HistoryLimit  int
	MaxBodySizeMB int
}

type Service struct {
	normalizer       *normalize.Normalizer
	rules            overrides.RuleStore
	versions         storage.StatementVersionStore
	facts            storage.FactStore
	writer           storage.NormalizedStatementWriter
	dq               *facts.DQEngine
	derivation       facts.DerivationConfig
	historyLimit     int
	maxBodySizeBytes int
	metrics          *metrics.Metrics
}

func NewService(n *normalize.Normalizer, rules overrides.RuleStore, stores Stores, dq *facts.DQEngine, opts Options, m *metrics.Metrics) *Service {
	if n == nil {
		panic("ingestion: normalizer must not be nil")
	}
	if rules == nil {
		panic("ingestion: rule store must not be nil")
	}
	if stores.Versions == nil || stores.Facts == nil || stores.Writer == nil {
		panic("ingestion: stores must not be nil")
	}
	if dq == nil {
		panic("ingestion: dq engine must not be nil")
	}
	if m == nil {
		m = metrics.Discard()
	}
	if opts.MaxBodySizeMB <= 0 {
		opts.MaxBodySizeMB = 1
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 500
	}
	if opts.Derivation.PeriodStartStrategy == "" {
		opts.Derivation = facts.DefaultDerivationConfig()
	}
	return &Service{
		normalizer:       n,
		rules:            rules,
		versions:         stores.Versions,
		facts:            stores.Facts,
		writer:           stores.Writer,
		dq:               dq,
		derivation:       opts.Derivation,
		historyLimit:     opts.HistoryLimit,
		maxBodySizeBytes: opts.MaxBodySizeMB * 1024 * 1024,
		metrics:          m,
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/statements/normalize", s.NormalizeHandler)
	r.GET("/v1/statements/:cik/:statement_type/:fiscal_year/versions", s.ListVersionsHandler)
}
