package projection

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	httperr "github.com/aevon-lab/ledgerline/internal/core/errors"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

const statementPath = "/v1/statements/:cik/:statement_type/:fiscal_year/:fiscal_period"

// RegisterRoutes registers all projection API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET(statementPath+"/restatements/delta", s.HandleDelta)
	r.GET(statementPath+"/restatements/ledger", s.HandleLedger)
	r.GET(statementPath+"/restatements/timeline", s.HandleTimeline)
	r.GET(statementPath+"/quality", s.HandleQuality)
	r.GET(statementPath+"/versions/:version/facts", s.HandleFacts)
	r.GET(statementPath+"/versions/:version/anomalies", s.HandleAnomalies)

	r.GET("/v1/reconciliation/:cik/:statement_type/:fiscal_year/:fiscal_period/:version", s.HandleStatementResults)
	r.GET("/v1/reconciliation/:cik/:statement_type", s.HandleWindowResults)

	r.GET("/v1/overrides/rules", s.HandleRules)
}

func badRequest(c *gin.Context, message string, err error) {
	c.JSON(httperr.InvalidRequest(message, err.Error()))
}

// writeError maps domain errors onto their status; anything else is logged
// and becomes a 500 carrying fallback.
func writeError(c *gin.Context, err error, fallback string) {
	code, body := httperr.FromError(err, fallback)
	if code >= http.StatusInternalServerError {
		slog.Error("[Projection] "+fallback, "path", c.FullPath(), "error", err)
	}
	c.JSON(code, body)
}

func bindPeriod(c *gin.Context) (StatementPeriod, bool) {
	var uri periodURI
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, "Invalid path parameters", err)
		return StatementPeriod{}, false
	}
	p, err := uri.parse()
	if err != nil {
		writeError(c, err, "Invalid statement period")
		return StatementPeriod{}, false
	}
	return p, true
}

func bindVersion(c *gin.Context) (statement.Identity, bool) {
	var uri versionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, "Invalid path parameters", err)
		return statement.Identity{}, false
	}
	id, err := uri.identity()
	if err != nil {
		writeError(c, err, "Invalid statement identity")
		return statement.Identity{}, false
	}
	return id, true
}

func bindDelta(c *gin.Context) (deltaQuery, []statement.Metric, bool) {
	var q deltaQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return q, nil, false
	}
	metrics, err := parseMetrics(q.Metrics)
	if err != nil {
		writeError(c, err, "Invalid metrics")
		return q, nil, false
	}
	return q, metrics, true
}

// HandleDelta handles GET .../restatements/delta?from=&to=&metrics=
func (s *Service) HandleDelta(c *gin.Context) {
	p, ok := bindPeriod(c)
	if !ok {
		return
	}
	q, metrics, ok := bindDelta(c)
	if !ok {
		return
	}
	resp, err := s.Delta(c.Request.Context(), p, q.From, q.To, metrics)
	if err != nil {
		writeError(c, err, "Failed to compute restatement delta")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleLedger handles GET .../restatements/ledger?metrics=
func (s *Service) HandleLedger(c *gin.Context) {
	p, ok := bindPeriod(c)
	if !ok {
		return
	}
	_, metrics, ok := bindDelta(c)
	if !ok {
		return
	}
	resp, err := s.Ledger(c.Request.Context(), p, metrics)
	if err != nil {
		writeError(c, err, "Failed to build restatement ledger")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleTimeline handles GET .../restatements/timeline?metrics=
func (s *Service) HandleTimeline(c *gin.Context) {
	p, ok := bindPeriod(c)
	if !ok {
		return
	}
	_, metrics, ok := bindDelta(c)
	if !ok {
		return
	}
	resp, err := s.Timeline(c.Request.Context(), p, metrics)
	if err != nil {
		writeError(c, err, "Failed to build restatement timeline")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) HandleQuality(c *gin.Context) {
	p, ok := bindPeriod(c)
	if !ok {
		return
	}
	resp, err := s.Quality(c.Request.Context(), p)
	if err != nil {
		writeError(c, err, "Failed to evaluate statement quality")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) HandleFacts(c *gin.Context) {
	id, ok := bindVersion(c)
	if !ok {
		return
	}
	resp, err := s.Facts(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to list facts")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) HandleAnomalies(c *gin.Context) {
	id, ok := bindVersion(c)
	if !ok {
		return
	}
	resp, err := s.Anomalies(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to list anomalies")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleStatementResults handles GET /v1/reconciliation/:cik/:statement_type/:fiscal_year/:fiscal_period/:version
// Query parameters: run_id, limit
func (s *Service) HandleStatementResults(c *gin.Context) {
	id, ok := bindVersion(c)
	if !ok {
		return
	}
	var query struct {
		RunID *string `form:"run_id"`
		Limit int     `form:"limit" binding:"omitempty,gt=0"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	resp, err := s.StatementResults(c.Request.Context(), id, query.RunID, query.Limit)
	if err != nil {
		writeError(c, err, "Failed to list reconciliation results")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleWindowResults handles GET /v1/reconciliation/:cik/:statement_type
// Query parameters: from_year, to_year, limit
func (s *Service) HandleWindowResults(c *gin.Context) {
	var uri struct {
		CIK           string `uri:"cik" binding:"required"`
		StatementType string `uri:"statement_type" binding:"required"`
	}
	var query struct {
		FromYear int `form:"from_year" binding:"required,gt=0"`
		ToYear   int `form:"to_year" binding:"required,gt=0"`
		Limit    int `form:"limit" binding:"omitempty,gt=0"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, "Invalid path parameters", err)
		return
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	st, err := statement.ParseStatementType(uri.StatementType)
	if err != nil {
		writeError(c, err, "Invalid statement type")
		return
	}
	resp, err := s.WindowResults(c.Request.Context(), uri.CIK, st, query.FromYear, query.ToYear, query.Limit)
	if err != nil {
		writeError(c, err, "Failed to list reconciliation results")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleRules handles GET /v1/overrides/rules?concept=&taxonomy=
func (s *Service) HandleRules(c *gin.Context) {
	var query struct {
		Concept  string  `form:"concept" binding:"required"`
		Taxonomy *string `form:"taxonomy"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	resp, err := s.Rules(c.Request.Context(), query.Concept, query.Taxonomy)
	if err != nil {
		writeError(c, err, "Failed to list override rules")
		return
	}
	c.JSON(http.StatusOK, resp)
}
