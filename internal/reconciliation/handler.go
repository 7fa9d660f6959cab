package reconciliation

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/aevon-lab/ledgerline/internal/api/v1"
	httperr "github.com/aevon-lab/ledgerline/internal/core/errors"
)

const (
	msgInvalidRequest = "Invalid reconciliation run request"
	msgRunFailed      = "Failed to run reconciliation"
	msgRuleSetsFailed = "Failed to list rule sets"
)

// HandleRun handles POST /v1/reconciliation/runs.
func (s *Service) HandleRun(c *gin.Context) {
	var req v1.ReconciliationRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(httperr.InvalidRequest(msgInvalidRequest, map[string]string{"error": err.Error()}))
		return
	}

	resp, err := s.Run(c.Request.Context(), &req)
	if err != nil {
		code, body := httperr.FromError(err, msgRunFailed)
		if code >= http.StatusInternalServerError {
			slog.Error("[Reconciliation] Run failed", "cik", req.CIK, "fiscal_year", req.FiscalYear, "error", err)
		} else {
			slog.Warn("[Reconciliation] Run rejected", "cik", req.CIK, "fiscal_year", req.FiscalYear, "error", err)
		}
		c.JSON(code, body)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// HandleRuleSets handles GET /v1/reconciliation/rule-sets.
func (s *Service) HandleRuleSets(c *gin.Context) {
	resp, err := s.RuleSets(c.Request.Context())
	if err != nil {
		code, body := httperr.FromError(err, msgRuleSetsFailed)
		if code >= http.StatusInternalServerError {
			slog.Error("[Reconciliation] "+msgRuleSetsFailed, "error", err)
		}
		c.JSON(code, body)
		return
	}
	c.JSON(http.StatusOK, resp)
}
