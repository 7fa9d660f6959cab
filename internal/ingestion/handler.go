package ingestion

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/aevon-lab/ledgerline/internal/api/v1"
	httperr "github.com/aevon-lab/ledgerline/internal/core/errors"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

const (
	msgReadBodyFailed  = "Failed to read request body"
	msgInvalidJSON     = "Invalid JSON body"
	msgNormalizeFailed = "Failed to normalize statement"
	msgListFailed      = "Failed to list statement versions"
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

func fromError(err error, fallback string) *ingestionError {
	code, body := httperr.FromError(err, fallback)
	return &ingestionError{statusCode: code, errorType: body.ErrorType, message: body.Message, details: body.Details}
}

// NormalizeHandler handles POST /v1/statements/normalize.
func (s *Service) NormalizeHandler(c *gin.Context) {
	req, payloadSize, ierr := s.parseRequest(c)
	if ierr != nil {
		writeError(c, ierr)
		return
	}

	slog.Info("Received Statement",
		"cik", req.CIK,
		"statement_type", req.StatementType,
		"fiscal_year", req.FiscalYear,
		"fiscal_period", req.FiscalPeriod,
		"version_sequence", req.VersionSequence,
		"facts", len(req.Facts),
		"payload_size", payloadSize)

	resp, err := s.Normalize(c.Request.Context(), req)
	if err != nil {
		ierr := fromError(err, msgNormalizeFailed)
		if ierr.statusCode >= http.StatusInternalServerError {
			slog.Error("[Ingestion] Normalization failed", "cik", req.CIK, "error", err)
		} else {
			slog.Warn("[Ingestion] Statement rejected", "cik", req.CIK, "error", err)
		}
		writeError(c, ierr)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// parseRequest reads the body under the size limit and binds it.
func (s *Service) parseRequest(c *gin.Context) (*v1.NormalizeStatementRequest, int, *ingestionError) {
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, 0, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidRequestError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var req v1.NormalizeStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidRequestError,
			message:    msgInvalidJSON,
			details:    map[string]interface{}{"error": err.Error()},
		}
	}
	return &req, len(bodyBytes), nil
}

type versionsURI struct {
	CIK           string `uri:"cik" binding:"required"`
	StatementType string `uri:"statement_type" binding:"required"`
	FiscalYear    int    `uri:"fiscal_year" binding:"required,gt=0"`
}

type versionsQuery struct {
	FiscalPeriod *string `form:"fiscal_period"`
}

// ListVersionsHandler handles GET /v1/statements/:cik/:statement_type/:fiscal_year/versions.
func (s *Service) ListVersionsHandler(c *gin.Context) {
	var uri versionsURI
	if err := c.ShouldBindUri(&uri); err != nil {
		writeError(c, &ingestionError{statusCode: http.StatusBadRequest, errorType: httperr.HttpInvalidRequestError, message: err.Error()})
		return
	}
	var q versionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, &ingestionError{statusCode: http.StatusBadRequest, errorType: httperr.HttpInvalidRequestError, message: err.Error()})
		return
	}

	st, err := statement.ParseStatementType(uri.StatementType)
	if err != nil {
		writeError(c, fromError(err, msgListFailed))
		return
	}
	var period *statement.FiscalPeriod
	if q.FiscalPeriod != nil {
		fp, err := statement.ParseFiscalPeriod(*q.FiscalPeriod)
		if err != nil {
			writeError(c, fromError(err, msgListFailed))
			return
		}
		period = &fp
	}

	versions, err := s.versions.ListStatementVersionsForCompany(c.Request.Context(), uri.CIK, st, uri.FiscalYear, period)
	if err != nil {
		slog.Error("[Ingestion] Failed to list statement versions", "cik", uri.CIK, "error", err)
		writeError(c, fromError(err, msgListFailed))
		return
	}
	if versions == nil {
		versions = []statement.StatementVersion{}
	}
	c.JSON(http.StatusOK, v1.StatementVersionsResponse{Count: len(versions), Versions: versions})
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
