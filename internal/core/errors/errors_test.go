package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		errorType string
		message   string
		details   interface{}
	}{
		{
			name:      "mapping",
			err:       statement.NewMappingError(map[string]interface{}{"field": "cik"}, "cik must be non-empty"),
			status:    http.StatusUnprocessableEntity,
			errorType: HttpMappingError,
			message:   "cik must be non-empty",
			details:   map[string]interface{}{"field": "cik"},
		},
		{
			name:      "wrapped not found",
			err:       fmt.Errorf("lookup: %w", statement.NewNotFoundError(map[string]interface{}{"available": []int{1, 2}}, "version 3 not found")),
			status:    http.StatusNotFound,
			errorType: HttpNotFoundError,
			message:   "lookup: version 3 not found",
			details:   map[string]interface{}{"available": []int{1, 2}},
		},
		{
			name:      "insufficient data without details",
			err:       statement.NewIngestionError(nil, "need two versions"),
			status:    http.StatusConflict,
			errorType: HttpInsufficientData,
			message:   "need two versions",
		},
		{
			name:      "internal",
			err:       fmt.Errorf("pq: connection refused"),
			status:    http.StatusInternalServerError,
			errorType: HttpInternalError,
			message:   "Failed to load statement",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := FromError(tt.err, "Failed to load statement")
			require.Equal(t, tt.status, status)
			require.Equal(t, tt.errorType, body.ErrorType)
			require.Equal(t, tt.message, body.Message)
			require.Equal(t, tt.details, body.Details)
		})
	}
}

func TestInvalidRequest(t *testing.T) {
	status, body := InvalidRequest("Invalid path parameters", "fiscal_year must be an integer")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, HttpInvalidRequestError, body.ErrorType)
	require.Equal(t, "fiscal_year must be an integer", body.Details)
}
