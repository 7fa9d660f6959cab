package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aevon-lab/ledgerline/internal/core/facts"
	"github.com/aevon-lab/ledgerline/internal/core/reconciliation"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// marshalJSONMap encodes m, mapping an empty map to SQL NULL.
func marshalJSONMap[V any](m map[string]V) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json column: %w", err)
	}
	return data, nil
}

func unmarshalJSONMap[V any](data []byte) (map[string]V, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var m map[string]V
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json column: %w", err)
	}
	return m, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decimalPtr(nd decimal.NullDecimal) *decimal.Decimal {
	if !nd.Valid {
		return nil
	}
	d := nd.Decimal
	return &d
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

// scanVersionRow scans one statement_versions row. The payload column is
// decoded through Payload's validating unmarshaller.
func scanVersionRow(row scanner) (statement.StatementVersion, error) {
	var (
		v              statement.StatementVersion
		payloadVersion sql.NullString
		payloadJSON    []byte
	)
	if err := row.Scan(
		&v.CIK,
		&v.StatementType,
		&v.AccountingStandard,
		&v.StatementDate,
		&v.FiscalYear,
		&v.FiscalPeriod,
		&v.Currency,
		&v.VersionSequence,
		&v.AccessionID,
		&payloadVersion,
		&payloadJSON,
		&v.IngestSeq,
	); err != nil {
		return v, fmt.Errorf("failed to scan statement version row: %w", err)
	}
	v.PayloadVersion = payloadVersion.String
	if len(payloadJSON) > 0 {
		var p statement.Payload
		if err := json.Unmarshal(payloadJSON, &p); err != nil {
			return v, fmt.Errorf("failed to decode payload of %s: %w", v.Identity(), err)
		}
		v.NormalizedPayload = &p
	}
	return v, nil
}

func scanFactRow(row scanner) (statement.NormalizedFact, error) {
	var (
		f              statement.NormalizedFact
		label, lineRef sql.NullString
		periodStart    sql.NullTime
		dimsJSON       []byte
	)
	if err := row.Scan(
		&f.CIK,
		&f.StatementType,
		&f.AccountingStandard,
		&f.StatementDate,
		&f.FiscalYear,
		&f.FiscalPeriod,
		&f.VersionSequence,
		&f.MetricCode,
		&label,
		&f.Unit,
		&periodStart,
		&f.PeriodEnd,
		&f.Value,
		&f.DimensionKey,
		&dimsJSON,
		&lineRef,
	); err != nil {
		return f, fmt.Errorf("failed to scan fact row: %w", err)
	}
	f.MetricLabel = stringPtr(label)
	f.SourceLineItem = stringPtr(lineRef)
	if periodStart.Valid {
		t := periodStart.Time
		f.PeriodStart = &t
	}
	dims, err := unmarshalJSONMap[string](dimsJSON)
	if err != nil {
		return f, err
	}
	if dims == nil {
		dims = map[string]string{}
	}
	f.Dimensions = dims
	return f, nil
}

func scanAnomalyRow(row scanner) (facts.Anomaly, error) {
	var (
		a           facts.Anomaly
		dimKey      sql.NullString
		severity    string
		detailsJSON []byte
	)
	if err := row.Scan(&a.RunID, &a.MetricCode, &dimKey, &a.RuleCode, &severity, &a.Message, &detailsJSON); err != nil {
		return a, fmt.Errorf("failed to scan anomaly row: %w", err)
	}
	sev, err := statement.ParseMaterialityClass(severity)
	if err != nil {
		return a, err
	}
	a.Severity = sev
	a.DimensionKey = stringPtr(dimKey)
	if a.Details, err = unmarshalJSONMap[interface{}](detailsJSON); err != nil {
		return a, err
	}
	return a, nil
}

func scanResultRow(row scanner) (reconciliation.Result, error) {
	var (
		r                       reconciliation.Result
		severity                string
		expected, actual, delta decimal.NullDecimal
		dimKey                  sql.NullString
		labelsJSON, notesJSON   []byte
	)
	if err := row.Scan(
		&r.RuleID,
		&r.Category,
		&r.Status,
		&severity,
		&r.Identity.CIK,
		&r.Identity.StatementType,
		&r.Identity.FiscalYear,
		&r.Identity.FiscalPeriod,
		&r.Identity.VersionSequence,
		&expected,
		&actual,
		&delta,
		&dimKey,
		&labelsJSON,
		&notesJSON,
	); err != nil {
		return r, fmt.Errorf("failed to scan reconciliation row: %w", err)
	}
	sev, err := statement.ParseMaterialityClass(severity)
	if err != nil {
		return r, err
	}
	r.Severity = sev
	r.ExpectedValue, r.ActualValue, r.Delta = decimalPtr(expected), decimalPtr(actual), decimalPtr(delta)
	r.DimensionKey = stringPtr(dimKey)
	if r.DimensionLabels, err = unmarshalJSONMap[string](labelsJSON); err != nil {
		return r, err
	}
	if r.Notes, err = unmarshalJSONMap[interface{}](notesJSON); err != nil {
		return r, err
	}
	return r, nil
}
