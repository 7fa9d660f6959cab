package postgres

const (
	// queryUpsertStatementVersion is idempotent per (cik, statement_type,
	// statement_date, version_sequence). A re-normalized version takes a fresh
	// ingest_seq so the reconciliation sweep picks it up again.
	queryUpsertStatementVersion = `
		INSERT INTO statement_versions (
			cik, statement_type, accounting_standard, statement_date,
			fiscal_year, fiscal_period, currency, version_sequence,
			accession_id, payload_version, normalized_payload, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (cik, statement_type, statement_date, version_sequence)
		DO UPDATE SET
			accounting_standard = EXCLUDED.accounting_standard,
			fiscal_year         = EXCLUDED.fiscal_year,
			fiscal_period       = EXCLUDED.fiscal_period,
			currency            = EXCLUDED.currency,
			accession_id        = EXCLUDED.accession_id,
			payload_version     = EXCLUDED.payload_version,
			normalized_payload  = EXCLUDED.normalized_payload,
			updated_at          = EXCLUDED.updated_at,
			ingest_seq          = nextval(pg_get_serial_sequence('statement_versions', 'ingest_seq'))
		RETURNING ingest_seq
	`

	queryListStatementVersionsForCompany = `
		SELECT
			cik, statement_type, accounting_standard, statement_date,
			fiscal_year, fiscal_period, currency, version_sequence,
			accession_id, payload_version, normalized_payload, ingest_seq
		FROM statement_versions
		WHERE cik = $1
		  AND statement_type = $2
		  AND fiscal_year = $3
		  AND ($4::text IS NULL OR fiscal_period = $4)
		ORDER BY fiscal_period ASC, version_sequence ASC
	`

	queryListStatementVersionsAfterCursor = `
		SELECT
			cik, statement_type, accounting_standard, statement_date,
			fiscal_year, fiscal_period, currency, version_sequence,
			accession_id, payload_version, normalized_payload, ingest_seq
		FROM statement_versions
		WHERE ingest_seq > $1
		ORDER BY ingest_seq ASC
		LIMIT $2
	`

	queryDeleteFactsForStatement = `
		DELETE FROM normalized_facts
		WHERE cik = $1
		  AND statement_type = $2
		  AND fiscal_year = $3
		  AND fiscal_period = $4
		  AND version_sequence = $5
	`

	queryInsertFact = `
		INSERT INTO normalized_facts (
			cik, statement_type, accounting_standard, statement_date,
			fiscal_year, fiscal_period, version_sequence, metric_code,
			metric_label, unit, period_start, period_end,
			value, dimension_key, dimensions, source_line_item
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	queryListFactsForStatement = `
		SELECT
			cik, statement_type, accounting_standard, statement_date,
			fiscal_year, fiscal_period, version_sequence, metric_code,
			metric_label, unit, period_start, period_end,
			value, dimension_key, dimensions, source_line_item
		FROM normalized_facts
		WHERE cik = $1
		  AND statement_type = $2
		  AND fiscal_year = $3
		  AND fiscal_period = $4
		  AND version_sequence = $5
		ORDER BY metric_code ASC, dimension_key ASC
	`

	queryListFactHistory = `
		SELECT
			cik, statement_type, accounting_standard, statement_date,
			fiscal_year, fiscal_period, version_sequence, metric_code,
			metric_label, unit, period_start, period_end,
			value, dimension_key, dimensions, source_line_item
		FROM normalized_facts
		WHERE cik = $1
		  AND statement_type = $2
		  AND statement_date < $3
		ORDER BY statement_date DESC, version_sequence DESC, dimension_key ASC, metric_code ASC
		LIMIT $4
	`

	queryInsertDQRun = `
		INSERT INTO dq_runs (
			dq_run_id, cik, statement_type, fiscal_year, fiscal_period,
			version_sequence, rule_set_version, scope_type, executed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	queryInsertFactQuality = `
		INSERT INTO dq_fact_quality (
			dq_run_id, metric_code, dimension_key, severity, is_present,
			is_non_negative, is_consistent_with_history, has_known_issue, details
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	queryInsertAnomaly = `
		INSERT INTO dq_anomalies (
			dq_run_id, metric_code, dimension_key, rule_code, severity, message, details
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	// queryListLatestAnomalies reads anomalies of the most recent DQ run of one
	// statement identity.
	queryListLatestAnomalies = `
		WITH latest AS (
			SELECT dq_run_id
			FROM dq_runs
			WHERE cik = $1
			  AND statement_type = $2
			  AND fiscal_year = $3
			  AND fiscal_period = $4
			  AND version_sequence = $5
			ORDER BY executed_at DESC
			LIMIT 1
		)
		SELECT a.dq_run_id, a.metric_code, a.dimension_key, a.rule_code, a.severity, a.message, a.details
		FROM dq_anomalies a
		JOIN latest ON latest.dq_run_id = a.dq_run_id
		ORDER BY a.anomaly_id ASC
	`

	queryInsertReconciliationResult = `
		INSERT INTO reconciliation_results (
			run_id, executed_at, rule_set_version, rule_id, rule_category,
			status, severity, cik, statement_type, fiscal_year, fiscal_period,
			version_sequence, expected_value, actual_value, delta,
			dimension_key, dimension_labels, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	reconciliationColumns = `
			rule_id, rule_category, status, severity,
			cik, statement_type, fiscal_year, fiscal_period, version_sequence,
			expected_value, actual_value, delta, dimension_key, dimension_labels, notes
	`

	queryListResultsForStatement = `
		SELECT` + reconciliationColumns + `
		FROM reconciliation_results
		WHERE cik = $1
		  AND statement_type = $2
		  AND fiscal_year = $3
		  AND fiscal_period = $4
		  AND version_sequence = $5
		  AND ($6::text IS NULL OR run_id = $6)
		ORDER BY rule_category ASC, rule_id ASC, dimension_key ASC NULLS LAST, check_id ASC
		LIMIT $7
	`

	queryListResultsForWindow = `
		SELECT` + reconciliationColumns + `
		FROM reconciliation_results
		WHERE cik = $1
		  AND statement_type = $2
		  AND fiscal_year BETWEEN $3 AND $4
		ORDER BY rule_category ASC, rule_id ASC, dimension_key ASC NULLS LAST, check_id ASC
		LIMIT $5
	`

	querySelectCheckpointForUpdate = `
		SELECT checkpoint_cursor
		FROM reconciliation_checkpoints
		WHERE checkpoint_name = $1
		FOR UPDATE
	`

	queryInitCheckpointRow = `
		INSERT INTO reconciliation_checkpoints (checkpoint_name, checkpoint_cursor, updated_at)
		VALUES ($1, 0, $2)
		ON CONFLICT (checkpoint_name) DO NOTHING
	`

	queryUpdateCheckpoint = `
		UPDATE reconciliation_checkpoints
		SET checkpoint_cursor = $1, updated_at = $2
		WHERE checkpoint_name = $3
	`

	queryReadCheckpoint = `SELECT checkpoint_cursor FROM reconciliation_checkpoints WHERE checkpoint_name = $1`
)
