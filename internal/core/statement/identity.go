package statement

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Identity correlates payloads, facts, DQ runs and reconciliation results.
// It is comparable and safe to use as a map key.
type Identity struct {
	CIK             string        `json:"cik"`
	StatementType   StatementType `json:"statement_type"`
	FiscalYear      int           `json:"fiscal_year"`
	FiscalPeriod    FiscalPeriod  `json:"fiscal_period"`
	VersionSequence int           `json:"version_sequence"`
}

func (i Identity) String() string {
	return fmt.Sprintf("%s/%s/%d/%s/v%d", i.CIK, i.StatementType, i.FiscalYear, i.FiscalPeriod, i.VersionSequence)
}

// Less orders identities by cik, statement type, fiscal year, fiscal period, version.
func (i Identity) Less(o Identity) bool {
	if i.CIK != o.CIK {
		return i.CIK < o.CIK
	}
	if i.StatementType != o.StatementType {
		return i.StatementType < o.StatementType
	}
	if i.FiscalYear != o.FiscalYear {
		return i.FiscalYear < o.FiscalYear
	}
	if i.FiscalPeriod != o.FiscalPeriod {
		return i.FiscalPeriod < o.FiscalPeriod
	}
	return i.VersionSequence < o.VersionSequence
}

// NormalizedFact is one atomic, dimension-keyed value derived from a payload.
type NormalizedFact struct {
	CIK                string             `json:"cik"`
	StatementType      StatementType      `json:"statement_type"`
	AccountingStandard AccountingStandard `json:"accounting_standard"`
	StatementDate      time.Time          `json:"statement_date"`
	FiscalYear         int                `json:"fiscal_year"`
	FiscalPeriod       FiscalPeriod       `json:"fiscal_period"`
	VersionSequence    int                `json:"version_sequence"`
	MetricCode         string             `json:"metric_code"`
	MetricLabel        *string            `json:"metric_label,omitempty"`
	Unit               string             `json:"unit"`
	PeriodStart        *time.Time         `json:"period_start,omitempty"`
	PeriodEnd          time.Time          `json:"period_end"`
	Value              decimal.Decimal    `json:"value"`
	DimensionKey       string             `json:"dimension_key"`
	Dimensions         map[string]string  `json:"dimensions"`
	SourceLineItem     *string            `json:"source_line_item,omitempty"`
}

func (f NormalizedFact) Identity() Identity {
	return Identity{
		CIK:             f.CIK,
		StatementType:   f.StatementType,
		FiscalYear:      f.FiscalYear,
		FiscalPeriod:    f.FiscalPeriod,
		VersionSequence: f.VersionSequence,
	}
}

// StatementVersion is one stored version of a statement.
type StatementVersion struct {
	CIK                string             `json:"cik"`
	StatementType      StatementType      `json:"statement_type"`
	AccountingStandard AccountingStandard `json:"accounting_standard"`
	StatementDate      time.Time          `json:"statement_date"`
	FiscalYear         int                `json:"fiscal_year"`
	FiscalPeriod       FiscalPeriod       `json:"fiscal_period"`
	Currency           string             `json:"currency"`
	VersionSequence    int                `json:"version_sequence"`
	AccessionID        string             `json:"accession_id"`
	NormalizedPayload  *Payload           `json:"normalized_payload,omitempty"`
	PayloadVersion     string             `json:"payload_version,omitempty"`
	IngestSeq          int64              `json:"ingest_seq"`
}

func (v StatementVersion) Identity() Identity {
	return Identity{
		CIK:             v.CIK,
		StatementType:   v.StatementType,
		FiscalYear:      v.FiscalYear,
		FiscalPeriod:    v.FiscalPeriod,
		VersionSequence: v.VersionSequence,
	}
}

// VersionFromPayload builds a StatementVersion carrying p.
func VersionFromPayload(p *Payload, payloadVersion string) StatementVersion {
	return StatementVersion{
		CIK:                p.CIK(),
		StatementType:      p.StatementType(),
		AccountingStandard: p.AccountingStandard(),
		StatementDate:      p.StatementDate(),
		FiscalYear:         p.FiscalYear(),
		FiscalPeriod:       p.FiscalPeriod(),
		Currency:           p.Currency(),
		VersionSequence:    p.SourceVersionSequence(),
		AccessionID:        p.SourceAccessionID(),
		NormalizedPayload:  p,
		PayloadVersion:     payloadVersion,
	}
}
