package statement

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire layout for statement dates.
const DateLayout = "2006-01-02"

// PayloadParams carries the raw inputs for NewPayload.
type PayloadParams struct {
	CIK                   string
	StatementType         StatementType
	AccountingStandard    AccountingStandard
	StatementDate         time.Time
	FiscalYear            int
	FiscalPeriod          FiscalPeriod
	Currency              string
	UnitMultiplier        int
	CoreMetrics           map[Metric]decimal.Decimal
	ExtraMetrics          map[string]decimal.Decimal
	Dimensions            map[string]string
	SourceAccessionID     string
	SourceTaxonomy        string
	SourceVersionSequence int
}

// Payload is one normalized statement snapshot. It can only be built through
// NewPayload and is never mutated afterwards; accessors hand out copies.
type Payload struct {
	cik                   string
	statementType         StatementType
	accountingStandard    AccountingStandard
	statementDate         time.Time
	fiscalYear            int
	fiscalPeriod          FiscalPeriod
	currency              string
	unitMultiplier        int
	coreMetrics           map[Metric]decimal.Decimal
	extraMetrics          map[string]decimal.Decimal
	dimensions            map[string]string
	sourceAccessionID     string
	sourceTaxonomy        string
	sourceVersionSequence int
}

// NewPayload validates every field of p and returns an immutable payload.
func NewPayload(p PayloadParams) (*Payload, error) {
	if strings.TrimSpace(p.CIK) == "" {
		return nil, invalidField("cik", p.CIK, "cik must be non-empty")
	}
	if !p.StatementType.Valid() {
		return nil, invalidField("statement_type", string(p.StatementType), "unknown statement_type")
	}
	if !p.AccountingStandard.Valid() {
		return nil, invalidField("accounting_standard", string(p.AccountingStandard), "unknown accounting_standard")
	}
	if p.StatementDate.IsZero() {
		return nil, invalidField("statement_date", "", "statement_date is required")
	}
	if p.FiscalYear <= 0 {
		return nil, invalidField("fiscal_year", p.FiscalYear, "fiscal_year must be > 0")
	}
	if !p.FiscalPeriod.Valid() {
		return nil, invalidField("fiscal_period", string(p.FiscalPeriod), "unknown fiscal_period")
	}
	if strings.TrimSpace(p.Currency) == "" {
		return nil, invalidField("currency", p.Currency, "currency must be non-empty")
	}
	if p.UnitMultiplier < 0 {
		return nil, invalidField("unit_multiplier", p.UnitMultiplier, "unit_multiplier must be >= 0")
	}
	if p.SourceVersionSequence <= 0 {
		return nil, invalidField("source_version_sequence", p.SourceVersionSequence, "source_version_sequence must be > 0")
	}

	core := make(map[Metric]decimal.Decimal, len(p.CoreMetrics))
	for m, v := range p.CoreMetrics {
		if !m.Valid() {
			return nil, invalidField("core_metrics", string(m), "core_metrics key is not a canonical metric")
		}
		core[m] = v
	}
	extra := make(map[string]decimal.Decimal, len(p.ExtraMetrics))
	for k, v := range p.ExtraMetrics {
		if strings.TrimSpace(k) == "" {
			return nil, invalidField("extra_metrics", k, "extra_metrics key must be non-empty")
		}
		extra[k] = v
	}
	dims := make(map[string]string, len(p.Dimensions))
	for k, v := range p.Dimensions {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			return nil, invalidField("dimensions", k, "dimension keys and values must be non-empty")
		}
		dims[k] = v
	}

	y, mo, d := p.StatementDate.Date()
	return &Payload{
		cik:                   p.CIK,
		statementType:         p.StatementType,
		accountingStandard:    p.AccountingStandard,
		statementDate:         time.Date(y, mo, d, 0, 0, 0, 0, time.UTC),
		fiscalYear:            p.FiscalYear,
		fiscalPeriod:          p.FiscalPeriod,
		currency:              p.Currency,
		unitMultiplier:        p.UnitMultiplier,
		coreMetrics:           core,
		extraMetrics:          extra,
		dimensions:            dims,
		sourceAccessionID:     p.SourceAccessionID,
		sourceTaxonomy:        p.SourceTaxonomy,
		sourceVersionSequence: p.SourceVersionSequence,
	}, nil
}

func invalidField(field string, value interface{}, msg string) *MappingError {
	return NewMappingError(map[string]interface{}{"field": field, "value": value}, "invalid payload: %s", msg)
}

func (p *Payload) CIK() string                            { return p.cik }
func (p *Payload) StatementType() StatementType           { return p.statementType }
func (p *Payload) AccountingStandard() AccountingStandard { return p.accountingStandard }
func (p *Payload) StatementDate() time.Time               { return p.statementDate }
func (p *Payload) FiscalYear() int                        { return p.fiscalYear }
func (p *Payload) FiscalPeriod() FiscalPeriod             { return p.fiscalPeriod }
func (p *Payload) Currency() string                       { return p.currency }
func (p *Payload) UnitMultiplier() int                    { return p.unitMultiplier }
func (p *Payload) SourceAccessionID() string              { return p.sourceAccessionID }
func (p *Payload) SourceTaxonomy() string                 { return p.sourceTaxonomy }
func (p *Payload) SourceVersionSequence() int             { return p.sourceVersionSequence }

// CoreMetric returns the value of m if present.
func (p *Payload) CoreMetric(m Metric) (decimal.Decimal, bool) {
	v, ok := p.coreMetrics[m]
	return v, ok
}

func (p *Payload) CoreMetrics() map[Metric]decimal.Decimal {
	out := make(map[Metric]decimal.Decimal, len(p.coreMetrics))
	for k, v := range p.coreMetrics {
		out[k] = v
	}
	return out
}

func (p *Payload) ExtraMetrics() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(p.extraMetrics))
	for k, v := range p.extraMetrics {
		out[k] = v
	}
	return out
}

func (p *Payload) Dimensions() map[string]string {
	out := make(map[string]string, len(p.dimensions))
	for k, v := range p.dimensions {
		out[k] = v
	}
	return out
}

// CoreMetricKeys returns the core metric codes sorted lexically.
func (p *Payload) CoreMetricKeys() []Metric {
	keys := make([]Metric, 0, len(p.coreMetrics))
	for k := range p.coreMetrics {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Identity returns the payload's statement identity.
func (p *Payload) Identity() Identity {
	return Identity{
		CIK:             p.cik,
		StatementType:   p.statementType,
		FiscalYear:      p.fiscalYear,
		FiscalPeriod:    p.fiscalPeriod,
		VersionSequence: p.sourceVersionSequence,
	}
}

// Equal reports whether two payloads carry the same values.
func (p *Payload) Equal(o *Payload) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.cik != o.cik || p.statementType != o.statementType || p.accountingStandard != o.accountingStandard ||
		!p.statementDate.Equal(o.statementDate) || p.fiscalYear != o.fiscalYear || p.fiscalPeriod != o.fiscalPeriod ||
		p.currency != o.currency || p.unitMultiplier != o.unitMultiplier || p.sourceAccessionID != o.sourceAccessionID ||
		p.sourceTaxonomy != o.sourceTaxonomy || p.sourceVersionSequence != o.sourceVersionSequence {
		return false
	}
	if len(p.coreMetrics) != len(o.coreMetrics) || len(p.extraMetrics) != len(o.extraMetrics) || len(p.dimensions) != len(o.dimensions) {
		return false
	}
	for k, v := range p.coreMetrics {
		ov, ok := o.coreMetrics[k]
		if !ok || !ov.Equal(v) || ov.String() != v.String() {
			return false
		}
	}
	for k, v := range p.extraMetrics {
		ov, ok := o.extraMetrics[k]
		if !ok || !ov.Equal(v) || ov.String() != v.String() {
			return false
		}
	}
	for k, v := range p.dimensions {
		if o.dimensions[k] != v {
			return false
		}
	}
	return true
}

type payloadJSON struct {
	CIK                   string                     `json:"cik"`
	StatementType         StatementType              `json:"statement_type"`
	AccountingStandard    AccountingStandard         `json:"accounting_standard"`
	StatementDate         string                     `json:"statement_date"`
	FiscalYear            int                        `json:"fiscal_year"`
	FiscalPeriod          FiscalPeriod               `json:"fiscal_period"`
	Currency              string                     `json:"currency"`
	UnitMultiplier        int                        `json:"unit_multiplier"`
	CoreMetrics           map[Metric]decimal.Decimal `json:"core_metrics"`
	ExtraMetrics          map[string]decimal.Decimal `json:"extra_metrics"`
	Dimensions            map[string]string          `json:"dimensions"`
	SourceAccessionID     string                     `json:"source_accession_id"`
	SourceTaxonomy        string                     `json:"source_taxonomy"`
	SourceVersionSequence int                        `json:"source_version_sequence"`
}

func (p *Payload) MarshalJSON() ([]byte, error) {
	return json.Marshal(payloadJSON{
		CIK:                   p.cik,
		StatementType:         p.statementType,
		AccountingStandard:    p.accountingStandard,
		StatementDate:         p.statementDate.Format(DateLayout),
		FiscalYear:            p.fiscalYear,
		FiscalPeriod:          p.fiscalPeriod,
		Currency:              p.currency,
		UnitMultiplier:        p.unitMultiplier,
		CoreMetrics:           p.coreMetrics,
		ExtraMetrics:          p.extraMetrics,
		Dimensions:            p.dimensions,
		SourceAccessionID:     p.sourceAccessionID,
		SourceTaxonomy:        p.sourceTaxonomy,
		SourceVersionSequence: p.sourceVersionSequence,
	})
}

// UnmarshalJSON decodes and re-validates a payload.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw payloadJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	date, err := time.Parse(DateLayout, raw.StatementDate)
	if err != nil {
		return invalidField("statement_date", raw.StatementDate, "statement_date must be YYYY-MM-DD")
	}
	built, err := NewPayload(PayloadParams{
		CIK:                   raw.CIK,
		StatementType:         raw.StatementType,
		AccountingStandard:    raw.AccountingStandard,
		StatementDate:         date,
		FiscalYear:            raw.FiscalYear,
		FiscalPeriod:          raw.FiscalPeriod,
		Currency:              raw.Currency,
		UnitMultiplier:        raw.UnitMultiplier,
		CoreMetrics:           raw.CoreMetrics,
		ExtraMetrics:          raw.ExtraMetrics,
		Dimensions:            raw.Dimensions,
		SourceAccessionID:     raw.SourceAccessionID,
		SourceTaxonomy:        raw.SourceTaxonomy,
		SourceVersionSequence: raw.SourceVersionSequence,
	})
	if err != nil {
		return err
	}
	*p = *built
	return nil
}
