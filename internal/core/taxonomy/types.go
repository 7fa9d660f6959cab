package taxonomy

import "time"

// PeriodType is the XBRL period type declared by a concept.
type PeriodType string

const (
	PeriodInstant  PeriodType = "instant"
	PeriodDuration PeriodType = "duration"
)

// Fact is one raw XBRL fact.
type Fact struct {
	ID         string  `json:"id"`
	Concept    string  `json:"concept" binding:"required"`
	ContextRef string  `json:"context_ref" binding:"required"`
	UnitRef    *string `json:"unit_ref,omitempty"`
	Value      string  `json:"value"`
	Decimals   *int    `json:"decimals,omitempty"`
}

// Context is an XBRL context: a period plus optional dimensional qualifiers.
type Context struct {
	ID         string            `json:"id"`
	StartDate  *time.Time        `json:"start_date,omitempty"`
	EndDate    *time.Time        `json:"end_date,omitempty"`
	Instant    *time.Time        `json:"instant,omitempty"`
	Dimensions map[string]string `json:"dimensions,omitempty"`
}

func (c Context) IsInstant() bool { return c.Instant != nil }

func (c Context) IsDuration() bool { return c.Instant == nil && c.StartDate != nil && c.EndDate != nil }

// Unit is an XBRL unit declaration such as iso4217:USD.
type Unit struct {
	ID      string `json:"id"`
	Measure string `json:"measure"`
}
