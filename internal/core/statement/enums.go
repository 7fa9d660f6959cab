package statement

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StatementType identifies which financial statement a payload describes.
type StatementType string

const (
	IncomeStatement   StatementType = "INCOME_STATEMENT"
	BalanceSheet      StatementType = "BALANCE_SHEET"
	CashFlowStatement StatementType = "CASH_FLOW_STATEMENT"
)

var statementTypes = []StatementType{IncomeStatement, BalanceSheet, CashFlowStatement}

func (t StatementType) Valid() bool {
	for _, v := range statementTypes {
		if v == t {
			return true
		}
	}
	return false
}

func ParseStatementType(s string) (StatementType, error) {
	t := StatementType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", NewMappingError(map[string]interface{}{"statement_type": s}, "unknown statement_type %q", s)
	}
	return t, nil
}

// AccountingStandard is the reporting framework of a filing.
type AccountingStandard string

const (
	USGAAP        AccountingStandard = "US_GAAP"
	IFRS          AccountingStandard = "IFRS"
	OtherStandard AccountingStandard = "OTHER"
)

func (a AccountingStandard) Valid() bool {
	switch a {
	case USGAAP, IFRS, OtherStandard:
		return true
	}
	return false
}

func ParseAccountingStandard(s string) (AccountingStandard, error) {
	a := AccountingStandard(strings.ToUpper(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", NewMappingError(map[string]interface{}{"accounting_standard": s}, "unknown accounting_standard %q", s)
	}
	return a, nil
}

// FiscalPeriod is the reporting period within a fiscal year.
type FiscalPeriod string

const (
	FY          FiscalPeriod = "FY"
	Q1          FiscalPeriod = "Q1"
	Q2          FiscalPeriod = "Q2"
	Q3          FiscalPeriod = "Q3"
	Q4          FiscalPeriod = "Q4"
	H1          FiscalPeriod = "H1"
	OtherPeriod FiscalPeriod = "OTHER"
)

func (p FiscalPeriod) Valid() bool {
	switch p {
	case FY, Q1, Q2, Q3, Q4, H1, OtherPeriod:
		return true
	}
	return false
}

func ParseFiscalPeriod(s string) (FiscalPeriod, error) {
	p := FiscalPeriod(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", NewMappingError(map[string]interface{}{"fiscal_period": s}, "unknown fiscal_period %q", s)
	}
	return p, nil
}

// MaterialityClass is an ordinal severity scale: NONE < LOW < MEDIUM < HIGH.
type MaterialityClass int

const (
	MaterialityNone MaterialityClass = iota
	MaterialityLow
	MaterialityMedium
	MaterialityHigh
)

var materialityNames = [...]string{"NONE", "LOW", "MEDIUM", "HIGH"}

func (m MaterialityClass) String() string {
	if m < MaterialityNone || m > MaterialityHigh {
		return fmt.Sprintf("MaterialityClass(%d)", int(m))
	}
	return materialityNames[m]
}

func (m MaterialityClass) Valid() bool { return m >= MaterialityNone && m <= MaterialityHigh }

// Max returns the more severe of two classes.
func (m MaterialityClass) Max(other MaterialityClass) MaterialityClass {
	if other > m {
		return other
	}
	return m
}

func ParseMaterialityClass(s string) (MaterialityClass, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range materialityNames {
		if n == name {
			return MaterialityClass(i), nil
		}
	}
	return MaterialityNone, NewMappingError(map[string]interface{}{"materiality": s}, "unknown materiality class %q", s)
}

func (m MaterialityClass) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid materiality class %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *MaterialityClass) UnmarshalText(text []byte) error {
	parsed, err := ParseMaterialityClass(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m MaterialityClass) MarshalJSON() ([]byte, error) {
	text, err := m.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

func (m *MaterialityClass) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return m.UnmarshalText([]byte(s))
}
