package reconciliation

import (
	"sort"
	"time"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// Period is the inferred reporting window of one statement.
type Period struct {
	CIK           string
	StatementType statement.StatementType
	FiscalYear    int
	FiscalPeriod  statement.FiscalPeriod
	StatementDate time.Time
}

// InferPeriod extracts the reporting window of p.
func InferPeriod(p *statement.Payload) Period {
	return Period{
		CIK:           p.CIK(),
		StatementType: p.StatementType(),
		FiscalYear:    p.FiscalYear(),
		FiscalPeriod:  p.FiscalPeriod(),
		StatementDate: p.StatementDate(),
	}
}

// Classification summarizes a company's fiscal calendar.
type Classification struct {
	FYEMonth           int
	Is53WeekYear       bool
	IsIrregular        bool
	InferredPeriodDays int
	Gaps               []int
}

const (
	fiftyThreeWeekGapDays = 370
	irregularRangeDays    = 40
)

// ClassifyCalendar infers a fiscal calendar from the given periods. Periods
// are ordered by statement date; duplicate dates are kept so that a zero gap
// surfaces as irregular.
func ClassifyCalendar(periods []Period) Classification {
	if len(periods) == 0 {
		return Classification{}
	}
	sorted := make([]Period, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StatementDate.Before(sorted[j].StatementDate)
	})

	c := Classification{FYEMonth: fyeMonth(sorted)}
	for i := 1; i < len(sorted); i++ {
		gap := int(sorted[i].StatementDate.Sub(sorted[i-1].StatementDate).Hours() / 24)
		c.Gaps = append(c.Gaps, gap)
	}
	if len(c.Gaps) == 0 {
		return c
	}

	var positive []int
	lo, hi := c.Gaps[0], c.Gaps[0]
	for _, g := range c.Gaps {
		if g > 0 {
			positive = append(positive, g)
		}
		if g == 0 {
			c.IsIrregular = true
		}
		if g < lo {
			lo = g
		}
		if g > hi {
			hi = g
		}
	}
	if hi-lo > irregularRangeDays {
		c.IsIrregular = true
	}
	if len(positive) > 0 {
		c.InferredPeriodDays = median(positive)
		c.Is53WeekYear = c.InferredPeriodDays >= fiftyThreeWeekGapDays
	}
	return c
}

// fyeMonth is the most common statement-date month across FY periods, ties
// going to the later fiscal year. Without FY periods it is the month of the
// latest statement date. periods must be sorted by date.
func fyeMonth(periods []Period) int {
	counts := make(map[int]int)
	latestYear := make(map[int]int)
	for _, p := range periods {
		if p.FiscalPeriod != statement.FY {
			continue
		}
		m := int(p.StatementDate.Month())
		counts[m]++
		if p.FiscalYear > latestYear[m] {
			latestYear[m] = p.FiscalYear
		}
	}
	if len(counts) == 0 {
		return int(periods[len(periods)-1].StatementDate.Month())
	}
	best := 0
	for m, n := range counts {
		switch {
		case best == 0, n > counts[best]:
			best = m
		case n == counts[best] && latestYear[m] > latestYear[best]:
			best = m
		case n == counts[best] && latestYear[m] == latestYear[best] && m > best:
			best = m
		}
	}
	return best
}

func median(xs []int) int {
	s := make([]int, len(xs))
	copy(s, xs)
	sort.Ints(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// DetectOffCycle returns the indexes into periods (sorted by date) whose gap to
// the prior period exceeds maxGapDays or deviates from expectedGapDays by more
// than maxGapDays.
func DetectOffCycle(periods []Period, expectedGapDays, maxGapDays int) map[int]bool {
	out := make(map[int]bool)
	for i := 1; i < len(periods); i++ {
		gap := int(periods[i].StatementDate.Sub(periods[i-1].StatementDate).Hours() / 24)
		dev := gap - expectedGapDays
		if dev < 0 {
			dev = -dev
		}
		if gap > maxGapDays || (expectedGapDays > 0 && dev > maxGapDays) {
			out[i] = true
		}
	}
	return out
}

type bucketKey struct {
	CIK          string
	FiscalYear   int
	FiscalPeriod statement.FiscalPeriod
}

// AlignAcrossTypes groups payloads by (cik, fiscal year, fiscal period) and
// keeps the highest version per statement type within each group. Groups come
// back ordered by cik, fiscal year, fiscal period.
func AlignAcrossTypes(payloads []*statement.Payload) []map[statement.StatementType]*statement.Payload {
	buckets := make(map[bucketKey]map[statement.StatementType]*statement.Payload)
	var keys []bucketKey
	for _, p := range payloads {
		k := bucketKey{CIK: p.CIK(), FiscalYear: p.FiscalYear(), FiscalPeriod: p.FiscalPeriod()}
		b, ok := buckets[k]
		if !ok {
			b = make(map[statement.StatementType]*statement.Payload)
			buckets[k] = b
			keys = append(keys, k)
		}
		if cur, ok := b[p.StatementType()]; !ok || p.SourceVersionSequence() > cur.SourceVersionSequence() {
			b[p.StatementType()] = p
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.CIK != b.CIK {
			return a.CIK < b.CIK
		}
		if a.FiscalYear != b.FiscalYear {
			return a.FiscalYear < b.FiscalYear
		}
		return a.FiscalPeriod < b.FiscalPeriod
	})
	out := make([]map[statement.StatementType]*statement.Payload, 0, len(keys))
	for _, k := range keys {
		out = append(out, buckets[k])
	}
	return out
}

type periodKey struct {
	FiscalYear   int
	FiscalPeriod statement.FiscalPeriod
}

type calendarGroup struct {
	periods  []Period
	index    map[periodKey]int
	classify Classification
	offCycle map[int]bool
}

// calendarGroups classifies each (cik, statement type) series separately,
// using the latest version of each fiscal period.
func calendarGroups(spec *CalendarSpec, stmts []*statement.Payload) map[string]*calendarGroup {
	latest := make(map[string]map[periodKey]*statement.Payload)
	for _, p := range stmts {
		gk := p.CIK() + "|" + string(p.StatementType())
		if latest[gk] == nil {
			latest[gk] = make(map[periodKey]*statement.Payload)
		}
		pk := periodKey{FiscalYear: p.FiscalYear(), FiscalPeriod: p.FiscalPeriod()}
		if cur, ok := latest[gk][pk]; !ok || p.SourceVersionSequence() > cur.SourceVersionSequence() {
			latest[gk][pk] = p
		}
	}

	groups := make(map[string]*calendarGroup, len(latest))
	for gk, byPeriod := range latest {
		g := &calendarGroup{index: make(map[periodKey]int)}
		for _, p := range byPeriod {
			g.periods = append(g.periods, InferPeriod(p))
		}
		sort.Slice(g.periods, func(i, j int) bool {
			a, b := g.periods[i], g.periods[j]
			if !a.StatementDate.Equal(b.StatementDate) {
				return a.StatementDate.Before(b.StatementDate)
			}
			if a.FiscalYear != b.FiscalYear {
				return a.FiscalYear < b.FiscalYear
			}
			return a.FiscalPeriod < b.FiscalPeriod
		})
		for i, p := range g.periods {
			g.index[periodKey{FiscalYear: p.FiscalYear, FiscalPeriod: p.FiscalPeriod}] = i
		}
		g.classify = ClassifyCalendar(g.periods)
		expected := spec.ExpectedGapDays
		if expected == 0 {
			expected = g.classify.InferredPeriodDays
		}
		g.offCycle = DetectOffCycle(g.periods, expected, spec.MaxGapDays)
		groups[gk] = g
	}
	return groups
}

func evaluateCalendar(_ *Engine, r Rule, stmts []*statement.Payload, _ Input) []Result {
	spec := r.Calendar
	groups := calendarGroups(spec, stmts)
	allowed := make(map[int]bool, len(spec.AllowedFYEMonths))
	for _, m := range spec.AllowedFYEMonths {
		allowed[m] = true
	}

	out := make([]Result, 0, len(stmts))
	for _, p := range stmts {
		g := groups[p.CIK()+"|"+string(p.StatementType())]
		idx := g.index[periodKey{FiscalYear: p.FiscalYear(), FiscalPeriod: p.FiscalPeriod()}]

		month := g.classify.FYEMonth
		if p.FiscalPeriod() == statement.FY {
			month = int(p.StatementDate().Month())
		}
		offCycle := g.offCycle[idx]
		notes := map[string]interface{}{
			"fye_month":          month,
			"allowed_fye_months": append([]int(nil), spec.AllowedFYEMonths...),
			"is_53_week_year":    g.classify.Is53WeekYear,
			"is_irregular":       g.classify.IsIrregular,
			"off_cycle":          offCycle,
		}

		res := Result{
			Identity: p.Identity(),
			RuleID:   r.RuleID,
			Category: r.Category,
			Status:   StatusPass,
			Severity: statement.MaterialityNone,
			Notes:    notes,
		}
		if !allowed[month] || (g.classify.Is53WeekYear && !spec.Allow53Week) || offCycle {
			res.Status = StatusWarning
			res.Severity = r.Severity
		}
		out = append(out, res)
	}
	return out
}
