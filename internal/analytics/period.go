package analytics

import (
	"fmt"
	"time"

	"github.com/mmynk/tabsplit/internal/models"
)

// Period is a trailing time window for analytics views.
type Period string

const (
	PeriodAll    Period = "all"
	Period30Days Period = "30d"
	Period90Days Period = "90d"
	PeriodYear   Period = "1y"
)

var periodDays = map[Period]int{
	Period30Days: 30,
	Period90Days: 90,
	PeriodYear:   365,
}

// ParsePeriod parses a period name. The empty string means PeriodAll.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if p == "" || p == PeriodAll {
		return PeriodAll, nil
	}
	if _, ok := periodDays[p]; ok {
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q (want all, 30d, 90d or 1y)", s)
}

// Cutoff returns the start of the window ending at now.
// The second result is false for PeriodAll.
func (p Period) Cutoff(now time.Time) (time.Time, bool) {
	days, ok := periodDays[p]
	if !ok {
		return time.Time{}, false
	}
	return now.Add(-time.Duration(days) * 24 * time.Hour), true
}

// FilterByPeriod returns the bills created strictly after the period's cutoff.
// The input slice is not modified.
func FilterByPeriod(bills []models.Bill, p Period, now time.Time) []models.Bill {
	cutoff, ok := p.Cutoff(now)
	if !ok {
		return bills
	}
	out := make([]models.Bill, 0, len(bills))
	for _, b := range bills {
		if b.CreatedAt.After(cutoff) {
			out = append(out, b)
		}
	}
	return out
}
