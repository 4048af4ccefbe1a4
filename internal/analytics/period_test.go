package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tabsplit/internal/models"
)

func TestParsePeriod(t *testing.T) {
	for in, want := range map[string]Period{"": PeriodAll, "all": PeriodAll, "30d": Period30Days, "90d": Period90Days, "1y": PeriodYear} {
		got, err := ParsePeriod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParsePeriod("7d")
	assert.Error(t, err)
}

func TestFilterByPeriod(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	bills := []models.Bill{
		{ID: "recent", CreatedAt: now.Add(-24 * time.Hour)},
		{ID: "edge", CreatedAt: now.Add(-30 * 24 * time.Hour)},
		{ID: "spring", CreatedAt: now.Add(-60 * 24 * time.Hour)},
		{ID: "old", CreatedAt: now.Add(-400 * 24 * time.Hour)},
	}

	ids := func(bs []models.Bill) []string {
		var out []string
		for _, b := range bs {
			out = append(out, b.ID)
		}
		return out
	}

	assert.Equal(t, []string{"recent", "edge", "spring", "old"}, ids(FilterByPeriod(bills, PeriodAll, now)))
	// The cutoff itself is excluded.
	assert.Equal(t, []string{"recent"}, ids(FilterByPeriod(bills, Period30Days, now)))
	assert.Equal(t, []string{"recent", "edge", "spring"}, ids(FilterByPeriod(bills, Period90Days, now)))
	assert.Equal(t, []string{"recent", "edge", "spring"}, ids(FilterByPeriod(bills, PeriodYear, now)))
}
