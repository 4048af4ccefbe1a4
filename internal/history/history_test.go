package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tabsplit/internal/currency"
	"github.com/mmynk/tabsplit/internal/models"
)

func sampleBills() []models.Bill {
	t0 := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	return []models.Bill{
		{
			ID: "lunch", Name: "Team lunch", BaseCurrency: "USD", CreatedAt: t0,
			People: []models.Person{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}},
			Items:  []models.Item{{Name: "Pizza", Price: 30, Currency: "USD"}},
			Tax:    3,
		},
		{
			ID: "paris", Name: "Écluse wine bar", BaseCurrency: "EUR", CreatedAt: t0.Add(48 * time.Hour),
			People: []models.Person{{ID: "c", Name: "Chloé"}},
			Items:  []models.Item{{Name: "Wine", Price: 40, Currency: "EUR"}, {Name: "Cheese", Price: 11.8, Currency: "USD"}},
			Tip:    5,
		},
		{
			ID: "cab", Name: "airport cab", BaseCurrency: "USD", CreatedAt: t0.Add(24 * time.Hour),
			People: []models.Person{{ID: "b", Name: "Bob"}},
			Items:  []models.Item{{Name: "Taxi", Price: 45, Currency: "USD"}},
		},
	}
}

func ids(bills []models.Bill) []string {
	out := make([]string, 0, len(bills))
	for _, b := range bills {
		out = append(out, b.ID)
	}
	return out
}

func TestSearch(t *testing.T) {
	bills := sampleBills()

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"lunch", "paris", "cab"}},
		{"  ", []string{"lunch", "paris", "cab"}},
		{"LUNCH", []string{"lunch"}},
		{"bob", []string{"lunch", "cab"}},
		{"chloé", []string{"paris"}},
		{"nothing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Search(bills, tt.query)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSort(t *testing.T) {
	bills := sampleBills()
	conv := currency.NewConverter(nil)

	assert.Equal(t, []string{"paris", "cab", "lunch"}, ids(Sort(bills, SortByDate, conv)))
	// paris: 40 EUR + 11.80 USD (10.03 EUR) = 50.03; cab 45; lunch 30 (tax excluded).
	assert.Equal(t, []string{"paris", "cab", "lunch"}, ids(Sort(bills, SortByAmount, conv)))
	assert.Equal(t, []string{"cab", "paris", "lunch"}, ids(Sort(bills, SortByName, conv)))

	// Input order is untouched.
	assert.Equal(t, []string{"lunch", "paris", "cab"}, ids(bills))
}

func TestSort_AmountTiesStable(t *testing.T) {
	bills := []models.Bill{
		{ID: "x", BaseCurrency: "USD", Items: []models.Item{{Price: 10, Currency: "USD"}}},
		{ID: "y", BaseCurrency: "USD", Items: []models.Item{{Price: 10, Currency: "USD"}}},
	}
	assert.Equal(t, []string{"x", "y"}, ids(Sort(bills, SortByAmount, nil)))
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortByDate, k)

	k, err = ParseSortKey("amount")
	require.NoError(t, err)
	assert.Equal(t, SortByAmount, k)

	_, err = ParseSortKey("size")
	assert.Error(t, err)
}

func TestBillTotal(t *testing.T) {
	conv := currency.NewConverter(nil)
	bills := sampleBills()

	assert.InDelta(t, 33, BillTotal(bills[0], conv), 1e-9)
	assert.InDelta(t, 55.03, BillTotal(bills[1], conv), 1e-9)
	assert.InDelta(t, 50.03, ItemsTotal(bills[1], conv), 1e-9)
}
