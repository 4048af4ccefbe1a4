package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tabsplit/internal/models"
)

func TestForPerson_NoData(t *testing.T) {
	a := New(nil)
	assert.Nil(t, a.ForPerson(nil, "alice", "USD"))

	bills := []models.Bill{bill("b1", "2024-01-01", usd("Tea", 3, "alice"))}
	assert.Nil(t, a.ForPerson(bills, "carol", "USD"))
}

func TestForPerson(t *testing.T) {
	b1 := bill("b1", "2024-01-01", usd("Pizza", 30, "alice", "bob"), usd("Beer", 10, "bob"))
	b1.Tax = 4 // alice share 15/40 of tax -> 1.5

	b2 := bill("b2", "2024-02-01", usd("pizza", 20, "alice"), usd("Salad", 10, "alice"))

	b3 := bill("b3", "2024-03-01", usd("Taxi", 9, "bob"))
	b3.People = []models.Person{{ID: "bob", Name: "Bob"}}

	got := New(nil).ForPerson([]models.Bill{b1, b2, b3}, "alice", "USD")
	require.NotNil(t, got)

	assert.Equal(t, "Alice", got.Person.Name)
	assert.Equal(t, 2, got.BillCount)
	assert.InDelta(t, 46.5, got.TotalSpent, 1e-9)
	assert.InDelta(t, 23.25, got.AveragePerBill, 1e-9)
	assert.InDelta(t, 30, got.MostExpensiveBill, 1e-9)
	assert.InDelta(t, 16.5, got.CheapestBill, 1e-9)
	assert.Equal(t, []string{"pizza", "salad"}, got.FavoriteItems)
}

func TestForPerson_CustomSplitAndCurrency(t *testing.T) {
	b := models.Bill{
		ID:           "b",
		BaseCurrency: "EUR",
		People:       []models.Person{{ID: "p1", Name: "P1"}, {ID: "p2", Name: "P2"}},
		Items: []models.Item{{
			Name:         "Dinner",
			Price:        100,
			Currency:     "EUR",
			AssignedTo:   []string{"p1", "p2"},
			SplitType:    models.SplitCustom,
			CustomSplits: map[string]float64{"p1": 85},
		}},
		CreatedAt: day("2024-01-01"),
	}

	got := New(nil).ForPerson([]models.Bill{b}, "p1", "USD")
	require.NotNil(t, got)
	assert.InDelta(t, 100, got.TotalSpent, 1e-9)
	assert.Equal(t, []string{"dinner"}, got.FavoriteItems)
}

func TestForPerson_FavoritesCappedAtFive(t *testing.T) {
	var items []models.Item
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		items = append(items, usd(name, 1, "alice"))
	}
	items = append(items, usd("G", 1, "alice"))

	got := New(nil).ForPerson([]models.Bill{bill("b", "2024-01-01", items...)}, "alice", "USD")
	require.NotNil(t, got)
	assert.Equal(t, []string{"g", "a", "b", "c", "d"}, got.FavoriteItems)
}
