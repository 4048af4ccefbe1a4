package analytics

import (
	"github.com/mmynk/tabsplit/internal/currency"
	"github.com/mmynk/tabsplit/internal/models"
)

// PersonAnalytics summarizes one person's spending across the bills they joined.
type PersonAnalytics struct {
	Person            models.Person `json:"person"`
	TotalSpent        float64       `json:"totalSpent"`
	BillCount         int           `json:"billCount"`
	AveragePerBill    float64       `json:"averagePerBill"`
	MostExpensiveBill float64       `json:"mostExpensiveBill"`
	CheapestBill      float64       `json:"cheapestBill"`

	// FavoriteItems are the (lowercased) names of the items the person was
	// assigned most often, most frequent first.
	FavoriteItems []string `json:"favoriteItems"`
}

// ForPerson computes personID's analytics in base currency. Each bill's amount
// is the person's allocated share including proportional tax and tip.
// It returns nil when the person appears in none of the bills.
func (a *Aggregator) ForPerson(bills []models.Bill, personID, base string) *PersonAnalytics {
	var (
		result *PersonAnalytics
		total  float64
	)
	freq := newFrequencyCounter()

	for _, bill := range bills {
		person, ok := bill.Person(personID)
		if !ok {
			continue
		}
		amount := a.calc.PersonTotal(bill, personID, base)

		if result == nil {
			result = &PersonAnalytics{
				Person:            person,
				MostExpensiveBill: amount,
				CheapestBill:      amount,
			}
		}
		result.BillCount++
		total += amount
		if amount > result.MostExpensiveBill {
			result.MostExpensiveBill = amount
		}
		if amount < result.CheapestBill {
			result.CheapestBill = amount
		}

		for _, item := range bill.Items {
			if item.IsAssignedTo(personID) {
				freq.add(item.Name, 0)
			}
		}
	}

	if result == nil {
		return nil
	}

	result.TotalSpent = currency.Round(total)
	result.AveragePerBill = currency.Round(total / float64(result.BillCount))
	result.FavoriteItems = []string{}
	for _, f := range freq.top(favoriteItemsLimit) {
		result.FavoriteItems = append(result.FavoriteItems, f.Name)
	}
	return result
}
