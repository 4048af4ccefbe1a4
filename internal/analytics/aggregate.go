// Package analytics turns bill history into spending statistics.
//
// Every function here is a pure transform over an immutable slice of bills:
// nothing is cached or mutated, so callers may recompute, cache or
// parallelize freely.
package analytics

import (
	"sort"
	"strings"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/currency"
	"github.com/mmynk/tabsplit/internal/models"
)

const (
	frequentItemsLimit = 10
	favoriteItemsLimit = 5
)

// ItemFrequency counts how often an item name appears across bills.
type ItemFrequency struct {
	// Name is the lowercased item name.
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	TotalSpent float64 `json:"totalSpent"`
}

// TrendPoint is one bill's total on its creation date (YYYY-MM-DD).
type TrendPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// SpendingAnalytics is the aggregate view over a list of bills.
// Money values are in the base currency requested by the caller.
type SpendingAnalytics struct {
	TotalSpent           float64            `json:"totalSpent"`
	AverageBillAmount    float64            `json:"averageBillAmount"`
	MostExpensiveBill    *models.Bill       `json:"mostExpensiveBill"`
	CheapestBill         *models.Bill       `json:"cheapestBill"`
	BillCount            int                `json:"billCount"`
	AverageItemsPerBill  float64            `json:"averageItemsPerBill"`
	AveragePeoplePerBill float64            `json:"averagePeoplePerBill"`
	CurrencyDistribution map[string]int     `json:"currencyDistribution"`
	MonthlySpending      map[string]float64 `json:"monthlySpending"`
	FrequentItems        []ItemFrequency    `json:"frequentItems"`
	SpendingTrends       []TrendPoint       `json:"spendingTrends"`
}

func emptyAnalytics() SpendingAnalytics {
	return SpendingAnalytics{
		CurrencyDistribution: map[string]int{},
		MonthlySpending:      map[string]float64{},
		FrequentItems:        []ItemFrequency{},
		SpendingTrends:       []TrendPoint{},
	}
}

// Aggregator computes analytics with a shared calculator.
type Aggregator struct {
	calc *calculator.Calculator
}

// New creates an Aggregator. A nil calculator uses the default currency table.
func New(calc *calculator.Calculator) *Aggregator {
	if calc == nil {
		calc = calculator.New(nil)
	}
	return &Aggregator{calc: calc}
}

// BillTotal returns every item price plus tax and tip, converted to base.
// Unlike the split subtotal, unassigned items are included: they were still paid for.
func (a *Aggregator) BillTotal(bill models.Bill, base string) float64 {
	conv := a.calc.Converter()
	var total float64
	for _, item := range bill.Items {
		total += conv.Convert(item.Price, item.Currency, base)
	}
	total += conv.Convert(bill.Tax, bill.TaxCurrencyOrBase(), base)
	total += conv.Convert(bill.Tip, bill.TipCurrencyOrBase(), base)
	return currency.Round(total)
}

// Aggregate computes spending analytics over bills in base currency.
//
// An empty slice yields a zero result with empty, non-nil collections.
// Ties for most and least expensive bill go to the bill seen first.
func (a *Aggregator) Aggregate(bills []models.Bill, base string) SpendingAnalytics {
	result := emptyAnalytics()
	if len(bills) == 0 {
		return result
	}

	conv := a.calc.Converter()
	var (
		totalSpent  float64
		totalItems  int
		totalPeople int
		maxIdx      = -1
		minIdx      = -1
		maxAmount   float64
		minAmount   float64
	)
	freq := newFrequencyCounter()

	for i, bill := range bills {
		billTotal := a.BillTotal(bill, base)

		totalSpent += billTotal
		totalItems += len(bill.Items)
		totalPeople += len(bill.People)

		if maxIdx < 0 || billTotal > maxAmount {
			maxIdx, maxAmount = i, billTotal
		}
		if minIdx < 0 || billTotal < minAmount {
			minIdx, minAmount = i, billTotal
		}

		for _, item := range bill.Items {
			result.CurrencyDistribution[item.Currency]++
			freq.add(item.Name, conv.Convert(item.Price, item.Currency, base))
		}

		month := bill.CreatedAt.UTC().Format("2006-01")
		result.MonthlySpending[month] += billTotal

		result.SpendingTrends = append(result.SpendingTrends, TrendPoint{
			Date:   bill.CreatedAt.UTC().Format("2006-01-02"),
			Amount: billTotal,
		})
	}

	for month, amount := range result.MonthlySpending {
		result.MonthlySpending[month] = currency.Round(amount)
	}
	sort.SliceStable(result.SpendingTrends, func(i, j int) bool {
		return result.SpendingTrends[i].Date < result.SpendingTrends[j].Date
	})

	n := float64(len(bills))
	result.BillCount = len(bills)
	result.TotalSpent = currency.Round(totalSpent)
	result.AverageBillAmount = currency.Round(totalSpent / n)
	result.AverageItemsPerBill = float64(totalItems) / n
	result.AveragePeoplePerBill = float64(totalPeople) / n
	result.FrequentItems = freq.top(frequentItemsLimit)

	most := bills[maxIdx].Clone()
	cheapest := bills[minIdx].Clone()
	result.MostExpensiveBill = &most
	result.CheapestBill = &cheapest

	return result
}

// frequencyCounter tallies lowercased item names, remembering first-seen
// order so ranking ties are deterministic.
type frequencyCounter struct {
	index map[string]int
	items []ItemFrequency
}

func newFrequencyCounter() *frequencyCounter {
	return &frequencyCounter{index: make(map[string]int)}
}

func (f *frequencyCounter) add(name string, spent float64) {
	key := strings.ToLower(name)
	i, ok := f.index[key]
	if !ok {
		i = len(f.items)
		f.index[key] = i
		f.items = append(f.items, ItemFrequency{Name: key})
	}
	f.items[i].Count++
	f.items[i].TotalSpent += spent
}

// top returns up to limit entries by count, highest first.
func (f *frequencyCounter) top(limit int) []ItemFrequency {
	ranked := make([]ItemFrequency, len(f.items))
	copy(ranked, f.items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].TotalSpent = currency.Round(ranked[i].TotalSpent)
	}
	return ranked
}
