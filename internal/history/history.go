// Package history searches, orders and transfers archived bills.
package history

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmynk/tabsplit/internal/currency"
	"github.com/mmynk/tabsplit/internal/models"
)

// DefaultLimit is how many bills the history keeps by default.
const DefaultLimit = 100

// SortKey selects the ordering applied by Sort.
type SortKey string

const (
	// SortByDate orders newest first.
	SortByDate SortKey = "date"
	// SortByAmount orders by item total in each bill's base currency, largest first.
	SortByAmount SortKey = "amount"
	// SortByName orders by bill name using locale collation.
	SortByName SortKey = "name"
)

// ParseSortKey parses a sort key. The empty string means SortByDate.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortByDate, nil
	case SortByDate, SortByAmount, SortByName:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q (want date, amount or name)", s)
}

// Search returns the bills whose name, or any participant's name, contains
// query case-insensitively. An empty query matches everything.
func Search(bills []models.Bill, query string) []models.Bill {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return slices.Clone(bills)
	}
	var out []models.Bill
	for _, b := range bills {
		if matches(b, query) {
			out = append(out, b)
		}
	}
	return out
}

func matches(b models.Bill, query string) bool {
	if strings.Contains(strings.ToLower(b.Name), query) {
		return true
	}
	for _, p := range b.People {
		if strings.Contains(strings.ToLower(p.Name), query) {
			return true
		}
	}
	return false
}

// Sort returns a sorted copy of bills. Equal keys keep their input order.
func Sort(bills []models.Bill, key SortKey, conv *currency.Converter) []models.Bill {
	out := slices.Clone(bills)
	switch key {
	case SortByAmount:
		if conv == nil {
			conv = currency.NewConverter(nil)
		}
		totals := make(map[string]float64, len(out))
		for _, b := range out {
			totals[b.ID] = ItemsTotal(b, conv)
		}
		slices.SortStableFunc(out, func(a, b models.Bill) int {
			return compareFloat(totals[b.ID], totals[a.ID])
		})
	case SortByName:
		c := collate.New(language.Und, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b models.Bill) int {
			return c.CompareString(a.Name, b.Name)
		})
	default:
		slices.SortStableFunc(out, func(a, b models.Bill) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
	return out
}

// ItemsTotal sums every item price converted to the bill's base currency.
func ItemsTotal(b models.Bill, conv *currency.Converter) float64 {
	var total float64
	for _, item := range b.Items {
		total += conv.Convert(item.Price, item.Currency, b.BaseCurrency)
	}
	return currency.Round(total)
}

// BillTotal is ItemsTotal plus tax and tip, all in the bill's base currency.
func BillTotal(b models.Bill, conv *currency.Converter) float64 {
	total := ItemsTotal(b, conv)
	total += conv.Convert(b.Tax, b.TaxCurrencyOrBase(), b.BaseCurrency)
	total += conv.Convert(b.Tip, b.TipCurrencyOrBase(), b.BaseCurrency)
	return currency.Round(total)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
