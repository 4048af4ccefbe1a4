package analytics

import (
	"strings"

	"github.com/mmynk/tabsplit/internal/currency"
	"github.com/mmynk/tabsplit/internal/models"
)

// Category is a coarse spending category derived from an item name.
type Category string

const (
	CategoryFood           Category = "Food"
	CategoryBeverages      Category = "Beverages"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryService        Category = "Service"
	CategoryOther          Category = "Other"
)

type categoryRule struct {
	category Category
	keywords []string
}

// categoryRules is evaluated in order; the first rule with a keyword contained
// in the lowercased item name wins.
var categoryRules = []categoryRule{
	{CategoryFood, []string{"pizza", "burger", "sandwich", "salad", "pasta", "rice", "chicken", "beef", "fish"}},
	{CategoryBeverages, []string{"coffee", "tea", "beer", "wine", "cocktail", "soda", "juice", "water"}},
	{CategoryTransportation, []string{"taxi", "uber", "lyft", "bus", "train", "gas", "parking", "toll"}},
	{CategoryEntertainment, []string{"movie", "concert", "game", "show", "ticket", "entertainment"}},
	{CategoryService, []string{"tip", "service", "fee"}},
}

// Categorize maps an item name to a Category by keyword substring, falling
// back to CategoryOther.
func Categorize(name string) Category {
	name = strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}

// Categories lists every category in rule order, CategoryOther last.
func Categories() []Category {
	out := make([]Category, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		out = append(out, rule.category)
	}
	return append(out, CategoryOther)
}

// SpendingByCategory totals converted item prices per category. It is a
// separate view and is not part of Aggregate.
func (a *Aggregator) SpendingByCategory(bills []models.Bill, base string) map[Category]float64 {
	conv := a.calc.Converter()
	out := make(map[Category]float64)
	for _, bill := range bills {
		for _, item := range bill.Items {
			out[Categorize(item.Name)] += conv.Convert(item.Price, item.Currency, base)
		}
	}
	for c, amount := range out {
		out[c] = currency.Round(amount)
	}
	return out
}
