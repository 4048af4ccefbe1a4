package calculator

import (
	"github.com/mmynk/tabsplit/internal/currency"
	"github.com/mmynk/tabsplit/internal/models"
)

// PersonSplit is one person's calculated share of a bill in a target currency.
type PersonSplit struct {
	PersonID string `json:"personId"`

	// Subtotal is the sum of this person's converted item shares.
	Subtotal float64 `json:"subtotal"`

	// Extra is this person's proportional share of tax and tip.
	// Calculated as: (tax + tip) × (subtotal / bill_subtotal)
	Extra float64 `json:"extra"`

	// Total is Subtotal + Extra, rounded to the cent.
	Total float64 `json:"total"`
}

// Calculator allocates item costs, tax and tip to the people on a bill.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	conv *currency.Converter
}

// New creates a Calculator that converts amounts with conv.
func New(conv *currency.Converter) *Calculator {
	if conv == nil {
		conv = currency.NewConverter(nil)
	}
	return &Calculator{conv: conv}
}

// Converter returns the converter used by the calculator.
func (c *Calculator) Converter() *currency.Converter {
	return c.conv
}

// Share returns personID's raw share of item, in the item's own currency.
//
// Equal items are divided evenly among the distinct assignees. Custom items use
// the person's entry in CustomSplits, and a missing entry is zero. People not
// assigned to the item pay nothing under either policy, and so does everyone
// when nobody is assigned.
func Share(item models.Item, personID string) float64 {
	if !item.IsAssignedTo(personID) {
		return 0
	}
	switch item.SplitType {
	case models.SplitCustom:
		return item.CustomSplits[personID]
	default:
		n := len(item.Assignees())
		if n == 0 {
			return 0
		}
		return item.Price / float64(n)
	}
}

// Subtotal returns the bill's item subtotal in target: the converted prices of
// every item that has at least one assignee.
func (c *Calculator) Subtotal(bill models.Bill, target string) float64 {
	var subtotal float64
	for _, item := range bill.Items {
		if len(item.AssignedTo) == 0 {
			continue
		}
		subtotal += c.conv.Convert(item.Price, item.Currency, target)
	}
	return currency.Round(subtotal)
}

// Extras returns the bill's tax plus tip converted to target.
func (c *Calculator) Extras(bill models.Bill, target string) float64 {
	tax := c.conv.Convert(bill.Tax, bill.TaxCurrencyOrBase(), target)
	tip := c.conv.Convert(bill.Tip, bill.TipCurrencyOrBase(), target)
	return currency.Round(tax + tip)
}

// PersonSplit computes personID's share of bill in target, including the
// proportional part of tax and tip.
func (c *Calculator) PersonSplit(bill models.Bill, personID, target string) PersonSplit {
	_, subtotal := c.allocate(bill, personID, target)
	extra := proportionalExtra(subtotal, c.Subtotal(bill, target), c.Extras(bill, target))
	return PersonSplit{
		PersonID: personID,
		Subtotal: currency.Round(subtotal),
		Extra:    currency.Round(extra),
		Total:    currency.Round(subtotal + extra),
	}
}

// PersonTotal is shorthand for PersonSplit(...).Total.
func (c *Calculator) PersonTotal(bill models.Bill, personID, target string) float64 {
	return c.PersonSplit(bill, personID, target).Total
}

// Split computes every participant's share of bill in its base currency,
// in the order people appear on the bill.
func (c *Calculator) Split(bill models.Bill) []PersonSplit {
	billSubtotal := c.Subtotal(bill, bill.BaseCurrency)
	extras := c.Extras(bill, bill.BaseCurrency)

	splits := make([]PersonSplit, 0, len(bill.People))
	for _, p := range bill.People {
		_, subtotal := c.allocate(bill, p.ID, bill.BaseCurrency)
		extra := proportionalExtra(subtotal, billSubtotal, extras)
		splits = append(splits, PersonSplit{
			PersonID: p.ID,
			Subtotal: currency.Round(subtotal),
			Extra:    currency.Round(extra),
			Total:    currency.Round(subtotal + extra),
		})
	}
	return splits
}

// allocate returns the items personID pays a positive share of, with the
// share converted to target, and the sum of those converted shares.
func (c *Calculator) allocate(bill models.Bill, personID, target string) ([]models.PersonItem, float64) {
	items := []models.PersonItem{}
	var subtotal float64
	for _, item := range bill.Items {
		share := Share(item, personID)
		if share <= 0 {
			continue
		}
		converted := c.conv.Convert(share, item.Currency, target)
		items = append(items, models.PersonItem{
			ItemName:        item.Name,
			Amount:          currency.Round(share),
			Currency:        item.Currency,
			ConvertedAmount: converted,
		})
		subtotal += converted
	}
	return items, subtotal
}

// proportionalExtra distributes extras by the person's fraction of the bill
// subtotal. A zero bill subtotal distributes nothing.
func proportionalExtra(personSubtotal, billSubtotal, extras float64) float64 {
	if billSubtotal <= 0 {
		return 0
	}
	return extras * (personSubtotal / billSubtotal)
}
