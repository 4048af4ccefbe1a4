package calculator

import (
	"github.com/mmynk/tabsplit/internal/currency"
	"github.com/mmynk/tabsplit/internal/models"
)

// Summarize builds the per-person breakdown of bill in its base currency:
// one entry per participant, in bill order, listing every item the person
// pays a positive share of and their total including proportional tax and tip.
//
// Summarize depends only on bill, so calling it twice on an unchanged bill
// returns identical results.
func (c *Calculator) Summarize(bill models.Bill) []models.PersonSummary {
	base := bill.BaseCurrency
	billSubtotal := c.Subtotal(bill, base)
	extras := c.Extras(bill, base)

	summaries := make([]models.PersonSummary, 0, len(bill.People))
	for _, p := range bill.People {
		items, subtotal := c.allocate(bill, p.ID, base)
		total := subtotal + proportionalExtra(subtotal, billSubtotal, extras)
		summaries = append(summaries, models.PersonSummary{
			PersonID:    p.ID,
			Name:        p.Name,
			TotalAmount: currency.Round(total),
			Items:       items,
		})
	}
	return summaries
}
