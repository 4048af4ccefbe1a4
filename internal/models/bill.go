package models

import (
	"slices"
	"time"

	"github.com/mmynk/tabsplit/internal/currency"
)

// SplitType selects how an item's price is divided among its assignees.
type SplitType string

const (
	// SplitEqual divides the price evenly among everyone assigned.
	SplitEqual SplitType = "equal"
	// SplitCustom uses the explicit per-person amounts in Item.CustomSplits.
	SplitCustom SplitType = "custom"
)

// Person is one participant in a bill.
type Person struct {
	// ID is unique within the owning bill.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Color is a display hint (e.g. "#FF6B6B"). It has no meaning to the engine.
	Color string `json:"color"`
}

// Item represents a single line item on a bill.
// Items can be shared among multiple participants.
type Item struct {
	// ID is unique within the owning bill.
	ID string `json:"id"`

	// Name is the item description (e.g. "Pizza", "Beer").
	Name string `json:"name"`

	// Price is the full item price, expressed in Currency rather than the
	// bill's base currency. Never negative.
	Price float64 `json:"price"`

	// Currency is the code Price is expressed in.
	Currency string `json:"currency"`

	// AssignedTo is the set of person IDs sharing this item.
	// An item with nobody assigned costs nobody anything.
	AssignedTo []string `json:"assignedTo"`

	// SplitType selects equal or custom division. The zero value behaves as SplitEqual.
	SplitType SplitType `json:"splitType"`

	// CustomSplits maps person ID to the amount (in Currency) that person pays
	// when SplitType is SplitCustom. Missing entries count as zero; the map is
	// not required to add up to Price.
	CustomSplits map[string]float64 `json:"customSplits,omitempty"`
}

// Assignees returns the distinct assigned person IDs in assignment order.
func (i Item) Assignees() []string {
	out := make([]string, 0, len(i.AssignedTo))
	for _, id := range i.AssignedTo {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// IsAssignedTo reports whether personID shares this item.
func (i Item) IsAssignedTo(personID string) bool {
	return slices.Contains(i.AssignedTo, personID)
}

// Bill represents a bill with items to be split among people.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string `json:"id"`

	// Name is the human-readable name for the bill.
	Name string `json:"name"`

	// BaseCurrency is the currency every total for this bill is reported in.
	BaseCurrency string `json:"baseCurrency"`

	// People are the participants, in display order.
	People []Person `json:"people"`

	// Items are the individual line items on the bill.
	Items []Item `json:"items"`

	// Tax is the tax amount in TaxCurrency. Zero when unset.
	Tax float64 `json:"tax,omitempty"`

	// TaxCurrency is the code Tax is expressed in. Empty means BaseCurrency.
	TaxCurrency string `json:"taxCurrency,omitempty"`

	// Tip is the tip amount in TipCurrency. Zero when unset.
	Tip float64 `json:"tip,omitempty"`

	// TipCurrency is the code Tip is expressed in. Empty means BaseCurrency.
	TipCurrency string `json:"tipCurrency,omitempty"`

	// CreatedAt is when the bill was started.
	CreatedAt time.Time `json:"createdAt"`
}

// TaxCurrencyOrBase returns the tax currency, defaulting to the base currency.
func (b Bill) TaxCurrencyOrBase() string {
	if b.TaxCurrency == "" {
		return b.BaseCurrency
	}
	return b.TaxCurrency
}

// TipCurrencyOrBase returns the tip currency, defaulting to the base currency.
func (b Bill) TipCurrencyOrBase() string {
	if b.TipCurrency == "" {
		return b.BaseCurrency
	}
	return b.TipCurrency
}

// Person returns the participant with the given ID.
func (b Bill) Person(id string) (Person, bool) {
	for _, p := range b.People {
		if p.ID == id {
			return p, true
		}
	}
	return Person{}, false
}

// HasPerson reports whether a participant with the given ID is on the bill.
func (b Bill) HasPerson(id string) bool {
	_, ok := b.Person(id)
	return ok
}

// Currencies returns every currency code the bill references, base first.
func (b Bill) Currencies() []string {
	codes := []string{b.BaseCurrency}
	add := func(code string) {
		if code != "" && !slices.Contains(codes, code) {
			codes = append(codes, code)
		}
	}
	for _, item := range b.Items {
		add(item.Currency)
	}
	add(b.TaxCurrencyOrBase())
	add(b.TipCurrencyOrBase())
	return codes
}

// UnknownCurrencies returns the referenced codes missing from table.
// Those codes convert at USD parity, which is almost always a data error.
func (b Bill) UnknownCurrencies(table *currency.Table) []string {
	var unknown []string
	for _, code := range b.Currencies() {
		if !table.Has(code) {
			unknown = append(unknown, code)
		}
	}
	return unknown
}

// Clone returns a deep copy that shares no slices or maps with b.
func (b Bill) Clone() Bill {
	out := b
	out.People = slices.Clone(b.People)
	if b.Items != nil {
		out.Items = make([]Item, len(b.Items))
		for i, item := range b.Items {
			item.AssignedTo = slices.Clone(item.AssignedTo)
			if item.CustomSplits != nil {
				splits := make(map[string]float64, len(item.CustomSplits))
				for id, amount := range item.CustomSplits {
					splits[id] = amount
				}
				item.CustomSplits = splits
			}
			out.Items[i] = item
		}
	}
	return out
}

// PersonItem is one item's share for one person.
type PersonItem struct {
	ItemName string `json:"itemName"`

	// Amount is the person's share in the item's own currency.
	Amount float64 `json:"amount"`

	// Currency is the item's currency.
	Currency string `json:"currency"`

	// ConvertedAmount is the share in the bill's base currency.
	ConvertedAmount float64 `json:"convertedAmount"`
}

// PersonSummary is one person's calculated share of a bill.
// This is the output of the summary calculation, recomputed on demand.
type PersonSummary struct {
	PersonID string `json:"personId"`
	Name     string `json:"name"`

	// TotalAmount is the person's item shares plus their proportional
	// tax and tip, in the bill's base currency.
	TotalAmount float64 `json:"totalAmount"`

	// Items lists only the items this person pays a positive share of.
	Items []PersonItem `json:"items"`
}
