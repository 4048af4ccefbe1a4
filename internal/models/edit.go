package models

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tabsplit/internal/currency"
)

// DefaultBillName is used for bills started without a name.
const DefaultBillName = "New Bill"

// Palette is the set of display colors handed out to new people.
var Palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FECA57",
	"#FF9FF3", "#54A0FF", "#5F27CD", "#00D2D3", "#FF9F43",
	"#10AC84", "#EE5A24", "#0C2461", "#8395A7", "#222F3E",
}

// NewBill returns a blank bill in USD with zero tax and tip.
func NewBill(name string) *Bill {
	if name == "" {
		name = DefaultBillName
	}
	return &Bill{
		ID:           uuid.New().String(),
		Name:         name,
		BaseCurrency: currency.USD,
		TaxCurrency:  currency.USD,
		TipCurrency:  currency.USD,
		People:       []Person{},
		Items:        []Item{},
		CreatedAt:    time.Now().UTC(),
	}
}

// NewPerson creates a person with a fresh ID and a color from Palette.
func NewPerson(name string) Person {
	return Person{
		ID:    uuid.New().String(),
		Name:  name,
		Color: Palette[rand.IntN(len(Palette))],
	}
}

// AddPerson appends a new participant and returns it.
func (b *Bill) AddPerson(name string) Person {
	p := NewPerson(name)
	b.People = append(b.People, p)
	return p
}

// RemovePerson removes a participant and strips them from every item's
// assignment and custom split map. It reports whether the person was found.
func (b *Bill) RemovePerson(id string) bool {
	idx := slices.IndexFunc(b.People, func(p Person) bool { return p.ID == id })
	if idx < 0 {
		return false
	}
	b.People = slices.Delete(b.People, idx, idx+1)

	for i := range b.Items {
		item := &b.Items[i]
		item.AssignedTo = slices.DeleteFunc(item.AssignedTo, func(pid string) bool { return pid == id })
		delete(item.CustomSplits, id)
	}
	return true
}

// AddItem appends an item and returns the stored copy. A missing ID is
// generated, a missing currency defaults to the bill's base currency and a
// missing split type defaults to SplitEqual.
func (b *Bill) AddItem(item Item) Item {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Currency == "" {
		item.Currency = b.BaseCurrency
	}
	if item.SplitType == "" {
		item.SplitType = SplitEqual
	}
	b.Items = append(b.Items, item)
	return item
}

// UpdateItem applies fn to the item with the given ID.
// It reports whether the item was found.
func (b *Bill) UpdateItem(id string, fn func(*Item)) bool {
	for i := range b.Items {
		if b.Items[i].ID == id {
			fn(&b.Items[i])
			return true
		}
	}
	return false
}

// RemoveItem deletes the item with the given ID.
// It reports whether the item was found.
func (b *Bill) RemoveItem(id string) bool {
	idx := slices.IndexFunc(b.Items, func(it Item) bool { return it.ID == id })
	if idx < 0 {
		return false
	}
	b.Items = slices.Delete(b.Items, idx, idx+1)
	return true
}
